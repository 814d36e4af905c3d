package client

import (
	"go.uber.org/zap"
)

// zapLogger 把 Logger 接口适配到 zap
type zapLogger struct {
	s *zap.SugaredLogger
}

// NewZapLogger 用 zap.Logger 构造 Logger，args 按 key/value 成对传入
func NewZapLogger(l *zap.Logger) Logger {
	if l == nil {
		l = zap.NewNop()
	}
	return &zapLogger{s: l.Sugar()}
}

// NewDevelopmentLogger 返回开发模式的 zap 日志器，构造失败时退化为 Nop
func NewDevelopmentLogger() Logger {
	l, err := zap.NewDevelopment()
	if err != nil {
		return NopLogger()
	}
	return NewZapLogger(l)
}

// NopLogger 丢弃所有日志
func NopLogger() Logger {
	return NewZapLogger(zap.NewNop())
}

func (z *zapLogger) Debug(msg string, args ...interface{}) { z.s.Debugw(msg, args...) }
func (z *zapLogger) Info(msg string, args ...interface{})  { z.s.Infow(msg, args...) }
func (z *zapLogger) Warn(msg string, args ...interface{})  { z.s.Warnw(msg, args...) }
func (z *zapLogger) Error(msg string, args ...interface{}) { z.s.Errorw(msg, args...) }
