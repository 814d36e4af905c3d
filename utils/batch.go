package utils

import (
	"context"
	"fmt"
	"sync"
)

// BatchConfig 批量操作配置
type BatchConfig struct {
	// BatchSize 批量大小
	BatchSize int
	// Concurrency 并发数量
	Concurrency int
	// OnProgress 进度回调函数
	OnProgress func(progress BatchProgress)
}

// BatchProgress 批量操作进度
type BatchProgress struct {
	Completed  int
	Total      int
	Percentage int // 0-100
	Success    int
	Failed     int
}

// DefaultBatchConfig 返回默认批量配置
func DefaultBatchConfig() *BatchConfig {
	return &BatchConfig{
		BatchSize:   50,
		Concurrency: 5,
	}
}

// BatchQueryResult 批量查询结果
type BatchQueryResult[T any] struct {
	// Results 成功的结果，保持输入顺序
	Results []T
	// Indexes Results[i] 对应的输入下标
	Indexes []int
	// Errors 失败的项目，按下标升序
	Errors  []BatchError
	Total   int
	Success int
	Failed  int
}

// BatchError 批量操作错误
type BatchError struct {
	Index int
	Error error
}

// BatchQuery 批量查询
//
// 对一组输入并发调用查询函数，单项失败不影响其他项。
// ctx 在开始前或批次之间被取消时返回 ctx.Err()。
//
// 示例：
//
//	result, err := BatchQuery(ctx, reqs, func(ctx context.Context, req *contract.CallRequest, index int) (*contract.CallResult, error) {
//	    return svc.Call(ctx, req)
//	}, DefaultBatchConfig())
func BatchQuery[T any, R any](
	ctx context.Context,
	items []T,
	queryFn func(ctx context.Context, item T, index int) (R, error),
	config *BatchConfig,
) (*BatchQueryResult[R], error) {
	if config == nil {
		config = DefaultBatchConfig()
	}
	batchSize := config.BatchSize
	if batchSize <= 0 {
		batchSize = 50
	}
	concurrency := config.Concurrency
	if concurrency <= 0 {
		concurrency = 5
	}

	results := make([]R, len(items))
	errs := make([]error, len(items))

	var mu sync.Mutex
	completed, success, failed := 0, 0, 0
	record := func(idx int, result R, err error) {
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			errs[idx] = err
			failed++
		} else {
			results[idx] = result
			success++
		}
		completed++
		if config.OnProgress != nil {
			config.OnProgress(BatchProgress{
				Completed:  completed,
				Total:      len(items),
				Percentage: completed * 100 / len(items),
				Success:    success,
				Failed:     failed,
			})
		}
	}

	sem := make(chan struct{}, concurrency)
	for batchIdx, batch := range BatchArray(items, batchSize) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var wg sync.WaitGroup
		for i, item := range batch {
			wg.Add(1)
			go func(idx int, batchItem T) {
				defer wg.Done()
				sem <- struct{}{}
				defer func() { <-sem }()

				result, err := queryFn(ctx, batchItem, idx)
				record(idx, result, err)
			}(batchIdx*batchSize+i, item)
		}
		wg.Wait()
	}

	out := &BatchQueryResult[R]{
		Results: make([]R, 0, success),
		Indexes: make([]int, 0, success),
		Errors:  make([]BatchError, 0, failed),
		Total:   len(items),
		Success: success,
		Failed:  failed,
	}
	for i := range items {
		if errs[i] != nil {
			out.Errors = append(out.Errors, BatchError{Index: i, Error: errs[i]})
			continue
		}
		out.Results = append(out.Results, results[i])
		out.Indexes = append(out.Indexes, i)
	}
	return out, nil
}

// ParallelExecute 并行执行多个操作
//
// 结果与输入一一对应，任意一项失败则返回第一个失败项的错误。
func ParallelExecute[T any, R any](
	ctx context.Context,
	items []T,
	executeFn func(ctx context.Context, item T) (R, error),
	concurrency int,
) ([]R, error) {
	if concurrency <= 0 {
		concurrency = 5
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	results := make([]R, len(items))
	errs := make([]error, len(items))
	var wg sync.WaitGroup
	sem := make(chan struct{}, concurrency)

	for i, item := range items {
		wg.Add(1)
		go func(index int, batchItem T) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			results[index], errs[index] = executeFn(ctx, batchItem)
		}(i, item)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("parallel execute failed at item %d: %w", i, err)
		}
	}
	return results, nil
}

// BatchArray 将数组分批次处理
func BatchArray[T any](array []T, batchSize int) [][]T {
	if batchSize <= 0 {
		batchSize = len(array)
	}
	batches := make([][]T, 0)
	for i := 0; i < len(array); i += batchSize {
		end := i + batchSize
		if end > len(array) {
			end = len(array)
		}
		batches = append(batches, array[i:end])
	}
	return batches
}
