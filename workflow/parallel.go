package workflow

import (
	"context"
	"sync"
	"time"
)

// Task is a named unit of work for RunParallel.
type Task[T any] struct {
	// Name identifies the task in its result.
	Name string

	// Run performs the work. It should honor ctx cancellation.
	Run func(ctx context.Context) (T, error)
}

// TaskResult pairs a task's output with its name, error, and duration.
type TaskResult[T any] struct {
	// Name is the name of the task that produced this result.
	Name string

	// Value is the task output. Zero when Err is non-nil.
	Value T

	// Err is the task error, if any.
	Err error

	// Duration is the wall-clock time the task took.
	Duration time.Duration
}

// RunParallel executes tasks concurrently on a bounded worker pool and
// returns their results in completion order. maxWorkers limits how many
// tasks run at once; zero or negative means unlimited. Individual task
// failures are reported in the corresponding TaskResult and do not cancel
// the other tasks.
//
// This is the fan-out half of the fan-out/fan-in pattern; the caller merges
// the results in a downstream node.
//
// Example:
//
//	results := workflow.RunParallel(ctx, []workflow.Task[Report]{
//	    {Name: "fetch_user", Run: fetchUser},
//	    {Name: "fetch_orders", Run: fetchOrders},
//	    {Name: "fetch_logs", Run: fetchLogs},
//	}, 3)
func RunParallel[T any](ctx context.Context, tasks []Task[T], maxWorkers int) []TaskResult[T] {
	if len(tasks) == 0 {
		return nil
	}

	resultChannel := make(chan TaskResult[T], len(tasks))

	var semaphore chan struct{}
	if maxWorkers > 0 {
		semaphore = make(chan struct{}, maxWorkers)
	}

	var waitGroup sync.WaitGroup

	for _, task := range tasks {
		waitGroup.Add(1)

		go func(task Task[T]) {
			defer waitGroup.Done()

			if semaphore != nil {
				select {
				case semaphore <- struct{}{}:
					defer func() { <-semaphore }()
				case <-ctx.Done():
					resultChannel <- TaskResult[T]{Name: task.Name, Err: ctx.Err()}
					return
				}
			}

			start := time.Now()
			value, err := task.Run(ctx)
			resultChannel <- TaskResult[T]{
				Name:     task.Name,
				Value:    value,
				Err:      err,
				Duration: time.Since(start),
			}
		}(task)
	}

	waitGroup.Wait()
	close(resultChannel)

	results := make([]TaskResult[T], 0, len(tasks))
	for result := range resultChannel {
		results = append(results, result)
	}

	return results
}
