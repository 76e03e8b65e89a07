package async

import (
	"context"
	"fmt"
)

// Task is a named unit of work.
type Task struct {
	Name string
	Func func(context.Context) error
}

// RunParallel starts every task at once and waits for all of them.
// The first failure (in completion order) is returned, wrapped with the
// task name, after every task has finished.
//
// Example:
//
//	tasks := []Task{
//	    {Name: "ch-node-0", Func: createNode0},
//	    {Name: "ch-node-1", Func: createNode1},
//	}
//	if err := RunParallel(ctx, tasks); err != nil {
//	    return err
//	}
func RunParallel(ctx context.Context, tasks []Task) error {
	if len(tasks) == 0 {
		return nil
	}

	type result struct {
		name string
		err  error
	}

	results := make(chan result, len(tasks))

	for _, task := range tasks {
		go func() {
			results <- result{name: task.Name, err: task.Func(ctx)}
		}()
	}

	var firstErr error
	for range len(tasks) {
		res := <-results
		if res.err != nil && firstErr == nil {
			firstErr = fmt.Errorf("%s: %w", res.name, res.err)
		}
	}
	return firstErr
}

// Map applies fn to every index in [0, n) concurrently and returns the
// results in index order. Each invocation writes only its own slot.
func Map[T any](ctx context.Context, n int, name func(int) string, fn func(context.Context, int) (T, error)) ([]T, error) {
	out := make([]T, n)
	tasks := make([]Task, 0, n)
	for i := range n {
		tasks = append(tasks, Task{
			Name: name(i),
			Func: func(ctx context.Context) error {
				v, err := fn(ctx, i)
				if err != nil {
					return err
				}
				out[i] = v
				return nil
			},
		})
	}
	if err := RunParallel(ctx, tasks); err != nil {
		return nil, err
	}
	return out, nil
}
