package async

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunParallel_Success(t *testing.T) {
	t.Parallel()
	var count atomic.Int32

	tasks := make([]Task, 0, 5)
	for i := range 5 {
		tasks = append(tasks, Task{
			Name: fmt.Sprintf("task-%d", i),
			Func: func(_ context.Context) error {
				count.Add(1)
				return nil
			},
		})
	}

	require.NoError(t, RunParallel(context.Background(), tasks))
	assert.Equal(t, int32(5), count.Load())
}

func TestRunParallel_Empty(t *testing.T) {
	t.Parallel()
	assert.NoError(t, RunParallel(context.Background(), nil))
	assert.NoError(t, RunParallel(context.Background(), []Task{}))
}

func TestRunParallel_ErrorWaitsForAll(t *testing.T) {
	t.Parallel()
	var finished atomic.Int32
	boom := errors.New("boom")

	tasks := []Task{
		{Name: "fails", Func: func(_ context.Context) error {
			finished.Add(1)
			return boom
		}},
		{Name: "slow", Func: func(_ context.Context) error {
			time.Sleep(50 * time.Millisecond)
			finished.Add(1)
			return nil
		}},
	}

	err := RunParallel(context.Background(), tasks)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "fails")
	assert.Equal(t, int32(2), finished.Load())
}

func TestMap_PreservesOrder(t *testing.T) {
	t.Parallel()
	out, err := Map(context.Background(), 8,
		func(i int) string { return fmt.Sprintf("item-%d", i) },
		func(_ context.Context, i int) (int, error) {
			time.Sleep(time.Duration(8-i) * time.Millisecond)
			return i * i, nil
		})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 4, 9, 16, 25, 36, 49}, out)
}

func TestMap_Error(t *testing.T) {
	t.Parallel()
	_, err := Map(context.Background(), 3,
		func(i int) string { return fmt.Sprintf("item-%d", i) },
		func(_ context.Context, i int) (string, error) {
			if i == 1 {
				return "", errors.New("bad item")
			}
			return "ok", nil
		})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "item-1")
}
