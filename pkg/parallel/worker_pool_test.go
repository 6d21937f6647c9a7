package parallel

import (
	"bytes"
	"errors"
	"math"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-communities/pkg/logging"
)

func TestWorkerPoolSize(t *testing.T) {
	_, err := NewWorkerPool(math.MaxInt, nil)
	assert.ErrorIs(t, err, ErrTooManyWorkers)

	for _, tc := range []struct{ in, want int }{{0, 1}, {-5, 1}, {1, 1}, {8, 8}} {
		pool, err := NewWorkerPool(tc.in, nil)
		require.NoError(t, err)
		assert.Equal(t, tc.want, pool.Workers())
		assert.NoError(t, pool.Wait())
	}
}

// TestWorkerPoolTaskExecution tests that all submitted tasks execute
func TestWorkerPoolTaskExecution(t *testing.T) {
	pool, err := NewWorkerPool(5, nil)
	require.NoError(t, err)

	numTasks := 50
	executed := make([]bool, numTasks)
	var mu sync.Mutex

	for i := 0; i < numTasks; i++ {
		taskID := i
		require.NoError(t, pool.Submit(func() error {
			mu.Lock()
			executed[taskID] = true
			mu.Unlock()
			return nil
		}))
	}

	require.NoError(t, pool.Wait())
	for i, exec := range executed {
		assert.True(t, exec, "task %d was not executed", i)
	}
}

// TestWorkerPoolConcurrentSubmissions tests concurrent task submissions
func TestWorkerPoolConcurrentSubmissions(t *testing.T) {
	pool, err := NewWorkerPool(10, nil)
	require.NoError(t, err)

	numTasks := 100
	var counter int64

	var wg sync.WaitGroup
	for i := 0; i < numTasks; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, pool.Submit(func() error {
				atomic.AddInt64(&counter, 1)
				return nil
			}))
		}()
	}

	wg.Wait()
	require.NoError(t, pool.Wait())
	assert.Equal(t, int64(numTasks), atomic.LoadInt64(&counter))
}

func TestWorkerPoolFirstError(t *testing.T) {
	pool, err := NewWorkerPool(1, nil)
	require.NoError(t, err)

	errFirst := errors.New("first")
	var ran int64

	require.NoError(t, pool.Submit(func() error { return errFirst }))
	<-pool.Failed()

	// with a single worker the failure is observed before later tasks run
	for i := 0; i < 5; i++ {
		_ = pool.Submit(func() error {
			atomic.AddInt64(&ran, 1)
			return errors.New("later")
		})
	}

	assert.ErrorIs(t, pool.Wait(), errFirst)
	assert.Equal(t, int64(0), atomic.LoadInt64(&ran))
}

func TestWorkerPoolPanicBecomesError(t *testing.T) {
	var buf bytes.Buffer
	pool, err := NewWorkerPool(2, logging.NewJSONLogger(&buf, logging.ErrorLevel))
	require.NoError(t, err)

	require.NoError(t, pool.Submit(func() error {
		panic("intentional panic")
	}))

	err = pool.Wait()
	var panicErr *PanicError
	require.True(t, errors.As(err, &panicErr))
	assert.Equal(t, "intentional panic", panicErr.Value)
	assert.Contains(t, buf.String(), "worker panic recovered")
}

// TestWorkerPoolSubmitAfterClose tests that submissions after close are rejected
func TestWorkerPoolSubmitAfterClose(t *testing.T) {
	pool, err := NewWorkerPool(4, nil)
	require.NoError(t, err)

	require.NoError(t, pool.Submit(func() error {
		time.Sleep(10 * time.Millisecond)
		return nil
	}))
	require.NoError(t, pool.Wait())

	err = pool.Submit(func() error {
		t.Error("This task should never execute")
		return nil
	})
	assert.ErrorIs(t, err, ErrPoolClosed)
}

// TestWorkerPoolCloseRace checks that closing while submitting doesn't panic
func TestWorkerPoolCloseRace(t *testing.T) {
	for iteration := 0; iteration < 50; iteration++ {
		pool, err := NewWorkerPool(4, nil)
		require.NoError(t, err)

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 10; j++ {
					// might fail if closed
					_ = pool.Submit(func() error {
						time.Sleep(time.Millisecond)
						return nil
					})
				}
			}()
		}

		time.Sleep(2 * time.Millisecond)
		pool.Close()
		wg.Wait()
	}
}

// TestWorkerPoolConcurrentClose tests concurrent close calls
func TestWorkerPoolConcurrentClose(t *testing.T) {
	pool, err := NewWorkerPool(4, nil)
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		_ = pool.Submit(func() error {
			time.Sleep(time.Millisecond)
			return nil
		})
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pool.Close()
		}()
	}
	wg.Wait()
	assert.NoError(t, pool.Wait())
}

// BenchmarkWorkerPoolThroughput benchmarks worker pool throughput
func BenchmarkWorkerPoolThroughput(b *testing.B) {
	pool, _ := NewWorkerPool(10, nil)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = pool.Submit(func() error { return nil })
	}

	_ = pool.Wait()
}
