package parallel

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/dd0wney/cluso-communities/pkg/logging"
)

// Task is a unit of work run by a WorkerPool
type Task func() error

// WorkerPool runs tasks on a fixed number of worker goroutines and keeps
// the first error any of them returns.
type WorkerPool struct {
	workers   int
	taskQueue chan Task
	wg        sync.WaitGroup
	once      sync.Once
	mu        sync.RWMutex // Protects taskQueue from concurrent close during send
	closed    bool         // Protected by mu
	logger    logging.Logger

	errOnce  sync.Once
	firstErr error
	failed   chan struct{}
}

// ErrTooManyWorkers is returned when the worker count exceeds the maximum allowed.
var ErrTooManyWorkers = errors.New("worker count exceeds maximum")

// ErrPoolClosed is returned by Submit after Wait or Close.
var ErrPoolClosed = errors.New("worker pool closed")

// MaxWorkers is the maximum number of workers allowed in a pool.
const MaxWorkers = math.MaxInt / 2

// PanicError is the error recorded for a task that panicked
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("task panicked: %v", e.Value)
}

// NewWorkerPool creates a new worker pool with specified number of workers.
// Returns an error if the worker count exceeds MaxWorkers. A nil logger
// discards the pool's own messages.
func NewWorkerPool(workers int, logger logging.Logger) (*WorkerPool, error) {
	if workers <= 0 {
		workers = 1
	}

	// Prevent overflow in buffer size calculation
	if workers > MaxWorkers {
		return nil, fmt.Errorf("%w: %d exceeds %d", ErrTooManyWorkers, workers, MaxWorkers)
	}

	pool := &WorkerPool{
		workers:   workers,
		taskQueue: make(chan Task, workers*2), // Buffer for 2x workers
		logger:    logging.OrNop(logger).With(logging.Component("worker_pool")),
		failed:    make(chan struct{}),
	}

	pool.start()
	return pool, nil
}

// Workers returns the number of worker goroutines
func (wp *WorkerPool) Workers() int {
	return wp.workers
}

func (wp *WorkerPool) start() {
	for i := 0; i < wp.workers; i++ {
		wp.wg.Add(1)
		go wp.worker()
	}
}

func (wp *WorkerPool) worker() {
	defer wp.wg.Done()

	for task := range wp.taskQueue {
		// once a task has failed the rest of the queue is drained unrun
		select {
		case <-wp.failed:
			continue
		default:
		}

		if err := wp.run(task); err != nil {
			wp.fail(err)
		}
	}
}

func (wp *WorkerPool) run(task Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			wp.logger.Error("worker panic recovered", logging.Any("panic", r))
			err = &PanicError{Value: r}
		}
	}()
	return task()
}

func (wp *WorkerPool) fail(err error) {
	wp.errOnce.Do(func() {
		wp.firstErr = err
		close(wp.failed)
	})
}

// Failed is closed as soon as any task returns an error
func (wp *WorkerPool) Failed() <-chan struct{} {
	return wp.failed
}

// Submit queues a task, blocking while the queue is full.
// Returns ErrPoolClosed if the pool no longer accepts work.
func (wp *WorkerPool) Submit(task Task) error {
	wp.mu.RLock()
	defer wp.mu.RUnlock()

	if wp.closed {
		return ErrPoolClosed
	}

	// Safe to send because we hold the lock and pool is not closed
	wp.taskQueue <- task
	return nil
}

// Close stops accepting tasks and waits for the queued ones to finish
func (wp *WorkerPool) Close() {
	wp.once.Do(func() {
		wp.mu.Lock()
		wp.closed = true
		close(wp.taskQueue)
		wp.mu.Unlock()
	})
	wp.wg.Wait()
}

// Wait closes the pool, waits for every worker and returns the first
// task error, if any.
func (wp *WorkerPool) Wait() error {
	wp.Close()
	return wp.firstErr
}
