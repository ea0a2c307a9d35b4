package syncq

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/comrelyy/blog-7-Eleven/internal/errs"
)

type noopJob struct{}

func (noopJob) Run(ctx context.Context) error { return nil }

func TestExecutor_SubmitAndStop(t *testing.T) {
	t.Parallel()
	exec := New(Config{})
	defer exec.Stop()

	if err := exec.Submit(context.Background(), "thoughts", noopJob{}); err != nil {
		t.Fatalf("submit error: %v", err)
	}
}

func TestExecutor_FIFOOrderingPerKey(t *testing.T) {
	t.Parallel()
	exec := New(Config{Shards: 4, QueueSize: 16})
	defer exec.Stop()

	var (
		mu    sync.Mutex
		order []int
		wg    sync.WaitGroup
	)
	wg.Add(5)
	for i := 0; i < 5; i++ {
		v := i
		err := exec.Submit(context.Background(), "checkin/data.json", JobFunc(func(context.Context) error {
			mu.Lock()
			order = append(order, v)
			mu.Unlock()
			wg.Done()
			return nil
		}))
		if err != nil {
			t.Fatalf("submit %d: %v", i, err)
		}
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	for i := range order {
		if order[i] != i {
			t.Fatalf("order = %v, want FIFO", order)
		}
	}
}

func TestExecutor_QueueFull(t *testing.T) {
	t.Parallel()
	cfg := Config{Shards: 1, QueueSize: 1, EnqueueTimeout: 10 * time.Millisecond}
	exec := New(cfg)
	defer exec.Stop()

	blockCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var started int32
	_ = exec.Submit(context.Background(), "k", JobFunc(func(context.Context) error {
		atomic.StoreInt32(&started, 1)
		<-blockCtx.Done()
		return nil
	}))
	for atomic.LoadInt32(&started) == 0 {
		time.Sleep(time.Millisecond)
	}

	// Fill the buffer, then expect back-pressure.
	_ = exec.Submit(context.Background(), "k", noopJob{})
	err := exec.Submit(context.Background(), "k", noopJob{})
	if !errors.Is(err, ErrQueueFull) {
		t.Fatalf("want ErrQueueFull, got %v", err)
	}
	var qfe *QueueFullError
	if !errors.As(err, &qfe) {
		t.Fatalf("want *QueueFullError, got %T", err)
	}
}

func TestExecutor_SubmitAfterStop(t *testing.T) {
	t.Parallel()
	exec := New(Config{})
	exec.Stop()
	exec.Stop() // idempotent

	if err := exec.Submit(context.Background(), "k", noopJob{}); !errors.Is(err, ErrExecutorClosed) {
		t.Fatalf("want ErrExecutorClosed, got %v", err)
	}
}

func TestExecutor_RetriesRecoverableErrors(t *testing.T) {
	t.Parallel()
	exec := New(Config{Shards: 1, MaxAttempts: 3, BaseBackoff: time.Millisecond, MaxInterval: 2 * time.Millisecond})
	defer exec.Stop()

	var attempts int32
	done := make(chan struct{})
	_ = exec.Submit(context.Background(), "k", JobFunc(func(context.Context) error {
		if atomic.AddInt32(&attempts, 1) < 3 {
			return errs.Network("push", errors.New("connection reset"))
		}
		close(done)
		return nil
	}))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not succeed after retries")
	}
	if got := atomic.LoadInt32(&attempts); got != 3 {
		t.Fatalf("attempts = %d, want 3", got)
	}
}

func TestExecutor_IrrecoverableFailsFast(t *testing.T) {
	t.Parallel()
	errCh := make(chan error, 1)
	exec := New(Config{
		Shards:       1,
		MaxAttempts:  5,
		BaseBackoff:  time.Millisecond,
		ErrorHandler: func(err error) { errCh <- err },
	})
	defer exec.Stop()

	var attempts int32
	authErr := errs.New(errs.Irrecoverable, 401, "", errors.New("bad credentials"))
	_ = exec.Submit(context.Background(), "k", JobFunc(func(context.Context) error {
		atomic.AddInt32(&attempts, 1)
		return authErr
	}))

	select {
	case err := <-errCh:
		if !errs.IsIrrecoverable(err) {
			t.Fatalf("handler got %v, want irrecoverable", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("error handler never called")
	}
	if got := atomic.LoadInt32(&attempts); got != 1 {
		t.Fatalf("attempts = %d, want 1 (no retry on auth errors)", got)
	}
}

func TestExecutor_Barrier(t *testing.T) {
	t.Parallel()
	exec := New(Config{Shards: 2})
	defer exec.Stop()

	var ran int32
	_ = exec.Submit(context.Background(), "k", JobFunc(func(context.Context) error {
		time.Sleep(20 * time.Millisecond)
		atomic.StoreInt32(&ran, 1)
		return nil
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := exec.Barrier(ctx, "k"); err != nil {
		t.Fatalf("barrier: %v", err)
	}
	if atomic.LoadInt32(&ran) != 1 {
		t.Fatal("barrier returned before prior job completed")
	}
}

func TestExecutor_ErrorHandlerPanicDoesNotKillWorker(t *testing.T) {
	t.Parallel()
	exec := New(Config{
		Shards:       1,
		MaxAttempts:  1,
		ErrorHandler: func(error) { panic("handler boom") },
	})
	defer exec.Stop()

	_ = exec.Submit(context.Background(), "k", JobFunc(func(context.Context) error {
		return errs.New(errs.Irrecoverable, 403, "", errors.New("forbidden"))
	}))

	// Worker must survive and still process jobs.
	done := make(chan struct{})
	_ = exec.Submit(context.Background(), "k", JobFunc(func(context.Context) error {
		close(done)
		return nil
	}))
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker died after error handler panic")
	}
}
