package workerpool

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestPool_MinimumTwoWorkers(t *testing.T) {
	t.Parallel()

	p := New(0, nil)
	defer p.Close()

	if got := p.WorkerCount(); got != 2 {
		t.Fatalf("want minimum 2 workers, got %d", got)
	}
}

func TestPool_SubmitRunsTask(t *testing.T) {
	t.Parallel()

	p := New(2, nil)
	defer p.Close()

	done := make(chan struct{})
	p.Submit(func() { close(done) })

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("task did not run in time")
	}
}

func TestPool_EnqueueReturnsValueAndError(t *testing.T) {
	t.Parallel()

	p := New(2, nil)
	defer p.Close()

	h := Enqueue(p, func() (int, error) { return 42, nil })
	v, err := h.Wait()
	if err != nil || v != 42 {
		t.Fatalf("want 42, nil; got %v, %v", v, err)
	}

	wantErr := errors.New("boom")
	h2 := Enqueue(p, func() (int, error) { return 0, wantErr })
	_, err = h2.Wait()
	if err != wantErr {
		t.Fatalf("want %v, got %v", wantErr, err)
	}
}

func TestPool_WaitContextAbandonsOnTimeout(t *testing.T) {
	t.Parallel()

	p := New(2, nil)
	defer p.Close()

	release := make(chan struct{})
	h := Enqueue(p, func() (int, error) {
		<-release
		return 1, nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := h.WaitContext(ctx)
	if err == nil {
		t.Fatal("want a context deadline error")
	}
	close(release)
}

func TestPool_PanicIsRecoveredNotPropagated(t *testing.T) {
	t.Parallel()

	p := New(2, nil)
	defer p.Close()

	p.Submit(func() { panic("boom") })

	done := make(chan struct{})
	p.Submit(func() { close(done) })

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("pool stopped making progress after a panicking task")
	}
}

func TestPool_ResizeGrowAndShrink(t *testing.T) {
	t.Parallel()

	p := New(2, nil)
	defer p.Close()

	p.Resize(5)
	if got := p.WorkerCount(); got != 5 {
		t.Fatalf("want 5 workers after grow, got %d", got)
	}

	p.Resize(2)
	if got := p.WorkerCount(); got != 2 {
		t.Fatalf("want 2 workers after shrink, got %d", got)
	}

	// Below-minimum requests clamp to 2.
	p.Resize(0)
	if got := p.WorkerCount(); got != 2 {
		t.Fatalf("want clamp to 2, got %d", got)
	}
}

func TestPool_ShrinkPreservesQueuedTasks(t *testing.T) {
	t.Parallel()

	p := New(4, nil)
	defer p.Close()

	var completed atomic.Int64
	block := make(chan struct{})

	// Occupy all 4 workers so the next submissions queue up.
	for i := 0; i < 4; i++ {
		p.Submit(func() { <-block })
	}
	for i := 0; i < 10; i++ {
		p.Submit(func() { completed.Add(1) })
	}

	p.Resize(2) // shrink while 10 tasks are still queued behind the blockers
	close(block)

	deadline := time.After(2 * time.Second)
	for completed.Load() != 10 {
		select {
		case <-deadline:
			t.Fatalf("want 10 completed tasks, got %d", completed.Load())
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestPool_PauseResumeBlocksNewTasks(t *testing.T) {
	t.Parallel()

	p := New(2, nil)
	defer p.Close()

	p.Pause()

	var ran atomic.Bool
	p.Submit(func() { ran.Store(true) })

	time.Sleep(50 * time.Millisecond)
	if ran.Load() {
		t.Fatal("task must not run while paused")
	}

	p.Resume()
	deadline := time.After(time.Second)
	for !ran.Load() {
		select {
		case <-deadline:
			t.Fatal("task did not run after Resume")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestPool_WaitForAll(t *testing.T) {
	t.Parallel()

	p := New(3, nil)
	defer p.Close()

	var n atomic.Int64
	for i := 0; i < 20; i++ {
		p.Submit(func() { n.Add(1) })
	}
	p.WaitForAll()

	if n.Load() != 20 {
		t.Fatalf("want all 20 tasks done, got %d", n.Load())
	}
	if p.IsBusy() {
		t.Fatal("want pool idle after WaitForAll")
	}
}

func TestPool_CloseDrainsQueuedTasks(t *testing.T) {
	t.Parallel()

	p := New(2, nil)

	var completed atomic.Int64
	block := make(chan struct{})

	// Occupy both workers so the rest queue up.
	p.Submit(func() { <-block })
	p.Submit(func() { <-block })
	for i := 0; i < 10; i++ {
		p.Submit(func() { completed.Add(1) })
	}

	closeDone := make(chan struct{})
	go func() {
		p.Close()
		close(closeDone)
	}()

	time.Sleep(20 * time.Millisecond) // let Close observe the still-full queue
	close(block)

	select {
	case <-closeDone:
	case <-time.After(2 * time.Second):
		t.Fatal("Close did not return after queued tasks could drain")
	}

	if got := completed.Load(); got != 10 {
		t.Fatalf("want all 10 queued tasks to run before Close returns, got %d", got)
	}
}

func TestPool_SubmitAfterCloseIsNoOp(t *testing.T) {
	t.Parallel()

	p := New(2, nil)
	p.Close()

	var ran atomic.Bool
	p.Submit(func() { ran.Store(true) })
	time.Sleep(20 * time.Millisecond)
	if ran.Load() {
		t.Fatal("task submitted after Close must not run")
	}
}
