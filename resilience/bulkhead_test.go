package resilience

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestBulkheadLimitsConcurrency(t *testing.T) {
	b := NewPool("test", 3)
	var current, peak int64
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := b.Execute(context.Background(), func() error {
				n := atomic.AddInt64(&current, 1)
				for {
					p := atomic.LoadInt64(&peak)
					if n <= p || atomic.CompareAndSwapInt64(&peak, p, n) {
						break
					}
				}
				time.Sleep(5 * time.Millisecond)
				atomic.AddInt64(&current, -1)
				return nil
			})
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if peak > 3 {
		t.Fatalf("pool exceeded width: peak %d > 3", peak)
	}
}

func TestBulkheadFailFastWhenFull(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{Name: "t", MaxConcurrent: 1, MaxWait: 0})

	release := make(chan struct{})
	go func() {
		_ = b.Execute(context.Background(), func() error {
			<-release
			return nil
		})
	}()

	// Wait for the first call to take the slot.
	for b.InUse() == 0 {
		time.Sleep(time.Millisecond)
	}

	err := b.Execute(context.Background(), func() error { return nil })
	if !errors.Is(err, ErrBulkheadFull) {
		t.Fatalf("expected ErrBulkheadFull, got %v", err)
	}
	close(release)
}

func TestBulkheadPoolWaitsForSlot(t *testing.T) {
	b := NewPool("t", 1)

	release := make(chan struct{})
	done := make(chan struct{})
	go func() {
		_ = b.Execute(context.Background(), func() error {
			<-release
			return nil
		})
	}()
	for b.InUse() == 0 {
		time.Sleep(time.Millisecond)
	}

	go func() {
		defer close(done)
		if err := b.Execute(context.Background(), func() error { return nil }); err != nil {
			t.Errorf("pool-mode execute failed: %v", err)
		}
	}()

	select {
	case <-done:
		t.Fatal("second call should block until slot frees")
	case <-time.After(20 * time.Millisecond):
	}

	close(release)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("second call never ran after slot freed")
	}
}

func TestBulkheadPoolContextCancel(t *testing.T) {
	b := NewPool("t", 1)
	release := make(chan struct{})
	defer close(release)
	go func() {
		_ = b.Execute(context.Background(), func() error {
			<-release
			return nil
		})
	}()
	for b.InUse() == 0 {
		time.Sleep(time.Millisecond)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := b.Execute(ctx, func() error { return nil })
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestExecuteWithResult(t *testing.T) {
	b := NewPool("t", 2)
	v, err := ExecuteWithResult(b, context.Background(), func() (int, error) {
		return 7, nil
	})
	if err != nil || v != 7 {
		t.Fatalf("got (%d, %v)", v, err)
	}
}
