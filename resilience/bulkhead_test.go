package resilience

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestBulkhead_AllowsRequestsWithinLimit(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{Name: "test", MaxConcurrent: 3})

	var callCount int32
	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := b.Acquire(context.Background())
			if err != nil {
				t.Errorf("expected no error, got %v", err)
				return
			}
			defer release()
			atomic.AddInt32(&callCount, 1)
			time.Sleep(10 * time.Millisecond)
		}()
	}
	wg.Wait()

	if callCount != 3 {
		t.Errorf("expected 3 calls, got %d", callCount)
	}
	if b.InUse() != 0 || b.Available() != 3 {
		t.Errorf("slots not returned: in use %d, available %d", b.InUse(), b.Available())
	}
}

func TestBulkhead_RejectsWhenFull(t *testing.T) {
	var rejected atomic.Int32
	b := NewBulkhead(BulkheadConfig{
		Name:          "test",
		MaxConcurrent: 1,
		OnReject:      func(string, error) { rejected.Add(1) },
	})

	release, err := b.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire() error: %v", err)
	}
	defer release()

	_, err = b.Acquire(context.Background())
	if !errors.Is(err, ErrBulkheadFull) {
		t.Fatalf("expected ErrBulkheadFull, got %v", err)
	}
	if !IsRejected(err) {
		t.Error("IsRejected should be true")
	}
	if rejected.Load() != 1 {
		t.Errorf("OnReject calls = %d, want 1", rejected.Load())
	}
}

func TestBulkhead_WaitTimeout(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{MaxConcurrent: 1, MaxWait: 20 * time.Millisecond})

	release, _ := b.Acquire(context.Background())
	defer release()

	start := time.Now()
	_, err := b.Acquire(context.Background())
	if !errors.Is(err, ErrBulkheadTimeout) {
		t.Fatalf("expected ErrBulkheadTimeout, got %v", err)
	}
	if time.Since(start) < 20*time.Millisecond {
		t.Error("Acquire returned before MaxWait elapsed")
	}
}

func TestBulkhead_WaitSucceedsWhenReleased(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{MaxConcurrent: 1, MaxWait: time.Second})

	release, _ := b.Acquire(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		release()
	}()

	release2, err := b.Acquire(context.Background())
	if err != nil {
		t.Fatalf("expected slot after release, got %v", err)
	}
	release2()
}

func TestBulkhead_ContextCanceled(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{MaxConcurrent: 1, MaxWait: time.Second})
	release, _ := b.Acquire(context.Background())
	defer release()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := b.Acquire(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if IsRejected(err) {
		t.Error("a canceled caller is not a rejection")
	}
}

func TestBulkhead_AlreadyCanceled(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{MaxConcurrent: 2})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := b.Acquire(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if b.InUse() != 0 {
		t.Error("no slot should be taken for a canceled context")
	}
}

func TestBulkhead_ReleaseIsIdempotent(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{MaxConcurrent: 2})
	r1, _ := b.Acquire(context.Background())
	r2, _ := b.Acquire(context.Background())

	r1()
	r1()
	if b.InUse() != 1 {
		t.Fatalf("InUse = %d, want 1", b.InUse())
	}
	r2()
	if b.InUse() != 0 {
		t.Fatalf("InUse = %d, want 0", b.InUse())
	}
}

func TestBulkhead_DefaultsToOneSlot(t *testing.T) {
	if got := NewBulkhead(BulkheadConfig{}).MaxConcurrent(); got != 1 {
		t.Errorf("MaxConcurrent = %d, want 1", got)
	}
}
