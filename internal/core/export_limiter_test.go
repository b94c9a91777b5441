package core

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportLimiter_SlotAccounting(t *testing.T) {
	limiter := NewExportLimiter(2, time.Second)
	ctx := context.Background()

	assert.Equal(t, ExportLimiterStatus{Active: 0, Available: 2, MaxConcurrent: 2}, limiter.Status())

	require.NoError(t, limiter.Acquire(ctx))
	require.True(t, limiter.TryAcquire())
	assert.Equal(t, 2, limiter.ActiveCount())
	assert.Equal(t, 0, limiter.Available())
	assert.False(t, limiter.TryAcquire(), "no slot should be left")

	limiter.Release()
	assert.Equal(t, ExportLimiterStatus{Active: 1, Available: 1, MaxConcurrent: 2}, limiter.Status())

	limiter.Release()
	assert.Equal(t, 0, limiter.ActiveCount())
}

func TestExportLimiter_RejectsAfterWait(t *testing.T) {
	limiter := NewExportLimiter(1, 80*time.Millisecond)
	ctx := context.Background()

	require.NoError(t, limiter.Acquire(ctx))
	defer limiter.Release()

	start := time.Now()
	err := limiter.Acquire(ctx)
	elapsed := time.Since(start)

	assert.ErrorIs(t, err, ErrTooManyExports)
	assert.GreaterOrEqual(t, elapsed, 70*time.Millisecond)
	assert.Less(t, elapsed, time.Second)
}

func TestExportLimiter_CallerCancellation(t *testing.T) {
	limiter := NewExportLimiter(1, 5*time.Second)
	require.NoError(t, limiter.Acquire(context.Background()))
	defer limiter.Release()

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- limiter.Acquire(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Acquire did not return after cancellation")
	}
}

func TestExportLimiter_NeverExceedsMax(t *testing.T) {
	const maxConcurrent = 2
	limiter := NewExportLimiter(maxConcurrent, time.Second)

	var (
		wg      sync.WaitGroup
		current atomic.Int32
		peak    atomic.Int32
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := limiter.Acquire(context.Background()); err != nil {
				t.Errorf("Acquire: %v", err)
				return
			}
			defer limiter.Release()

			n := current.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			current.Add(-1)
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, int(peak.Load()), maxConcurrent)
	assert.Equal(t, 0, limiter.ActiveCount())
}

func TestExportLimiter_WaitForDrain(t *testing.T) {
	limiter := NewExportLimiter(2, time.Second)
	require.NoError(t, limiter.Acquire(context.Background()))

	done := make(chan error, 1)
	go func() { done <- limiter.WaitForDrain(context.Background()) }()

	select {
	case <-done:
		t.Fatal("WaitForDrain returned while an export was active")
	case <-time.After(60 * time.Millisecond):
	}

	limiter.Release()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("WaitForDrain did not return after release")
	}
}

func TestExportLimiter_WaitForDrainCancelled(t *testing.T) {
	limiter := NewExportLimiter(1, time.Second)
	require.NoError(t, limiter.Acquire(context.Background()))
	defer limiter.Release()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	assert.ErrorIs(t, limiter.WaitForDrain(ctx), context.DeadlineExceeded)
}

func TestExportLimiter_Defaults(t *testing.T) {
	limiter := NewExportLimiter(0, 0)
	assert.Equal(t, DefaultMaxConcurrentExports, limiter.Status().MaxConcurrent)
	assert.Equal(t, DefaultExportWait, limiter.maxWait)
}
