package pipeline

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestSettleAllKeepsSlotsAndSurvivesFailures(t *testing.T) {
	out := settleAll(context.Background(), 5, 2, 0, func(ctx context.Context, i int) (int, error) {
		// Finish in reverse order to prove results are slot-indexed.
		time.Sleep(time.Duration(5-i) * 5 * time.Millisecond)
		if i == 2 {
			return 0, errors.New("branch failed")
		}
		if i == 3 {
			panic("boom")
		}
		return i * 10, nil
	})
	if len(out) != 5 {
		t.Fatalf("len = %d, want 5", len(out))
	}
	for i, o := range out {
		switch i {
		case 2, 3:
			if o.Err == nil {
				t.Errorf("slot %d: expected error", i)
			}
		default:
			if o.Err != nil || o.Value != i*10 {
				t.Errorf("slot %d: got (%d, %v)", i, o.Value, o.Err)
			}
		}
	}
}

func TestSettleAllBoundsParallelism(t *testing.T) {
	var inFlight, peak int32
	settleAll(context.Background(), 12, 3, 0, func(ctx context.Context, i int) (struct{}, error) {
		n := atomic.AddInt32(&inFlight, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		atomic.AddInt32(&inFlight, -1)
		return struct{}{}, nil
	})
	if peak > 3 {
		t.Errorf("peak parallelism = %d, want <= 3", peak)
	}
}

func TestSettleAllEmpty(t *testing.T) {
	if out := settleAll(context.Background(), 0, 4, 0, func(ctx context.Context, i int) (int, error) {
		t.Fatalf("fn must not be called")
		return 0, nil
	}); len(out) != 0 {
		t.Errorf("expected no outcomes")
	}
}
