package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/MrSnakeDoc/netcompare/internal/logger"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeSweeper struct {
	calls  atomic.Int32
	cutoff atomic.Value
	n      int
	err    error
}

func (f *fakeSweeper) Sweep(_ context.Context, olderThan time.Time) (int, error) {
	f.calls.Add(1)
	f.cutoff.Store(olderThan)
	return f.n, f.err
}

func TestGarbageCollector_Collect(t *testing.T) {
	sw := &fakeSweeper{n: 3}
	gc := NewGarbageCollector(sw, logger.Nop(), time.Hour, 30*24*time.Hour)
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	gc.now = func() time.Time { return now }

	removed, err := gc.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	if removed != 3 {
		t.Errorf("removed = %d, want 3", removed)
	}
	want := now.Add(-30 * 24 * time.Hour)
	if got := sw.cutoff.Load().(time.Time); !got.Equal(want) {
		t.Errorf("cutoff = %v, want %v", got, want)
	}
}

func TestGarbageCollector_DefaultThreshold(t *testing.T) {
	gc := NewGarbageCollector(&fakeSweeper{}, logger.Nop(), time.Hour, 0)
	if gc.threshold != DefaultGCThreshold {
		t.Errorf("threshold = %v, want %v", gc.threshold, DefaultGCThreshold)
	}
}

func TestGarbageCollector_CollectError(t *testing.T) {
	boom := errors.New("locked")
	gc := NewGarbageCollector(&fakeSweeper{err: boom}, logger.Nop(), time.Hour, time.Hour)
	if _, err := gc.Collect(context.Background()); !errors.Is(err, boom) {
		t.Errorf("Collect() error = %v, want %v", err, boom)
	}
}

func TestGarbageCollector_StartStop(t *testing.T) {
	sw := &fakeSweeper{}
	gc := NewGarbageCollector(sw, logger.Nop(), 5*time.Millisecond, time.Hour)

	if err := gc.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	deadline := time.Now().Add(2 * time.Second)
	for sw.calls.Load() < 3 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	gc.Stop()
	gc.Stop()

	if sw.calls.Load() < 3 {
		t.Errorf("Sweep called %d times, want at least 3", sw.calls.Load())
	}
}

func TestGarbageCollector_StopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	gc := NewGarbageCollector(&fakeSweeper{}, logger.Nop(), time.Hour, time.Hour)
	if err := gc.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	cancel()
	<-gc.doneCh
}

func TestGarbageCollector_ZeroIntervalCollectsOnce(t *testing.T) {
	sw := &fakeSweeper{}
	gc := NewGarbageCollector(sw, logger.Nop(), 0, time.Hour)

	if err := gc.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	gc.Stop()

	if n := sw.calls.Load(); n != 1 {
		t.Errorf("Sweep called %d times, want 1", n)
	}
}
