package gridfx

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestManualSchedulerAdvance(t *testing.T) {
	start := time.Unix(100, 0)
	s := NewManualScheduler(start)

	var got []time.Time
	s.RequestFrame(func(now time.Time) { got = append(got, now) })
	id := s.RequestFrame(func(time.Time) { t.Error("cancelled frame ran") })
	s.CancelFrame(id)

	if n := s.Advance(16 * time.Millisecond); n != 1 {
		t.Fatalf("Advance() ran %d callbacks, want 1", n)
	}
	want := start.Add(16 * time.Millisecond)
	if len(got) != 1 || !got[0].Equal(want) {
		t.Errorf("callback times = %v, want [%v]", got, want)
	}
	if !s.Now().Equal(want) {
		t.Errorf("Now() = %v, want %v", s.Now(), want)
	}
}

func TestManualSchedulerRescheduleWaits(t *testing.T) {
	s := NewManualScheduler(time.Unix(0, 0))
	calls := 0
	var loop func(time.Time)
	loop = func(time.Time) {
		calls++
		s.RequestFrame(loop)
	}
	s.RequestFrame(loop)

	s.Run(5, time.Millisecond)
	if calls != 5 {
		t.Errorf("calls = %d, want 5", calls)
	}
	if s.Pending() != 1 {
		t.Errorf("Pending() = %d, want 1", s.Pending())
	}
}

func TestFrameIDsAreUnique(t *testing.T) {
	s := NewManualScheduler(time.Unix(0, 0))
	seen := map[FrameID]bool{}
	for i := 0; i < 10; i++ {
		id := s.RequestFrame(func(time.Time) {})
		if id == 0 || seen[id] {
			t.Fatalf("RequestFrame() = %d, want fresh non-zero id", id)
		}
		seen[id] = true
	}
}

func TestTickerSchedulerRun(t *testing.T) {
	s := NewTickerScheduler(time.Millisecond)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	var frames atomic.Int32
	var loop func(time.Time)
	loop = func(time.Time) {
		if frames.Add(1) >= 3 {
			cancel()
			return
		}
		s.RequestFrame(loop)
	}
	s.RequestFrame(loop)

	posted := make(chan struct{})
	if err := s.Post(ctx, func() { close(posted) }); err != nil {
		t.Fatalf("Post() = %v", err)
	}

	err := s.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() = %v, want context.Canceled", err)
	}
	if frames.Load() < 3 {
		t.Errorf("frames = %d, want >= 3", frames.Load())
	}
	select {
	case <-posted:
	default:
		t.Error("posted func did not run")
	}
}
