package gridfx

import (
	"context"
	"sync"
	"time"
)

// FrameID identifies a requested frame callback. Zero is never issued.
type FrameID uint64

// Scheduler delivers frame callbacks, one per request.
type Scheduler interface {
	RequestFrame(fn func(now time.Time)) FrameID
	CancelFrame(id FrameID)
}

type frameRequest struct {
	id FrameID
	fn func(now time.Time)
}

// frameQueue is the request bookkeeping shared by both schedulers.
type frameQueue struct {
	mu      sync.Mutex
	next    FrameID
	pending []frameRequest
}

func (q *frameQueue) request(fn func(time.Time)) FrameID {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.next++
	q.pending = append(q.pending, frameRequest{id: q.next, fn: fn})
	return q.next
}

func (q *frameQueue) cancel(id FrameID) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, req := range q.pending {
		if req.id == id {
			q.pending = append(q.pending[:i], q.pending[i+1:]...)
			return
		}
	}
}

// take removes and returns the requests pending now. Requests made while
// the batch runs wait for the next frame.
func (q *frameQueue) take() []frameRequest {
	q.mu.Lock()
	defer q.mu.Unlock()
	batch := q.pending
	q.pending = nil
	return batch
}

func (q *frameQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// ManualScheduler is a deterministic Scheduler and Clock. Frames run only
// when the caller advances time, which makes it suitable for tests and
// offline rendering.
type ManualScheduler struct {
	queue frameQueue

	mu  sync.Mutex
	now time.Time
}

// NewManualScheduler returns a scheduler whose clock starts at start.
func NewManualScheduler(start time.Time) *ManualScheduler {
	return &ManualScheduler{now: start}
}

// Now returns the scheduler's current time.
func (s *ManualScheduler) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

// RequestFrame queues fn for the next Advance.
func (s *ManualScheduler) RequestFrame(fn func(now time.Time)) FrameID {
	return s.queue.request(fn)
}

// CancelFrame drops a queued callback.
func (s *ManualScheduler) CancelFrame(id FrameID) { s.queue.cancel(id) }

// Pending returns the number of queued callbacks.
func (s *ManualScheduler) Pending() int { return s.queue.len() }

// Advance moves the clock forward by dt and runs the callbacks that were
// queued before the call. It returns how many ran.
func (s *ManualScheduler) Advance(dt time.Duration) int {
	s.mu.Lock()
	s.now = s.now.Add(dt)
	now := s.now
	s.mu.Unlock()

	batch := s.queue.take()
	for _, req := range batch {
		req.fn(now)
	}
	return len(batch)
}

// Run advances n frames of dt each.
func (s *ManualScheduler) Run(n int, dt time.Duration) {
	for i := 0; i < n; i++ {
		s.Advance(dt)
	}
}

// TickerScheduler delivers frames from a time.Ticker on the goroutine
// that calls Run. Hosts use Post to run renderer calls on that goroutine.
type TickerScheduler struct {
	queue    frameQueue
	interval time.Duration
	posted   chan func()
}

// NewTickerScheduler returns a scheduler ticking every interval. A
// non-positive interval defaults to 8ms, faster than any quality preset so
// pacing stays with the renderer.
func NewTickerScheduler(interval time.Duration) *TickerScheduler {
	if interval <= 0 {
		interval = 8 * time.Millisecond
	}
	return &TickerScheduler{
		interval: interval,
		posted:   make(chan func(), 64),
	}
}

// Now returns time.Now.
func (s *TickerScheduler) Now() time.Time { return time.Now() }

// RequestFrame queues fn for the next tick. Safe from any goroutine.
func (s *TickerScheduler) RequestFrame(fn func(now time.Time)) FrameID {
	return s.queue.request(fn)
}

// CancelFrame drops a queued callback. Safe from any goroutine.
func (s *TickerScheduler) CancelFrame(id FrameID) { s.queue.cancel(id) }

// Post runs fn on the Run goroutine before the next frame. It blocks when
// the post queue is full and gives up when ctx is done.
func (s *TickerScheduler) Post(ctx context.Context, fn func()) error {
	select {
	case s.posted <- fn:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run delivers frames until ctx is cancelled.
func (s *TickerScheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-s.posted:
			fn()
		case now := <-ticker.C:
			for _, req := range s.queue.take() {
				req.fn(now)
			}
		}
	}
}
