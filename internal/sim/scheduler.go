package sim

import (
	"container/heap"
	"context"
	"time"
)

type event struct {
	at  time.Duration
	seq uint64
	fn  func()
}

// eventHeap orders events by time, then by scheduling order.
type eventHeap []*event

func (h eventHeap) Len() int { return len(h) }
func (h eventHeap) Less(i, j int) bool {
	if h[i].at == h[j].at {
		return h[i].seq < h[j].seq
	}
	return h[i].at < h[j].at
}
func (h eventHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *eventHeap) Push(x any) { *h = append(*h, x.(*event)) }

func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	ev := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return ev
}

// Scheduler is a single-threaded discrete-event queue with a virtual clock.
// Handlers run to completion in time order; the clock never moves backwards.
type Scheduler struct {
	now   time.Duration
	seq   uint64
	queue eventHeap
	pace  float64
}

// NewScheduler creates a scheduler. A pace > 0 slows the run down to pace
// simulated seconds per wall-clock second.
func NewScheduler(pace float64) *Scheduler {
	return &Scheduler{pace: pace}
}

// Now returns the current simulated time.
func (s *Scheduler) Now() time.Duration { return s.now }

// Pending returns the number of queued events.
func (s *Scheduler) Pending() int { return s.queue.Len() }

// Schedule queues fn at simulated time at. Times in the past run at Now.
func (s *Scheduler) Schedule(at time.Duration, fn func()) {
	if at < s.now {
		at = s.now
	}
	s.seq++
	heap.Push(&s.queue, &event{at: at, seq: s.seq, fn: fn})
}

// After queues fn d after Now.
func (s *Scheduler) After(d time.Duration, fn func()) {
	s.Schedule(s.now+d, fn)
}

// Every runs fn at every multiple of interval, starting one interval from Now.
func (s *Scheduler) Every(interval time.Duration, fn func(now time.Duration)) {
	if interval <= 0 {
		return
	}
	var tick func()
	tick = func() {
		fn(s.now)
		s.After(interval, tick)
	}
	s.After(interval, tick)
}

// Run delivers queued events up to and including stopAt, then leaves the clock
// at stopAt. Later events stay queued and are never delivered.
func (s *Scheduler) Run(ctx context.Context, stopAt time.Duration) error {
	for s.queue.Len() > 0 && s.queue[0].at <= stopAt {
		if err := ctx.Err(); err != nil {
			return err
		}
		ev := heap.Pop(&s.queue).(*event)
		if err := s.wait(ctx, ev.at-s.now); err != nil {
			return err
		}
		s.now = ev.at
		ev.fn()
	}
	if stopAt > s.now {
		s.now = stopAt
	}
	return nil
}

func (s *Scheduler) wait(ctx context.Context, simGap time.Duration) error {
	if s.pace <= 0 || simGap <= 0 {
		return nil
	}
	t := time.NewTimer(time.Duration(float64(simGap) / s.pace))
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
