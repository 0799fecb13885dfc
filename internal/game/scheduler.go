package game

import (
	"container/heap"
	"math"
)

type timer struct {
	at    uint64
	seq   uint64
	every uint64
	fn    func()
}

type timerHeap []*timer

func (h timerHeap) Len() int { return len(h) }
func (h timerHeap) Less(i, j int) bool {
	if h[i].at != h[j].at {
		return h[i].at < h[j].at
	}
	return h[i].seq < h[j].seq
}
func (h timerHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *timerHeap) Push(x any)   { *h = append(*h, x.(*timer)) }
func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return t
}

// Scheduler is the single-threaded timer queue driving recurring checks and
// one-shot delayed actions. Deadlines are in ticks; entries with the same
// deadline fire in insertion order. Actions that touch entities must check
// the active flag themselves, despawn never cancels a timer.
type Scheduler struct {
	tickSeconds float64
	now         uint64
	seq         uint64
	queue       timerHeap
}

func NewScheduler(tickSeconds float64) *Scheduler {
	if tickSeconds <= 0 {
		tickSeconds = DefaultTickSeconds
	}
	return &Scheduler{tickSeconds: tickSeconds}
}

// Ticks converts a duration to a tick count, never less than one.
func (s *Scheduler) Ticks(seconds float64) uint64 {
	n := math.Round(seconds / s.tickSeconds)
	if n < 1 {
		return 1
	}
	return uint64(n)
}

// After runs fn once, delay seconds from the current tick.
func (s *Scheduler) After(delay float64, fn func()) {
	s.push(&timer{at: s.now + s.Ticks(delay), fn: fn})
}

// Every runs fn each interval seconds, first fire one interval from now.
func (s *Scheduler) Every(interval float64, fn func()) {
	every := s.Ticks(interval)
	s.push(&timer{at: s.now + every, every: every, fn: fn})
}

func (s *Scheduler) push(t *timer) {
	s.seq++
	t.seq = s.seq
	heap.Push(&s.queue, t)
}

// RunDue advances the clock to now and fires every entry whose deadline has
// passed. A recurring entry fires at most once per call; if it fell behind it
// is re-armed one interval past now.
func (s *Scheduler) RunDue(now uint64) int {
	s.now = now
	fired := 0
	var rearm []*timer
	for len(s.queue) > 0 && s.queue[0].at <= now {
		t := heap.Pop(&s.queue).(*timer)
		t.fn()
		fired++
		if t.every > 0 {
			t.at += t.every
			if t.at <= now {
				t.at = now + t.every
			}
			rearm = append(rearm, t)
		}
	}
	for _, t := range rearm {
		heap.Push(&s.queue, t)
	}
	return fired
}

// Advance moves the clock without firing anything, so that delays scheduled
// before the next RunDue are measured from the current tick.
func (s *Scheduler) Advance(now uint64) {
	s.now = now
}

func (s *Scheduler) Now() uint64 { return s.now }
func (s *Scheduler) Len() int    { return len(s.queue) }
