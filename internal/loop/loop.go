// Package loop models the single-threaded browser event loop the engine runs on:
// animation frames, timers and a virtual clock. One goroutine drives a Loop.
package loop

import (
	"container/heap"
	"time"

	"github.com/andyrewlee/carousel/internal/safego"
)

// DefaultFrameInterval approximates a 60Hz display.
const DefaultFrameInterval = 16 * time.Millisecond

// FrameID identifies a requested animation frame. Zero is never issued.
type FrameID uint64

// TimerID identifies a scheduled timer. Zero is never issued.
type TimerID uint64

// Scheduler is the subset of Loop the engine packages depend on.
type Scheduler interface {
	Now() time.Time
	RequestFrame(fn func(now time.Time)) FrameID
	CancelFrame(id FrameID)
	AfterFunc(d time.Duration, fn func()) TimerID
	CancelTimer(id TimerID)
}

type timer struct {
	id       TimerID
	deadline time.Time
	seq      uint64
	fn       func()
	index    int
}

type timerHeap []*timer

func (h timerHeap) Len() int { return len(h) }
func (h timerHeap) Less(i, j int) bool {
	if h[i].deadline.Equal(h[j].deadline) {
		return h[i].seq < h[j].seq
	}
	return h[i].deadline.Before(h[j].deadline)
}
func (h timerHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}
func (h *timerHeap) Push(x any) {
	t := x.(*timer)
	t.index = len(*h)
	*h = append(*h, t)
}
func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*h = old[:n-1]
	return t
}

// Loop is a deterministic event loop with a virtual clock.
type Loop struct {
	now       time.Time
	interval  time.Duration
	lastFrame time.Time
	nextID    uint64
	seq       uint64

	frames     map[FrameID]func(time.Time)
	frameOrder []FrameID

	timers   timerHeap
	timerIdx map[TimerID]*timer
}

// New creates a loop whose clock starts at start.
func New(start time.Time) *Loop {
	return &Loop{
		now:      start,
		interval: DefaultFrameInterval,
		frames:   make(map[FrameID]func(time.Time)),
		timerIdx: make(map[TimerID]*timer),
	}
}

// SetFrameInterval changes the frame cadence. Non-positive values are ignored.
func (l *Loop) SetFrameInterval(d time.Duration) {
	if d > 0 {
		l.interval = d
	}
}

// FrameInterval returns the frame cadence.
func (l *Loop) FrameInterval() time.Duration { return l.interval }

// Now returns the loop clock.
func (l *Loop) Now() time.Time { return l.now }

// RequestFrame schedules fn for the next animation frame.
func (l *Loop) RequestFrame(fn func(now time.Time)) FrameID {
	if fn == nil {
		return 0
	}
	l.nextID++
	id := FrameID(l.nextID)
	l.frames[id] = fn
	l.frameOrder = append(l.frameOrder, id)
	return id
}

// CancelFrame drops a pending frame. Unknown ids are ignored.
func (l *Loop) CancelFrame(id FrameID) {
	delete(l.frames, id)
}

// AfterFunc schedules fn to run once d has elapsed on the loop clock.
func (l *Loop) AfterFunc(d time.Duration, fn func()) TimerID {
	if fn == nil {
		return 0
	}
	if d < 0 {
		d = 0
	}
	l.nextID++
	l.seq++
	t := &timer{id: TimerID(l.nextID), deadline: l.now.Add(d), seq: l.seq, fn: fn}
	heap.Push(&l.timers, t)
	l.timerIdx[t.id] = t
	return t.id
}

// CancelTimer drops a pending timer. Unknown or fired ids are ignored.
func (l *Loop) CancelTimer(id TimerID) {
	t, ok := l.timerIdx[id]
	if !ok {
		return
	}
	delete(l.timerIdx, id)
	if t.index >= 0 {
		heap.Remove(&l.timers, t.index)
	}
}

// Pending reports whether any frame or timer is outstanding.
func (l *Loop) Pending() bool {
	return len(l.frames) > 0 || len(l.timers) > 0
}

// Advance runs everything due within d of the current clock.
func (l *Loop) Advance(d time.Duration) {
	l.AdvanceTo(l.now.Add(d))
}

// AdvanceTo runs timers and frames in time order until target. Timers win ties.
func (l *Loop) AdvanceTo(target time.Time) {
	for {
		nextFrame, haveFrame := l.nextFrameTime()
		var nextTimer time.Time
		haveTimer := len(l.timers) > 0
		if haveTimer {
			nextTimer = l.timers[0].deadline
		}

		switch {
		case haveTimer && !nextTimer.After(target) && (!haveFrame || !nextTimer.After(nextFrame)):
			l.now = maxTime(l.now, nextTimer)
			t := heap.Pop(&l.timers).(*timer)
			delete(l.timerIdx, t.id)
			safego.Run("timer", t.fn)
		case haveFrame && !nextFrame.After(target):
			l.now = maxTime(l.now, nextFrame)
			l.runFrames()
		default:
			if target.After(l.now) {
				l.now = target
			}
			return
		}
	}
}

// Flush runs every frame batch and timer until the loop is quiet or limit
// passes of virtual time elapse.
func (l *Loop) Flush(limit time.Duration) {
	end := l.now.Add(limit)
	for l.Pending() && l.now.Before(end) {
		l.Advance(l.interval)
	}
}

func (l *Loop) nextFrameTime() (time.Time, bool) {
	if len(l.frames) == 0 {
		l.frameOrder = l.frameOrder[:0]
		return time.Time{}, false
	}
	if l.lastFrame.IsZero() {
		return l.now, true
	}
	next := l.lastFrame.Add(l.interval)
	if next.Before(l.now) {
		next = l.now
	}
	return next, true
}

func (l *Loop) runFrames() {
	order := l.frameOrder
	l.frameOrder = nil
	l.lastFrame = l.now
	now := l.now
	for _, id := range order {
		fn, ok := l.frames[id]
		if !ok {
			continue
		}
		delete(l.frames, id)
		safego.Run("frame", func() { fn(now) })
	}
}

func maxTime(a, b time.Time) time.Time {
	if b.After(a) {
		return b
	}
	return a
}
