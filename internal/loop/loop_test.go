package loop

import (
	"testing"
	"time"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestTimersFireInDeadlineOrder(t *testing.T) {
	l := New(epoch)
	var got []string
	l.AfterFunc(30*time.Millisecond, func() { got = append(got, "c") })
	l.AfterFunc(10*time.Millisecond, func() { got = append(got, "a") })
	l.AfterFunc(20*time.Millisecond, func() { got = append(got, "b") })

	l.Advance(25 * time.Millisecond)
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("unexpected order after 25ms: %v", got)
	}
	l.Advance(10 * time.Millisecond)
	if len(got) != 3 || got[2] != "c" {
		t.Fatalf("expected c to fire, got %v", got)
	}
	if l.Now() != epoch.Add(35*time.Millisecond) {
		t.Fatalf("clock should land on target, got %v", l.Now().Sub(epoch))
	}
}

func TestCancelTimer(t *testing.T) {
	l := New(epoch)
	fired := false
	id := l.AfterFunc(5*time.Millisecond, func() { fired = true })
	l.CancelTimer(id)
	l.CancelTimer(id)
	l.CancelTimer(9999)
	l.Advance(time.Second)
	if fired {
		t.Fatalf("cancelled timer fired")
	}
	if l.Pending() {
		t.Fatalf("loop should be idle")
	}
}

func TestFramesRequestedDuringFrameRunNextFrame(t *testing.T) {
	l := New(epoch)
	var stamps []time.Duration
	var step func(now time.Time)
	step = func(now time.Time) {
		stamps = append(stamps, now.Sub(epoch))
		if len(stamps) < 3 {
			l.RequestFrame(step)
		}
	}
	l.RequestFrame(step)
	l.Advance(100 * time.Millisecond)

	want := []time.Duration{0, 16 * time.Millisecond, 32 * time.Millisecond}
	if len(stamps) != len(want) {
		t.Fatalf("expected %d frames, got %v", len(want), stamps)
	}
	for i := range want {
		if stamps[i] != want[i] {
			t.Fatalf("frame %d at %v, want %v", i, stamps[i], want[i])
		}
	}
}

func TestCancelFrame(t *testing.T) {
	l := New(epoch)
	ran := 0
	keep := l.RequestFrame(func(time.Time) { ran++ })
	drop := l.RequestFrame(func(time.Time) { ran += 10 })
	l.CancelFrame(drop)
	l.Advance(DefaultFrameInterval)
	if ran != 1 {
		t.Fatalf("expected only the kept frame to run, got %d", ran)
	}
	_ = keep
}

func TestPanickingCallbackDoesNotStopLoop(t *testing.T) {
	l := New(epoch)
	after := false
	l.AfterFunc(time.Millisecond, func() { panic("bad timer") })
	l.AfterFunc(2*time.Millisecond, func() { after = true })
	l.Advance(10 * time.Millisecond)
	if !after {
		t.Fatalf("loop stopped after a panicking timer")
	}
}

func TestFlushDrainsChainedWork(t *testing.T) {
	l := New(epoch)
	count := 0
	var tick func()
	tick = func() {
		count++
		if count < 5 {
			l.AfterFunc(50*time.Millisecond, tick)
		}
	}
	l.AfterFunc(0, tick)
	l.Flush(time.Second)
	if count != 5 {
		t.Fatalf("expected 5 chained timers, got %d", count)
	}
}
