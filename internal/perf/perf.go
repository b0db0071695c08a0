// Package perf collects env-gated timing samples and counters for the engine's
// hot paths: effects application, teleports and frame steps.
package perf

import (
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/andyrewlee/carousel/internal/logging"
)

const defaultIntervalMs = 5000

type stat struct {
	count int64
	total time.Duration
	min   time.Duration
	max   time.Duration
}

// StatSnapshot captures duration stats for one name.
type StatSnapshot struct {
	Name  string
	Count int64
	Avg   time.Duration
	Min   time.Duration
	Max   time.Duration
}

// CounterSnapshot captures one counter.
type CounterSnapshot struct {
	Name  string
	Value int64
}

var (
	enabled     atomic.Bool
	logInterval atomic.Int64
	lastLog     atomic.Int64

	mu       sync.Mutex
	stats    = map[string]*stat{}
	counters = map[string]int64{}
)

func init() {
	enabled.Store(isEnabled())
	logInterval.Store(int64(defaultLogInterval()))
}

// Enabled reports whether profiling is enabled.
func Enabled() bool {
	return enabled.Load()
}

// Time returns a function that records elapsed time when invoked.
func Time(name string) func() {
	if !enabled.Load() {
		return func() {}
	}
	start := time.Now()
	return func() {
		Record(name, time.Since(start))
	}
}

// Record captures a duration sample for the given name.
func Record(name string, d time.Duration) {
	if !enabled.Load() {
		return
	}
	mu.Lock()
	s, ok := stats[name]
	if !ok {
		s = &stat{}
		stats[name] = s
	}
	s.count++
	s.total += d
	if s.count == 1 || d < s.min {
		s.min = d
	}
	if d > s.max {
		s.max = d
	}
	mu.Unlock()
	maybeLog()
}

// Count increments a named counter by delta.
func Count(name string, delta int64) {
	if !enabled.Load() {
		return
	}
	mu.Lock()
	counters[name] += delta
	mu.Unlock()
	maybeLog()
}

// Snapshot returns current stats and counters sorted by name and resets them.
func Snapshot() ([]StatSnapshot, []CounterSnapshot) {
	mu.Lock()
	statsOut := make([]StatSnapshot, 0, len(stats))
	for name, s := range stats {
		if s.count == 0 {
			continue
		}
		statsOut = append(statsOut, StatSnapshot{
			Name:  name,
			Count: s.count,
			Avg:   s.total / time.Duration(s.count),
			Min:   s.min,
			Max:   s.max,
		})
	}
	counterOut := make([]CounterSnapshot, 0, len(counters))
	for name, v := range counters {
		if v != 0 {
			counterOut = append(counterOut, CounterSnapshot{Name: name, Value: v})
		}
	}
	stats = map[string]*stat{}
	counters = map[string]int64{}
	mu.Unlock()

	sort.Slice(statsOut, func(i, j int) bool { return statsOut[i].Name < statsOut[j].Name })
	sort.Slice(counterOut, func(i, j int) bool { return counterOut[i].Name < counterOut[j].Name })
	return statsOut, counterOut
}

func maybeLog() {
	interval := time.Duration(logInterval.Load())
	if interval <= 0 {
		return
	}
	now := time.Now().UnixNano()
	last := lastLog.Load()
	if last != 0 && time.Duration(now-last) < interval {
		return
	}
	if !lastLog.CompareAndSwap(last, now) {
		return
	}
	Flush("")
}

// Flush logs a summary of current stats/counters immediately.
func Flush(reason string) {
	if !enabled.Load() {
		return
	}
	prefix := "PERF"
	if strings.TrimSpace(reason) != "" {
		prefix = "PERF SUMMARY " + reason
	}
	statsOut, counterOut := Snapshot()
	for _, s := range statsOut {
		logging.Info("%s %s count=%d avg=%s min=%s max=%s", prefix, s.Name, s.Count, s.Avg, s.Min, s.Max)
	}
	for _, c := range counterOut {
		logging.Info("%s %s count=%d", prefix, c.Name, c.Value)
	}
}

// EnableForTest forces collection on with periodic logging off and returns a
// restore function.
func EnableForTest() func() {
	prevEnabled := enabled.Load()
	prevInterval := logInterval.Load()
	enabled.Store(true)
	logInterval.Store(0)
	Snapshot()
	return func() {
		enabled.Store(prevEnabled)
		logInterval.Store(prevInterval)
		Snapshot()
	}
}

func isEnabled() bool {
	raw := strings.TrimSpace(os.Getenv("CAROUSEL_PROFILE"))
	if raw == "" {
		return false
	}
	switch strings.ToLower(raw) {
	case "0", "false", "no":
		return false
	default:
		return true
	}
}

func defaultLogInterval() time.Duration {
	interval := defaultIntervalMs
	if raw := strings.TrimSpace(os.Getenv("CAROUSEL_PROFILE_INTERVAL_MS")); raw != "" {
		if val, err := strconv.Atoi(raw); err == nil && val > 0 {
			interval = val
		}
	}
	return time.Duration(interval) * time.Millisecond
}
