package logging

import (
	"fmt"
	"strings"
	"sync"
)

// Sink receives engine events. Each subsystem gets its own sink so
// event streams stay scoped to one carousel instance.
type Sink interface {
	Event(scope, name string, kv ...any)
}

// Discard drops every event.
var Discard Sink = discard{}

type discard struct{}

func (discard) Event(string, string, ...any) {}

// LogSink forwards events to the default file logger at debug level.
type LogSink struct {
	// Prefix is prepended to the scope, typically the carousel instance id.
	Prefix string
}

// Event implements Sink.
func (s LogSink) Event(scope, name string, kv ...any) {
	if !Enabled(LevelDebug) {
		return
	}
	if s.Prefix != "" {
		scope = s.Prefix + "/" + scope
	}
	Debug("[%s] %s%s", scope, name, formatKV(kv))
}

// Scoped binds a scope so callers only pass the event name.
type Scoped struct {
	sink  Sink
	scope string
}

// NewScoped returns a scoped view over sink. A nil sink discards.
func NewScoped(sink Sink, scope string) Scoped {
	if sink == nil {
		sink = Discard
	}
	return Scoped{sink: sink, scope: scope}
}

// Emit forwards an event under the bound scope.
func (s Scoped) Emit(name string, kv ...any) {
	if s.sink == nil {
		return
	}
	s.sink.Event(s.scope, name, kv...)
}

// Record is one captured event.
type Record struct {
	Scope string
	Name  string
	KV    []any
}

// Recorder captures events in memory. Safe for concurrent use.
type Recorder struct {
	mu      sync.Mutex
	records []Record
}

// Event implements Sink.
func (r *Recorder) Event(scope, name string, kv ...any) {
	r.mu.Lock()
	r.records = append(r.records, Record{Scope: scope, Name: name, KV: append([]any(nil), kv...)})
	r.mu.Unlock()
}

// Events returns a copy of all captured events.
func (r *Recorder) Events() []Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Record, len(r.records))
	copy(out, r.records)
	return out
}

// Count returns how many events named name were captured.
func (r *Recorder) Count(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, rec := range r.records {
		if rec.Name == name {
			n++
		}
	}
	return n
}

// Reset drops captured events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.records = nil
	r.mu.Unlock()
}

func formatKV(kv []any) string {
	if len(kv) == 0 {
		return ""
	}
	var b strings.Builder
	for i := 0; i < len(kv); i += 2 {
		b.WriteByte(' ')
		if i+1 < len(kv) {
			fmt.Fprintf(&b, "%v=%v", kv[i], kv[i+1])
		} else {
			fmt.Fprintf(&b, "%v", kv[i])
		}
	}
	return b.String()
}
