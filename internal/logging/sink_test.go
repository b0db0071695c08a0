package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestRecorderCountsByName(t *testing.T) {
	var rec Recorder
	s := NewScoped(&rec, "teleport")
	s.Emit("reactive", "from", 8353.0, "to", 4177.0)
	s.Emit("reactive")
	s.Emit("proactive")

	if got := rec.Count("reactive"); got != 2 {
		t.Fatalf("expected 2 reactive events, got %d", got)
	}
	events := rec.Events()
	if events[0].Scope != "teleport" {
		t.Fatalf("expected scope teleport, got %q", events[0].Scope)
	}
	rec.Reset()
	if len(rec.Events()) != 0 {
		t.Fatalf("expected reset to drop events")
	}
}

func TestScopedNilSinkDiscards(t *testing.T) {
	s := NewScoped(nil, "x")
	s.Emit("anything", "k", 1)
}

func TestLogSinkWritesDebugLine(t *testing.T) {
	var buf bytes.Buffer
	InitializeWriter(&buf, LevelDebug)
	t.Cleanup(func() { setDefault(nil) })

	LogSink{Prefix: "c1"}.Event("coordinator", "transition", "from", "Idle", "to", "Scrolling")

	out := buf.String()
	if !strings.Contains(out, "[c1/coordinator] transition from=Idle to=Scrolling") {
		t.Fatalf("unexpected log output: %q", out)
	}
}

func TestLogSinkSkipsWhenLevelTooHigh(t *testing.T) {
	var buf bytes.Buffer
	InitializeWriter(&buf, LevelWarn)
	t.Cleanup(func() { setDefault(nil) })

	LogSink{}.Event("effects", "apply")
	if buf.Len() != 0 {
		t.Fatalf("expected no output at warn level, got %q", buf.String())
	}
}
