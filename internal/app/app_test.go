package app

import (
	"math"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/andyrewlee/carousel/internal/coordinator"
	"github.com/andyrewlee/carousel/internal/physics"
)

func runScenario(t *testing.T, opts HarnessOptions) HarnessResult {
	t.Helper()
	h, err := NewHarness(opts)
	if err != nil {
		t.Fatalf("NewHarness: %v", err)
	}
	defer h.Close()
	return h.Run()
}

func assertSettled(t *testing.T, r HarnessResult) {
	t.Helper()
	if r.Final.Phase != coordinator.Idle || r.Final.Gesture != physics.GestureIdle {
		t.Fatalf("not settled: phase=%v gesture=%v", r.Final.Phase, r.Final.Gesture)
	}
	stride := r.Final.Layout.Stride()
	if rem := math.Mod(r.Final.Offset, stride); math.Min(rem, stride-rem) > 0.5 {
		t.Fatalf("offset %v not on an item (stride %v)", r.Final.Offset, stride)
	}
	if r.Final.Infinite && !r.Final.Buffer.InSafeZone(r.Final.Offset) {
		t.Fatalf("offset %v outside safe zone", r.Final.Offset)
	}
}

func TestUnknownScenario(t *testing.T) {
	if _, err := NewHarness(HarnessOptions{Scenario: "nope"}); err == nil {
		t.Fatal("expected error for unknown scenario")
	}
}

func TestRapidClicksAdvanceMonotonically(t *testing.T) {
	r := runScenario(t, HarnessOptions{Scenario: ScenarioRapid})
	assertSettled(t, r)
	if r.Final.Active != 5 {
		t.Fatalf("active = %d, want 5 (trail %v)", r.Final.Active, r.Trail)
	}
	for i := 1; i < len(r.Trail); i++ {
		if r.Trail[i] < r.Trail[i-1] {
			t.Fatalf("active item went backwards: %v", r.Trail)
		}
	}
}

func TestWrapCrossesTheSeam(t *testing.T) {
	r := runScenario(t, HarnessOptions{Scenario: ScenarioWrap, Items: 8})
	assertSettled(t, r)
	if r.Final.Active != 2 {
		t.Fatalf("active = %d, want 2 (trail %v)", r.Final.Active, r.Trail)
	}
	if r.Final.Teleports.Total() == 0 {
		t.Fatal("expected at least one teleport when looping")
	}
	wrapped := false
	for i := 1; i < len(r.Trail); i++ {
		if r.Trail[i-1] == 7 && r.Trail[i] == 0 {
			wrapped = true
		}
	}
	if !wrapped {
		t.Fatalf("trail %v never wrapped from 7 to 0", r.Trail)
	}
}

func TestDragSnapsToAnItem(t *testing.T) {
	r := runScenario(t, HarnessOptions{Scenario: ScenarioDrag})
	assertSettled(t, r)
	if r.Final.Active < 1 {
		t.Fatalf("active = %d, want a later item after dragging left", r.Final.Active)
	}
}

func TestTouchFlingSettlesInSafeZone(t *testing.T) {
	r := runScenario(t, HarnessOptions{Scenario: ScenarioFling})
	assertSettled(t, r)
	if r.Final.Active < 1 {
		t.Fatalf("active = %d, want fling to move forward", r.Final.Active)
	}
}

func TestFiniteWrapStopsAtLastItem(t *testing.T) {
	r := runScenario(t, HarnessOptions{Scenario: ScenarioWrap, Items: 8, Finite: true})
	assertSettled(t, r)
	if r.Final.Teleports.Total() != 0 {
		t.Fatalf("finite list teleported %d times", r.Final.Teleports.Total())
	}
}

func TestViewRendersCardsAndStatus(t *testing.T) {
	h, err := NewHarness(HarnessOptions{Scenario: ScenarioRapid, Render: true})
	if err != nil {
		t.Fatalf("NewHarness: %v", err)
	}
	defer h.Close()
	h.Step(100 * time.Millisecond)

	content := ansi.Strip(h.Render().Content)
	for _, want := range []string{"carousel", "Item 1", "Idle"} {
		if !strings.Contains(content, want) {
			t.Fatalf("view missing %q:\n%s", want, content)
		}
	}
}

func TestKeysToggleModes(t *testing.T) {
	h, err := NewHarness(HarnessOptions{Scenario: ScenarioRapid})
	if err != nil {
		t.Fatalf("NewHarness: %v", err)
	}
	defer h.Close()
	a := h.App()

	h.key('i', "i")
	h.Step(100 * time.Millisecond)
	if a.Snapshot().Infinite {
		t.Fatal("expected finite mode after toggle")
	}
	h.key('t', "t")
	if !a.touch {
		t.Fatal("expected touch mode after toggle")
	}
	h.key('?', "?")
	if !a.showHelp {
		t.Fatal("expected help overlay")
	}
	if _, cmd := a.Update(tea.KeyPressMsg{Code: 'q', Text: "q"}); cmd == nil {
		t.Fatal("quit should return a command")
	}
}
