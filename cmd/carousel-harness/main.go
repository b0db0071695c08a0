package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/andyrewlee/carousel/internal/app"
)

func main() {
	scenario := flag.String("scenario", "all", "scenario: "+strings.Join(app.Scenarios, ", ")+", or all")
	items := flag.Int("items", 8, "number of items")
	width := flag.Int("width", 160, "screen width in columns")
	height := flag.Int("height", 24, "screen height in rows")
	finite := flag.Bool("finite", false, "use a finite list")
	render := flag.Bool("render", false, "render every frame and report view timings")
	flag.Parse()

	names := app.Scenarios
	if *scenario != "all" {
		names = []string{*scenario}
	}

	failed := false
	for _, name := range names {
		h, err := app.NewHarness(app.HarnessOptions{
			Scenario: name,
			Items:    *items,
			Width:    *width,
			Height:   *height,
			Finite:   *finite,
			Render:   *render,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "harness init failed: %v\n", err)
			os.Exit(1)
		}
		r := h.Run()
		h.Close()

		s := r.Final
		fmt.Printf("scenario=%s frames=%d phase=%s active=%d offset=%.1f teleports=%d trail=%v\n",
			r.Scenario, r.Frames, s.Phase, s.Active, s.Offset, s.Teleports.Total(), r.Trail)
		if len(r.Renders) > 0 {
			p50, p95 := percentiles(r.Renders)
			fmt.Printf("  render p50=%s p95=%s\n", p50, p95)
		}
		if s.Infinite && !s.Buffer.InSafeZone(s.Offset) {
			fmt.Printf("  FAIL: offset %.1f outside safe zone\n", s.Offset)
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}

func percentiles(durations []time.Duration) (p50, p95 time.Duration) {
	sorted := make([]time.Duration, len(durations))
	copy(sorted, durations)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	at := func(p float64) time.Duration {
		return sorted[int(float64(len(sorted)-1)*p)]
	}
	return at(0.50), at(0.95)
}
