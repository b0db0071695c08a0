package ease

import (
	"math"
	"testing"
)

func TestCurvesHitEndpoints(t *testing.T) {
	for name, fn := range map[string]func(float64) float64{
		"OutCubic":   OutCubic,
		"InOutCubic": InOutCubic,
	} {
		if got := fn(0); got != 0 {
			t.Errorf("%s(0) = %v", name, got)
		}
		if got := fn(1); got != 1 {
			t.Errorf("%s(1) = %v", name, got)
		}
		if got := fn(-3); got != 0 {
			t.Errorf("%s clamps below, got %v", name, got)
		}
		if got := fn(7); got != 1 {
			t.Errorf("%s clamps above, got %v", name, got)
		}
	}
}

func TestOutCubicIsMonotonic(t *testing.T) {
	prev := -1.0
	for i := 0; i <= 100; i++ {
		v := OutCubic(float64(i) / 100)
		if v < prev {
			t.Fatalf("OutCubic decreased at %d", i)
		}
		prev = v
	}
	if math.Abs(InOutCubic(0.5)-0.5) > 1e-9 {
		t.Fatalf("InOutCubic should be symmetric around 0.5")
	}
}

func TestProgress(t *testing.T) {
	if Progress(5, 0) != 1 {
		t.Fatalf("zero duration should be complete")
	}
	if Progress(50, 200) != 0.25 {
		t.Fatalf("unexpected progress")
	}
}
