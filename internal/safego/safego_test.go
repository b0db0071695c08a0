package safego

import (
	"sync"
	"testing"
	"time"
)

func TestRunReportsNormalReturn(t *testing.T) {
	called := false
	if ok := Run("frame", func() { called = true }); !ok {
		t.Fatalf("expected ok for a normal return")
	}
	if !called {
		t.Fatalf("function was not called")
	}
}

func TestRunRecoversPanic(t *testing.T) {
	before := Recovered()
	if ok := Run("momentum-frame", func() { panic("boom") }); ok {
		t.Fatalf("expected ok=false after panic")
	}
	if got := Recovered() - before; got != 1 {
		t.Fatalf("recovered count delta = %d, want 1", got)
	}
}

func TestRunCallsPanicHandler(t *testing.T) {
	var (
		gotName  string
		gotValue any
	)
	SetPanicHandler(func(name string, recovered any, stack []byte) {
		gotName = name
		gotValue = recovered
	})
	defer SetPanicHandler(nil)

	Run("", func() { panic("oops") })

	if gotName != "callback" {
		t.Fatalf("expected default name 'callback', got %q", gotName)
	}
	if gotValue != "oops" {
		t.Fatalf("expected recovered value 'oops', got %v", gotValue)
	}
}

func TestRunPanicHandlerPanicIsRecovered(t *testing.T) {
	SetPanicHandler(func(string, any, []byte) { panic("handler panic") })
	defer SetPanicHandler(nil)

	Run("timer", func() { panic("original panic") })
}

func TestGoRunsInGoroutine(t *testing.T) {
	var wg sync.WaitGroup
	wg.Add(1)
	Go("watcher", func() { wg.Done() })

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for goroutine")
	}
}
