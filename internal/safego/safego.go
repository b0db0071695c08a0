// Package safego runs frame callbacks, timers and watcher goroutines with
// panic recovery so one bad callback cannot take down the render loop.
package safego

import (
	"runtime/debug"
	"sync/atomic"

	"github.com/andyrewlee/carousel/internal/logging"
)

// PanicHandler receives details of a recovered panic.
type PanicHandler func(name string, recovered any, stack []byte)

var (
	handler   atomic.Pointer[PanicHandler]
	recovered atomic.Int64
)

// SetPanicHandler installs h for every later recovery. nil removes it.
func SetPanicHandler(h PanicHandler) {
	if h == nil {
		handler.Store(nil)
		return
	}
	handler.Store(&h)
}

// Recovered returns how many panics have been swallowed since start.
func Recovered() int64 { return recovered.Load() }

// Run calls fn and reports whether it returned normally. Runtime-fatal
// errors such as concurrent map writes are not recoverable.
func Run(name string, fn func()) (ok bool) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		ok = false
		if name == "" {
			name = "callback"
		}
		recovered.Add(1)
		stack := debug.Stack()
		logging.Error("panic in %s: %v\n%s", name, r, stack)
		notify(name, r, stack)
	}()
	fn()
	return true
}

func notify(name string, r any, stack []byte) {
	h := handler.Load()
	if h == nil {
		return
	}
	defer func() { _ = recover() }()
	(*h)(name, r, stack)
}

// Go runs fn on a new goroutine under Run.
func Go(name string, fn func()) {
	go Run(name, fn)
}
