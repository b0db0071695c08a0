package common

import (
	"fmt"
	"runtime/debug"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/andyrewlee/carousel/internal/logging"
	"github.com/andyrewlee/carousel/internal/messages"
)

// recovered turns a panic into an error message for the update loop.
func recovered(context string, msg *tea.Msg) {
	if r := recover(); r != nil {
		logging.Error("panic in %s: %v\n%s", context, r, debug.Stack())
		*msg = messages.Error{Err: fmt.Errorf("%s panic: %v", context, r), Context: context, Logged: true}
	}
}

// SafeCmd wraps a command with panic recovery.
func SafeCmd(cmd tea.Cmd) tea.Cmd {
	if cmd == nil {
		return nil
	}
	return func() (msg tea.Msg) {
		defer recovered("command", &msg)
		return cmd()
	}
}

// SafeBatch wraps commands in panic recovery before batching.
func SafeBatch(cmds ...tea.Cmd) tea.Cmd {
	safe := make([]tea.Cmd, 0, len(cmds))
	for _, cmd := range cmds {
		if cmd != nil {
			safe = append(safe, SafeCmd(cmd))
		}
	}
	if len(safe) == 0 {
		return nil
	}
	return tea.Batch(safe...)
}

// SafeTick wraps tea.Tick with panic recovery in the callback.
func SafeTick(d time.Duration, fn func(time.Time) tea.Msg) tea.Cmd {
	if fn == nil {
		return nil
	}
	return tea.Tick(d, func(t time.Time) (msg tea.Msg) {
		defer recovered("tick", &msg)
		return fn(t)
	})
}
