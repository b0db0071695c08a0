package messages

import (
	"time"

	"github.com/andyrewlee/carousel/internal/config"
)

// FrameTick advances the engine loop to At.
type FrameTick struct {
	At time.Time
}

// ConfigReloaded is sent when the config file changed on disk.
type ConfigReloaded struct {
	Config *config.Config
}

// ToastLevel identifies the type of toast notification to display.
type ToastLevel string

const (
	ToastInfo    ToastLevel = "info"
	ToastSuccess ToastLevel = "success"
	ToastError   ToastLevel = "error"
	ToastWarning ToastLevel = "warning"
)

// Toast requests a toast notification in the UI.
type Toast struct {
	Message string
	Level   ToastLevel
}

// ActiveItemChanged reports the item nearest the viewport center.
type ActiveItemChanged struct {
	Index int
}

// EndReached reports that a finite list scrolled near its end.
type EndReached struct{}

// PageLoaded delivers the next page of items.
type PageLoaded struct {
	Count int
}

// Error is a displayable error.
type Error struct {
	Err     error
	Context string
	// Logged marks errors already written to the log.
	Logged bool
}

func (e Error) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// ToggleHelp requests toggling the help overlay.
type ToggleHelp struct{}
