package config

import (
	"os"
	"path/filepath"
)

// Paths holds all the file system paths used by the application
type Paths struct {
	Home       string // ~/.carousel
	ConfigPath string // ~/.carousel/config.json
	StatePath  string // ~/.carousel/state.json
	OffsetsDB  string // ~/.carousel/offsets.db
	LogsDir    string // ~/.carousel/logs
}

// PathsAt returns the layout rooted at home.
func PathsAt(home string) *Paths {
	return &Paths{
		Home:       home,
		ConfigPath: filepath.Join(home, "config.json"),
		StatePath:  filepath.Join(home, "state.json"),
		OffsetsDB:  filepath.Join(home, "offsets.db"),
		LogsDir:    filepath.Join(home, "logs"),
	}
}

// DefaultPaths returns the default paths configuration. CAROUSEL_HOME
// overrides the root directory.
func DefaultPaths() (*Paths, error) {
	if root := os.Getenv("CAROUSEL_HOME"); root != "" {
		return PathsAt(root), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return PathsAt(filepath.Join(home, ".carousel")), nil
}

// EnsureDirectories creates all required directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.Home, p.LogsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return nil
}
