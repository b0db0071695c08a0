package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestPathsEnsureDirectories(t *testing.T) {
	paths := PathsAt(filepath.Join(t.TempDir(), "carousel"))

	if err := paths.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories() error = %v", err)
	}

	for _, dir := range []string{paths.Home, paths.LogsDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %s to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %s to be a directory", dir)
		}
	}
}

func TestDefaultPathsHonorsHomeOverride(t *testing.T) {
	root := filepath.Join(t.TempDir(), "custom")
	t.Setenv("CAROUSEL_HOME", root)
	paths, err := DefaultPaths()
	if err != nil {
		t.Fatalf("DefaultPaths() error = %v", err)
	}
	if paths.Home != root || paths.OffsetsDB != filepath.Join(root, "offsets.db") {
		t.Fatalf("unexpected paths %+v", paths)
	}
}
