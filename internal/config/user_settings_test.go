package config

import (
	"path/filepath"
	"testing"
)

func TestDefaultUISettings(t *testing.T) {
	settings := defaultUISettings()
	if !settings.ShowKeymapHints || settings.Touch || settings.Finite {
		t.Fatalf("unexpected defaults %+v", settings)
	}
}

func TestLoadUISettingsMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if got := loadUISettings(path); got != defaultUISettings() {
		t.Fatalf("missing config should yield defaults, got %+v", got)
	}
}

func TestSaveLoadUISettingsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	settings := defaultUISettings()
	settings.Touch = true
	settings.Finite = true
	settings.ShowKeymapHints = false

	if err := saveUISettings(path, settings); err != nil {
		t.Fatalf("saveUISettings failed: %v", err)
	}
	if loaded := loadUISettings(path); loaded != settings {
		t.Fatalf("expected %+v, got %+v", settings, loaded)
	}
}
