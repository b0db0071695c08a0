package store

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	if _, ok := s.SavedOffset("home"); ok {
		t.Fatalf("expected no saved offset")
	}
	if err := s.SaveOffset("home", 4177.5); err != nil {
		t.Fatalf("SaveOffset() error = %v", err)
	}
	if err := s.SaveOffset("other", 12); err != nil {
		t.Fatalf("SaveOffset() error = %v", err)
	}
	if err := s.SaveOffset("home", 4352); err != nil {
		t.Fatalf("SaveOffset() overwrite error = %v", err)
	}
	if v, ok := s.SavedOffset("home"); !ok || v != 4352 {
		t.Fatalf("SavedOffset(home) = %v %v, want 4352", v, ok)
	}
	if v, ok := s.SavedOffset("other"); !ok || v != 12 {
		t.Fatalf("SavedOffset(other) = %v %v, want 12", v, ok)
	}
	for _, bad := range []float64{-1, math.NaN(), math.Inf(1)} {
		if err := s.SaveOffset("home", bad); err == nil {
			t.Fatalf("expected error saving %v", bad)
		}
	}
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemory())
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.json")
	f := NewFile(path)
	exerciseStore(t, f)

	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file should be gone after save")
	}
	reopened := NewFile(path)
	if v, ok := reopened.SavedOffset("home"); !ok || v != 4352 {
		t.Fatalf("offsets should survive reopen, got %v %v", v, ok)
	}
}

func TestFileStoreCorruptFileIsNoValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	f := NewFile(path)
	if _, ok := f.SavedOffset("home"); ok {
		t.Fatalf("corrupt storage reads as no value")
	}
	if err := f.SaveOffset("home", 10); err != nil {
		t.Fatalf("saving over a corrupt file should recover, got %v", err)
	}
	if v, ok := f.SavedOffset("home"); !ok || v != 10 {
		t.Fatalf("expected recovered value, got %v %v", v, ok)
	}
}

func TestSQLiteStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "offsets.db")
	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	exerciseStore(t, s)
	keys, err := s.Keys()
	if err != nil || len(keys) != 2 {
		t.Fatalf("Keys() = %v, %v", keys, err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	s, err = OpenSQLite(path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer s.Close()
	if v, ok := s.SavedOffset("home"); !ok || v != 4352 {
		t.Fatalf("offsets should survive reopen, got %v %v", v, ok)
	}
}

func TestOpenBackends(t *testing.T) {
	dir := t.TempDir()
	for _, b := range []Backend{BackendFile, BackendSQLite, BackendMemory} {
		s, err := Open(b, filepath.Join(dir, string(b)))
		if err != nil {
			t.Fatalf("Open(%s) error = %v", b, err)
		}
		_ = s.Close()
	}
	if _, err := Open("redis", ""); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
	if _, ok := OpenOrMemory("redis", "").(*Memory); !ok {
		t.Fatalf("expected memory fallback")
	}
}
