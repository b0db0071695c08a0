package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/andyrewlee/carousel/internal/logging"
)

// File persists offsets in a JSON document, replaced atomically on save.
type File struct {
	path string
	mu   sync.Mutex
}

type offsetsFile struct {
	Offsets map[string]float64 `json:"offsets"`
}

// NewFile creates a store backed by path. The file is created on first save.
func NewFile(path string) *File {
	return &File{path: path}
}

// Path returns the backing file path.
func (f *File) Path() string { return f.path }

func (f *File) load() (offsetsFile, error) {
	doc := offsetsFile{Offsets: map[string]float64{}}
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return doc, nil
	}
	if err != nil {
		return doc, err
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return offsetsFile{Offsets: map[string]float64{}}, fmt.Errorf("parse %s: %w", f.path, err)
	}
	if doc.Offsets == nil {
		doc.Offsets = map[string]float64{}
	}
	return doc, nil
}

// SavedOffset implements viewport.OffsetStore. Read errors count as no value.
func (f *File) SavedOffset(key string) (float64, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, err := f.load()
	if err != nil {
		logging.Warn("Failed to read offsets: %v", err)
		return 0, false
	}
	v, ok := doc.Offsets[key]
	if !ok || !validOffset(v) {
		return 0, false
	}
	return v, true
}

// SaveOffset implements viewport.OffsetStore.
func (f *File) SaveOffset(key string, offset float64) error {
	if !validOffset(offset) {
		return fmt.Errorf("invalid offset %v", offset)
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.load()
	if err != nil {
		logging.Warn("Replacing unreadable offsets file: %v", err)
	}
	doc.Offsets[key] = offset

	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	tempPath := f.path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0o644); err != nil {
		return err
	}
	if err := replaceFile(tempPath, f.path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("replace %s: %w", f.path, err)
	}
	return nil
}

// Close implements Store.
func (f *File) Close() error { return nil }
