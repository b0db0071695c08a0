//go:build !windows

package store

import "os"

// replaceFile swaps the saved document into place. rename(2) is atomic here.
func replaceFile(tempPath, targetPath string) error {
	return os.Rename(tempPath, targetPath)
}
