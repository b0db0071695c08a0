//go:build windows

package store

import "os"

// replaceFile swaps the saved document into place, keeping the previous copy
// as a .bak until the rename succeeds.
func replaceFile(tempPath, targetPath string) error {
	backup := targetPath + ".bak"
	if err := os.Remove(backup); err != nil && !os.IsNotExist(err) {
		return err
	}
	hadTarget := true
	if err := os.Rename(targetPath, backup); err != nil {
		if !os.IsNotExist(err) {
			return err
		}
		hadTarget = false
	}
	if err := os.Rename(tempPath, targetPath); err != nil {
		if hadTarget {
			_ = os.Rename(backup, targetPath)
		}
		return err
	}
	if hadTarget {
		_ = os.Remove(backup)
	}
	return nil
}
