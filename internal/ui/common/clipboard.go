package common

import (
	"os/exec"
	"runtime"
	"strings"

	"github.com/atotto/clipboard"
)

// CopyToClipboard writes text to the system clipboard, preferring pbcopy on
// macOS.
func CopyToClipboard(text string) error {
	if runtime.GOOS == "darwin" {
		cmd := exec.Command("pbcopy")
		cmd.Stdin = strings.NewReader(text)
		if err := cmd.Run(); err == nil {
			return nil
		}
	}
	return clipboard.WriteAll(text)
}
