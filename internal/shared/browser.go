package shared

import (
	"fmt"
	"os/exec"
	"runtime"
)

// browserCommand builds the platform-specific launcher for url.
//
// Returns an error on platforms without a known launcher so callers can fall
// back to printing the URL.
func browserCommand(goos, url string) (*exec.Cmd, error) {
	switch goos {
	case "darwin":
		return exec.Command("open", url), nil
	case "linux":
		return exec.Command("xdg-open", url), nil
	case "windows":
		return exec.Command("cmd", "/c", "start", url), nil
	}
	return nil, fmt.Errorf("no browser launcher for platform %s", goos)
}

// OpenBrowser launches the default browser at url without waiting for the
// browser process to exit.
func OpenBrowser(url string) error {
	cmd, err := browserCommand(runtime.GOOS, url)
	if err != nil {
		return err
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	return nil
}
