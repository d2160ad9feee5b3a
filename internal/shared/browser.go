package shared

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
)

// OpenBrowser launches the system browser for url and returns without
// waiting on it. The BROWSER environment variable overrides the platform
// launcher.
func OpenBrowser(url string) error {
	name, args := launcher(runtime.GOOS)
	if name == "" {
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	if err := exec.Command(name, append(args, url)...).Start(); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	return nil
}

// launcher maps a GOOS value to the command that opens URLs there.
func launcher(goos string) (string, []string) {
	if browser := os.Getenv("BROWSER"); browser != "" {
		return browser, nil
	}

	switch goos {
	case "darwin":
		return "open", nil
	case "linux":
		return "xdg-open", nil
	case "windows":
		return "cmd", []string{"/c", "start"}
	}
	return "", nil
}
