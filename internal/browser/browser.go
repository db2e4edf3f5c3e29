// Package browser hands URLs to the system browser. Used for the
// server-rendered certificate print view, which the terminal cannot display.
package browser

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"

	"clinicterm/internal/logging"
)

// OpenURL opens the URL in the default browser. Only http and https URLs
// are accepted; anything else would let a malformed server URL run as a
// local command argument.
func OpenURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("refusing to open non-http URL %q", rawURL)
	}

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", rawURL)
	case "darwin":
		cmd = exec.Command("open", rawURL)
	default:
		cmd = exec.Command("xdg-open", rawURL)
	}

	logging.UI("opening %s in system browser", rawURL)
	return cmd.Start()
}
