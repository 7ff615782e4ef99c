package shared

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
)

// browserCommand returns the launcher for goos that opens target.
func browserCommand(goos, target string) (string, []string, error) {
	switch goos {
	case "darwin":
		return "open", []string{target}, nil
	case "linux", "freebsd", "openbsd":
		return "xdg-open", []string{target}, nil
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", target}, nil
	}
	return "", nil, fmt.Errorf("%w: cannot open a browser on %s", ErrNotImplemented, goos)
}

// OpenBrowser opens target in the default browser. Only http and https URLs are accepted.
func OpenBrowser(target string) error {
	u, err := url.Parse(target)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q is not an http URL", ErrInvalidArgument, target)
	}

	name, args, err := browserCommand(runtime.GOOS, u.String())
	if err != nil {
		return err
	}

	if err := exec.Command(name, args...).Start(); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	return nil
}
