package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/doeshing/aocenv/internal/domain"
)

// ErrNoSession means neither the environment nor the cookie file supplied a session.
var ErrNoSession = errors.New("no session cookie configured")

// SessionCookie resolves the puzzle site session. The environment variable
// wins over the cookie file. The second return value names the source.
func SessionCookie(cfg domain.Config) (string, string, error) {
	name := cfg.CookieEnvVar()
	if value := strings.TrimSpace(os.Getenv(name)); value != "" {
		return value, "$" + name, nil
	}
	if cfg.Session.CookieFile != "" {
		data, err := os.ReadFile(cfg.Session.CookieFile)
		switch {
		case err == nil:
			if value := strings.TrimSpace(string(data)); value != "" {
				return value, cfg.Session.CookieFile, nil
			}
		case !errors.Is(err, fs.ErrNotExist):
			return "", "", fmt.Errorf("read cookie file: %w", err)
		}
	}
	return "", "", fmt.Errorf("%w: set $%s or write it to %s", ErrNoSession, name, cfg.Session.CookieFile)
}
