package savestore

import (
	"os"
	"path/filepath"
	"strings"
)

const defaultStoreFileName = "selections.db"

// ResolveDefaultPath returns the default location of the selection store.
func ResolveDefaultPath() string {
	base := strings.TrimSpace(os.Getenv("XDG_DATA_HOME"))
	if base == "" {
		if home, err := os.UserHomeDir(); err == nil && strings.TrimSpace(home) != "" {
			base = filepath.Join(home, ".local", "share")
		}
	}
	if base == "" {
		if dir, err := os.UserConfigDir(); err == nil && strings.TrimSpace(dir) != "" {
			base = dir
		}
	}
	if base == "" {
		base = "."
	}
	return filepath.Join(base, "gardenreach", defaultStoreFileName)
}
