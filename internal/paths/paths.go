package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const (

	// Directory name under each XDG base path.
	toolName = "debvet"

	// Mode for directories debvet creates.
	DefaultDirMode os.FileMode = 0755

	// Mode for files debvet writes.
	DefaultFileMode os.FileMode = 0644
)

// Path to the directory for configuration files.
//
//	Linux:   ~/.config/debvet
//	macOS:   ~/Library/Application Support/debvet
func Config() string {
	return filepath.Join(xdg.ConfigHome, toolName)
}

// Path to the directory for cached artifacts.
//
//	Linux:   ~/.cache/debvet
//	macOS:   ~/Library/Caches/debvet
func Cache() string {
	return filepath.Join(xdg.CacheHome, toolName)
}

// Default path to the directory packages are staged into before a build.
//
//	Linux:   ~/.cache/debvet/packages
//	macOS:   ~/Library/Caches/debvet/packages
func Staging() string {
	return filepath.Join(Cache(), "packages")
}
