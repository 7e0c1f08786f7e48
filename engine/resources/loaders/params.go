package loaders

import (
	"errors"
	"fmt"

	"github.com/spaghettifunk/gameengine/engine/core"
)

var (
	ErrMissingFile   = errors.New("loader is missing a file path")
	ErrUnknownFamily = errors.New("unknown font family")
	ErrBadCharset    = errors.New("character set is empty")
	ErrGlyphHeight   = errors.New("glyph height must be positive")
)

// expectPaths enforces the path count of a parameter type. A mismatch is
// logged and leaves the parameters without paths, so the load itself fails
// with ErrMissingFile instead of crashing here.
func expectPaths(kind string, want int, paths []string) []string {
	if len(paths) != want {
		core.LogError("%s parameters need exactly %d file path(s), got %d", kind, want, len(paths))
		return nil
	}
	return append([]string(nil), paths...)
}

func requirePaths(kind string, want int, paths []string) error {
	if len(paths) != want {
		return fmt.Errorf("%s: %w (want %d, got %d)", kind, ErrMissingFile, want, len(paths))
	}
	return nil
}
