// Package pathsafe validates that a caller-supplied asset path stays
// inside the directory the CLI was told to serve files from.
package pathsafe

import (
	"errors"
	"path/filepath"
	"strings"
)

// ErrEscapesRoot indicates a path that, once cleaned, would resolve
// outside root.
var ErrEscapesRoot = errors.New("pathsafe: path escapes root directory")

// Resolve joins root and name, rejecting absolute paths and any result
// that climbs above root via "..". It returns the cleaned, absolute
// path on success.
func Resolve(root, name string) (string, error) {
	if filepath.IsAbs(name) {
		return "", ErrEscapesRoot
	}

	joined := filepath.Join(root, name)
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}
	absJoined, err := filepath.Abs(joined)
	if err != nil {
		return "", err
	}

	if absJoined != absRoot && !strings.HasPrefix(absJoined, absRoot+string(filepath.Separator)) {
		return "", ErrEscapesRoot
	}
	return absJoined, nil
}
