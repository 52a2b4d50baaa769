// Package assets is the filesystem side of layer configuration: it lists the
// trait files that live under each layer directory of the assets root.
package assets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrNoDirectory indicates a layer directory does not exist under the assets root.
var ErrNoDirectory = errors.New("layer directory not found")

// Scanner lists the trait entries of a layer directory.
type Scanner interface {
	// Traits returns the visible file names in dir, sorted case-insensitively.
	Traits(dir string) ([]string, error)
}

// Dir scans layer directories rooted at Root.
type Dir struct {
	Root string
}

// NewDir returns a Scanner rooted at the given assets directory.
func NewDir(root string) *Dir {
	return &Dir{Root: root}
}

// Traits lists regular files in Root/dir. Hidden entries (leading ".") and
// subdirectories are skipped.
func (d *Dir) Traits(dir string) ([]string, error) {
	path := filepath.Join(d.Root, dir)
	entries, err := os.ReadDir(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNoDirectory, path)
		}
		return nil, fmt.Errorf("reading layer directory %s: %w", path, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		names = append(names, e.Name())
	}
	SortFold(names)
	return names, nil
}

// SortFold sorts names case-insensitively; names equal under folding keep a
// stable byte order so the result does not depend on directory read order.
func SortFold(names []string) {
	sort.SliceStable(names, func(i, j int) bool {
		a, b := strings.ToLower(names[i]), strings.ToLower(names[j])
		if a != b {
			return a < b
		}
		return names[i] < names[j]
	})
}

// Static is an in-memory Scanner keyed by directory name. Useful for tests
// and for callers that already know their inventory.
type Static map[string][]string

// Traits returns a sorted copy of the configured names for dir.
func (s Static) Traits(dir string) ([]string, error) {
	names, ok := s[dir]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoDirectory, dir)
	}
	out := make([]string, 0, len(names))
	for _, n := range names {
		if strings.HasPrefix(n, ".") {
			continue
		}
		out = append(out, n)
	}
	SortFold(out)
	return out, nil
}
