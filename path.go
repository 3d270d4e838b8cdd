package fat32ro

import (
	"strings"

	"github.com/pkg/errors"
)

// resolverState tracks where a path walk currently stands.
type resolverState int

const (
	stateAtRoot resolverState = iota
	stateInDir
	stateAtLeaf
)

// Open resolves a root-anchored slash-separated path to the Entry it
// names. The path must begin with "/"; anything else is ErrInvalidInput.
// Every non-final component must resolve to a directory; a non-final
// component that resolves to a regular file, or any component that does
// not resolve at all, is ErrNotFound.
func (fs *FS) Open(path string) (Entry, error) {
	if !strings.HasPrefix(path, "/") {
		return Entry{}, errors.Wrap(ErrInvalidInput, "fat32ro: path must be absolute")
	}

	parts := splitPath(path)
	state := stateAtRoot
	cluster := fs.geometry.RootCluster
	var current Entry

	if len(parts) == 0 {
		return Entry{
			fs:           fs,
			name:         "/",
			firstCluster: cluster,
			isDir:        true,
		}, nil
	}

	for i, part := range parts {
		last := i == len(parts)-1
		if state == stateAtLeaf {
			return Entry{}, ErrNotFound
		}

		dir := &Dir{fs: fs, firstCluster: cluster}
		entry, err := dir.Find(part)
		if err != nil {
			return Entry{}, err
		}

		current = entry
		if last {
			state = stateAtLeaf
			break
		}
		if !entry.isDir {
			return Entry{}, ErrNotFound
		}
		cluster = entry.firstCluster
		state = stateInDir
	}

	return current, nil
}

// splitPath breaks a path into its non-empty components, collapsing
// repeated and trailing slashes the way "/a//b/" -> ["a", "b"] would.
func splitPath(path string) []string {
	raw := strings.Split(path, "/")
	parts := make([]string, 0, len(raw))
	for _, p := range raw {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}
