package assets

import (
	"errors"
	"fmt"
	"io/fs"
)

// FSSource serves files from an fs.FS rooted at a fixed prefix, typically an
// embed.FS holding the UI bundle.
type FSSource struct {
	fsys fs.FS
	root string
}

// NewFSSource returns a Source over the subtree root of fsys.
// An empty root or "." uses fsys as is.
func NewFSSource(fsys fs.FS, root string) (*FSSource, error) {
	if fsys == nil {
		return nil, errors.New("assets: nil file system")
	}
	if root == "" {
		root = "."
	}
	sub, err := fs.Sub(fsys, root)
	if err != nil {
		return nil, fmt.Errorf("assets: open root %q: %w", root, err)
	}
	if _, err := fs.Stat(sub, "."); err != nil {
		return nil, fmt.Errorf("assets: open root %q: %w", root, err)
	}
	return &FSSource{fsys: sub, root: root}, nil
}

// Root returns the prefix the source was opened with.
func (s *FSSource) Root() string {
	return s.root
}

// Lookup reads the file stored under name. Directories and invalid paths
// report ErrNotFound.
func (s *FSSource) Lookup(name string) ([]byte, error) {
	name, ok := Normalize(name)
	if !ok {
		return nil, ErrNotFound
	}

	info, err := fs.Stat(s.fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrInvalid) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("assets: stat %q: %w", name, err)
	}
	if info.IsDir() {
		return nil, ErrNotFound
	}

	data, err := fs.ReadFile(s.fsys, name)
	if err != nil {
		return nil, fmt.Errorf("assets: read %q: %w", name, err)
	}
	return data, nil
}

// Walk calls fn for every regular file in lexical order.
func (s *FSSource) Walk(fn func(Entry) error) error {
	return fs.WalkDir(s.fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		return fn(Entry{Name: p, Size: info.Size()})
	})
}
