// Package assets provides read-only lookup of embedded UI files.
package assets

import (
	"errors"
	"io/fs"
	"path"
	"sort"
	"strings"
)

// ErrNotFound is returned when a path has no entry in a Source.
var ErrNotFound = errors.New("asset not found")

// Source is a read-only mapping from slash-separated paths to file content.
// Names are relative to the source root and carry no leading slash.
type Source interface {
	Lookup(name string) ([]byte, error)
}

// Entry describes a single file of a Walker.
type Entry struct {
	Name string
	Size int64
}

// Walker is implemented by sources that can enumerate their files.
type Walker interface {
	Walk(fn func(Entry) error) error
}

// Normalize turns a request path into a Source name.
// It returns false for paths that escape the root.
func Normalize(p string) (string, bool) {
	cleaned := path.Clean("/" + p)
	name := strings.TrimPrefix(cleaned, "/")
	if name == "" {
		return ".", true
	}
	if !fs.ValidPath(name) {
		return "", false
	}
	return name, true
}

// Map is an in-memory Source.
type Map map[string][]byte

// Lookup returns a copy of the content stored under name.
func (m Map) Lookup(name string) ([]byte, error) {
	name, ok := Normalize(name)
	if !ok {
		return nil, ErrNotFound
	}
	data, ok := m[name]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// Walk calls fn for every entry in name order.
func (m Map) Walk(fn func(Entry) error) error {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := fn(Entry{Name: name, Size: int64(len(m[name]))}); err != nil {
			return err
		}
	}
	return nil
}
