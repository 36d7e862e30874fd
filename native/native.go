// Package native provides the reference backend: a local filesystem
// confined beneath a fixed root directory.
//
// Every virtual path resolves to root plus the path's components joined
// in order; listings translate each real entry back into a root-relative
// virtual path, so absolute filesystem details never leak to callers.
package native

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/overviewer/rio/vfs"
	"github.com/overviewer/rio/vpath"
)

// FS is a native, local filesystem backend. It passes operations through
// to the host filesystem under a root prefix. The root is immutable
// after construction, so one FS may be shared by concurrent readers.
type FS struct {
	root string
}

// Compile-time interface check.
var _ vfs.FS = (*FS)(nil)

// New returns a backend rooted at the real directory root. The root is
// opaque to callers; it is never exposed through listings or lookups.
func New(root string) *FS {
	return &FS{root: root}
}

// resolve joins the virtual path's components onto the root in order.
// No component is interpreted as an escape; any literal segment,
// ".." included, is an ordinary name for the host to resolve. The
// concatenation is deliberately not cleaned: a lexical clean would
// collapse "missing/../f" before the host could reject the nonexistent
// intermediate.
func (n *FS) resolve(p vpath.Path) string {
	real := n.root
	c := p.Components()
	for {
		part, ok := c.Next()
		if !ok {
			break
		}
		real += string(os.PathSeparator) + string(part)
	}
	return real
}

// unresolve recovers the virtual path for a real path beneath the root.
// It reports false for real paths that do not sit inside the root; such
// listings entries are dropped rather than surfaced.
func (n *FS) unresolve(real string) (vpath.Path, bool) {
	rel, err := filepath.Rel(n.root, real)
	if err != nil {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", false
	}
	if rel == "." {
		return "", true
	}
	return vpath.New(rel), true
}

// Open opens the resource at p for reading.
func (n *FS) Open(p vpath.Path) (io.ReadCloser, error) {
	f, err := os.Open(n.resolve(p))
	if err != nil {
		return nil, translate("open", p, err)
	}
	return f, nil
}

// FileType returns the kind of resource p resolves to. Irregular host
// resources (sockets, devices) report not found, matching the contract's
// two-kind model.
func (n *FS) FileType(p vpath.Path) (vfs.FileType, error) {
	info, err := os.Stat(n.resolve(p))
	if err != nil {
		return vfs.TypeUnknown, translate("stat", p, err)
	}
	switch {
	case info.IsDir():
		return vfs.TypeDir, nil
	case info.Mode().IsRegular():
		return vfs.TypeFile, nil
	default:
		return vfs.TypeUnknown, vfs.NewNotFound("stat "+p.String(), fs.ErrNotExist)
	}
}

// ReadDir lists the direct children of the directory at p. Each entry is
// translated back into a root-relative virtual path; entries that cannot
// be expressed beneath the root are skipped.
func (n *FS) ReadDir(p vpath.Path) (*vfs.DirEntries, error) {
	real := n.resolve(p)
	entries, err := os.ReadDir(real)
	if err != nil {
		return nil, translate("read dir", p, err)
	}

	i := 0
	return vfs.NewDirEntries(n, func() (vpath.Path, bool) {
		for i < len(entries) {
			name := entries[i].Name()
			i++
			if child, ok := n.unresolve(filepath.Join(real, name)); ok {
				return child, true
			}
		}
		return "", false
	}), nil
}

// Create creates or truncates the resource at p for writing. The parent
// directory must already exist.
func (n *FS) Create(p vpath.Path) (io.WriteCloser, error) {
	f, err := os.Create(n.resolve(p))
	if err != nil {
		return nil, translate("create", p, err)
	}
	return f, nil
}

// Append opens an existing resource for append-only writes. It never
// creates: a missing target reports not found.
func (n *FS) Append(p vpath.Path) (io.WriteCloser, error) {
	f, err := os.OpenFile(n.resolve(p), os.O_WRONLY|os.O_APPEND, 0)
	if err != nil {
		return nil, translate("append", p, err)
	}
	return f, nil
}

// translate maps host filesystem outcomes into the shared error model:
// a missing target becomes ErrNotFound, everything else ErrIO, with the
// OS diagnostic preserved.
func translate(op string, p vpath.Path, err error) error {
	msg := op + " " + p.String()
	if errors.Is(err, fs.ErrNotExist) {
		return vfs.NewNotFound(msg, err)
	}
	return vfs.NewIOError(msg, err)
}
