package vfs

import (
	"io"

	"github.com/overviewer/rio/vpath"
)

// ReadFS defines read-only operations over virtual paths. All backends
// MUST support this interface.
type ReadFS interface {
	// Open opens the resource at p for reading. It fails with
	// ErrNotFound if p does not resolve to an openable resource, or
	// ErrIO for any other storage failure. The returned stream must be
	// closed when no longer needed.
	Open(p vpath.Path) (io.ReadCloser, error)

	// FileType returns the kind of resource p resolves to. It fails
	// with ErrNotFound if p does not exist, and never reports success
	// for paths outside the backend's addressable space.
	FileType(p vpath.Path) (FileType, error)

	// ReadDir lists the direct children of the directory at p as a
	// lazy, finite, one-shot sequence of qualified paths, each bound to
	// this backend, in backend-defined order. Every direct child
	// appears exactly once; entries the backend cannot translate back
	// to a virtual path are skipped. ReadDir itself fails if p is not
	// a readable directory. Listings abandoned before exhaustion must
	// be closed so streaming backends can release their producers.
	ReadDir(p vpath.Path) (*DirEntries, error)
}

// WriteFS defines write operations over virtual paths.
type WriteFS interface {
	// Create creates or truncates the resource at p and opens it for
	// writing. It fails with an error matching ErrIO (or ErrNotFound,
	// backend permitting) if the parent location does not exist or is
	// not writable.
	Create(p vpath.Path) (io.WriteCloser, error)

	// Append opens an existing resource for append-only writes. It
	// fails with ErrNotFound if the resource does not already exist:
	// Append never creates.
	Append(p vpath.Path) (io.WriteCloser, error)
}

// FS combines the read and write capability contracts.
type FS interface {
	ReadFS
	WriteFS
}

// Exists reports whether p resolves to any resource on fsys. It never
// propagates an error; any failure collapses to false.
func Exists(fsys ReadFS, p vpath.Path) bool {
	_, err := fsys.FileType(p)
	return err == nil
}

// IsFile reports whether p resolves to a regular file on fsys. Failures
// collapse to false.
func IsFile(fsys ReadFS, p vpath.Path) bool {
	t, err := fsys.FileType(p)
	return err == nil && t.IsFile()
}

// IsDir reports whether p resolves to a directory on fsys. Failures
// collapse to false.
func IsDir(fsys ReadFS, p vpath.Path) bool {
	t, err := fsys.FileType(p)
	return err == nil && t.IsDir()
}

// Qualify binds p to fsys without checking existence. It never fails.
func Qualify(fsys ReadFS, p vpath.Path) QPath {
	return QPath{path: p, fs: fsys}
}
