package vfs

import (
	"io"

	"github.com/overviewer/rio/vpath"
)

// QPath is a qualified path: a path value bound to the backend that can
// resolve it. It owns the path and borrows the backend; the backend is
// the sole source of truth for what the path resolves to.
type QPath struct {
	path vpath.Path
	fs   ReadFS
}

// Path returns the bare path.
func (q QPath) Path() vpath.Path {
	return q.path
}

// FS returns the bound backend.
func (q QPath) FS() ReadFS {
	return q.fs
}

// Open opens the resource at the bound path for reading.
func (q QPath) Open() (io.ReadCloser, error) {
	return q.fs.Open(q.path)
}

// FileType returns the kind of resource the bound path resolves to.
func (q QPath) FileType() (FileType, error) {
	return q.fs.FileType(q.path)
}

// Exists reports whether the bound path resolves to any resource.
func (q QPath) Exists() bool {
	return Exists(q.fs, q.path)
}

// IsFile reports whether the bound path resolves to a regular file.
func (q QPath) IsFile() bool {
	return IsFile(q.fs, q.path)
}

// IsDir reports whether the bound path resolves to a directory.
func (q QPath) IsDir() bool {
	return IsDir(q.fs, q.path)
}

// ReadDir lists the direct children of the bound path.
func (q QPath) ReadDir() (*DirEntries, error) {
	return q.fs.ReadDir(q.path)
}

// DirEntries is a lazy, finite, one-shot iterator over the entries of a
// directory, each re-bound to the backend that produced the listing.
//
// A caller that abandons the listing before exhaustion must Close it so
// a streaming backend can release its producer; Close is a no-op for
// pre-materialized listings and after exhaustion, so it is always safe.
type DirEntries struct {
	fs   ReadFS
	next func() (vpath.Path, bool)
	stop func()
	done bool
}

// NewDirEntries builds an entry iterator for fsys over next, which
// yields successive root-relative child paths until exhausted. Backends
// call this from ReadDir; next is invoked lazily, once per entry.
func NewDirEntries(fsys ReadFS, next func() (vpath.Path, bool)) *DirEntries {
	return &DirEntries{fs: fsys, next: next}
}

// NewStreamDirEntries builds an entry iterator over a live producer.
// stop releases the producer; it runs exactly once, at exhaustion or
// Close, whichever comes first.
func NewStreamDirEntries(fsys ReadFS, next func() (vpath.Path, bool), stop func()) *DirEntries {
	return &DirEntries{fs: fsys, next: next, stop: stop}
}

// Next returns the next entry, qualified against the producing backend.
// It returns false once the listing is exhausted or closed.
func (d *DirEntries) Next() (QPath, bool) {
	if d.done {
		return QPath{}, false
	}
	p, ok := d.next()
	if !ok {
		d.release()
		return QPath{}, false
	}
	return Qualify(d.fs, p), true
}

// Close releases the listing's producer without draining it. The
// iterator yields no further entries.
func (d *DirEntries) Close() error {
	d.release()
	return nil
}

func (d *DirEntries) release() {
	d.done = true
	if d.stop != nil {
		d.stop()
		d.stop = nil
	}
}

// Collect drains the iterator into a slice.
func (d *DirEntries) Collect() []QPath {
	var out []QPath
	for {
		q, ok := d.Next()
		if !ok {
			return out
		}
		out = append(out, q)
	}
}
