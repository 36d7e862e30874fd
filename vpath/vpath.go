// Package vpath provides a virtual, sandbox-friendly path type.
//
// A vpath.Path is modeled on a filesystem path with two crucial
// differences: it always uses '/' as the separator, and no path is ever
// absolute. A leading or trailing separator carries no meaning, so "/a/b"
// and "a/b" name the same path. If you'd like, you can think of each path
// as a plain sequence of non-empty string components with no other
// structure.
//
// Because paths have no root and no notion of "." or "..", they are safe
// to hand to a backend that confines all access beneath a fixed
// directory: every component is an ordinary name.
package vpath

import "strings"

// Separator is the sole component boundary recognized by this package.
// Backends must not substitute another separator.
const Separator = '/'

// Path is an immutable virtual path. The zero value is the empty path,
// which has no components.
//
// Two Paths with different separator repetition can name the same
// component sequence; use Equal, Compare, or Canon rather than == when
// that distinction matters.
type Path string

// New wraps s as a Path. No validation is performed.
func New(s string) Path {
	return Path(s)
}

// String returns the path's underlying representation, separators and all.
func (p Path) String() string {
	return string(p)
}

// IsEmpty reports whether the path has zero components, i.e. it is empty
// or consists solely of separators.
func (p Path) IsEmpty() bool {
	_, ok := p.Components().Next()
	return !ok
}

// Components returns a fresh bidirectional iterator over the path's
// components.
func (p Path) Components() *Components {
	return &Components{path: string(p), i: 0, j: len(p)}
}

// Parent returns the path formed by dropping the last component. The
// second result is false only when the path has zero components; the
// parent of a single top-level component is the empty path, present.
func (p Path) Parent() (Path, bool) {
	c := p.Components()
	if _, ok := c.NextBack(); !ok {
		return "", false
	}
	return c.Rest(), true
}

// FileName returns the last component, or false if there are zero
// components.
func (p Path) FileName() (string, bool) {
	last, ok := p.Components().NextBack()
	if !ok {
		return "", false
	}
	return string(last), true
}

// Ext returns the portion of the file name after its last dot. It is
// absent when the file name has no dot, and empty (but present) when the
// dot is the final character. The lookup never crosses a component
// boundary: a dot in an earlier component does not count.
func (p Path) Ext() (string, bool) {
	name, ok := p.FileName()
	if !ok {
		return "", false
	}
	i := strings.LastIndexByte(name, '.')
	if i < 0 {
		return "", false
	}
	return name[i+1:], true
}

// Join returns a new path with q appended as additional segments. The
// receiver is not mutated.
func (p Path) Join(q Path) Path {
	b := From(p)
	b.Push(q)
	return b.Path()
}

// Equal reports whether p and q have identical component sequences,
// independent of separator repetition or leading/trailing separators.
func (p Path) Equal(q Path) bool {
	return p.Compare(q) == 0
}

// Compare orders p and q lexicographically by component sequence. It
// returns -1, 0, or +1.
func (p Path) Compare(q Path) int {
	a, b := p.Components(), q.Components()
	for {
		ca, aok := a.Next()
		cb, bok := b.Next()
		switch {
		case !aok && !bok:
			return 0
		case !aok:
			return -1
		case !bok:
			return +1
		}
		if c := strings.Compare(string(ca), string(cb)); c != 0 {
			return c
		}
	}
}

// Canon returns the canonical form of p: its components joined with a
// single separator and nothing else. Component-equal paths share one
// canonical form, so Canon is suitable for map keys and hashing.
func (p Path) Canon() Path {
	var parts []string
	c := p.Components()
	for {
		part, ok := c.Next()
		if !ok {
			break
		}
		parts = append(parts, string(part))
	}
	return Path(strings.Join(parts, string(Separator)))
}

// Buf is an owned, growable path buffer. The zero value is an empty
// buffer ready for use.
type Buf struct {
	inner []byte
}

// NewBuf returns an empty Buf.
func NewBuf() *Buf {
	return &Buf{}
}

// From returns a Buf seeded with the contents of p.
func From(p Path) *Buf {
	return &Buf{inner: []byte(p)}
}

// Push appends p as one more run of path segments, inserting a separator
// only if neither the buffer's tail nor p's head already supplies one.
func (b *Buf) Push(p Path) {
	tailSep := len(b.inner) > 0 && b.inner[len(b.inner)-1] == Separator
	headSep := len(p) > 0 && p[0] == Separator
	if !tailSep && !headSep {
		b.inner = append(b.inner, Separator)
	}
	b.inner = append(b.inner, p...)
}

// Path returns the accumulated value. The Buf remains usable.
func (b *Buf) Path() Path {
	return Path(b.inner)
}

// String returns the accumulated value as a string.
func (b *Buf) String() string {
	return string(b.inner)
}
