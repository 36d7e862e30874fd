// Package memory provides an in-memory backend over go-billy's memfs.
//
// It proves the capability contract against storage with no host
// filesystem at all, and gives tests a fast, hermetic backend.
package memory

import (
	"errors"
	"io"
	"io/fs"
	"os"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"

	"github.com/overviewer/rio/vfs"
	"github.com/overviewer/rio/vpath"
)

// FS is an in-memory filesystem backend. The zero value is not usable;
// construct with New.
type FS struct {
	bfs billy.Filesystem
}

// Compile-time interface check.
var _ vfs.FS = (*FS)(nil)

// New returns an empty in-memory backend.
func New() *FS {
	return &FS{bfs: memfs.New()}
}

// key maps a virtual path to the billy name that addresses it: the
// canonical component join.
func key(p vpath.Path) string {
	return p.Canon().String()
}

// Open opens the resource at p for reading.
func (m *FS) Open(p vpath.Path) (io.ReadCloser, error) {
	f, err := m.bfs.Open(key(p))
	if err != nil {
		return nil, translate("open", p, err)
	}
	return f, nil
}

// FileType returns the kind of resource p resolves to. The empty path is
// the backend's root directory.
func (m *FS) FileType(p vpath.Path) (vfs.FileType, error) {
	k := key(p)
	if k == "" {
		return vfs.TypeDir, nil
	}
	info, err := m.bfs.Stat(k)
	if err != nil {
		return vfs.TypeUnknown, translate("stat", p, err)
	}
	if info.IsDir() {
		return vfs.TypeDir, nil
	}
	return vfs.TypeFile, nil
}

// ReadDir lists the direct children of the directory at p.
func (m *FS) ReadDir(p vpath.Path) (*vfs.DirEntries, error) {
	ft, err := m.FileType(p)
	if err != nil {
		return nil, err
	}
	if !ft.IsDir() {
		return nil, vfs.NewIOError("read dir "+p.String(), errors.New("not a directory"))
	}

	infos, err := m.bfs.ReadDir(key(p))
	if err != nil {
		return nil, translate("read dir", p, err)
	}

	parent := p.Canon()
	i := 0
	return vfs.NewDirEntries(m, func() (vpath.Path, bool) {
		if i >= len(infos) {
			return "", false
		}
		name := infos[i].Name()
		i++
		return parent.Join(vpath.New(name)).Canon(), true
	}), nil
}

// Create creates or truncates the resource at p for writing. memfs
// supplies parent directories implicitly.
func (m *FS) Create(p vpath.Path) (io.WriteCloser, error) {
	f, err := m.bfs.Create(key(p))
	if err != nil {
		return nil, translate("create", p, err)
	}
	return f, nil
}

// Append opens an existing resource for append-only writes. It never
// creates.
func (m *FS) Append(p vpath.Path) (io.WriteCloser, error) {
	f, err := m.bfs.OpenFile(key(p), os.O_WRONLY|os.O_APPEND, 0o666)
	if err != nil {
		return nil, translate("append", p, err)
	}
	return f, nil
}

// MkdirAll provisions the directory at p and any missing parents. It is
// not part of the capability contract; callers that need directories to
// pre-exist (test fixtures, migrations off directory-tree storage) use
// it directly.
func (m *FS) MkdirAll(p vpath.Path) error {
	if err := m.bfs.MkdirAll(key(p), 0o755); err != nil {
		return translate("mkdir", p, err)
	}
	return nil
}

// translate maps billy outcomes into the shared error model.
func translate(op string, p vpath.Path, err error) error {
	msg := op + " " + p.String()
	if errors.Is(err, fs.ErrNotExist) {
		return vfs.NewNotFound(msg, err)
	}
	return vfs.NewIOError(msg, err)
}
