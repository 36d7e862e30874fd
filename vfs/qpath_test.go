package vfs_test

import (
	"bytes"
	"errors"
	"io"
	"sort"
	"testing"

	"github.com/overviewer/rio/vfs"
	"github.com/overviewer/rio/vpath"
)

// fakeFS is a minimal read-only backend over a fixed set of files,
// keyed by canonical path. Directories are implied by file keys.
type fakeFS struct {
	files map[string][]byte
}

func (f *fakeFS) Open(p vpath.Path) (io.ReadCloser, error) {
	data, ok := f.files[p.Canon().String()]
	if !ok {
		return nil, vfs.NewNotFound("open "+p.String(), nil)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeFS) FileType(p vpath.Path) (vfs.FileType, error) {
	key := p.Canon().String()
	if _, ok := f.files[key]; ok {
		return vfs.TypeFile, nil
	}
	for name := range f.files {
		if key == "" || len(name) > len(key) && name[:len(key)] == key && name[len(key)] == '/' {
			return vfs.TypeDir, nil
		}
	}
	return vfs.TypeUnknown, vfs.NewNotFound("stat "+p.String(), nil)
}

func (f *fakeFS) ReadDir(p vpath.Path) (*vfs.DirEntries, error) {
	if t, err := f.FileType(p); err != nil || !t.IsDir() {
		return nil, vfs.NewIOError("read dir "+p.String(), err)
	}
	key := p.Canon().String()
	seen := map[string]bool{}
	var children []string
	for name := range f.files {
		rest := name
		if key != "" {
			if len(name) <= len(key) || name[:len(key)] != key || name[len(key)] != '/' {
				continue
			}
			rest = name[len(key)+1:]
		}
		child, _ := vpath.New(rest).Components().Next()
		full := vpath.New(key).Join(child).Canon().String()
		if !seen[full] {
			seen[full] = true
			children = append(children, full)
		}
	}
	sort.Strings(children)

	i := 0
	return vfs.NewDirEntries(f, func() (vpath.Path, bool) {
		if i >= len(children) {
			return "", false
		}
		p := vpath.New(children[i])
		i++
		return p, true
	}), nil
}

func newFakeFS() *fakeFS {
	return &fakeFS{files: map[string][]byte{
		"a/one.txt": []byte("one"),
		"a/two.txt": []byte("two"),
		"a/b/three": []byte("three"),
		"top":       []byte("top"),
	}}
}

func TestQualify(t *testing.T) {
	fsys := newFakeFS()

	// Qualify never checks existence.
	q := vfs.Qualify(fsys, "no/such/thing")
	if got, want := q.Path().String(), "no/such/thing"; got != want {
		t.Errorf("Qualify().Path() = %q, want %q", got, want)
	}
	if q.Exists() {
		t.Error("Exists() = true for missing path, want false")
	}

	q = vfs.Qualify(fsys, "a/one.txt")
	if !q.Exists() || !q.IsFile() || q.IsDir() {
		t.Errorf("a/one.txt: Exists/IsFile/IsDir = %v/%v/%v, want true/true/false",
			q.Exists(), q.IsFile(), q.IsDir())
	}

	rc, err := q.Open()
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if string(data) != "one" {
		t.Errorf("Open() content = %q, want %q", data, "one")
	}
}

func TestConveniencesCollapseErrors(t *testing.T) {
	fsys := newFakeFS()
	missing := vpath.New("ghost")

	if vfs.Exists(fsys, missing) {
		t.Error("Exists(missing) = true, want false")
	}
	if vfs.IsFile(fsys, missing) {
		t.Error("IsFile(missing) = true, want false")
	}
	if vfs.IsDir(fsys, missing) {
		t.Error("IsDir(missing) = true, want false")
	}

	// A directory is not a file, and vice versa.
	if vfs.IsFile(fsys, "a") {
		t.Error("IsFile(dir) = true, want false")
	}
	if vfs.IsDir(fsys, "top") {
		t.Error("IsDir(file) = true, want false")
	}
}

func TestDirEntriesRebind(t *testing.T) {
	fsys := newFakeFS()

	entries, err := fsys.ReadDir("a")
	if err != nil {
		t.Fatalf("ReadDir(a) error = %v", err)
	}

	got := map[string]vfs.QPath{}
	for {
		q, ok := entries.Next()
		if !ok {
			break
		}
		got[q.Path().Canon().String()] = q
	}
	for _, want := range []string{"a/one.txt", "a/two.txt", "a/b"} {
		if _, ok := got[want]; !ok {
			t.Errorf("ReadDir(a) missing child %q (got %d entries)", want, len(got))
		}
	}
	if len(got) != 3 {
		t.Errorf("ReadDir(a) = %d entries, want 3", len(got))
	}

	// Each entry is bound back to the producing backend.
	sub := got["a/b"]
	if !sub.IsDir() {
		t.Error("entry a/b: IsDir() = false, want true")
	}
	subEntries, err := sub.ReadDir()
	if err != nil {
		t.Fatalf("entry a/b: ReadDir() error = %v", err)
	}
	q, ok := subEntries.Next()
	if !ok {
		t.Fatal("ReadDir(a/b): no entries, want 1")
	}
	if g, w := q.Path().Canon().String(), "a/b/three"; g != w {
		t.Errorf("nested entry = %q, want %q", g, w)
	}
	if _, ok := subEntries.Next(); ok {
		t.Error("ReadDir(a/b): more than 1 entry")
	}
}

func TestDirEntriesOneShot(t *testing.T) {
	fsys := newFakeFS()

	entries, err := fsys.ReadDir("a")
	if err != nil {
		t.Fatalf("ReadDir(a) error = %v", err)
	}
	first := entries.Collect()
	if len(first) != 3 {
		t.Fatalf("Collect() = %d entries, want 3", len(first))
	}
	if rest := entries.Collect(); len(rest) != 0 {
		t.Errorf("second Collect() = %d entries, want 0 (one-shot)", len(rest))
	}
}

// A streaming listing abandoned before exhaustion must release its
// producer on Close, exactly once, and yield nothing afterwards.
func TestStreamDirEntriesCloseReleasesProducer(t *testing.T) {
	fsys := newFakeFS()
	children := []string{"a", "b", "c"}

	newStream := func(stops *int) *vfs.DirEntries {
		i := 0
		return vfs.NewStreamDirEntries(fsys, func() (vpath.Path, bool) {
			if i >= len(children) {
				return "", false
			}
			p := vpath.New(children[i])
			i++
			return p, true
		}, func() { *stops++ })
	}

	// Abandoned early: Close stops the producer, later Next yields
	// nothing, and a second Close does not stop twice.
	var stops int
	entries := newStream(&stops)
	if _, ok := entries.Next(); !ok {
		t.Fatal("Next() = false, want first entry")
	}
	if err := entries.Close(); err != nil {
		t.Fatalf("Close() error = %v, want nil", err)
	}
	if stops != 1 {
		t.Fatalf("after Close: producer stopped %d times, want 1", stops)
	}
	if _, ok := entries.Next(); ok {
		t.Error("Next() after Close: ok = true, want false")
	}
	if err := entries.Close(); err != nil {
		t.Fatalf("second Close() error = %v, want nil", err)
	}
	if stops != 1 {
		t.Errorf("after second Close: producer stopped %d times, want 1", stops)
	}

	// Drained to exhaustion: the producer is released without Close.
	stops = 0
	entries = newStream(&stops)
	if got := len(entries.Collect()); got != len(children) {
		t.Fatalf("Collect() = %d entries, want %d", got, len(children))
	}
	if stops != 1 {
		t.Errorf("after exhaustion: producer stopped %d times, want 1", stops)
	}
}

func TestReadDirOnFileFails(t *testing.T) {
	fsys := newFakeFS()
	if _, err := fsys.ReadDir("top"); err == nil {
		t.Error("ReadDir(file) error = nil, want non-nil")
	} else if !errors.Is(err, vfs.ErrIO) && !errors.Is(err, vfs.ErrNotFound) {
		t.Errorf("ReadDir(file) error = %v, want ErrIO or ErrNotFound", err)
	}
}
