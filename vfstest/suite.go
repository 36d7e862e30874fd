// Package vfstest provides a conformance test suite for validating
// backend implementations against the vfs capability contracts.
//
// Backend packages import it and run the suite against a factory that
// produces a fresh, empty backend per test:
//
//	func TestConformance(t *testing.T) {
//	    vfstest.TestSuite(t, func(t *testing.T) vfs.FS {
//	        return memory.New()
//	    }, vfstest.ObjectStoreConfig())
//	}
//
// The suite validates the contract, not backend-specific behavior;
// Config carries the knobs where storage models legitimately differ.
package vfstest

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"golang.org/x/sync/errgroup"

	"github.com/overviewer/rio/vfs"
	"github.com/overviewer/rio/vpath"
)

// Config adapts the suite to a backend's storage model.
type Config struct {
	// Mkdir provisions a directory out of band, for backends whose
	// storage requires parents to exist before children can be created
	// beneath them. Backends with virtual directories leave it nil.
	Mkdir func(fsys vfs.FS, p vpath.Path) error

	// VirtualDirectories indicates directories exist only while
	// something lives beneath them (object stores). When true, the
	// suite does not expect an empty directory to be visible.
	VirtualDirectories bool

	// SkipTests lists subtest names to skip for documented behavioral
	// differences.
	SkipTests []string
}

// POSIXConfig returns configuration for directory-tree backends whose
// parents must exist; mkdir provisions a directory on the backend under
// test.
func POSIXConfig(mkdir func(fsys vfs.FS, p vpath.Path) error) Config {
	return Config{Mkdir: mkdir}
}

// ObjectStoreConfig returns configuration for key-value object stores
// with virtual directories and implicit parents.
func ObjectStoreConfig() Config {
	return Config{VirtualDirectories: true}
}

// Factory produces a fresh, empty backend. The suite creates and
// modifies files, so each invocation must start clean.
type Factory func(t *testing.T) vfs.FS

// TestSuite runs every applicable conformance test against backends
// produced by newFS.
func TestSuite(t *testing.T, newFS Factory, cfg Config) {
	skip := func(name string) bool {
		for _, s := range cfg.SkipTests {
			if s == name {
				return true
			}
		}
		return false
	}

	run := func(name string, fn func(t *testing.T, fsys vfs.FS)) {
		t.Run(name, func(t *testing.T) {
			if skip(name) {
				t.Skip("skipped by backend configuration")
				return
			}
			fn(t, newFS(t))
		})
	}

	run("RoundTrip", func(t *testing.T, fsys vfs.FS) { testRoundTrip(t, fsys) })
	run("CreateTruncates", func(t *testing.T, fsys vfs.FS) { testCreateTruncates(t, fsys) })
	run("AppendRequiresExisting", func(t *testing.T, fsys vfs.FS) { testAppendRequiresExisting(t, fsys) })
	run("AppendAppends", func(t *testing.T, fsys vfs.FS) { testAppendAppends(t, fsys) })
	run("NotFound", func(t *testing.T, fsys vfs.FS) { testNotFound(t, fsys) })
	run("Conveniences", func(t *testing.T, fsys vfs.FS) { testConveniences(t, fsys, cfg) })
	run("ReadDir", func(t *testing.T, fsys vfs.FS) { testReadDir(t, fsys, cfg) })
	run("EmptyDir", func(t *testing.T, fsys vfs.FS) { testEmptyDir(t, fsys, cfg) })
	run("QualifiedEntries", func(t *testing.T, fsys vfs.FS) { testQualifiedEntries(t, fsys, cfg) })
	run("ConcurrentReaders", func(t *testing.T, fsys vfs.FS) { testConcurrentReaders(t, fsys) })
}

// mkdir provisions p when the backend needs explicit directories.
func mkdir(t *testing.T, cfg Config, fsys vfs.FS, p vpath.Path) {
	t.Helper()
	if cfg.Mkdir == nil {
		return
	}
	if err := cfg.Mkdir(fsys, p); err != nil {
		t.Fatalf("mkdir(%q): setup failed: %v", p, err)
	}
}

// writeFile creates p with data, failing the test on any error.
func writeFile(t *testing.T, fsys vfs.FS, p vpath.Path, data []byte) {
	t.Helper()
	w, err := fsys.Create(p)
	if err != nil {
		t.Fatalf("Create(%q): got error %v, want nil", p, err)
	}
	if _, err := w.Write(data); err != nil {
		t.Fatalf("Write(%q): got error %v, want nil", p, err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close(%q): got error %v, want nil", p, err)
	}
}

// readFile reads p fully, failing the test on any error.
func readFile(t *testing.T, fsys vfs.FS, p vpath.Path) []byte {
	t.Helper()
	r, err := fsys.Open(p)
	if err != nil {
		t.Fatalf("Open(%q): got error %v, want nil", p, err)
	}
	defer func() {
		if err := r.Close(); err != nil {
			t.Errorf("Close(%q): got error %v", p, err)
		}
	}()
	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll(%q): got error %v, want nil", p, err)
	}
	return data
}

func testRoundTrip(t *testing.T, fsys vfs.FS) {
	content := []byte("round trip content")
	p := vpath.New("roundtrip.txt")

	writeFile(t, fsys, p, content)

	if got := readFile(t, fsys, p); !bytes.Equal(got, content) {
		t.Errorf("read back %q, want %q", got, content)
	}

	ft, err := fsys.FileType(p)
	if err != nil {
		t.Fatalf("FileType(%q): got error %v, want nil", p, err)
	}
	if !ft.IsFile() {
		t.Errorf("FileType(%q) = %v, want file", p, ft)
	}
}

func testCreateTruncates(t *testing.T, fsys vfs.FS) {
	p := vpath.New("truncate.txt")
	writeFile(t, fsys, p, []byte("a much longer first version"))
	writeFile(t, fsys, p, []byte("short"))

	if got := readFile(t, fsys, p); string(got) != "short" {
		t.Errorf("after re-create, content = %q, want %q", got, "short")
	}
}

func testAppendRequiresExisting(t *testing.T, fsys vfs.FS) {
	_, err := fsys.Append(vpath.New("never-created.log"))
	if err == nil {
		t.Fatal("Append(missing): got nil error, want ErrNotFound")
	}
	if !errors.Is(err, vfs.ErrNotFound) {
		t.Errorf("Append(missing): got %v, want ErrNotFound", err)
	}
}

func testAppendAppends(t *testing.T, fsys vfs.FS) {
	p := vpath.New("grow.log")
	writeFile(t, fsys, p, []byte("first|"))

	w, err := fsys.Append(p)
	if err != nil {
		t.Fatalf("Append(%q): got error %v, want nil", p, err)
	}
	if _, err := w.Write([]byte("second")); err != nil {
		t.Fatalf("Write: got error %v, want nil", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: got error %v, want nil", err)
	}

	if got := readFile(t, fsys, p); string(got) != "first|second" {
		t.Errorf("after append, content = %q, want %q", got, "first|second")
	}
}

func testNotFound(t *testing.T, fsys vfs.FS) {
	missing := vpath.New("ghost/of/a/file")

	if _, err := fsys.Open(missing); !errors.Is(err, vfs.ErrNotFound) {
		t.Errorf("Open(missing): got %v, want ErrNotFound", err)
	}
	if _, err := fsys.FileType(missing); !errors.Is(err, vfs.ErrNotFound) {
		t.Errorf("FileType(missing): got %v, want ErrNotFound", err)
	}
}

func testConveniences(t *testing.T, fsys vfs.FS, cfg Config) {
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

	mkdir(t, cfg, fsys, vpath.New("dir"))
	writeFile(t, fsys, vpath.New("dir/leaf.txt"), []byte("x"))

	if !vfs.Exists(fsys, "dir/leaf.txt") || !vfs.IsFile(fsys, "dir/leaf.txt") {
		t.Error("Exists/IsFile(dir/leaf.txt) = false, want true")
	}
	if vfs.IsDir(fsys, "dir/leaf.txt") {
		t.Error("IsDir(file) = true, want false")
	}
	if !vfs.IsDir(fsys, "dir") {
		t.Error("IsDir(dir) = false, want true")
	}
	if vfs.IsFile(fsys, "dir") {
		t.Error("IsFile(dir) = true, want false")
	}

	// Separator repetition never changes what a path resolves to.
	if !vfs.Exists(fsys, "/dir//leaf.txt") {
		t.Error("Exists(/dir//leaf.txt) = false, want true")
	}
}

func testReadDir(t *testing.T, fsys vfs.FS, cfg Config) {
	mkdir(t, cfg, fsys, vpath.New("list"))
	mkdir(t, cfg, fsys, vpath.New("list/sub"))
	writeFile(t, fsys, vpath.New("list/a.txt"), []byte("a"))
	writeFile(t, fsys, vpath.New("list/b.txt"), []byte("b"))
	writeFile(t, fsys, vpath.New("list/sub/c.txt"), []byte("c"))

	entries, err := fsys.ReadDir(vpath.New("list"))
	if err != nil {
		t.Fatalf("ReadDir(list): got error %v, want nil", err)
	}

	counts := map[string]int{}
	for {
		q, ok := entries.Next()
		if !ok {
			break
		}
		counts[q.Path().Canon().String()]++
	}

	// Every direct child appears exactly once; nothing recursive.
	for _, want := range []string{"list/a.txt", "list/b.txt", "list/sub"} {
		if counts[want] != 1 {
			t.Errorf("ReadDir(list): child %q seen %d times, want 1", want, counts[want])
		}
	}
	if counts["list/sub/c.txt"] != 0 {
		t.Error("ReadDir(list): recursive entry list/sub/c.txt present")
	}
	if len(counts) != 3 {
		t.Errorf("ReadDir(list): %d entries, want 3", len(counts))
	}

	// Listing a file fails outright.
	if _, err := fsys.ReadDir(vpath.New("list/a.txt")); err == nil {
		t.Error("ReadDir(file): got nil error, want non-nil")
	}
}

func testEmptyDir(t *testing.T, fsys vfs.FS, cfg Config) {
	if cfg.VirtualDirectories {
		t.Skip("directories are virtual; an empty directory is not visible")
		return
	}

	mkdir(t, cfg, fsys, vpath.New("empty"))

	if !vfs.IsDir(fsys, "empty") {
		t.Error("IsDir(empty) = false, want true")
	}
	entries, err := fsys.ReadDir(vpath.New("empty"))
	if err != nil {
		t.Fatalf("ReadDir(empty): got error %v, want nil", err)
	}
	if got := entries.Collect(); len(got) != 0 {
		t.Errorf("ReadDir(empty) = %d entries, want 0", len(got))
	}
}

func testQualifiedEntries(t *testing.T, fsys vfs.FS, cfg Config) {
	mkdir(t, cfg, fsys, vpath.New("q"))
	writeFile(t, fsys, vpath.New("q/payload.bin"), []byte("payload"))

	entries, err := fsys.ReadDir(vpath.New("q"))
	if err != nil {
		t.Fatalf("ReadDir(q): got error %v, want nil", err)
	}
	// The listing is abandoned after one entry; Close releases any
	// producer behind it.
	defer func() {
		if err := entries.Close(); err != nil {
			t.Errorf("Close(entries): got error %v", err)
		}
	}()

	q, ok := entries.Next()
	if !ok {
		t.Fatal("ReadDir(q): no entries, want 1")
	}

	// The entry re-binds to the same backend: it can be opened and
	// type-queried without naming the backend again.
	if !q.IsFile() {
		t.Errorf("entry %q: IsFile() = false, want true", q.Path())
	}
	r, err := q.Open()
	if err != nil {
		t.Fatalf("entry %q: Open() error = %v, want nil", q.Path(), err)
	}
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("entry %q: ReadAll() error = %v", q.Path(), err)
	}
	if string(data) != "payload" {
		t.Errorf("entry %q: content = %q, want %q", q.Path(), data, "payload")
	}
}

// testConcurrentReaders checks that one backend value can serve many
// independent readers at once, per the contract's sharing model.
func testConcurrentReaders(t *testing.T, fsys vfs.FS) {
	content := []byte("shared read-only content")
	p := vpath.New("shared.txt")
	writeFile(t, fsys, p, content)

	var eg errgroup.Group
	for i := 0; i < 8; i++ {
		eg.Go(func() error {
			for j := 0; j < 16; j++ {
				r, err := fsys.Open(p)
				if err != nil {
					return err
				}
				data, err := io.ReadAll(r)
				closeErr := r.Close()
				if err != nil {
					return err
				}
				if closeErr != nil {
					return closeErr
				}
				if !bytes.Equal(data, content) {
					return errors.New("concurrent read returned wrong content")
				}
				if !vfs.Exists(fsys, p) {
					return errors.New("Exists returned false for existing path")
				}
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		t.Errorf("concurrent readers: %v", err)
	}
}
