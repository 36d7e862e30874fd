package s3

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/overviewer/rio/vfs"
	"github.com/overviewer/rio/vpath"
)

// FS is an object-storage backend. Its state (client, bucket, prefix)
// is immutable after construction, so one FS may be shared by
// concurrent readers.
type FS struct {
	client *minio.Client
	bucket string
	prefix string
}

// Compile-time interface check.
var _ vfs.FS = (*FS)(nil)

// New returns a backend confined beneath cfg.Prefix in cfg.Bucket.
func New(cfg Config) (*FS, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	client := cfg.Client
	if client == nil {
		var err error
		client, err = minio.New(cfg.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
			Secure: cfg.UseSSL,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create client: %w", err)
		}
	}

	return &FS{
		client: client,
		bucket: cfg.Bucket,
		prefix: strings.Trim(cfg.Prefix, "/"),
	}, nil
}

// key maps a virtual path to the object key that addresses it: the
// backend prefix joined with the path's canonical component form.
func (s *FS) key(p vpath.Path) string {
	canon := p.Canon().String()
	if s.prefix == "" {
		return canon
	}
	if canon == "" {
		return s.prefix
	}
	return s.prefix + "/" + canon
}

// unkey recovers the virtual path for an object key. It reports false
// for keys that do not extend the backend prefix; such listing entries
// are dropped.
func (s *FS) unkey(objKey string) (vpath.Path, bool) {
	rel := objKey
	if s.prefix != "" {
		if !strings.HasPrefix(objKey, s.prefix+"/") {
			return "", false
		}
		rel = strings.TrimPrefix(objKey, s.prefix+"/")
	}
	rel = strings.Trim(rel, "/")
	if rel == "" {
		return "", false
	}
	return vpath.New(rel), true
}

// dirPrefix returns the listing prefix for the directory key k.
func dirPrefix(k string) string {
	if k == "" {
		return ""
	}
	return k + "/"
}

// Open opens the object at p for reading. The stat up front surfaces a
// missing object at open time rather than on first read.
func (s *FS) Open(p vpath.Path) (io.ReadCloser, error) {
	ctx := context.Background()
	k := s.key(p)

	if _, err := s.client.StatObject(ctx, s.bucket, k, minio.StatObjectOptions{}); err != nil {
		return nil, translate("open", p, err)
	}
	obj, err := s.client.GetObject(ctx, s.bucket, k, minio.GetObjectOptions{})
	if err != nil {
		return nil, translate("open", p, err)
	}
	return obj, nil
}

// FileType returns the kind of resource p resolves to. An object hit is
// a file; otherwise a one-key prefix probe decides between a virtual
// directory and not found.
func (s *FS) FileType(p vpath.Path) (vfs.FileType, error) {
	ctx := context.Background()
	k := s.key(p)

	if p.IsEmpty() {
		// The root always exists.
		return vfs.TypeDir, nil
	}

	_, err := s.client.StatObject(ctx, s.bucket, k, minio.StatObjectOptions{})
	if err == nil {
		return vfs.TypeFile, nil
	}
	if notFoundResponse(err) {
		if s.anyObjectUnder(ctx, dirPrefix(k)) {
			return vfs.TypeDir, nil
		}
		return vfs.TypeUnknown, translate("stat", p, err)
	}
	return vfs.TypeUnknown, translate("stat", p, err)
}

// anyObjectUnder reports whether at least one object lives under the
// given listing prefix.
func (s *FS) anyObjectUnder(ctx context.Context, prefix string) bool {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	for object := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:  prefix,
		MaxKeys: 1,
	}) {
		return object.Err == nil
	}
	return false
}

// ReadDir lists the direct children of the directory at p, streamed
// lazily off the listing. Keys that do not extend the backend prefix
// are dropped from the listing. The entries must be closed if the
// caller abandons them before exhaustion; Close stops the stream.
func (s *FS) ReadDir(p vpath.Path) (*vfs.DirEntries, error) {
	ft, err := s.FileType(p)
	if err != nil {
		return nil, err
	}
	if !ft.IsDir() {
		return nil, vfs.NewIOError("read dir "+p.String(), fmt.Errorf("not a directory"))
	}

	ctx, cancel := context.WithCancel(context.Background())
	ch := s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    dirPrefix(s.key(p)),
		Recursive: false,
	})

	return vfs.NewStreamDirEntries(s, func() (vpath.Path, bool) {
		for object := range ch {
			if object.Err != nil {
				continue
			}
			child, ok := s.unkey(object.Key)
			if !ok {
				continue
			}
			return child, true
		}
		return "", false
	}, cancel), nil
}

// Create opens a writer whose contents become the object at p when
// closed. Parents are implicit in object storage, so Create cannot fail
// on a missing directory.
func (s *FS) Create(p vpath.Path) (io.WriteCloser, error) {
	return &writeFile{fs: s, key: s.key(p), path: p}, nil
}

// Append opens a writer that extends the existing object at p; the
// combined contents upload on Close. It never creates, and it is not
// atomic with respect to concurrent writers.
func (s *FS) Append(p vpath.Path) (io.WriteCloser, error) {
	ctx := context.Background()
	k := s.key(p)

	if _, err := s.client.StatObject(ctx, s.bucket, k, minio.StatObjectOptions{}); err != nil {
		return nil, translate("append", p, err)
	}
	obj, err := s.client.GetObject(ctx, s.bucket, k, minio.GetObjectOptions{})
	if err != nil {
		return nil, translate("append", p, err)
	}
	defer func() { _ = obj.Close() }()

	existing, err := io.ReadAll(obj)
	if err != nil {
		return nil, translate("append", p, err)
	}

	f := &writeFile{fs: s, key: k, path: p}
	f.buf.Write(existing)
	return f, nil
}

// notFoundResponse reports whether err is the server saying the key or
// bucket does not exist.
func notFoundResponse(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.Code == "NoSuchKey" || resp.Code == "NoSuchBucket"
}

// translate maps server error responses into the shared error model.
func translate(op string, p vpath.Path, err error) error {
	msg := op + " " + p.String()
	if notFoundResponse(err) {
		return vfs.NewNotFound(msg, err)
	}
	return vfs.NewIOError(msg, err)
}
