package s3

import (
	"bytes"
	"context"
	"io/fs"

	"github.com/minio/minio-go/v7"

	"github.com/overviewer/rio/vpath"
)

// writeFile buffers writes in memory and uploads the accumulated bytes
// as one object on Close. Object storage has no partial-write surface,
// so the upload is all-or-nothing at Close time.
type writeFile struct {
	fs     *FS
	key    string
	path   vpath.Path
	buf    bytes.Buffer
	closed bool
}

func (f *writeFile) Write(p []byte) (int, error) {
	if f.closed {
		return 0, fs.ErrClosed
	}
	return f.buf.Write(p)
}

func (f *writeFile) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true

	_, err := f.fs.client.PutObject(
		context.Background(),
		f.fs.bucket,
		f.key,
		bytes.NewReader(f.buf.Bytes()),
		int64(f.buf.Len()),
		minio.PutObjectOptions{ContentType: "application/octet-stream"},
	)
	if err != nil {
		return translate("write", f.path, err)
	}
	return nil
}
