package s3

import (
	"context"
	"io"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/overviewer/rio/vfs"
	"github.com/overviewer/rio/vfstest"
	"github.com/overviewer/rio/vpath"
)

// setupTestServer starts a MinIO container, creates a bucket, and
// returns a client factory for backends namespaced inside it.
func setupTestServer(t *testing.T) *minio.Client {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "minio/minio:latest",
		ExposedPorts: []string{"9000/tcp"},
		Env: map[string]string{
			"MINIO_ROOT_USER":     "minioadmin",
			"MINIO_ROOT_PASSWORD": "minioadmin",
		},
		Cmd:        []string{"server", "/data"},
		WaitingFor: wait.ForHTTP("/minio/health/live").WithPort("9000/tcp"),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err, "failed to start MinIO container")
	t.Cleanup(func() {
		_ = container.Terminate(ctx)
	})

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
		Secure: false,
	})
	require.NoError(t, err)

	require.NoError(t, client.MakeBucket(ctx, "rio-test", minio.MakeBucketOptions{}))
	return client
}

func TestIntegrationConformance(t *testing.T) {
	client := setupTestServer(t)

	// Each suite test gets its own key namespace in the shared bucket.
	n := 0
	newFS := func(t *testing.T) vfs.FS {
		n++
		fsys, err := New(Config{
			Client: client,
			Bucket: "rio-test",
			Prefix: "suite-" + string(rune('a'+n)),
		})
		require.NoError(t, err)
		return fsys
	}

	vfstest.TestSuite(t, newFS, vfstest.ObjectStoreConfig())
}

func TestIntegrationPrefixIsolation(t *testing.T) {
	client := setupTestServer(t)

	newNS := func(prefix string) *FS {
		fsys, err := New(Config{Client: client, Bucket: "rio-test", Prefix: prefix})
		require.NoError(t, err)
		return fsys
	}
	left, right := newNS("left"), newNS("right")

	w, err := left.Create(vpath.New("only-here.txt"))
	require.NoError(t, err)
	_, err = w.Write([]byte("left side"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	// The other namespace cannot see it.
	assert.False(t, vfs.Exists(right, "only-here.txt"))
	assert.True(t, vfs.Exists(left, "only-here.txt"))

	// Listings stay inside the namespace and never leak key prefixes.
	entries, err := left.ReadDir(vpath.New(""))
	require.NoError(t, err)
	for {
		q, ok := entries.Next()
		if !ok {
			break
		}
		assert.NotContains(t, q.Path().String(), "left")
	}
}

func TestIntegrationVirtualDirectories(t *testing.T) {
	client := setupTestServer(t)

	fsys, err := New(Config{Client: client, Bucket: "rio-test", Prefix: "vdirs"})
	require.NoError(t, err)

	w, err := fsys.Create(vpath.New("nested/deep/object.bin"))
	require.NoError(t, err)
	_, err = w.Write([]byte{1, 2, 3})
	require.NoError(t, err)
	require.NoError(t, w.Close())

	// Every ancestor of an object is a visible virtual directory.
	assert.True(t, vfs.IsDir(fsys, "nested"))
	assert.True(t, vfs.IsDir(fsys, "nested/deep"))
	assert.True(t, vfs.IsFile(fsys, "nested/deep/object.bin"))

	r, err := fsys.Open(vpath.New("nested/deep/object.bin"))
	require.NoError(t, err)
	defer r.Close()
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, data)
}
