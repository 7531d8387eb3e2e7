package blobmirror

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMirror_PutMem(t *testing.T) {
	ctx := context.Background()
	m, err := Open(ctx, "mem://", "daily/")
	require.NoError(t, err)
	defer m.Close()

	src := filepath.Join(t.TempDir(), "tidf.2024-01-01.daily.hosts.gz")
	require.NoError(t, os.WriteFile(src, []byte("feed bytes"), 0644))

	require.NoError(t, m.Put(ctx, "tidf.2024-01-01.daily.hosts.gz", src))

	data, err := m.bucket.ReadAll(ctx, "daily/tidf.2024-01-01.daily.hosts.gz")
	require.NoError(t, err)
	assert.Equal(t, "feed bytes", string(data))
}

func TestMirror_PutFile(t *testing.T) {
	ctx := context.Background()
	bucketDir := t.TempDir()

	m, err := Open(ctx, "file://"+filepath.ToSlash(bucketDir), "")
	require.NoError(t, err)
	defer m.Close()

	src := filepath.Join(t.TempDir(), "feed.gz")
	require.NoError(t, os.WriteFile(src, []byte("abc"), 0644))

	require.NoError(t, m.Put(ctx, "feed.gz", src))

	data, err := os.ReadFile(filepath.Join(bucketDir, "feed.gz"))
	require.NoError(t, err)
	assert.Equal(t, "abc", string(data))
}

func TestMirror_PutMissingSource(t *testing.T) {
	ctx := context.Background()
	m, err := Open(ctx, "mem://", "")
	require.NoError(t, err)
	defer m.Close()

	err = m.Put(ctx, "missing.gz", filepath.Join(t.TempDir(), "missing.gz"))
	assert.Error(t, err)
}

func TestOpen_UnknownScheme(t *testing.T) {
	_, err := Open(context.Background(), "nope://bucket", "")
	assert.Error(t, err)
}
