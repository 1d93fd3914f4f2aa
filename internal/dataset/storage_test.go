package dataset

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalFileStorageLifecycle(t *testing.T) {
	dir := t.TempDir()
	storage := NewLocalFileStorageWithPath(dir)
	ctx := context.Background()

	path, err := storage.Store(ctx, strings.NewReader("a,b\n1,2\n"), "orders.csv")
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))
	assert.Equal(t, ".csv", filepath.Ext(path))

	exists, err := storage.Exists(ctx, path)
	require.NoError(t, err)
	assert.True(t, exists)

	rc, err := storage.Open(ctx, path)
	require.NoError(t, err)
	content, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,2\n", string(content))

	require.NoError(t, storage.Delete(ctx, path))
	exists, err = storage.Exists(ctx, path)
	require.NoError(t, err)
	assert.False(t, exists)

	// Deleting twice is not an error.
	assert.NoError(t, storage.Delete(ctx, path))
}

func TestLocalFileStorageUsesUniqueNames(t *testing.T) {
	storage := NewLocalFileStorageWithPath(t.TempDir())

	first, err := storage.Store(context.Background(), strings.NewReader("x"), "same.csv")
	require.NoError(t, err)
	second, err := storage.Store(context.Background(), strings.NewReader("y"), "same.csv")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestLocalFileStorageStaysInsideBasePath(t *testing.T) {
	dir := t.TempDir()
	storage := NewLocalFileStorageWithPath(dir)

	path, err := storage.Store(context.Background(), strings.NewReader("x"), "../../etc/passwd.csv")
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))
}

func TestLocalFileStorageOpenMissing(t *testing.T) {
	storage := NewLocalFileStorageWithPath(t.TempDir())
	_, err := storage.Open(context.Background(), filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}
