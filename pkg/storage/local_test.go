package storage_test

import (
	"io"
	"strings"
	"testing"

	"github.com/shashiranjanraj/pdm/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLocal(t *testing.T) storage.Disk {
	t.Helper()
	return storage.NewLocal(t.TempDir(), "http://localhost:8080/uploads")
}

func TestLocalPutGet(t *testing.T) {
	disk := newLocal(t)

	require.NoError(t, disk.Put("products/1.jpg", []byte("fake image bytes")))
	assert.True(t, disk.Exists("products/1.jpg"))

	data, err := disk.Get("products/1.jpg")
	require.NoError(t, err)
	assert.Equal(t, "fake image bytes", string(data))

	size, err := disk.Size("products/1.jpg")
	require.NoError(t, err)
	assert.EqualValues(t, 16, size)
}

func TestLocalPutStream(t *testing.T) {
	disk := newLocal(t)

	require.NoError(t, disk.PutStream("products/2.png", strings.NewReader("streamed")))

	rc, err := disk.GetStream("products/2.png")
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "streamed", string(data))
}

func TestLocalURL(t *testing.T) {
	disk := newLocal(t)
	assert.Equal(t, "http://localhost:8080/uploads/products/1.jpg", disk.URL("products/1.jpg"))
	assert.Equal(t, "http://localhost:8080/uploads/products/1.jpg", disk.URL("/products/1.jpg"))
}

func TestLocalDelete(t *testing.T) {
	disk := newLocal(t)

	require.NoError(t, disk.Put("products/1.jpg", []byte("x")))
	require.NoError(t, disk.Delete("products/1.jpg"))
	assert.False(t, disk.Exists("products/1.jpg"))

	// Deleting a missing file is a no-op.
	require.NoError(t, disk.Delete("products/1.jpg"))
}

func TestLocalFiles(t *testing.T) {
	disk := newLocal(t)

	require.NoError(t, disk.Put("products/1.jpg", []byte("a")))
	require.NoError(t, disk.Put("products/2.png", []byte("b")))
	require.NoError(t, disk.MakeDirectory("products/nested"))

	files, err := disk.Files("products")
	require.NoError(t, err)
	assert.Len(t, files, 2, "directories are not listed as files")
}
