package media

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLocalStorage(t *testing.T) (*LocalStorage, string) {
	t.Helper()
	dir := t.TempDir()
	storage, err := NewLocalStorage(&BackendConfig{LocalPath: dir})
	require.NoError(t, err)
	return storage, dir
}

func TestNewLocalStorage_ShouldCreateMissingDirectory(t *testing.T) {
	// given
	path := filepath.Join(t.TempDir(), "media", "FOTO")

	// when
	storage, err := NewLocalStorage(&BackendConfig{LocalPath: path})

	// then
	require.NoError(t, err)
	assert.Equal(t, path, storage.basePath)
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	entries, err := os.ReadDir(path)
	require.NoError(t, err)
	assert.Empty(t, entries, "write probe must not be left behind")
}

func TestNewLocalStorage_ShouldFailWhenPathIsAFile(t *testing.T) {
	// given
	file := filepath.Join(t.TempDir(), "occupied")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	// when
	_, err := NewLocalStorage(&BackendConfig{LocalPath: file})

	// then
	assert.Error(t, err)
}

func TestLocalStorage_StoreOpenStat(t *testing.T) {
	// given
	storage, dir := newLocalStorage(t)
	ctx := context.Background()
	content := []byte("0123456789")

	// when
	err := storage.Store(ctx, "a.png", bytes.NewReader(content))

	// then
	require.NoError(t, err)
	onDisk, err := os.ReadFile(filepath.Join(dir, "a.png"))
	require.NoError(t, err)
	assert.Equal(t, content, onDisk)

	info, err := storage.Stat(ctx, "a.png")
	require.NoError(t, err)
	assert.Equal(t, int64(10), info.Size)
	assert.False(t, info.CreatedAt.IsZero())

	reader, err := storage.Open(ctx, "a.png")
	require.NoError(t, err)
	defer reader.Close()
	read, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, content, read)
}

func TestLocalStorage_StoreShouldNotOverwrite(t *testing.T) {
	// given
	storage, dir := newLocalStorage(t)
	ctx := context.Background()
	require.NoError(t, storage.Store(ctx, "a.png", bytes.NewReader([]byte("first"))))

	// when
	err := storage.Store(ctx, "a.png", bytes.NewReader([]byte("second")))

	// then
	assert.Error(t, err)
	onDisk, _ := os.ReadFile(filepath.Join(dir, "a.png"))
	assert.Equal(t, "first", string(onDisk))
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("connection reset")
}

func TestLocalStorage_StoreShouldRemovePartialFileOnError(t *testing.T) {
	// given
	storage, dir := newLocalStorage(t)

	// when
	err := storage.Store(context.Background(), "broken.jpg", io.MultiReader(bytes.NewReader([]byte("abc")), failingReader{}))

	// then
	assert.Error(t, err)
	_, statErr := os.Stat(filepath.Join(dir, "broken.jpg"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestLocalStorage_MissingFileShouldBeNotFound(t *testing.T) {
	storage, _ := newLocalStorage(t)
	ctx := context.Background()

	_, err := storage.Open(ctx, "missing.jpg")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = storage.Stat(ctx, "missing.jpg")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStorage_ListShouldSkipDirectories(t *testing.T) {
	// given
	storage, dir := newLocalStorage(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "photo.jpg"), []byte("jpg"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("txt"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "album.jpg"), 0755))

	// when
	objects, err := storage.List(context.Background())

	// then
	require.NoError(t, err)
	names := make([]string, 0, len(objects))
	for _, obj := range objects {
		names = append(names, obj.Name)
	}
	assert.ElementsMatch(t, []string{"photo.jpg", "notes.txt"}, names)
}

func TestLocalStorage_ListShouldFailWhenDirectoryIsGone(t *testing.T) {
	// given
	storage, dir := newLocalStorage(t)
	require.NoError(t, os.RemoveAll(dir))

	// when
	objects, err := storage.List(context.Background())

	// then
	assert.Error(t, err)
	assert.Nil(t, objects)
}
