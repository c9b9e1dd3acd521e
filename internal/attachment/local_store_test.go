package attachment

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocalStore_PutOpenRemove(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	assert.NoError(t, err)

	ctx := context.Background()
	key := "abcdef-test-key.txt"
	content := []byte("hello attachment")

	err = store.Put(ctx, key, bytes.NewReader(content), "text/plain")
	assert.NoError(t, err)

	reader, contentType, err := store.Open(ctx, key)
	assert.NoError(t, err)
	defer reader.Close()

	got, err := io.ReadAll(reader)
	assert.NoError(t, err)
	assert.Equal(t, content, got)
	assert.Equal(t, "text/plain", contentType)

	err = store.Remove(ctx, key)
	assert.NoError(t, err)

	_, _, err = store.Open(ctx, key)
	assert.Error(t, err)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("read failed")
}

func TestLocalStore_PutCleansUpOnReadFailure(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	assert.NoError(t, err)

	ctx := context.Background()
	key := "abcdef-broken-upload.bin"

	err = store.Put(ctx, key, failingReader{}, "application/octet-stream")
	assert.Error(t, err)

	// The partial file must not survive a failed write.
	_, _, err = store.Open(ctx, key)
	assert.Error(t, err)
}

func TestLocalStore_RemoveMissingKeyIsNoError(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	assert.NoError(t, err)

	assert.NoError(t, store.Remove(context.Background(), "does-not-exist"))
}

func TestLocalStore_ShortKey(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	assert.NoError(t, err)

	ctx := context.Background()
	err = store.Put(ctx, "ab", bytes.NewReader([]byte("x")), "text/plain")
	assert.NoError(t, err)

	reader, _, err := store.Open(ctx, "ab")
	assert.NoError(t, err)
	reader.Close()
}
