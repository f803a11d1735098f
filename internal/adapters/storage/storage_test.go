package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_SaveAndDelete(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStorage(filepath.Join(dir, "uploads"), "/uploads/")
	require.NoError(t, err)
	ctx := context.Background()

	stored, err := s.Save(ctx, "abc.pdf", strings.NewReader("%PDF-1.4"), 8, "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, "abc.pdf", stored.Key)
	assert.Equal(t, "/uploads/abc.pdf", stored.URL)

	data, err := os.ReadFile(stored.Path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(data))

	require.NoError(t, s.Delete(ctx, "abc.pdf"))
	_, err = os.Stat(stored.Path)
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, s.Delete(ctx, "abc.pdf"), "deleting a missing file succeeds")
}

func TestLocalStorage_RejectsTraversal(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir(), "/uploads")
	require.NoError(t, err)
	ctx := context.Background()

	_, err = s.Save(ctx, "../escape.pdf", strings.NewReader("x"), 1, "application/pdf")
	assert.Error(t, err)
	assert.Error(t, s.Delete(ctx, "a/b.pdf"))
}

func TestLocalStorage_RefusesOverwrite(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir(), "/uploads")
	require.NoError(t, err)
	ctx := context.Background()

	_, err = s.Save(ctx, "same.png", strings.NewReader("one"), 3, "image/png")
	require.NoError(t, err)
	_, err = s.Save(ctx, "same.png", strings.NewReader("two"), 3, "image/png")
	assert.Error(t, err)
}

func TestCloudinaryKey(t *testing.T) {
	key := CloudinaryKey("raw", "mfi/documents/abc")
	assert.Equal(t, "raw:mfi/documents/abc", key)

	rt, id, err := ParseCloudinaryKey(key)
	require.NoError(t, err)
	assert.Equal(t, "raw", rt)
	assert.Equal(t, "mfi/documents/abc", id)

	assert.Equal(t, "image:x", CloudinaryKey("", "x"))

	_, _, err = ParseCloudinaryKey("no-separator")
	assert.Error(t, err)
}
