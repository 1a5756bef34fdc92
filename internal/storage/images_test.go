package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/gardenia/internal/apperr"
)

func TestUploadAndDelete(t *testing.T) {
	ctx := context.Background()
	store, err := NewImageStore(t.TempDir(), "/images/")
	require.NoError(t, err)

	img, err := store.Upload(ctx, "monstera.JPG", strings.NewReader("fake image bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(img.ID, ".jpg"))
	assert.Equal(t, "/images/"+img.ID, img.URL)

	data, err := os.ReadFile(filepath.Join(store.Dir(), img.ID))
	require.NoError(t, err)
	assert.Equal(t, "fake image bytes", string(data))

	require.NoError(t, store.Delete(ctx, img.ID))
	_, err = os.Stat(filepath.Join(store.Dir(), img.ID))
	assert.True(t, os.IsNotExist(err))

	// Deleting a missing file is not an error.
	assert.NoError(t, store.Delete(ctx, img.ID))
}

func TestUploadRejectsUnknownExtension(t *testing.T) {
	store, err := NewImageStore(t.TempDir(), "/images")
	require.NoError(t, err)

	_, err = store.Upload(context.Background(), "malware.exe", strings.NewReader("x"))
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.Validation))
}

func TestDeleteRejectsPathTraversal(t *testing.T) {
	store, err := NewImageStore(t.TempDir(), "/images")
	require.NoError(t, err)

	for _, id := range []string{"", "../etc/passwd", "a/b.jpg"} {
		err := store.Delete(context.Background(), id)
		assert.True(t, apperr.Is(err, apperr.Validation), "id %q", id)
	}
}
