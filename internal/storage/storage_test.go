package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"inkwell/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRef(t *testing.T) {
	ref := NewRef(".PNG")
	assert.True(t, strings.HasPrefix(ref, "posts/"))
	assert.True(t, strings.HasSuffix(ref, ".png"))
	assert.NotEqual(t, ref, NewRef("png"))
}

func TestCleanRef(t *testing.T) {
	tests := []struct {
		ref   string
		valid bool
	}{
		{"posts/abc.png", true},
		{"posts/../config.yml", false},
		{"../posts/abc.png", false},
		{"/etc/passwd", false},
		{"other/abc.png", false},
		{"posts/", false},
		{"posts//abc.png", false},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			_, err := CleanRef(tt.ref)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidRef)
			}
		})
	}
}

func TestLocalStore_RoundTrip(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	ref, err := store.Save(ctx, "gif", []byte("GIF89a"))
	require.NoError(t, err)

	rc, err := store.Open(ctx, ref)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, "GIF89a", string(data))

	require.NoError(t, store.Delete(ctx, ref))
	_, err = store.Open(ctx, ref)
	assert.ErrorIs(t, err, ErrNotFound)

	// deleting twice is fine
	assert.NoError(t, store.Delete(ctx, ref))
}

func TestLocalStore_OpenDirectoryIsNotFound(t *testing.T) {
	root := t.TempDir()
	store, err := NewLocalStore(root)
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "posts", "x"), 0o750))

	_, err = store.Open(context.Background(), "posts/x")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStore_RejectsTraversal(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Open(context.Background(), "posts/../../etc/passwd")
	assert.ErrorIs(t, err, ErrInvalidRef)
}

func TestNew(t *testing.T) {
	store, err := New(context.Background(), &config.Config{ImageStorage: "local", ImageUploadDir: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &LocalStore{}, store)

	_, err = New(context.Background(), &config.Config{ImageStorage: "ftp"})
	assert.Error(t, err)

	_, err = New(context.Background(), &config.Config{ImageStorage: "gcs"})
	assert.Error(t, err)
}
