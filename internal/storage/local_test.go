package storage_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dukerupert/labelbot/internal"
	"github.com/dukerupert/labelbot/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := storage.NewLocalStore(dir, "/labels/")
	require.NoError(t, err)

	key := storage.LabelKey("9400100000000000000000")
	assert.Equal(t, "labels/9400100000000000000000.pdf", key)

	ok, err := s.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	url, err := s.Put(ctx, key, strings.NewReader("%PDF-1.4"), "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, "/labels/labels/9400100000000000000000.pdf", url)

	data, err := os.ReadFile(filepath.Join(dir, "labels", "9400100000000000000000.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(data))

	ok, err = s.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)

	rc, err := s.Get(ctx, key)
	require.NoError(t, err)
	got, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(got))

	_, err = s.Put(ctx, key, strings.NewReader("%PDF-1.7"), "application/pdf")
	require.NoError(t, err)
	data, err = os.ReadFile(filepath.Join(dir, "labels", "9400100000000000000000.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7", string(data), "put overwrites")

	_, err = s.Get(ctx, storage.LabelKey("9400199999999999999999"))
	var se *storage.StorageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "not_found", se.ErrorCode())
}

func TestLocalStore_RejectsTraversal(t *testing.T) {
	s, err := storage.NewLocalStore(t.TempDir(), "/labels")
	require.NoError(t, err)

	for _, key := range []string{"", "../escape.pdf", "labels/../../x", "/"} {
		t.Run(key, func(t *testing.T) {
			_, err := s.Put(context.Background(), key, strings.NewReader("x"), "text/plain")
			var se *storage.StorageError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, "invalid", se.ErrorCode())
		})
	}
}

func TestNew(t *testing.T) {
	t.Run("local", func(t *testing.T) {
		s, err := storage.New(internal.StorageConfig{Provider: "local", LocalPath: t.TempDir(), LocalURL: "/labels"})
		require.NoError(t, err)
		assert.IsType(t, &storage.LocalStore{}, s)
	})

	t.Run("none disables archiving", func(t *testing.T) {
		s, err := storage.New(internal.StorageConfig{Provider: "none"})
		require.NoError(t, err)
		assert.Nil(t, s)
	})

	t.Run("r2 requires account", func(t *testing.T) {
		_, err := storage.New(internal.StorageConfig{Provider: "r2"})
		assert.ErrorIs(t, err, storage.ErrR2AccountIDRequired)
	})

	t.Run("r2 requires bucket", func(t *testing.T) {
		_, err := storage.New(internal.StorageConfig{Provider: "r2", R2AccountID: "acct", R2AccessKeyID: "k", R2SecretKey: "s"})
		assert.ErrorIs(t, err, storage.ErrR2BucketRequired)
	})

	t.Run("unknown provider", func(t *testing.T) {
		_, err := storage.New(internal.StorageConfig{Provider: "ftp"})
		assert.Error(t, err)
	})
}
