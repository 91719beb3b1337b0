package fs

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightpages/brightpages/pkg/cms"
)

func TestNewRequiresBaseDir(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestNewCreatesBaseDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "uploads")

	backend, err := New(Config{BaseDir: dir})
	require.NoError(t, err)
	assert.Equal(t, dir, backend.BaseDir())

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestStoreOpenDelete(t *testing.T) {
	backend, err := New(Config{BaseDir: t.TempDir()})
	require.NoError(t, err)
	ctx := context.Background()

	handle, err := backend.Store(ctx, "logo-abc123.png", "image/png", strings.NewReader("payload"))
	require.NoError(t, err)
	assert.Equal(t, "logo-abc123.png", handle)

	rc, contentType, err := backend.Open(ctx, handle)
	require.NoError(t, err)
	defer rc.Close()

	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(got))
	assert.Equal(t, "image/png", contentType)

	require.NoError(t, backend.Delete(ctx, handle))

	_, _, err = backend.Open(ctx, handle)
	assert.ErrorIs(t, err, cms.ErrBlobNotFound)
	assert.ErrorIs(t, backend.Delete(ctx, handle), cms.ErrBlobNotFound)
}

func TestOpenUnknownHandle(t *testing.T) {
	backend, err := New(Config{BaseDir: t.TempDir()})
	require.NoError(t, err)

	_, _, err = backend.Open(context.Background(), "never-stored.png")
	assert.ErrorIs(t, err, cms.ErrBlobNotFound)
}

func TestRejectsTraversal(t *testing.T) {
	backend, err := New(Config{BaseDir: t.TempDir()})
	require.NoError(t, err)
	ctx := context.Background()

	for _, handle := range []string{"../escape", "a/../../b", "/etc/passwd"} {
		_, _, err := backend.Open(ctx, handle)
		assert.ErrorIs(t, err, cms.ErrBlobNotFound, "handle %q", handle)

		_, err = backend.Store(ctx, handle, "image/png", strings.NewReader("x"))
		assert.ErrorIs(t, err, cms.ErrBlobNotFound, "handle %q", handle)
	}
}
