package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLocalSaveOpenDelete(t *testing.T) {
	store, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	err = store.Save(ctx, "abc123.jpg", strings.NewReader("photo bytes"))
	require.NoError(t, err)

	content, err := store.Open(ctx, "abc123.jpg")
	require.NoError(t, err)
	data, err := io.ReadAll(content)
	require.NoError(t, err)
	require.NoError(t, content.Close())
	require.Equal(t, "photo bytes", string(data))

	require.NoError(t, store.Delete(ctx, "abc123.jpg"))

	_, err = store.Open(ctx, "abc123.jpg")
	require.Error(t, err)
}

func TestLocalDeleteMissingFails(t *testing.T) {
	store, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	// Record deletion is gated on a successful blob delete, so a missing
	// blob must report an error instead of pretending it was removed.
	err = store.Delete(context.Background(), "never-saved.jpg")
	require.Error(t, err)
}

func TestLocalOpenMissing(t *testing.T) {
	store, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	_, err = store.Open(context.Background(), "missing.jpg")
	require.Error(t, err)
}
