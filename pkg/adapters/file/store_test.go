package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/orgtree/pkg/adapters/file"
	"github.com/aretw0/orgtree/pkg/domain"
	"github.com/aretw0/orgtree/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure Store implements SessionStore
var _ ports.SessionStore = (*file.Store)(nil)

func TestFileStore_Contract(t *testing.T) {
	ports.RunSessionStoreContract(t, file.New(t.TempDir()))
}

func TestFileStore_WritesIndentedJSON(t *testing.T) {
	dir := t.TempDir()
	store := file.New(dir)

	err := store.Save(context.Background(), domain.NewSession("acme", domain.Chart{ID: 1}))
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "acme.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  \"chart\": {")

	// No temp files left behind.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFileStore_RejectsUnsafeIDs(t *testing.T) {
	store := file.New(t.TempDir())
	ctx := context.Background()

	err := store.Save(ctx, domain.NewSession("../escape", domain.Chart{ID: 1}))
	assert.ErrorIs(t, err, domain.ErrInvalidSessionID)

	_, err = store.Load(ctx, "")
	assert.ErrorIs(t, err, domain.ErrInvalidSessionID)

	assert.ErrorIs(t, store.Delete(ctx, "a/b"), domain.ErrInvalidSessionID)
}

func TestFileStore_ListMissingDirectory(t *testing.T) {
	store := file.New(filepath.Join(t.TempDir(), "missing"))

	sessions, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestFileStore_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0644))

	_, err := file.New(dir).Load(context.Background(), "broken")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestNew_DefaultPath(t *testing.T) {
	assert.Equal(t, filepath.Join(".orgtree", "sessions"), file.New("").BasePath)
}
