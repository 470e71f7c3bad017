package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/turing/pkg/adapters/file"
	"github.com/aretw0/turing/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_Contract(t *testing.T) {
	ports.RunProgramStoreContract(t, file.New(t.TempDir()))
}

func TestFileStore_Layout(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "lib")
	store := file.New(dir)
	ctx := context.Background()

	names, err := store.List(ctx)
	require.NoError(t, err, "missing directory lists as empty")
	assert.Empty(t, names)

	require.NoError(t, store.Save(ctx, "v1.2", []byte("source")))

	data, err := os.ReadFile(filepath.Join(dir, "v1.2.turing"))
	require.NoError(t, err)
	assert.Equal(t, "source", string(data))

	// Foreign files and directories are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), nil, 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.turing"), 0o755))

	names, err = store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"v1.2"}, names)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".tmp-", "temp files must be cleaned up")
	}
}

func TestNew_DefaultPath(t *testing.T) {
	assert.Equal(t, "programs", file.New("").BasePath)
}
