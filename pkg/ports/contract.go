package ports

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const contractSource = "INITIAL STATE: q\nBLANK SYMBOL: [_]\nTRANSITIONS:\nq_: ACC\n"

// RunProgramStoreContract runs a suite of tests to verify that a ProgramStore
// implementation adheres to the defined interface contract.
func RunProgramStoreContract(t *testing.T, store ProgramStore) {
	ctx := context.Background()
	name := fmt.Sprintf("contract-%d", time.Now().UnixNano())

	t.Run("Save and Load", func(t *testing.T) {
		err := store.Save(ctx, name, []byte(contractSource))
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, name)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, contractSource, string(loaded))
	})

	t.Run("Overwrite", func(t *testing.T) {
		updated := contractSource + "q1: REJ\n"
		require.NoError(t, store.Save(ctx, name, []byte(updated)))

		loaded, err := store.Load(ctx, name)
		require.NoError(t, err)
		assert.Equal(t, updated, string(loaded))
	})

	t.Run("Isolation", func(t *testing.T) {
		buf := []byte(contractSource)
		require.NoError(t, store.Save(ctx, name, buf))
		buf[0] = '#'

		loaded, err := store.Load(ctx, name)
		require.NoError(t, err)
		assert.Equal(t, contractSource, string(loaded), "store must not alias the caller's buffer")

		loaded[0] = '#'
		again, err := store.Load(ctx, name)
		require.NoError(t, err)
		assert.Equal(t, contractSource, string(again), "store must not alias returned buffers")
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "missing-"+name)
		assert.ErrorIs(t, err, domain.ErrProgramNotFound)
	})

	t.Run("Invalid Names", func(t *testing.T) {
		for _, bad := range []string{"", "../escape", "a/b", "with space"} {
			assert.ErrorIs(t, store.Save(ctx, bad, []byte(contractSource)), domain.ErrInvalidProgramName, bad)
			_, err := store.Load(ctx, bad)
			assert.ErrorIs(t, err, domain.ErrInvalidProgramName, bad)
		}
	})

	t.Run("List", func(t *testing.T) {
		id1 := name + "-b"
		id2 := name + "-a"
		require.NoError(t, store.Save(ctx, id1, []byte(contractSource)))
		require.NoError(t, store.Save(ctx, id2, []byte(contractSource)))
		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		names, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, names, id1)
		assert.Contains(t, names, id2)
		assert.IsNonDecreasing(t, names, "List must be sorted")
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, name, []byte(contractSource)))

		err := store.Delete(ctx, name)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, name)
		assert.ErrorIs(t, err, domain.ErrProgramNotFound, "Load after Delete should return ErrProgramNotFound")

		assert.ErrorIs(t, store.Delete(ctx, name), domain.ErrProgramNotFound)

		names, err := store.List(ctx)
		require.NoError(t, err)
		assert.NotContains(t, names, name)
	})
}
