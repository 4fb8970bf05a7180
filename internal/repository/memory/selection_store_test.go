package memory

import (
	"context"
	"sort"
	"testing"
	"time"

	"datahub-portal-be/internal/entity"
	"datahub-portal-be/internal/repository/contract"
	"datahub-portal-be/pkg/selection"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectionStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewSelectionStore(time.Minute)

	_, found, err := store.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found)

	view := contract.ViewSelection{
		Snapshot: selection.Snapshot{Mode: selection.ModeInclusion, IDs: []selection.ItemID{"a", "b"}, ScopeVersion: 3},
		Scope:    entity.NodeScope{Filter: entity.NodeFilter{NodeType: "sample"}},
	}
	require.NoError(t, store.Save(ctx, "k", view))
	view.Snapshot.IDs[0] = "mutated"

	got, found, err := store.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []selection.ItemID{"a", "b"}, got.Snapshot.IDs)
	assert.Equal(t, uint64(3), got.Snapshot.ScopeVersion)
	assert.Equal(t, "sample", got.Scope.Filter.NodeType)

	require.NoError(t, store.Delete(ctx, "k"))
	_, found, _ = store.Get(ctx, "k")
	assert.False(t, found)
}

func TestSelectionStoreDeletePrefix(t *testing.T) {
	ctx := context.Background()
	store := NewSelectionStore(time.Minute)

	for _, key := range []string{"selection:s1:u1:file", "selection:s1:u2:file", "selection:s2:u1:file"} {
		require.NoError(t, store.Save(ctx, key, contract.ViewSelection{Snapshot: selection.Snapshot{Mode: selection.ModeExclusion}}))
	}

	deleted, err := store.DeletePrefix(ctx, "selection:s1:")
	require.NoError(t, err)
	sort.Strings(deleted)
	assert.Equal(t, []string{"selection:s1:u1:file", "selection:s1:u2:file"}, deleted)

	_, found, _ := store.Get(ctx, "selection:s2:u1:file")
	assert.True(t, found)
}

func TestSelectionStoreDeletePrefixKeepsListedKeys(t *testing.T) {
	ctx := context.Background()
	store := NewSelectionStore(time.Minute)

	for _, key := range []string{"selection:s1:u1:file", "selection:s1:u2:file"} {
		require.NoError(t, store.Save(ctx, key, contract.ViewSelection{Snapshot: selection.Snapshot{Mode: selection.ModeExclusion}}))
	}

	deleted, err := store.DeletePrefix(ctx, "selection:s1:", "selection:s1:u1:file")
	require.NoError(t, err)
	assert.Equal(t, []string{"selection:s1:u2:file"}, deleted)

	_, found, _ := store.Get(ctx, "selection:s1:u1:file")
	assert.True(t, found)
}
