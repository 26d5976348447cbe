package dependency

import (
	"testing"

	"github.com/EvgeniyBoldov/calendar/internal/storage"
	"github.com/EvgeniyBoldov/calendar/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) storage.Store {
	t.Helper()
	store, err := storage.NewBoltStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func mustChunk(t *testing.T, store storage.Store, id string, date *string) *types.WorkChunk {
	t.Helper()
	c := &types.WorkChunk{ID: id, WorkID: "w1", Status: types.ChunkStatusCreated, Version: 1, Date: date}
	require.NoError(t, store.CreateWorkChunk(c))
	return c
}

func strptr(s string) *string { return &s }

func TestResolveNoLinksIsEmpty(t *testing.T) {
	store := newStore(t)
	mustChunk(t, store, "c1", nil)

	res, err := Resolve(store, "c1", nil)
	require.NoError(t, err)
	assert.Empty(t, res.DependsOnIDs)
	assert.Empty(t, res.SyncIDs)
	assert.Empty(t, res.EarliestAfterDate)
}

func TestResolveDependencyUsesPersistedDate(t *testing.T) {
	store := newStore(t)
	mustChunk(t, store, "pred", strptr("2026-03-10"))
	mustChunk(t, store, "c1", nil)
	require.NoError(t, store.CreateChunkLink(&types.ChunkLink{ID: "l1", ChunkID: "c1", LinkedChunkID: "pred", Type: types.LinkDependency}))

	res, err := Resolve(store, "c1", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"pred"}, res.DependsOnIDs)
	assert.Equal(t, "2026-03-11", res.EarliestAfterDate)
}

func TestResolveDependencyWithoutPredecessorDateHasNoEarliestAfter(t *testing.T) {
	store := newStore(t)
	mustChunk(t, store, "pred", nil)
	mustChunk(t, store, "c1", nil)
	require.NoError(t, store.CreateChunkLink(&types.ChunkLink{ID: "l1", ChunkID: "c1", LinkedChunkID: "pred", Type: types.LinkDependency}))

	res, err := Resolve(store, "c1", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"pred"}, res.DependsOnIDs)
	assert.Empty(t, res.EarliestAfterDate)
}

type fakeOverlay map[string]string

func (f fakeOverlay) VirtualDate(chunkID string) (string, bool) {
	d, ok := f[chunkID]
	return d, ok
}

func TestResolveDependencyFallsBackToVirtualDate(t *testing.T) {
	store := newStore(t)
	mustChunk(t, store, "pred", nil)
	mustChunk(t, store, "c1", nil)
	require.NoError(t, store.CreateChunkLink(&types.ChunkLink{ID: "l1", ChunkID: "c1", LinkedChunkID: "pred", Type: types.LinkDependency}))

	res, err := Resolve(store, "c1", fakeOverlay{"pred": "2026-04-01"})
	require.NoError(t, err)
	assert.Equal(t, "2026-04-02", res.EarliestAfterDate)
}

func TestResolveSyncIsSymmetricAndDeduplicated(t *testing.T) {
	store := newStore(t)
	mustChunk(t, store, "c1", nil)
	mustChunk(t, store, "c2", strptr("2026-05-01"))
	require.NoError(t, store.CreateChunkLink(&types.ChunkLink{ID: "l1", ChunkID: "c1", LinkedChunkID: "c2", Type: types.LinkSync}))

	fromC1, err := Resolve(store, "c1", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"c2"}, fromC1.SyncIDs)
	assert.Equal(t, "2026-05-01", fromC1.SyncPinnedDate)

	fromC2, err := Resolve(store, "c2", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"c1"}, fromC2.SyncIDs, "sync edges are visible from either endpoint")
}
