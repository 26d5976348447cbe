package constraints

import (
	"testing"

	"github.com/EvgeniyBoldov/calendar/internal/dateutil"
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

func TestComputeSupportWorkFixesDate(t *testing.T) {
	store := newStore(t)
	targetTime := 10
	work := &types.Work{ID: "w1", Type: types.WorkTypeSupport, Status: types.WorkStatusCreated, Version: 1, TargetDate: "2026-06-01", TargetTime: &targetTime, DurationHours: 4}
	require.NoError(t, store.CreateWork(work))
	chunk := &types.WorkChunk{ID: "c1", WorkID: work.ID, Status: types.ChunkStatusCreated, Version: 1}
	require.NoError(t, store.CreateWorkChunk(chunk))
	require.NoError(t, store.CreateWorkTask(&types.WorkTask{ID: "t1", ChunkID: chunk.ID, EstimatedHours: 4, Quantity: 1}))

	c, err := Compute(store, chunk, work, nil)
	require.NoError(t, err)
	assert.Equal(t, "2026-06-01", c.FixedDate)
	assert.Equal(t, "2026-06-01", c.MinDate)
	assert.Equal(t, "2026-06-01", c.MaxDate)
	require.NotNil(t, c.FixedTime)
	assert.Equal(t, 10, *c.FixedTime)
	assert.Equal(t, 4, c.DurationHours)
}

func TestComputeGeneralWorkDefaultsWindowFromToday(t *testing.T) {
	store := newStore(t)
	work := &types.Work{ID: "w1", Type: types.WorkTypeGeneral, Status: types.WorkStatusCreated, Version: 1}
	require.NoError(t, store.CreateWork(work))
	chunk := &types.WorkChunk{ID: "c1", WorkID: work.ID, Status: types.ChunkStatusCreated, Version: 1}
	require.NoError(t, store.CreateWorkChunk(chunk))
	require.NoError(t, store.CreateWorkTask(&types.WorkTask{ID: "t1", ChunkID: chunk.ID, EstimatedHours: 2, Quantity: 1}))

	c, err := Compute(store, chunk, work, nil)
	require.NoError(t, err)
	today := dateutil.Today()
	assert.Equal(t, today, c.MinDate)
	expectedMax, err := dateutil.AddDays(today, defaultWindowDays)
	require.NoError(t, err)
	assert.Equal(t, expectedMax, c.MaxDate)
}

func TestComputeGeneralWorkRespectsDueDate(t *testing.T) {
	store := newStore(t)
	work := &types.Work{ID: "w1", Type: types.WorkTypeGeneral, Status: types.WorkStatusCreated, Version: 1, DueDate: "2026-07-15"}
	require.NoError(t, store.CreateWork(work))
	chunk := &types.WorkChunk{ID: "c1", WorkID: work.ID, Status: types.ChunkStatusCreated, Version: 1}
	require.NoError(t, store.CreateWorkChunk(chunk))
	require.NoError(t, store.CreateWorkTask(&types.WorkTask{ID: "t1", ChunkID: chunk.ID, EstimatedHours: 2, Quantity: 1}))

	c, err := Compute(store, chunk, work, nil)
	require.NoError(t, err)
	assert.Equal(t, "2026-07-15", c.MaxDate)
}

func TestComputeUsesEffectiveDCAndDependencyFloor(t *testing.T) {
	store := newStore(t)
	region := &types.Region{ID: "r1", Name: "EMEA"}
	require.NoError(t, store.CreateRegion(region))
	dc := &types.DataCenter{ID: "dc1", RegionID: region.ID, Name: "DC1"}
	require.NoError(t, store.CreateDataCenter(dc))

	work := &types.Work{ID: "w1", Type: types.WorkTypeGeneral, Status: types.WorkStatusCreated, Version: 1}
	require.NoError(t, store.CreateWork(work))

	predDate, err := dateutil.AddDays(dateutil.Today(), 30)
	require.NoError(t, err)
	pred := &types.WorkChunk{ID: "pred", WorkID: work.ID, Status: types.ChunkStatusCreated, Version: 1, Date: &predDate}
	require.NoError(t, store.CreateWorkChunk(pred))

	chunk := &types.WorkChunk{ID: "c1", WorkID: work.ID, DataCenterID: dc.ID, Status: types.ChunkStatusCreated, Version: 1}
	require.NoError(t, store.CreateWorkChunk(chunk))
	require.NoError(t, store.CreateWorkTask(&types.WorkTask{ID: "t1", ChunkID: chunk.ID, EstimatedHours: 3, Quantity: 1}))
	require.NoError(t, store.CreateChunkLink(&types.ChunkLink{ID: "l1", ChunkID: chunk.ID, LinkedChunkID: pred.ID, Type: types.LinkDependency}))

	c, err := Compute(store, chunk, work, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{region.ID}, c.AllowedRegionIDs)
	assert.Equal(t, dc.ID, c.DataCenterID)
	expectedMinDate, err := dateutil.AddDays(predDate, 1)
	require.NoError(t, err)
	assert.Equal(t, expectedMinDate, c.MinDate, "dependency pushes the floor past today")
	assert.Equal(t, []string{"pred"}, c.DependsOnChunkIDs)
	assert.Equal(t, 3, c.DurationHours)
}

func TestComputePinsWindowToSyncPeerDate(t *testing.T) {
	store := newStore(t)
	work := &types.Work{ID: "w1", Type: types.WorkTypeGeneral, Status: types.WorkStatusCreated, Version: 1, DueDate: "2026-07-15"}
	require.NoError(t, store.CreateWork(work))

	peerDate := "2026-06-20"
	peer := &types.WorkChunk{ID: "peer", WorkID: work.ID, Status: types.ChunkStatusPlanned, Version: 1, Date: &peerDate}
	require.NoError(t, store.CreateWorkChunk(peer))

	chunk := &types.WorkChunk{ID: "c1", WorkID: work.ID, Status: types.ChunkStatusCreated, Version: 1}
	require.NoError(t, store.CreateWorkChunk(chunk))
	require.NoError(t, store.CreateWorkTask(&types.WorkTask{ID: "t1", ChunkID: chunk.ID, EstimatedHours: 2, Quantity: 1}))
	require.NoError(t, store.CreateChunkLink(&types.ChunkLink{ID: "l1", ChunkID: chunk.ID, LinkedChunkID: peer.ID, Type: types.LinkSync}))

	c, err := Compute(store, chunk, work, nil)
	require.NoError(t, err)
	assert.Equal(t, peerDate, c.MinDate, "sync peer's assigned date overrides the general work window")
	assert.Equal(t, peerDate, c.MaxDate)
	assert.Equal(t, []string{"peer"}, c.SyncChunkIDs)
}
