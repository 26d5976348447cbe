package manager

import (
	"testing"
	"time"

	"github.com/EvgeniyBoldov/calendar/internal/apperr"
	"github.com/EvgeniyBoldov/calendar/internal/blobstore"
	"github.com/EvgeniyBoldov/calendar/internal/events"
	"github.com/EvgeniyBoldov/calendar/internal/storage"
	"github.com/EvgeniyBoldov/calendar/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	store, err := storage.NewBoltStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return New(store, events.NewBroker(), blobstore.NoopStore{})
}

func TestCreateRegionRequiresName(t *testing.T) {
	mgr := newTestManager(t)
	_, err := mgr.CreateRegion("")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.InvalidInput))
}

func TestCreateRegionPublishesEvent(t *testing.T) {
	store, err := storage.NewBoltStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	bus := events.NewBroker()
	sub := bus.Subscribe()
	defer sub.Close()
	mgr := New(store, bus, blobstore.NoopStore{})

	region, err := mgr.CreateRegion("EMEA")
	require.NoError(t, err)

	event, closed := sub.Next(time.Second)
	require.False(t, closed)
	require.NotNil(t, event)
	assert.Equal(t, events.KindRegionCreated, event.Kind)
	assert.Equal(t, region.ID, event.EntityID)
}

func TestDeleteRegionRefusedWithDataCenter(t *testing.T) {
	mgr := newTestManager(t)
	region, err := mgr.CreateRegion("EMEA")
	require.NoError(t, err)
	_, err = mgr.CreateDataCenter(region.ID, "fra1")
	require.NoError(t, err)

	err = mgr.DeleteRegion(region.ID)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.Conflict))
}

func TestDeleteRegionRefusedWithEngineer(t *testing.T) {
	mgr := newTestManager(t)
	region, err := mgr.CreateRegion("EMEA")
	require.NoError(t, err)
	_, err = mgr.CreateEngineer(region.ID, "", "Alice")
	require.NoError(t, err)

	err = mgr.DeleteRegion(region.ID)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.Conflict))
}

func TestDeleteRegionSucceedsWhenEmpty(t *testing.T) {
	mgr := newTestManager(t)
	region, err := mgr.CreateRegion("EMEA")
	require.NoError(t, err)
	assert.NoError(t, mgr.DeleteRegion(region.ID))
}

func TestCreateEngineerRequiresExistingRegion(t *testing.T) {
	mgr := newTestManager(t)
	_, err := mgr.CreateEngineer("missing-region", "", "Alice")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.NotFound))
}

func TestCreateTimeSlotRejectsInvertedHours(t *testing.T) {
	mgr := newTestManager(t)
	region, err := mgr.CreateRegion("EMEA")
	require.NoError(t, err)
	engineer, err := mgr.CreateEngineer(region.ID, "", "Alice")
	require.NoError(t, err)

	_, err = mgr.CreateTimeSlot(engineer.ID, "2026-01-05", 17, 9)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.InvalidInput))
}

func TestDeleteEngineerRefusedWithActiveChunk(t *testing.T) {
	mgr := newTestManager(t)
	region, err := mgr.CreateRegion("EMEA")
	require.NoError(t, err)
	engineer, err := mgr.CreateEngineer(region.ID, "", "Alice")
	require.NoError(t, err)

	chunk := &types.WorkChunk{ID: "c1", WorkID: "w1", Status: types.ChunkStatusAssigned}
	chunk.SetAssignment(engineer.ID, "2026-01-05", 9)
	require.NoError(t, mgr.store.CreateWorkChunk(chunk))

	err = mgr.DeleteEngineer(engineer.ID)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.Conflict))
}

func TestDeleteEngineerSucceedsWithNoActiveChunks(t *testing.T) {
	mgr := newTestManager(t)
	region, err := mgr.CreateRegion("EMEA")
	require.NoError(t, err)
	engineer, err := mgr.CreateEngineer(region.ID, "", "Alice")
	require.NoError(t, err)

	assert.NoError(t, mgr.DeleteEngineer(engineer.ID))
}
