package chunkcalc

import (
	"testing"

	"github.com/EvgeniyBoldov/calendar/internal/apperr"
	"github.com/EvgeniyBoldov/calendar/internal/storage"
	"github.com/EvgeniyBoldov/calendar/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) storage.Store {
	t.Helper()
	store, err := storage.NewBoltStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestDurationHoursSumsTasks(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.CreateWorkTask(&types.WorkTask{ID: "t1", ChunkID: "c1", EstimatedHours: 2, Quantity: 3}))
	require.NoError(t, store.CreateWorkTask(&types.WorkTask{ID: "t2", ChunkID: "c1", EstimatedHours: 4, Quantity: 1}))

	hours, err := DurationHours(store, "c1")
	require.NoError(t, err)
	assert.Equal(t, 10, hours)
}

func TestDurationHoursNoTasks(t *testing.T) {
	store := newTestStore(t)
	hours, err := DurationHours(store, "c1")
	require.NoError(t, err)
	assert.Equal(t, 0, hours)
}

func TestRequireAssignable(t *testing.T) {
	assert.NoError(t, RequireAssignable(1))
	assert.NoError(t, RequireAssignable(8))

	err := RequireAssignable(0)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.InvalidInput))
}
