package manager

import (
	"testing"

	"github.com/EvgeniyBoldov/calendar/internal/apperr"
	"github.com/EvgeniyBoldov/calendar/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSupportWorkAutoProducesChunkAndTask(t *testing.T) {
	mgr := newTestManager(t)
	work, err := mgr.CreateWork(NewWorkInput{
		Type: types.WorkTypeSupport, Title: "On-site visit", TargetDate: "2026-02-10", DurationHours: 4,
	})
	require.NoError(t, err)

	chunks, err := mgr.ListWorkChunksByWork(work.ID)
	require.NoError(t, err)
	require.Len(t, chunks, 1)

	tasks, err := mgr.ListWorkTasksByChunk(chunks[0].ID)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, 4, tasks[0].Hours())
}

func TestCreateSupportWorkRequiresTargetDate(t *testing.T) {
	mgr := newTestManager(t)
	_, err := mgr.CreateWork(NewWorkInput{Type: types.WorkTypeSupport, Title: "On-site", DurationHours: 4})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.InvalidInput))
}

func TestCreateGeneralWorkHasNoAutoChunk(t *testing.T) {
	mgr := newTestManager(t)
	work, err := mgr.CreateWork(NewWorkInput{Type: types.WorkTypeGeneral, Title: "Rack install"})
	require.NoError(t, err)

	chunks, err := mgr.ListWorkChunksByWork(work.ID)
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestCreateWorkChunkRefusedOnSupportWork(t *testing.T) {
	mgr := newTestManager(t)
	work, err := mgr.CreateWork(NewWorkInput{
		Type: types.WorkTypeSupport, Title: "On-site", TargetDate: "2026-02-10", DurationHours: 2,
	})
	require.NoError(t, err)

	_, err = mgr.CreateWorkChunk(work.ID, "", 1)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.InvalidState))
}

func TestDeleteWorkCascadesChunksTasksAndLinks(t *testing.T) {
	mgr := newTestManager(t)
	work, err := mgr.CreateWork(NewWorkInput{Type: types.WorkTypeGeneral, Title: "Rack install"})
	require.NoError(t, err)
	c1, err := mgr.CreateWorkChunk(work.ID, "", 0)
	require.NoError(t, err)
	c2, err := mgr.CreateWorkChunk(work.ID, "", 1)
	require.NoError(t, err)
	_, err = mgr.CreateWorkTask(c1.ID, "cable", 1, 2)
	require.NoError(t, err)
	_, err = mgr.CreateChunkLink(c2.ID, c1.ID, types.LinkDependency)
	require.NoError(t, err)

	require.NoError(t, mgr.DeleteWork(work.ID))

	_, err = mgr.GetWork(work.ID)
	assert.True(t, apperr.Is(err, apperr.NotFound))
	tasks, err := mgr.ListWorkTasksByChunk(c1.ID)
	require.NoError(t, err)
	assert.Empty(t, tasks)
	links, err := mgr.ListChunkLinksFrom(c2.ID)
	require.NoError(t, err)
	assert.Empty(t, links)
}

func TestCreateChunkLinkRejectsSelfLink(t *testing.T) {
	mgr := newTestManager(t)
	work, err := mgr.CreateWork(NewWorkInput{Type: types.WorkTypeGeneral, Title: "Rack install"})
	require.NoError(t, err)
	c1, err := mgr.CreateWorkChunk(work.ID, "", 0)
	require.NoError(t, err)

	_, err = mgr.CreateChunkLink(c1.ID, c1.ID, types.LinkDependency)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.InvalidInput))
}

func TestCreateChunkLinkRejectsCycle(t *testing.T) {
	mgr := newTestManager(t)
	work, err := mgr.CreateWork(NewWorkInput{Type: types.WorkTypeGeneral, Title: "Rack install"})
	require.NoError(t, err)
	c1, err := mgr.CreateWorkChunk(work.ID, "", 0)
	require.NoError(t, err)
	c2, err := mgr.CreateWorkChunk(work.ID, "", 1)
	require.NoError(t, err)

	_, err = mgr.CreateChunkLink(c1.ID, c2.ID, types.LinkDependency)
	require.NoError(t, err)

	_, err = mgr.CreateChunkLink(c2.ID, c1.ID, types.LinkDependency)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.InvalidInput))
}

func TestUpdateWorkPatchAppliesOnlySetFields(t *testing.T) {
	mgr := newTestManager(t)
	work, err := mgr.CreateWork(NewWorkInput{Type: types.WorkTypeGeneral, Title: "Rack install", Priority: types.PriorityLow})
	require.NoError(t, err)

	newTitle := "Rack install v2"
	updated, err := mgr.UpdateWork(work.ID, UpdateWorkPatch{Title: &newTitle}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Rack install v2", updated.Title)
	assert.Equal(t, types.PriorityLow, updated.Priority, "unset fields in the patch are left alone")
}
