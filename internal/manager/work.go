package manager

import (
	"time"

	"github.com/EvgeniyBoldov/calendar/internal/apperr"
	"github.com/EvgeniyBoldov/calendar/internal/events"
	"github.com/EvgeniyBoldov/calendar/internal/types"
)

// NewWorkInput carries the fields a caller supplies when creating a
// Work; the rest (ID, status, version, timestamps) are assigned here.
type NewWorkInput struct {
	Type          types.WorkType
	Title         string
	Priority      types.Priority
	AuthorID      string
	DataCenterID  string
	DueDate       string // general
	TargetDate    string // support
	TargetTime    *int   // support
	DurationHours int    // support
}

// CreateWork implements Work creation per §2/§3: general works start
// empty (chunks are added separately); support works auto-produce one
// chunk and one task sized duration_hours, per the lifecycle note in
// §2.
func (m *Manager) CreateWork(in NewWorkInput) (*types.Work, error) {
	if in.Title == "" {
		return nil, apperr.InvalidInputf("work title is required")
	}
	if in.Priority == "" {
		in.Priority = types.PriorityMedium
	}
	if in.Type == types.WorkTypeSupport {
		if in.TargetDate == "" {
			return nil, apperr.InvalidInputf("support work requires target_date")
		}
		if in.DurationHours < 1 {
			return nil, apperr.InvalidInputf("support work requires duration_hours >= 1")
		}
	}

	now := time.Now().UTC()
	w := &types.Work{
		ID: newID(), Type: in.Type, Title: in.Title, Priority: in.Priority,
		Status: types.WorkStatusCreated, Version: 1, AuthorID: in.AuthorID,
		DataCenterID: in.DataCenterID, DueDate: in.DueDate, TargetDate: in.TargetDate,
		TargetTime: in.TargetTime, DurationHours: in.DurationHours,
		CreatedAt: now, UpdatedAt: now,
	}
	if err := m.store.CreateWork(w); err != nil {
		return nil, err
	}
	m.publish(events.KindWorkCreated, w.ID, in.AuthorID, w)

	if in.Type == types.WorkTypeSupport {
		chunk := &types.WorkChunk{
			ID: newID(), WorkID: w.ID, Order: 0, Status: types.ChunkStatusCreated,
			Version: 1, CreatedAt: now, UpdatedAt: now,
		}
		if err := m.store.CreateWorkChunk(chunk); err != nil {
			return w, err
		}
		task := &types.WorkTask{
			ID: newID(), ChunkID: chunk.ID, Name: in.Title,
			EstimatedHours: in.DurationHours, Quantity: 1, CreatedAt: now, UpdatedAt: now,
		}
		if err := m.store.CreateWorkTask(task); err != nil {
			return w, err
		}
		m.publish(events.KindChunkCreated, chunk.ID, in.AuthorID, chunk)
	}

	return w, nil
}

func (m *Manager) GetWork(id string) (*types.Work, error) { return m.store.GetWork(id) }
func (m *Manager) ListWorks() ([]*types.Work, error)      { return m.store.ListWorks() }

// UpdateWorkPatch carries only the fields a PATCH may change; nil
// means "leave as is". Optimistic concurrency is enforced by
// expectedVersion.
type UpdateWorkPatch struct {
	Title        *string
	Priority     *types.Priority
	DataCenterID *string
	DueDate      *string
}

func (m *Manager) UpdateWork(id string, patch UpdateWorkPatch, expectedVersion *int) (*types.Work, error) {
	w, err := m.store.GetWork(id)
	if err != nil {
		return nil, err
	}
	if patch.Title != nil {
		w.Title = *patch.Title
	}
	if patch.Priority != nil {
		w.Priority = *patch.Priority
	}
	if patch.DataCenterID != nil {
		w.DataCenterID = *patch.DataCenterID
	}
	if patch.DueDate != nil {
		w.DueDate = *patch.DueDate
	}
	if err := m.store.UpdateWork(w, expectedVersion); err != nil {
		return nil, err
	}
	m.publish(events.KindWorkUpdated, w.ID, "", w)
	return w, nil
}

// DeleteWork cascades to the work's chunks, their tasks and links
// (§2's "deletion of a Work cascades to its chunks, tasks,
// attachments").
func (m *Manager) DeleteWork(id string) error {
	chunks, err := m.store.ListWorkChunksByWork(id)
	if err != nil {
		return err
	}
	for _, c := range chunks {
		if err := m.deleteChunkCascade(c.ID); err != nil {
			return err
		}
	}
	if err := m.store.DeleteWork(id); err != nil {
		return err
	}
	// Attachments are not a modeled entity (§3), so the blob namespace
	// keyed by work ID is deleted wholesale; a missing/empty namespace
	// is not an error for the no-op store.
	if err := m.blobs.Delete(id); err != nil {
		m.logger.Warn().Err(err).Str("work_id", id).Msg("attachment cleanup failed")
	}
	m.publish(events.KindWorkDeleted, id, "", nil)
	return nil
}

// --- WorkChunks ---

func (m *Manager) CreateWorkChunk(workID, dataCenterID string, order int) (*types.WorkChunk, error) {
	work, err := m.store.GetWork(workID)
	if err != nil {
		return nil, err
	}
	if work.Type != types.WorkTypeGeneral {
		return nil, apperr.InvalidStatef("chunks are only added manually to general work, %s is %s", workID, work.Type)
	}
	now := time.Now().UTC()
	c := &types.WorkChunk{
		ID: newID(), WorkID: workID, Order: order, DataCenterID: dataCenterID,
		Status: types.ChunkStatusCreated, Version: 1, CreatedAt: now, UpdatedAt: now,
	}
	if err := m.store.CreateWorkChunk(c); err != nil {
		return nil, err
	}
	m.publish(events.KindChunkCreated, c.ID, "", c)
	return c, nil
}

func (m *Manager) GetWorkChunk(id string) (*types.WorkChunk, error) { return m.store.GetWorkChunk(id) }
func (m *Manager) ListWorkChunksByWork(workID string) ([]*types.WorkChunk, error) {
	return m.store.ListWorkChunksByWork(workID)
}

func (m *Manager) UpdateWorkChunkDataCenter(id, dataCenterID string, expectedVersion *int) (*types.WorkChunk, error) {
	c, err := m.store.GetWorkChunk(id)
	if err != nil {
		return nil, err
	}
	c.DataCenterID = dataCenterID
	if err := m.store.UpdateWorkChunk(c, expectedVersion); err != nil {
		return nil, err
	}
	m.publish(events.KindChunkUpdated, c.ID, "", c)
	return c, nil
}

func (m *Manager) DeleteWorkChunk(id string) error { return m.deleteChunkCascade(id) }

func (m *Manager) deleteChunkCascade(id string) error {
	if err := m.store.DeleteWorkTasksByChunk(id); err != nil {
		return err
	}
	if err := m.store.DeleteChunkLinksByChunk(id); err != nil {
		return err
	}
	if err := m.store.DeleteWorkChunk(id); err != nil {
		return err
	}
	m.publish(events.KindChunkDeleted, id, "", nil)
	return nil
}

// --- WorkTasks ---

func (m *Manager) CreateWorkTask(chunkID, name string, estimatedHours, quantity int) (*types.WorkTask, error) {
	if estimatedHours < 0 || quantity < 1 {
		return nil, apperr.InvalidInputf("task needs non-negative estimated_hours and quantity >= 1")
	}
	if _, err := m.store.GetWorkChunk(chunkID); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	t := &types.WorkTask{
		ID: newID(), ChunkID: chunkID, Name: name,
		EstimatedHours: estimatedHours, Quantity: quantity, CreatedAt: now, UpdatedAt: now,
	}
	if err := m.store.CreateWorkTask(t); err != nil {
		return nil, err
	}
	return t, nil
}

func (m *Manager) ListWorkTasksByChunk(chunkID string) ([]*types.WorkTask, error) {
	return m.store.ListWorkTasksByChunk(chunkID)
}

// --- ChunkLinks ---

func (m *Manager) CreateChunkLink(chunkID, linkedChunkID string, linkType types.LinkType) (*types.ChunkLink, error) {
	if chunkID == linkedChunkID {
		return nil, apperr.InvalidInputf("a chunk cannot link to itself")
	}
	if _, err := m.store.GetWorkChunk(chunkID); err != nil {
		return nil, err
	}
	if _, err := m.store.GetWorkChunk(linkedChunkID); err != nil {
		return nil, err
	}
	if linkType == types.LinkDependency {
		if err := m.rejectCycle(chunkID, linkedChunkID); err != nil {
			return nil, err
		}
	}
	l := &types.ChunkLink{ID: newID(), ChunkID: chunkID, LinkedChunkID: linkedChunkID, Type: linkType, CreatedAt: time.Now().UTC()}
	if err := m.store.CreateChunkLink(l); err != nil {
		return nil, err
	}
	return l, nil
}

// rejectCycle walks forward from linkedChunkID through dependency
// edges; if it reaches chunkID, adding chunkID -> linkedChunkID would
// close a cycle (§9's "cyclic references" flag: edges are a graph, so
// this is a plain reachability check, not a special-cased structure).
func (m *Manager) rejectCycle(chunkID, linkedChunkID string) error {
	seen := map[string]bool{}
	queue := []string{linkedChunkID}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == chunkID {
			return apperr.InvalidInputf("link would create a dependency cycle through chunk %s", cur)
		}
		if seen[cur] {
			continue
		}
		seen[cur] = true
		links, err := m.store.ListChunkLinksFrom(cur)
		if err != nil {
			return err
		}
		for _, l := range links {
			if l.Type == types.LinkDependency {
				queue = append(queue, l.LinkedChunkID)
			}
		}
	}
	return nil
}

func (m *Manager) ListChunkLinksFrom(chunkID string) ([]*types.ChunkLink, error) {
	return m.store.ListChunkLinksFrom(chunkID)
}

func (m *Manager) ListChunkLinksTo(chunkID string) ([]*types.ChunkLink, error) {
	return m.store.ListChunkLinksTo(chunkID)
}
