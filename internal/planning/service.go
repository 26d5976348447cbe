// Package planning implements the Planning Service (C8): the public
// scheduling API (suggest/assign/unassign, bulk assignment, and the
// planning-session lifecycle) plus the §4.9 work-status automaton's
// call sites.
package planning

import (
	"time"

	"github.com/EvgeniyBoldov/calendar/internal/chunkcalc"
	"github.com/EvgeniyBoldov/calendar/internal/distance"
	"github.com/EvgeniyBoldov/calendar/internal/events"
	"github.com/EvgeniyBoldov/calendar/internal/log"
	"github.com/EvgeniyBoldov/calendar/internal/metrics"
	"github.com/EvgeniyBoldov/calendar/internal/notify"
	"github.com/EvgeniyBoldov/calendar/internal/storage"
	"github.com/EvgeniyBoldov/calendar/internal/strategy"
	"github.com/EvgeniyBoldov/calendar/internal/types"
	"github.com/EvgeniyBoldov/calendar/internal/workstatus"
	"github.com/rs/zerolog"
)

// Service implements C8. Every method obtains its own Context
// (§9) and its own reads from the store; nothing scheduling-specific
// is cached on the Service itself between calls.
type Service struct {
	store      storage.Store
	bus        *events.Broker
	notify     notify.Sink
	sessionTTL time.Duration
	logger     zerolog.Logger
}

// New builds a Planning Service.
func New(store storage.Store, bus *events.Broker, notifier notify.Sink, sessionTTL time.Duration) *Service {
	return &Service{
		store:      store,
		bus:        bus,
		notify:     notifier,
		sessionTTL: sessionTTL,
		logger:     log.WithComponent("planning"),
	}
}

func effectiveDeadline(work *types.Work) string {
	if work.Type == types.WorkTypeSupport {
		return work.TargetDate
	}
	return work.DueDate
}

func queueItemFor(store storage.Store, chunk *types.WorkChunk, work *types.Work) (strategy.QueueItem, error) {
	duration, err := chunkcalc.DurationHours(store, chunk.ID)
	if err != nil {
		return strategy.QueueItem{}, err
	}
	return strategy.QueueItem{
		ChunkID:       chunk.ID,
		WorkID:        chunk.WorkID,
		IsSupport:     work.Type == types.WorkTypeSupport,
		Priority:      work.Priority,
		Deadline:      effectiveDeadline(work),
		Order:         chunk.Order,
		DurationHours: duration,
	}, nil
}

func (s *Service) loadChunkAndWork(chunkID string) (*types.WorkChunk, *types.Work, error) {
	chunk, err := s.store.GetWorkChunk(chunkID)
	if err != nil {
		return nil, nil, err
	}
	work, err := s.store.GetWork(chunk.WorkID)
	if err != nil {
		return nil, nil, err
	}
	return chunk, work, nil
}

// SuggestSlot implements §4.8 suggest_slot. It always uses Balanced's
// selector, as specified.
func (s *Service) SuggestSlot(chunkID string) (*types.SlotSuggestion, error) {
	chunk, work, err := s.loadChunkAndWork(chunkID)
	if err != nil {
		return nil, err
	}

	dist, err := distance.Load(s.store)
	if err != nil {
		return nil, err
	}

	preferred, _ := s.persistedPreferredEngineer(work.ID)
	return searchChunk(s.store, dist, nil, chunk, work, strategy.Balanced{}, preferred)
}

// persistedPreferredEngineer returns the engineer already attached to
// any persisted chunk of workID, per §4.8's "preferred engineer"
// definition outside of a batch run.
func (s *Service) persistedPreferredEngineer(workID string) (string, bool) {
	chunks, err := s.store.ListWorkChunksByWork(workID)
	if err != nil {
		return "", false
	}
	for _, c := range chunks {
		if c.EngineerID != nil {
			return *c.EngineerID, true
		}
	}
	return "", false
}

// AssignChunk implements §4.8 assign_chunk.
func (s *Service) AssignChunk(chunkID, actorID string) (*types.WorkChunk, error) {
	timer := metrics.NewTimer()
	chunk, work, err := s.loadChunkAndWork(chunkID)
	if err != nil {
		return nil, err
	}

	suggestion, err := s.SuggestSlot(chunkID)
	if err != nil {
		metrics.ChunksFailed.WithLabelValues("balanced").Inc()
		return nil, err
	}

	dist, err := distance.Load(s.store)
	if err != nil {
		return nil, err
	}
	if err := s.writeAssignment(chunk, work, *suggestion, dist); err != nil {
		return nil, err
	}
	timer.ObserveDurationVec(metrics.SchedulingLatency, "balanced")
	metrics.ChunksScheduled.WithLabelValues("balanced").Inc()

	s.bus.Publish(&events.Event{Kind: events.KindChunkPlanned, EntityID: chunk.ID, ActorID: actorID, Data: chunk})
	s.notify.Send(notify.KindChunkAssigned, *chunk.EngineerID, map[string]any{
		"chunk_id": chunk.ID, "work_id": work.ID, "date": *chunk.Date, "start_hour": *chunk.StartHour,
	})
	return chunk, nil
}

// writeAssignment performs the §4.10 read-modify-write: re-validate
// the overlap invariant against persisted neighbors, set the triple,
// bump status and version, and recompute the owning work's status.
func (s *Service) writeAssignment(chunk *types.WorkChunk, work *types.Work, suggestion types.SlotSuggestion, dist *distance.Oracle) error {
	neighbors, err := s.store.ListWorkChunksByEngineerDate(suggestion.EngineerID, suggestion.Date)
	if err != nil {
		return err
	}
	existing, err := occupiedIntervalsExcluding(s.store, neighbors, chunk.ID)
	if err != nil {
		return err
	}
	candidate := types.OccupiedInterval{
		Start: suggestion.StartHour,
		End:   suggestion.EndHour,
		DC:    suggestion.DataCenterID,
	}
	if err := checkNoOverlap(existing, candidate, dist); err != nil {
		return err
	}

	version := chunk.Version
	chunk.SetAssignment(suggestion.EngineerID, suggestion.Date, suggestion.StartHour)
	chunk.Status = types.ChunkStatusPlanned
	if err := s.store.UpdateWorkChunk(chunk, &version); err != nil {
		return err
	}

	return s.recomputeWorkStatus(work.ID)
}

func occupiedIntervalsExcluding(store storage.Store, chunks []*types.WorkChunk, excludeChunkID string) ([]types.OccupiedInterval, error) {
	var out []types.OccupiedInterval
	for _, c := range chunks {
		if c.ID == excludeChunkID || !c.IsAssigned() {
			continue
		}
		if c.Status != types.ChunkStatusPlanned && c.Status != types.ChunkStatusAssigned && c.Status != types.ChunkStatusInProgress {
			continue
		}
		w, err := store.GetWork(c.WorkID)
		if err != nil {
			return nil, err
		}
		duration, err := chunkcalc.DurationHours(store, c.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, types.OccupiedInterval{
			Start: *c.StartHour,
			End:   *c.StartHour + duration,
			DC:    types.EffectiveDC(c, w),
		})
	}
	return out, nil
}

// UnassignChunk implements §4.8 unassign_chunk; idempotent (P7).
func (s *Service) UnassignChunk(chunkID, actorID string) error {
	chunk, err := s.store.GetWorkChunk(chunkID)
	if err != nil {
		return err
	}
	if chunk.Status != types.ChunkStatusPlanned && chunk.Status != types.ChunkStatusAssigned {
		return nil // already unassigned: no-op success
	}

	version := chunk.Version
	chunk.ClearAssignment()
	chunk.Status = types.ChunkStatusCreated
	if err := s.store.UpdateWorkChunk(chunk, &version); err != nil {
		return err
	}
	if err := s.recomputeWorkStatus(chunk.WorkID); err != nil {
		return err
	}
	s.bus.Publish(&events.Event{Kind: events.KindChunkUpdated, EntityID: chunk.ID, ActorID: actorID})
	return nil
}

func (s *Service) recomputeWorkStatus(workID string) error {
	chunks, err := s.store.ListWorkChunksByWork(workID)
	if err != nil {
		return err
	}
	statuses := make([]types.ChunkStatus, 0, len(chunks))
	for _, c := range chunks {
		statuses = append(statuses, c.Status)
	}
	newStatus, ok := workstatus.Derive(statuses)
	if !ok {
		return nil
	}
	work, err := s.store.GetWork(workID)
	if err != nil {
		return err
	}
	if work.Status == newStatus {
		return nil
	}
	work.Status = newStatus
	return s.store.UpdateWork(work, nil)
}

// AssignAllResult is the (assigned_count, errors[]) pair returned by
// assign_all_chunks.
type AssignAllResult struct {
	AssignedCount int
	Errors        []string
}

// AssignAllChunks implements §4.8 assign_all_chunks: it iterates the
// work's created chunks in strategy order, uses a per-run overlay so
// later chunks see earlier successes, and flushes all writes at the
// end.
func (s *Service) AssignAllChunks(workID, strategyName, actorID string) (*AssignAllResult, error) {
	strat, err := strategy.New(strategyName)
	if err != nil {
		return nil, err
	}

	work, err := s.store.GetWork(workID)
	if err != nil {
		return nil, err
	}
	allChunks, err := s.store.ListWorkChunksByWork(workID)
	if err != nil {
		return nil, err
	}

	items := make([]strategy.QueueItem, 0)
	byChunkID := map[string]*types.WorkChunk{}
	for _, c := range allChunks {
		if c.Status != types.ChunkStatusCreated {
			continue
		}
		item, err := queueItemFor(s.store, c, work)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		byChunkID[c.ID] = c
	}
	strat.Sort(items)

	dist, err := distance.Load(s.store)
	if err != nil {
		return nil, err
	}
	overlay := NewContext()
	result := &AssignAllResult{}

	for _, item := range items {
		chunk := byChunkID[item.ChunkID]

		preferred, hasPreferred := overlay.PreferredEngineerForWork(workID)
		if !hasPreferred {
			preferred, _ = s.persistedPreferredEngineer(workID)
		}

		suggestion, err := searchChunk(s.store, dist, overlay, chunk, work, strat, preferred)
		if err != nil {
			result.Errors = append(result.Errors, chunk.ID+": "+err.Error())
			metrics.ChunksFailed.WithLabelValues(strat.Name()).Inc()
			continue
		}
		metrics.ChunksScheduled.WithLabelValues(strat.Name()).Inc()

		duration, err := chunkcalc.DurationHours(s.store, chunk.ID)
		if err != nil {
			return nil, err
		}
		overlay.Add(types.SessionAssignment{
			ChunkID:       chunk.ID,
			WorkID:        workID,
			EngineerID:    suggestion.EngineerID,
			Date:          suggestion.Date,
			StartHour:     suggestion.StartHour,
			DurationHours: duration,
			DataCenterID:  suggestion.DataCenterID,
			Priority:      work.Priority,
		})
		result.AssignedCount++
	}

	if err := s.flushOverlay(overlay, dist); err != nil {
		return nil, err
	}
	if err := s.recomputeWorkStatus(workID); err != nil {
		return nil, err
	}
	for _, a := range overlay.Assignments() {
		s.bus.Publish(&events.Event{Kind: events.KindChunkPlanned, EntityID: a.ChunkID, ActorID: actorID, Data: a})
	}

	return result, nil
}

// flushOverlay persists every virtual assignment in overlay, each
// re-validated against persisted neighbors immediately before its own
// write (§4.10).
func (s *Service) flushOverlay(overlay *Context, dist *distance.Oracle) error {
	for _, a := range overlay.Assignments() {
		chunk, err := s.store.GetWorkChunk(a.ChunkID)
		if err != nil {
			return err
		}
		work, err := s.store.GetWork(a.WorkID)
		if err != nil {
			return err
		}
		suggestion := types.SlotSuggestion{
			EngineerID:   a.EngineerID,
			Date:         a.Date,
			StartHour:    a.StartHour,
			EndHour:      a.StartHour + a.DurationHours,
			DataCenterID: a.DataCenterID,
		}
		if err := s.writeAssignment(chunk, work, suggestion, dist); err != nil {
			return err
		}
	}
	return nil
}
