package planning

import (
	"time"

	"github.com/EvgeniyBoldov/calendar/internal/apperr"
	"github.com/EvgeniyBoldov/calendar/internal/chunkcalc"
	"github.com/EvgeniyBoldov/calendar/internal/distance"
	"github.com/EvgeniyBoldov/calendar/internal/events"
	"github.com/EvgeniyBoldov/calendar/internal/metrics"
	"github.com/EvgeniyBoldov/calendar/internal/notify"
	"github.com/EvgeniyBoldov/calendar/internal/strategy"
	"github.com/EvgeniyBoldov/calendar/internal/types"
	"github.com/google/uuid"
)

// sessionEntry pairs a queue key with its loaded chunk/work so the
// session build doesn't re-fetch them mid-sort.
type sessionEntry struct {
	item  strategy.QueueItem
	chunk *types.WorkChunk
	work  *types.Work
}

// CreateSession implements §4.8 create_session: it runs the same
// strategy-ordered search as AssignAllChunks over every chunk still in
// status=created, and only ever produces a draft PlanningSession —
// nothing is written to the store until ApplySession commits it.
func (s *Service) CreateSession(strategyName, userID string) (*types.PlanningSession, error) {
	strat, err := strategy.New(strategyName)
	if err != nil {
		return nil, err
	}

	chunks, err := s.store.ListWorkChunksByStatus(types.ChunkStatusCreated)
	if err != nil {
		return nil, err
	}

	entries := make([]sessionEntry, 0, len(chunks))
	for _, chunk := range chunks {
		work, err := s.store.GetWork(chunk.WorkID)
		if err != nil {
			return nil, err
		}
		item, err := queueItemFor(s.store, chunk, work)
		if err != nil {
			return nil, err
		}
		entries = append(entries, sessionEntry{item: item, chunk: chunk, work: work})
	}

	return s.runSession(entries, strat, userID)
}

func (s *Service) runSession(entries []sessionEntry, strat strategy.Strategy, userID string) (*types.PlanningSession, error) {
	sorted := make([]strategy.QueueItem, len(entries))
	byChunkID := make(map[string]*sessionEntry, len(entries))
	for i := range entries {
		sorted[i] = entries[i].item
		byChunkID[entries[i].item.ChunkID] = &entries[i]
	}
	strat.Sort(sorted)

	dist, err := distance.Load(s.store)
	if err != nil {
		return nil, err
	}
	overlay := NewContext()

	now := time.Now().UTC()
	session := &types.PlanningSession{
		ID:        uuid.New().String(),
		Strategy:  strat.Name(),
		Status:    types.SessionDraft,
		UserID:    userID,
		ExpiresAt: now.Add(s.sessionTTL),
		CreatedAt: now,
		UpdatedAt: now,
	}
	session.Stats.ByEngineer = map[string]types.EngineerStat{}
	session.Stats.ByDataCenter = map[string]types.DCStat{}
	session.Stats.ByPriority = map[types.Priority]int{}

	for _, key := range sorted {
		entry := byChunkID[key.ChunkID]
		chunk, work := entry.chunk, entry.work

		preferred, ok := overlay.PreferredEngineerForWork(work.ID)
		if !ok {
			preferred, _ = s.persistedPreferredEngineer(work.ID)
		}

		suggestion, err := searchChunk(s.store, dist, overlay, chunk, work, strat, preferred)
		if err != nil {
			session.Failed = append(session.Failed, types.SessionFailure{
				ChunkID: chunk.ID, WorkID: work.ID, Reason: err.Error(),
			})
			session.Stats.TotalFailed++
			continue
		}

		duration, err := chunkcalc.DurationHours(s.store, chunk.ID)
		if err != nil {
			return nil, err
		}
		assignment := types.SessionAssignment{
			ChunkID:       chunk.ID,
			WorkID:        work.ID,
			EngineerID:    suggestion.EngineerID,
			Date:          suggestion.Date,
			StartHour:     suggestion.StartHour,
			DurationHours: duration,
			DataCenterID:  suggestion.DataCenterID,
			Priority:      work.Priority,
		}
		overlay.Add(assignment)
		session.Assignments = append(session.Assignments, assignment)
		session.Stats.TotalAssigned++

		es := session.Stats.ByEngineer[assignment.EngineerID]
		es.Chunks++
		es.Hours += duration
		session.Stats.ByEngineer[assignment.EngineerID] = es

		ds := session.Stats.ByDataCenter[assignment.DataCenterID]
		ds.Chunks++
		ds.Hours += duration
		session.Stats.ByDataCenter[assignment.DataCenterID] = ds

		session.Stats.ByPriority[work.Priority]++
	}

	if err := s.store.CreatePlanningSession(session); err != nil {
		return nil, err
	}
	metrics.SessionsActive.Inc()
	s.bus.Publish(&events.Event{Kind: events.KindSessionCreated, EntityID: session.ID, ActorID: userID, Data: session})
	return session, nil
}

// ApplySession implements §4.10's apply_session: every assignment is
// re-validated against currently persisted neighbors before any of
// them is written, approximating the single-transaction sweep the
// store's per-entity interface does not expose directly — a violation
// on any one assignment aborts the whole apply with nothing written.
func (s *Service) ApplySession(sessionID, actorID string) (*types.PlanningSession, error) {
	session, err := s.store.GetPlanningSession(sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != types.SessionDraft {
		return nil, apperr.InvalidStatef("session %s is %s, not draft", sessionID, session.Status)
	}
	if time.Now().UTC().After(session.ExpiresAt) {
		session.Status = types.SessionExpired
		_ = s.store.UpdatePlanningSession(session)
		metrics.SessionsActive.Dec()
		metrics.SessionsExpired.Inc()
		return nil, apperr.InvalidStatef("session %s has expired", sessionID)
	}

	dist, err := distance.Load(s.store)
	if err != nil {
		return nil, err
	}

	// Pre-validation pass: nothing is written here. A chunk that moved
	// off `created` since the session was computed is skipped silently
	// (§4.8); everything else must clear the overlap invariant against
	// persisted neighbors AND the other assignments landing in this
	// same apply, accumulated as they're validated. Any violation
	// aborts the whole apply (§4.10) with nothing written.
	chunks := make(map[string]*types.WorkChunk, len(session.Assignments))
	toApply := make([]types.SessionAssignment, 0, len(session.Assignments))
	booked := map[string][]types.OccupiedInterval{}
	for _, a := range session.Assignments {
		chunk, err := s.store.GetWorkChunk(a.ChunkID)
		if err != nil {
			return nil, err
		}
		if chunk.Status != types.ChunkStatusCreated {
			continue
		}
		chunks[a.ChunkID] = chunk

		key := a.EngineerID + "|" + a.Date
		if _, seen := booked[key]; !seen {
			neighbors, err := s.store.ListWorkChunksByEngineerDate(a.EngineerID, a.Date)
			if err != nil {
				return nil, err
			}
			existing, err := occupiedIntervalsExcluding(s.store, neighbors, "")
			if err != nil {
				return nil, err
			}
			booked[key] = existing
		}

		candidate := types.OccupiedInterval{Start: a.StartHour, End: a.StartHour + a.DurationHours, DC: a.DataCenterID}
		if err := checkNoOverlap(booked[key], candidate, dist); err != nil {
			return nil, apperr.Conflictf("session %s cannot be applied: %v", sessionID, err)
		}
		booked[key] = append(booked[key], candidate)
		toApply = append(toApply, a)
	}

	// Write pass: every precondition above held at validation time.
	touchedWorks := map[string]bool{}
	for _, a := range toApply {
		chunk := chunks[a.ChunkID]
		version := chunk.Version
		chunk.SetAssignment(a.EngineerID, a.Date, a.StartHour)
		chunk.Status = types.ChunkStatusPlanned
		if err := s.store.UpdateWorkChunk(chunk, &version); err != nil {
			return nil, err
		}
		touchedWorks[a.WorkID] = true
		s.bus.Publish(&events.Event{Kind: events.KindChunkPlanned, EntityID: chunk.ID, ActorID: actorID, Data: chunk})
	}
	for workID := range touchedWorks {
		if err := s.recomputeWorkStatus(workID); err != nil {
			return nil, err
		}
	}

	session.Status = types.SessionApplied
	session.UpdatedAt = time.Now().UTC()
	if err := s.store.UpdatePlanningSession(session); err != nil {
		return nil, err
	}
	metrics.SessionsActive.Dec()
	metrics.SessionsApplied.Inc()
	s.bus.Publish(&events.Event{Kind: events.KindSessionApplied, EntityID: session.ID, ActorID: actorID, Data: session})
	return session, nil
}

// CancelSession implements §4.10's cancel_session. A draft session is
// simply marked cancelled. An applied session is rolled back: every
// chunk whose current assignment still matches what the session wrote
// is reverted to created, per the scenario in §8's S5.
func (s *Service) CancelSession(sessionID, actorID string) (*types.PlanningSession, error) {
	session, err := s.store.GetPlanningSession(sessionID)
	if err != nil {
		return nil, err
	}

	switch session.Status {
	case types.SessionDraft:
		session.Status = types.SessionCancelled
		metrics.SessionsActive.Dec()
	case types.SessionApplied:
		for _, a := range session.Assignments {
			chunk, err := s.store.GetWorkChunk(a.ChunkID)
			if err != nil {
				if apperr.Is(err, apperr.NotFound) {
					continue
				}
				return nil, err
			}
			if chunk.Status != types.ChunkStatusPlanned || !chunk.IsAssigned() ||
				*chunk.EngineerID != a.EngineerID || *chunk.Date != a.Date || *chunk.StartHour != a.StartHour {
				continue // advanced, reassigned, or unassigned since apply; leave it alone
			}
			version := chunk.Version
			chunk.ClearAssignment()
			chunk.Status = types.ChunkStatusCreated
			if err := s.store.UpdateWorkChunk(chunk, &version); err != nil {
				return nil, err
			}
			if err := s.recomputeWorkStatus(a.WorkID); err != nil {
				return nil, err
			}
			s.bus.Publish(&events.Event{Kind: events.KindChunkUpdated, EntityID: chunk.ID, ActorID: actorID})
		}
		session.Status = types.SessionCancelled
	default:
		return nil, apperr.InvalidStatef("session %s is %s, cannot be cancelled", sessionID, session.Status)
	}

	session.UpdatedAt = time.Now().UTC()
	if err := s.store.UpdatePlanningSession(session); err != nil {
		return nil, err
	}
	s.bus.Publish(&events.Event{Kind: events.KindSessionCancelled, EntityID: session.ID, ActorID: actorID})
	return session, nil
}

// ExpireSessions transitions every draft session whose expires_at has
// passed to expired. It is driven by a background ticker (see
// RunExpiryLoop) grounded on the teacher's scheduler run-loop shape.
func (s *Service) ExpireSessions() (int, error) {
	expiring, err := s.store.ListDraftSessionsExpiringBefore(time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return 0, err
	}
	count := 0
	for _, session := range expiring {
		session.Status = types.SessionExpired
		session.UpdatedAt = time.Now().UTC()
		if err := s.store.UpdatePlanningSession(session); err != nil {
			return count, err
		}
		metrics.SessionsActive.Dec()
		metrics.SessionsExpired.Inc()
		s.notify.Send(notify.KindSessionExpired, session.UserID, map[string]any{"session_id": session.ID})
		count++
	}
	return count, nil
}

// RunExpiryLoop ticks every interval until stop is closed, sweeping
// expired draft sessions each time.
func (s *Service) RunExpiryLoop(interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if n, err := s.ExpireSessions(); err != nil {
				s.logger.Warn().Err(err).Msg("session expiry sweep failed")
			} else if n > 0 {
				s.logger.Info().Int("count", n).Msg("expired draft sessions")
			}
		case <-stop:
			return
		}
	}
}
