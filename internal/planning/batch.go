package planning

import (
	"github.com/EvgeniyBoldov/calendar/internal/apperr"
	"github.com/EvgeniyBoldov/calendar/internal/events"
	"github.com/EvgeniyBoldov/calendar/internal/types"
)

// ConfirmPlanned implements the `confirm-planned` batch route (§6.1):
// every chunk in chunkIDs currently `planned` moves to `assigned`.
// Chunks in any other status are reported as errors but do not abort
// the batch.
func (s *Service) ConfirmPlanned(chunkIDs []string, actorID string) (confirmed int, errs []string) {
	touchedWorks := map[string]bool{}
	for _, id := range chunkIDs {
		chunk, err := s.store.GetWorkChunk(id)
		if err != nil {
			errs = append(errs, id+": "+err.Error())
			continue
		}
		if chunk.Status != types.ChunkStatusPlanned {
			errs = append(errs, id+": "+apperr.InvalidStatef("chunk %s is %s, not planned", id, chunk.Status).Error())
			continue
		}
		version := chunk.Version
		chunk.Status = types.ChunkStatusAssigned
		if err := s.store.UpdateWorkChunk(chunk, &version); err != nil {
			errs = append(errs, id+": "+err.Error())
			continue
		}
		touchedWorks[chunk.WorkID] = true
		confirmed++
		s.bus.Publish(&events.Event{Kind: events.KindChunkUpdated, EntityID: chunk.ID, ActorID: actorID, Data: chunk})
	}
	for workID := range touchedWorks {
		_ = s.recomputeWorkStatus(workID)
	}
	return confirmed, errs
}

// CancelAllChunks implements the `cancel-all-chunks` route (§6.1):
// every `planned` or `assigned` chunk of workID reverts to `created`.
func (s *Service) CancelAllChunks(workID, actorID string) (int, error) {
	chunks, err := s.store.ListWorkChunksByWork(workID)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, chunk := range chunks {
		if chunk.Status != types.ChunkStatusPlanned && chunk.Status != types.ChunkStatusAssigned {
			continue
		}
		version := chunk.Version
		chunk.ClearAssignment()
		chunk.Status = types.ChunkStatusCreated
		if err := s.store.UpdateWorkChunk(chunk, &version); err != nil {
			return count, err
		}
		count++
		s.bus.Publish(&events.Event{Kind: events.KindChunkUpdated, EntityID: chunk.ID, ActorID: actorID})
	}
	if count > 0 {
		if err := s.recomputeWorkStatus(workID); err != nil {
			return count, err
		}
	}
	return count, nil
}

// ListSessions, GetSession and DeleteSession round out the session
// CRUD surface (§6.1); only a draft or cancelled session may be
// deleted.
func (s *Service) ListSessions() ([]*types.PlanningSession, error) {
	return s.store.ListPlanningSessions()
}

func (s *Service) GetSession(id string) (*types.PlanningSession, error) {
	return s.store.GetPlanningSession(id)
}

func (s *Service) DeleteSession(id string) error {
	session, err := s.store.GetPlanningSession(id)
	if err != nil {
		return err
	}
	if session.Status != types.SessionDraft && session.Status != types.SessionCancelled {
		return apperr.InvalidStatef("session %s is %s, cannot be deleted", id, session.Status)
	}
	return s.store.DeletePlanningSession(id)
}
