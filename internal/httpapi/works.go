package httpapi

import (
	"net/http"
	"strings"

	"github.com/EvgeniyBoldov/calendar/internal/apperr"
	"github.com/EvgeniyBoldov/calendar/internal/manager"
	"github.com/EvgeniyBoldov/calendar/internal/types"
	"github.com/gorilla/mux"
)

func (s *Server) registerWorkRoutes(api *mux.Router) {
	api.HandleFunc("/works", s.handleListWorks).Methods(http.MethodGet)
	api.HandleFunc("/works", s.handleCreateWork).Methods(http.MethodPost)
	api.HandleFunc("/works/chunks/confirm-planned", s.handleConfirmPlanned).Methods(http.MethodPost)
	api.HandleFunc("/works/{id}", s.handleGetWork).Methods(http.MethodGet)
	api.HandleFunc("/works/{id}", s.handleUpdateWork).Methods(http.MethodPatch)
	api.HandleFunc("/works/{id}", s.handleDeleteWork).Methods(http.MethodDelete)

	api.HandleFunc("/works/{w}/chunks", s.handleCreateChunk).Methods(http.MethodPost)
	api.HandleFunc("/works/{w}/chunks/{c}", s.handleUpdateChunk).Methods(http.MethodPatch)
	api.HandleFunc("/works/{w}/chunks/{c}", s.handleDeleteChunk).Methods(http.MethodDelete)
	api.HandleFunc("/works/{w}/chunks/{c}/auto-assign", s.handleAutoAssignChunk).Methods(http.MethodPost)
	api.HandleFunc("/works/{w}/chunks/{c}/unassign", s.handleUnassignChunk).Methods(http.MethodPost)
	api.HandleFunc("/works/{w}/chunks/{c}/suggest-slot", s.handleSuggestSlot).Methods(http.MethodGet)
	api.HandleFunc("/works/{w}/auto-assign", s.handleAutoAssignAll).Methods(http.MethodPost)
	api.HandleFunc("/works/{w}/cancel-all-chunks", s.handleCancelAllChunks).Methods(http.MethodPost)
}

// handleListWorks applies the §6.1 filters in-memory: the Store's
// listing contract is a flat ListWorks, so role/status/priority/search
// filtering is the HTTP layer's job, matching spec.md §9's "the
// Planning Service accepts trusted IDs; the HTTP layer performs
// filtering".
func (s *Server) handleListWorks(w http.ResponseWriter, r *http.Request) {
	works, err := s.mgr.ListWorks()
	if err != nil {
		writeError(w, err)
		return
	}

	q := r.URL.Query()
	statuses := toSet(q["status"])
	priorities := toSet(q["priority"])
	dcID := q.Get("data_center_id")
	authorID := q.Get("author_id")
	search := strings.ToLower(q.Get("search"))
	activeOnly := q.Get("active_only") == "true"
	completedOnly := q.Get("completed_only") == "true"

	out := make([]*types.Work, 0, len(works))
	for _, wk := range works {
		if len(statuses) > 0 && !statuses[string(wk.Status)] {
			continue
		}
		if len(priorities) > 0 && !priorities[string(wk.Priority)] {
			continue
		}
		if dcID != "" && wk.DataCenterID != dcID {
			continue
		}
		if authorID != "" && wk.AuthorID != authorID {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(wk.Title), search) {
			continue
		}
		if activeOnly && (wk.Status == types.WorkStatusCompleted || wk.Status == types.WorkStatusDocumented) {
			continue
		}
		if completedOnly && wk.Status != types.WorkStatusCompleted && wk.Status != types.WorkStatusDocumented {
			continue
		}
		out = append(out, wk)
	}
	writeJSON(w, http.StatusOK, out)
}

func toSet(values []string) map[string]bool {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]bool, len(values))
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part != "" {
				set[part] = true
			}
		}
	}
	return set
}

type createWorkRequest struct {
	Type          types.WorkType  `json:"type"`
	Title         string          `json:"title"`
	Priority      types.Priority  `json:"priority"`
	DataCenterID  string          `json:"data_center_id"`
	DueDate       string          `json:"due_date"`
	TargetDate    string          `json:"target_date"`
	TargetTime    *int            `json:"target_time"`
	DurationHours int             `json:"duration_hours"`
}

func (s *Server) handleCreateWork(w http.ResponseWriter, r *http.Request) {
	var req createWorkRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	work, err := s.mgr.CreateWork(manager.NewWorkInput{
		Type: req.Type, Title: req.Title, Priority: req.Priority, AuthorID: ActorID(r),
		DataCenterID: req.DataCenterID, DueDate: req.DueDate, TargetDate: req.TargetDate,
		TargetTime: req.TargetTime, DurationHours: req.DurationHours,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, work)
}

func (s *Server) handleGetWork(w http.ResponseWriter, r *http.Request) {
	work, err := s.mgr.GetWork(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, work)
}

type updateWorkRequest struct {
	Title        *string         `json:"title"`
	Priority     *types.Priority `json:"priority"`
	DataCenterID *string         `json:"data_center_id"`
	DueDate      *string         `json:"due_date"`
	Version      *int            `json:"version"`
}

func (s *Server) handleUpdateWork(w http.ResponseWriter, r *http.Request) {
	var req updateWorkRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	work, err := s.mgr.UpdateWork(mux.Vars(r)["id"], manager.UpdateWorkPatch{
		Title: req.Title, Priority: req.Priority, DataCenterID: req.DataCenterID, DueDate: req.DueDate,
	}, req.Version)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, work)
}

func (s *Server) handleDeleteWork(w http.ResponseWriter, r *http.Request) {
	if err := s.mgr.DeleteWork(mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type createChunkRequest struct {
	DataCenterID string `json:"data_center_id"`
	Order        int    `json:"order"`
}

func (s *Server) handleCreateChunk(w http.ResponseWriter, r *http.Request) {
	var req createChunkRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	chunk, err := s.mgr.CreateWorkChunk(mux.Vars(r)["w"], req.DataCenterID, req.Order)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, chunk)
}

type updateChunkRequest struct {
	DataCenterID string `json:"data_center_id"`
	Version      *int   `json:"version"`
}

func (s *Server) handleUpdateChunk(w http.ResponseWriter, r *http.Request) {
	var req updateChunkRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	chunk, err := s.mgr.UpdateWorkChunkDataCenter(mux.Vars(r)["c"], req.DataCenterID, req.Version)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, chunk)
}

func (s *Server) handleDeleteChunk(w http.ResponseWriter, r *http.Request) {
	if err := s.mgr.DeleteWorkChunk(mux.Vars(r)["c"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAutoAssignChunk(w http.ResponseWriter, r *http.Request) {
	chunk, err := s.plan.AssignChunk(mux.Vars(r)["c"], ActorID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, chunk)
}

func (s *Server) handleUnassignChunk(w http.ResponseWriter, r *http.Request) {
	if err := s.plan.UnassignChunk(mux.Vars(r)["c"], ActorID(r)); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleSuggestSlot implements §6.1's {found, suggestion?, reason?}
// contract: a NoSlot error is not an HTTP error here, it is a
// found:false result (§7's "planning operations never raise
// partial-success exceptions").
func (s *Server) handleSuggestSlot(w http.ResponseWriter, r *http.Request) {
	suggestion, err := s.plan.SuggestSlot(mux.Vars(r)["c"])
	if err != nil {
		if apperr.Is(err, apperr.NoSlot) {
			writeJSON(w, http.StatusOK, map[string]any{"found": false, "reason": err.Error()})
			return
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"found": true, "suggestion": suggestion})
}

type autoAssignAllRequest struct {
	Strategy string `json:"strategy"`
}

func (s *Server) handleAutoAssignAll(w http.ResponseWriter, r *http.Request) {
	var req autoAssignAllRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	result, err := s.plan.AssignAllChunks(mux.Vars(r)["w"], req.Strategy, ActorID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": len(result.Errors) == 0, "assigned_count": result.AssignedCount, "errors": result.Errors,
	})
}

type confirmPlannedRequest struct {
	ChunkIDs []string `json:"chunk_ids"`
}

func (s *Server) handleConfirmPlanned(w http.ResponseWriter, r *http.Request) {
	var req confirmPlannedRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	confirmed, errs := s.plan.ConfirmPlanned(req.ChunkIDs, ActorID(r))
	writeJSON(w, http.StatusOK, map[string]any{"success": len(errs) == 0, "confirmed_count": confirmed, "errors": errs})
}

func (s *Server) handleCancelAllChunks(w http.ResponseWriter, r *http.Request) {
	count, err := s.plan.CancelAllChunks(mux.Vars(r)["w"], ActorID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"cancelled_count": count})
}
