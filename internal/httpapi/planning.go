package httpapi

import (
	"net/http"

	"github.com/EvgeniyBoldov/calendar/internal/strategy"
	"github.com/gorilla/mux"
)

func (s *Server) registerPlanningRoutes(api *mux.Router) {
	api.HandleFunc("/planning/strategies", s.handleListStrategies).Methods(http.MethodGet)
	api.HandleFunc("/planning/sessions", s.handleCreateSession).Methods(http.MethodPost)
	api.HandleFunc("/planning/sessions", s.handleListSessions).Methods(http.MethodGet)
	api.HandleFunc("/planning/sessions/{id}", s.handleGetSession).Methods(http.MethodGet)
	api.HandleFunc("/planning/sessions/{id}", s.handleDeleteSession).Methods(http.MethodDelete)
	api.HandleFunc("/planning/sessions/{id}/apply", s.handleApplySession).Methods(http.MethodPost)
	api.HandleFunc("/planning/sessions/{id}/cancel", s.handleCancelSession).Methods(http.MethodPost)
}

func (s *Server) handleListStrategies(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, strategy.Catalog())
}

type createSessionRequest struct {
	Strategy string `json:"strategy"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	session, err := s.plan.CreateSession(req.Strategy, ActorID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.plan.ListSessions()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, err := s.plan.GetSession(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.plan.DeleteSession(mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleApplySession(w http.ResponseWriter, r *http.Request) {
	session, err := s.plan.ApplySession(mux.Vars(r)["id"], ActorID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (s *Server) handleCancelSession(w http.ResponseWriter, r *http.Request) {
	session, err := s.plan.CancelSession(mux.Vars(r)["id"], ActorID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}
