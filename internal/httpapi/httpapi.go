// Package httpapi serves the HTTP/JSON surface of spec §6.1 over
// gorilla/mux, since the teacher's own transport is gRPC and has no
// cookie-auth or SSE story to reuse (see DESIGN.md). Route handlers
// are thin: they decode the request, call into internal/manager or
// internal/planning, and translate the result (or *apperr.Error) to
// JSON.
package httpapi

import (
	"net/http"

	"github.com/EvgeniyBoldov/calendar/internal/events"
	"github.com/EvgeniyBoldov/calendar/internal/log"
	"github.com/EvgeniyBoldov/calendar/internal/manager"
	"github.com/EvgeniyBoldov/calendar/internal/metrics"
	"github.com/EvgeniyBoldov/calendar/internal/planning"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// Server wires the Manager and Planning Service to HTTP.
type Server struct {
	mgr    *manager.Manager
	plan   *planning.Service
	bus    *events.Broker
	auth   Authenticator
	logger zerolog.Logger
}

// New builds a Server. auth may be nil, in which case every request is
// treated as coming from TrustedDevActor (development-mode default).
func New(mgr *manager.Manager, plan *planning.Service, bus *events.Broker, auth Authenticator) *Server {
	if auth == nil {
		auth = TrustedDevAuthenticator{}
	}
	return &Server{mgr: mgr, plan: plan, bus: bus, auth: auth, logger: log.WithComponent("httpapi")}
}

// Router builds the full mux.Router: health/ready/metrics are
// unauthenticated; everything under /api requires a valid actor.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)
	r.HandleFunc("/readyz", s.handleReadyz).Methods(http.MethodGet)
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(s.authMiddleware, s.instrumentMiddleware)
	s.registerEntityRoutes(api)
	s.registerWorkRoutes(api)
	s.registerPlanningRoutes(api)
	api.HandleFunc("/sync/stream", s.handleSyncStream).Methods(http.MethodGet)

	return r
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// handleReadyz checks the one dependency this service has: the
// embedded store. Grounded on the teacher's pkg/api/health.go ready
// check shape (manager-backed liveness probe plus a cheap read).
func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{}
	ready := true
	if _, err := s.mgr.ListRegions(); err != nil {
		checks["storage"] = "error: " + err.Error()
		ready = false
	} else {
		checks["storage"] = "ok"
	}

	status := http.StatusOK
	body := map[string]any{"status": "ready", "checks": checks}
	if !ready {
		status = http.StatusServiceUnavailable
		body["status"] = "not ready"
	}
	writeJSON(w, status, body)
}
