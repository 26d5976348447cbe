package httpapi

import (
	"context"
	"net/http"
	"strconv"

	"github.com/EvgeniyBoldov/calendar/internal/metrics"
	"github.com/gorilla/mux"
)

// Authenticator validates the cookie pair described in spec §6.1 and
// resolves it to a trusted actor ID. A real deployment verifies a JWT
// in access_token and rotates it via refresh_token; that verification
// is out of scope (§1) — the Planning Service and Manager only ever
// see the resolved ID, never the cookies themselves.
type Authenticator interface {
	Authenticate(r *http.Request) (actorID string, ok bool)
}

// TrustedDevAuthenticator accepts every request as TrustedDevActor. It
// exists so the service is runnable without wiring a real auth
// provider; production deployments supply their own Authenticator.
type TrustedDevAuthenticator struct{}

const TrustedDevActor = "dev"

func (TrustedDevAuthenticator) Authenticate(r *http.Request) (string, bool) {
	return TrustedDevActor, true
}

type ctxKey int

const actorIDKey ctxKey = iota

// ActorID extracts the authenticated actor set by authMiddleware.
func ActorID(r *http.Request) string {
	if v, ok := r.Context().Value(actorIDKey).(string); ok {
		return v
	}
	return ""
}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actorID, ok := s.auth.Authenticate(r)
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing or invalid access token"})
			return
		}
		ctx := context.WithValue(r.Context(), actorIDKey, actorID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// instrumentMiddleware records per-route request counts and latency,
// grounded on the teacher's metrics.Timer usage.
func (s *Server) instrumentMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := routeTemplate(r)
		timer := metrics.NewTimer()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		metrics.APIRequestsTotal.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
		timer.ObserveDurationVec(metrics.APIRequestDuration, route)
	})
}

func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return r.URL.Path
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

// Flush delegates to the wrapped ResponseWriter so handlers that type-assert
// for http.Flusher (the sync stream) still see one through this wrapper.
func (rec *statusRecorder) Flush() {
	if f, ok := rec.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
