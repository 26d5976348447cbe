package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/EvgeniyBoldov/calendar/internal/apperr"
	"github.com/EvgeniyBoldov/calendar/internal/events"
)

func marshalEvent(e *events.Event) ([]byte, error) {
	return json.Marshal(e)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

// writeError maps an apperr.Kind (§7) onto its HTTP status and emits a
// uniform {error, kind} body. Errors with no apperr.Kind are treated as
// opaque internal errors, per §7's "DB errors... surface as Conflict
// (on version) or an opaque internal error otherwise".
func writeError(w http.ResponseWriter, err error) {
	kind, ok := apperr.KindOf(err)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error(), "kind": "internal"})
		return
	}
	status := http.StatusInternalServerError
	switch kind {
	case apperr.NotFound:
		status = http.StatusNotFound
	case apperr.Conflict:
		status = http.StatusConflict
	case apperr.NoSlot:
		status = http.StatusUnprocessableEntity
	case apperr.InvalidState:
		status = http.StatusConflict
	case apperr.Forbidden:
		status = http.StatusForbidden
	case apperr.InvalidInput:
		status = http.StatusBadRequest
	}
	writeJSON(w, status, map[string]string{"error": err.Error(), "kind": string(kind)})
}

func decodeJSON(r *http.Request, dst any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apperr.InvalidInputf("malformed request body: %v", err)
	}
	return nil
}
