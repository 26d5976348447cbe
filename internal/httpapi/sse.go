package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/EvgeniyBoldov/calendar/internal/metrics"
)

const syncKeepalive = 30 * time.Second

// handleSyncStream implements GET /api/sync/stream (§6.1): a
// server-sent events feed over the Event Bus, framed as event:/data:
// lines, with a 30s keepalive ping when idle.
func (s *Server) handleSyncStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "streaming unsupported"})
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	sub := s.bus.Subscribe()
	defer sub.Close()
	metrics.EventSubscribers.Inc()
	defer metrics.EventSubscribers.Dec()

	fmt.Fprintf(w, "event: connected\ndata: {}\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		default:
		}

		event, closed := sub.Next(syncKeepalive)
		if closed {
			return
		}
		if event == nil {
			fmt.Fprintf(w, "event: ping\ndata: {}\n\n")
			flusher.Flush()
			continue
		}

		payload, err := marshalEvent(event)
		if err != nil {
			s.logger.Warn().Err(err).Msg("failed to marshal sync event")
			continue
		}
		fmt.Fprintf(w, "event: sync\ndata: %s\n\n", payload)
		flusher.Flush()
	}
}
