// Package notify defines the notification-sink contract consumed by
// the scheduling core (spec §6.3): best-effort delivery that must
// never block or fail a scheduling operation.
package notify

import "github.com/EvgeniyBoldov/calendar/internal/log"

// Kind identifies a notification template.
type Kind string

const (
	KindChunkAssigned  Kind = "chunk_assigned"
	KindSessionExpired Kind = "session_expired"
)

// Sink is the external notification contract.
type Sink interface {
	Send(kind Kind, recipient string, data map[string]any)
}

// LoggingSink is the shipped implementation: it logs the notification
// it would have sent instead of delivering it, since the real
// transport (email/SMS/push) is out of scope (§1). Send never returns
// an error — per §7, notification failures are swallowed, never
// surfaced to the caller.
type LoggingSink struct{}

func (LoggingSink) Send(kind Kind, recipient string, data map[string]any) {
	log.WithComponent("notify").Debug().
		Str("kind", string(kind)).
		Str("recipient", recipient).
		Interface("data", data).
		Msg("notification sent")
}
