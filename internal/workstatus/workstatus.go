// Package workstatus implements the work-status automaton (§4.9): a
// Work's status is derived from the multiset of its chunks' statuses.
package workstatus

import "github.com/EvgeniyBoldov/calendar/internal/types"

// Derive computes the new work status from the chunk statuses in S.
// If none of the automaton's cases apply, ok is false and the
// caller should leave the work's status unchanged.
func Derive(statuses []types.ChunkStatus) (status types.WorkStatus, ok bool) {
	if len(statuses) == 0 {
		return "", false
	}

	counts := map[types.ChunkStatus]int{}
	for _, s := range statuses {
		counts[s]++
	}

	if counts[types.ChunkStatusInProgress] > 0 {
		return types.WorkStatusInProgress, true
	}
	if counts[types.ChunkStatusCompleted] == len(statuses) {
		return types.WorkStatusCompleted, true
	}

	hasPlannedOrAssigned := counts[types.ChunkStatusPlanned] > 0 || counts[types.ChunkStatusAssigned] > 0
	hasCreated := counts[types.ChunkStatusCreated] > 0

	if hasPlannedOrAssigned && hasCreated {
		return types.WorkStatusScheduling, true
	}
	if hasPlannedOrAssigned && !hasCreated {
		return types.WorkStatusAssigned, true
	}
	return "", false
}
