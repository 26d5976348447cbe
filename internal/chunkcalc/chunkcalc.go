// Package chunkcalc computes the one derived quantity several
// components need independently: a chunk's total duration in hours,
// the sum of its WorkTasks' estimated_hours * quantity (§3, P6).
package chunkcalc

import (
	"github.com/EvgeniyBoldov/calendar/internal/apperr"
	"github.com/EvgeniyBoldov/calendar/internal/storage"
)

// DurationHours sums WorkTask hours for chunkID.
func DurationHours(store storage.Store, chunkID string) (int, error) {
	tasks, err := store.ListWorkTasksByChunk(chunkID)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, t := range tasks {
		total += t.Hours()
	}
	return total, nil
}

// RequireAssignable returns an InvalidInput error if hours is not a
// positive duration (§4.5 edge case: zero-duration chunk is refused).
func RequireAssignable(hours int) error {
	if hours < 1 {
		return apperr.InvalidInputf("chunk duration must be at least 1 hour, got %d", hours)
	}
	return nil
}
