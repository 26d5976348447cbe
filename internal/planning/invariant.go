package planning

import (
	"sort"

	"github.com/EvgeniyBoldov/calendar/internal/apperr"
	"github.com/EvgeniyBoldov/calendar/internal/distance"
	"github.com/EvgeniyBoldov/calendar/internal/types"
)

// checkNoOverlap re-validates P1 ("no temporal overlap, with travel")
// for one engineer-day after inserting candidate alongside existing
// persisted intervals. It is the §4.10(c) "re-validates the overlap
// invariant against persisted neighbors before commit" step.
func checkNoOverlap(existing []types.OccupiedInterval, candidate types.OccupiedInterval, dist *distance.Oracle) error {
	all := make([]types.OccupiedInterval, 0, len(existing)+1)
	all = append(all, existing...)
	all = append(all, candidate)
	sort.Slice(all, func(i, j int) bool { return all[i].Start < all[j].Start })

	for i := 0; i+1 < len(all); i++ {
		a, b := all[i], all[i+1]
		if a.Start == b.Start {
			return apperr.Conflictf("overlapping assignment at hour %d", a.Start)
		}
		if a.End+dist.TravelHours(a.DC, b.DC) > b.Start {
			return apperr.Conflictf("assignment at %d-%d conflicts with travel from a %d-%d booking", b.Start, b.End, a.Start, a.End)
		}
	}
	return nil
}
