package planning

import (
	"github.com/EvgeniyBoldov/calendar/internal/apperr"
	"github.com/EvgeniyBoldov/calendar/internal/calendar"
	"github.com/EvgeniyBoldov/calendar/internal/constraints"
	"github.com/EvgeniyBoldov/calendar/internal/dependency"
	"github.com/EvgeniyBoldov/calendar/internal/distance"
	"github.com/EvgeniyBoldov/calendar/internal/slotsearch"
	"github.com/EvgeniyBoldov/calendar/internal/storage"
	"github.com/EvgeniyBoldov/calendar/internal/strategy"
	"github.com/EvgeniyBoldov/calendar/internal/types"
)

// searchChunk runs §4.5+§4.7 for one chunk: it builds the candidate
// engineer set from §4.4's constraints, searches each over the
// relevant date window, and lets strat pick the winner. overlay may be
// nil for a single, non-batched search (suggest_slot).
func searchChunk(
	store storage.Store,
	dist *distance.Oracle,
	overlay *Context,
	chunk *types.WorkChunk,
	work *types.Work,
	strat strategy.Strategy,
	preferredEngineerID string,
) (*types.SlotSuggestion, error) {
	// overlay is a *Context that may be nil; converting a nil pointer
	// straight to an interface value produces a non-nil interface
	// wrapping a nil pointer, so the two interface variables below are
	// built explicitly rather than by passing overlay directly.
	var dateOverlay dependency.DateOverlay
	var candidateOverlay calendar.Overlay = calendar.NoOverlay{}
	if overlay != nil {
		dateOverlay = overlay
		candidateOverlay = overlay
	}

	cc, err := constraints.Compute(store, chunk, work, dateOverlay)
	if err != nil {
		return nil, err
	}
	view := calendar.NewView(store, candidateOverlay)

	engineers, err := eligibleEngineers(store, cc.AllowedRegionIDs)
	if err != nil {
		return nil, err
	}
	if len(engineers) == 0 {
		return nil, apperr.NoSlotf("no eligible engineers for chunk %s", chunk.ID)
	}
	engineers = withPreferredFirst(engineers, preferredEngineerID)

	d0, d1 := cc.MinDate, cc.MaxDate
	if cc.FixedDate != "" {
		d0, d1 = cc.FixedDate, cc.FixedDate
	}

	search := slotsearch.New(store, view, dist)

	var candidates []strategy.Candidate
	for _, eng := range engineers {
		suggestions, err := search.FindAvailableSlots(eng.ID, cc.DataCenterID, cc.DurationHours, d0, d1, cc.FixedTime)
		if err != nil {
			return nil, err
		}
		for _, s := range suggestions {
			used, capacity, err := view.Load(eng.ID, s.Date, s.Date)
			if err != nil {
				return nil, err
			}
			dcToday, _, err := view.EngineerDCOn(eng.ID, s.Date)
			if err != nil {
				return nil, err
			}
			candidates = append(candidates, strategy.Candidate{
				Suggestion:      s,
				UsedHours:       used,
				CapacityHours:   capacity,
				DurationHours:   cc.DurationHours,
				EngineerDCToday: dcToday,
			})
		}
	}

	if len(candidates) == 0 {
		return nil, apperr.NoSlotf("no feasible slot for chunk %s in [%s, %s]", chunk.ID, d0, d1)
	}

	best := strat.SelectBest(candidates)
	return &best.Suggestion, nil
}

func eligibleEngineers(store storage.Store, allowedRegionIDs []string) ([]*types.Engineer, error) {
	if len(allowedRegionIDs) == 0 {
		return store.ListEngineers()
	}
	return store.ListEngineersByRegion(allowedRegionIDs[0])
}

func withPreferredFirst(engineers []*types.Engineer, preferredID string) []*types.Engineer {
	if preferredID == "" {
		return engineers
	}
	out := make([]*types.Engineer, 0, len(engineers))
	var preferred *types.Engineer
	for _, e := range engineers {
		if e.ID == preferredID {
			preferred = e
			continue
		}
		out = append(out, e)
	}
	if preferred == nil {
		return engineers
	}
	return append([]*types.Engineer{preferred}, out...)
}
