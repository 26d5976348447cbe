// Package slotsearch implements the Slot Search Engine (C6): for one
// (engineer, chunk, date window) it enumerates a first feasible start
// hour per day using a travel-aware sweep over the engineer's work
// windows, per §4.5.
package slotsearch

import (
	"github.com/EvgeniyBoldov/calendar/internal/calendar"
	"github.com/EvgeniyBoldov/calendar/internal/chunkcalc"
	"github.com/EvgeniyBoldov/calendar/internal/dateutil"
	"github.com/EvgeniyBoldov/calendar/internal/distance"
	"github.com/EvgeniyBoldov/calendar/internal/storage"
	"github.com/EvgeniyBoldov/calendar/internal/types"
)

// Engine runs §4.5's per-day sweep against a Calendar View and a
// Distance Oracle snapshot taken once per planning call.
type Engine struct {
	store    storage.Store
	view     *calendar.View
	distance *distance.Oracle
}

// New builds a search engine bound to one planning call's snapshots.
func New(store storage.Store, view *calendar.View, oracle *distance.Oracle) *Engine {
	return &Engine{store: store, view: view, distance: oracle}
}

// FindAvailableSlots enumerates at most one SlotSuggestion per day in
// [d0, d1] for engineerID on chunk, targeting targetDC with the given
// duration. fixedTime, if non-nil, restricts each day to that single
// pinned start hour (support work with target_time, §4.5 point 4).
func (e *Engine) FindAvailableSlots(engineerID string, targetDC string, durationHours int, d0, d1 string, fixedTime *int) ([]types.SlotSuggestion, error) {
	if err := chunkcalc.RequireAssignable(durationHours); err != nil {
		return nil, err
	}

	days, err := dateutil.Range(d0, d1)
	if err != nil {
		return nil, err
	}

	var suggestions []types.SlotSuggestion
	for _, day := range days {
		windows, err := e.view.Slots(engineerID, day)
		if err != nil {
			return nil, err
		}
		if len(windows) == 0 {
			continue
		}

		occupied, err := e.view.Occupied(engineerID, day)
		if err != nil {
			return nil, err
		}

		var found *int
		for _, w := range windows {
			var start int
			var ok bool
			if fixedTime != nil {
				start, ok = e.checkFixedStart(*fixedTime, w, occupied, targetDC, durationHours)
			} else {
				start, ok = e.sweepWindow(w, occupied, targetDC, durationHours)
			}
			if ok {
				found = &start
				break
			}
		}
		if found != nil {
			suggestions = append(suggestions, types.SlotSuggestion{
				EngineerID:   engineerID,
				Date:         day,
				StartHour:    *found,
				EndHour:      *found + durationHours,
				DataCenterID: targetDC,
			})
		}
	}
	return suggestions, nil
}

// sweepWindow runs the single sweep of §4.5 steps 1-3 over one work
// window, returning the first feasible start hour.
func (e *Engine) sweepWindow(w types.TimeSlot, occupied []types.OccupiedInterval, targetDC string, duration int) (int, bool) {
	ws, we := w.StartHour, w.EndHour

	cursor := ws
	var prev *types.OccupiedInterval

	for i := range occupied {
		occ := occupied[i]
		if occ.End <= ws || occ.Start >= we {
			continue // does not intersect this window
		}

		potential := max(cursor, ws)
		if prev != nil {
			potential = max(potential, prev.End+e.distance.TravelHours(prev.DC, targetDC))
		}
		travelOut := e.distance.TravelHours(targetDC, occ.DC)

		if potential+duration+travelOut <= occ.Start && potential+duration <= we && potential >= ws {
			return potential, true
		}

		cursor = max(cursor, occ.End)
		prevCopy := occ
		prev = &prevCopy
	}

	// Tail: no emission inside the loop, try after the last occupied
	// interval (or the whole window if none intersected it).
	potential := max(cursor, ws)
	if prev != nil {
		potential = max(potential, prev.End+e.distance.TravelHours(prev.DC, targetDC))
	}
	if potential+duration <= we && potential >= ws {
		return potential, true
	}
	return 0, false
}

// checkFixedStart restricts the sweep to a single pinned start hour
// (support work with a target_time), per §4.5 point 4: the start is
// fixed, feasibility is the usual travel/capacity check.
func (e *Engine) checkFixedStart(start int, w types.TimeSlot, occupied []types.OccupiedInterval, targetDC string, duration int) (int, bool) {
	if start < w.StartHour || start+duration > w.EndHour {
		return 0, false
	}
	for i := range occupied {
		occ := occupied[i]
		if occ.End <= w.StartHour || occ.Start >= w.EndHour {
			continue
		}
		if start < occ.Start {
			travelOut := e.distance.TravelHours(targetDC, occ.DC)
			if start+duration+travelOut > occ.Start {
				return 0, false
			}
		} else if start >= occ.End {
			travelIn := e.distance.TravelHours(occ.DC, targetDC)
			if occ.End+travelIn > start {
				return 0, false
			}
		} else {
			return 0, false // overlaps an occupied interval outright
		}
	}
	return start, true
}
