// Package calendar implements the Calendar View (C3): it merges
// persisted chunk assignments with a planning run's in-memory virtual
// assignments to answer occupancy/load/DC questions per engineer-day.
package calendar

import (
	"sort"

	"github.com/EvgeniyBoldov/calendar/internal/chunkcalc"
	"github.com/EvgeniyBoldov/calendar/internal/dateutil"
	"github.com/EvgeniyBoldov/calendar/internal/storage"
	"github.com/EvgeniyBoldov/calendar/internal/types"
)

// occupyingStatuses are the chunk statuses whose assignment counts as
// occupying the engineer's calendar (§4.2).
var occupyingStatuses = map[types.ChunkStatus]bool{
	types.ChunkStatusPlanned:    true,
	types.ChunkStatusAssigned:   true,
	types.ChunkStatusInProgress: true,
}

// Overlay exposes a planning run's virtual assignments to the
// Calendar View without the View needing to know about the Planning
// Service's internals (the overlay lives in internal/planning and is
// passed down per §9's "bind the overlay to a per-call context").
type Overlay interface {
	// VirtualOccupied returns the virtual occupied intervals proposed
	// so far in this run for (engineer, date).
	VirtualOccupied(engineerID, date string) []types.OccupiedInterval
}

// NoOverlay is an Overlay with nothing virtual in it, for read paths
// outside of a planning run (e.g. the HTTP calendar view).
type NoOverlay struct{}

func (NoOverlay) VirtualOccupied(string, string) []types.OccupiedInterval { return nil }

// View answers §4.2's four operations against a store snapshot plus
// an overlay.
type View struct {
	store   storage.Store
	overlay Overlay
}

// NewView builds a Calendar View. Pass calendar.NoOverlay{} outside of
// a planning run.
func NewView(store storage.Store, overlay Overlay) *View {
	if overlay == nil {
		overlay = NoOverlay{}
	}
	return &View{store: store, overlay: overlay}
}

// Slots returns the engineer's work windows on date, ordered by start.
func (v *View) Slots(engineerID, date string) ([]types.TimeSlot, error) {
	slots, err := v.store.ListTimeSlotsByEngineerDate(engineerID, date)
	if err != nil {
		return nil, err
	}
	out := make([]types.TimeSlot, 0, len(slots))
	for _, s := range slots {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartHour < out[j].StartHour })
	return out, nil
}

// Occupied returns the union of persisted occupying assignments and
// this run's virtual assignments for (engineer, date), sorted by
// start.
func (v *View) Occupied(engineerID, date string) ([]types.OccupiedInterval, error) {
	chunks, err := v.store.ListWorkChunksByEngineerDate(engineerID, date)
	if err != nil {
		return nil, err
	}

	var out []types.OccupiedInterval
	for _, c := range chunks {
		if !occupyingStatuses[c.Status] || !c.IsAssigned() {
			continue
		}
		work, err := v.store.GetWork(c.WorkID)
		if err != nil {
			return nil, err
		}
		duration, err := chunkcalc.DurationHours(v.store, c.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, types.OccupiedInterval{
			Start: *c.StartHour,
			End:   *c.StartHour + duration,
			DC:    types.EffectiveDC(c, work),
		})
	}

	out = append(out, v.overlay.VirtualOccupied(engineerID, date)...)

	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out, nil
}

// Load sums used hours (persisted + virtual chunk durations) against
// available capacity (sum of TimeSlot durations) over [fromDate,
// toDate].
func (v *View) Load(engineerID, fromDate, toDate string) (usedHours, capacityHours int, err error) {
	dates, err := dateutil.Range(fromDate, toDate)
	if err != nil {
		return 0, 0, err
	}
	for _, d := range dates {
		slots, err := v.Slots(engineerID, d)
		if err != nil {
			return 0, 0, err
		}
		for _, s := range slots {
			capacityHours += s.Duration()
		}

		occ, err := v.Occupied(engineerID, d)
		if err != nil {
			return 0, 0, err
		}
		for _, o := range occ {
			usedHours += o.End - o.Start
		}
	}
	return usedHours, capacityHours, nil
}

// EngineerDCOn returns the first non-null DC the engineer is booked at
// on date (persisted or virtual), if any.
func (v *View) EngineerDCOn(engineerID, date string) (dcID string, ok bool, err error) {
	occ, err := v.Occupied(engineerID, date)
	if err != nil {
		return "", false, err
	}
	for _, o := range occ {
		if o.DC != "" {
			return o.DC, true, nil
		}
	}
	return "", false, nil
}
