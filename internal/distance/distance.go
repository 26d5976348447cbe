// Package distance implements the Distance Oracle (C2): directed
// travel-time lookups between data center pairs.
package distance

import (
	"github.com/EvgeniyBoldov/calendar/internal/storage"
)

const defaultMinutes = 60

// Oracle answers travel_hours(from, to) per §4.1. It caches the
// distance table for the lifetime of one planning call, matching the
// "load once per planning call" guidance in §9 (global caches are
// read-mostly; never mutate in place while a search reads).
type Oracle struct {
	// byPair is keyed "from|to" for O(1) lookup.
	byPair map[string]int
}

// Load snapshots every DistanceEntry from the store. Call once per
// planning run; the Oracle instance must not be reused across runs
// that could observe a concurrent distance-table edit.
func Load(store storage.Store) (*Oracle, error) {
	entries, err := store.ListDistanceEntries()
	if err != nil {
		return nil, err
	}
	o := &Oracle{byPair: make(map[string]int, len(entries))}
	for _, e := range entries {
		o.byPair[e.FromDCID+"|"+e.ToDCID] = e.Minutes
	}
	return o, nil
}

// TravelHours returns the travel time between two DCs in whole hours,
// rounded up. Identical or empty endpoints are zero. Directed lookup
// falls back to the reverse pair, then to a 60-minute default; the
// fallback never writes back into the table (§4.1).
func (o *Oracle) TravelHours(fromDC, toDC string) int {
	return ceilMinutesToHours(o.travelMinutes(fromDC, toDC))
}

func (o *Oracle) travelMinutes(fromDC, toDC string) int {
	if fromDC == "" || toDC == "" || fromDC == toDC {
		return 0
	}
	if m, ok := o.byPair[fromDC+"|"+toDC]; ok {
		return m
	}
	if m, ok := o.byPair[toDC+"|"+fromDC]; ok {
		return m
	}
	return defaultMinutes
}

func ceilMinutesToHours(minutes int) int {
	if minutes <= 0 {
		return 0
	}
	return (minutes + 59) / 60
}
