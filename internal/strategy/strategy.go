// Package strategy implements the four chunk-queue/slot-selection
// strategies (C7): balanced, dense (fill_first), sla (priority_first)
// and optimal. Each is a small interface implementation dispatched by
// name, per §9's "polymorphism over strategies" redesign flag — the
// pattern is grounded on go-foundations-workerpool's Strategy
// interface + factory, generalized from worker-pool jobs to
// scheduling chunks/candidates.
package strategy

import (
	"sort"

	"github.com/EvgeniyBoldov/calendar/internal/apperr"
	"github.com/EvgeniyBoldov/calendar/internal/types"
)

// QueueItem is the sort key input for chunk-queue ordering (§4.6).
type QueueItem struct {
	ChunkID       string
	WorkID        string
	IsSupport     bool
	Priority      types.Priority
	Deadline      string // "YYYY-MM-DD"; "" sorts as +infinity
	Order         int
	DurationHours int
}

// Candidate is one feasible slot for a chunk, annotated with the
// engineer-day load it would land on (needed by Balanced/Dense's
// selectors).
type Candidate struct {
	Suggestion    types.SlotSuggestion
	UsedHours     int // hours already used on Suggestion's (engineer, date) before this candidate
	CapacityHours int // capacity hours on that engineer-day
	DurationHours int
	// EngineerDCToday is the DC the engineer is already booked at on
	// Suggestion's date (persisted or virtual), "" if not yet
	// scheduled that day. Only Optimal's candidate filter reads this.
	EngineerDCToday string
}

// LoadRatioBefore and LoadRatioAfter are the two load fractions the
// Balanced/Dense selectors compare.
func (c Candidate) LoadRatioBefore() float64 {
	if c.CapacityHours == 0 {
		return 0
	}
	return float64(c.UsedHours) / float64(c.CapacityHours)
}

func (c Candidate) LoadRatioAfter() float64 {
	if c.CapacityHours == 0 {
		return 0
	}
	return float64(c.UsedHours+c.DurationHours) / float64(c.CapacityHours)
}

func (c Candidate) Fits() bool {
	return c.CapacityHours == 0 || c.UsedHours+c.DurationHours <= c.CapacityHours
}

// Strategy is the shared interface the four variants implement.
type Strategy interface {
	// Name returns the strategy's wire identifier.
	Name() string
	// Sort orders items into this strategy's processing queue,
	// in place.
	Sort(items []QueueItem)
	// SelectBest picks one candidate from a non-empty slice. The
	// caller guarantees len(candidates) > 0.
	SelectBest(candidates []Candidate) Candidate
}

// sharedKeyLess implements the §4.6 shared priority key:
// (is_support?0:1, priority_rank, deadline or +inf, order).
func sharedKeyLess(a, b QueueItem) bool {
	as, bs := supportRank(a), supportRank(b)
	if as != bs {
		return as < bs
	}
	ap, bp := a.Priority.Rank(), b.Priority.Rank()
	if ap != bp {
		return ap < bp
	}
	ad, bd := deadlineOrdinal(a.Deadline), deadlineOrdinal(b.Deadline)
	if ad != bd {
		return ad < bd
	}
	return a.Order < b.Order
}

func supportRank(i QueueItem) int {
	if i.IsSupport {
		return 0
	}
	return 1
}

// deadlineOrdinal maps "" to a sentinel that sorts after every real
// date string (dates compare lexicographically since they are
// "YYYY-MM-DD").
func deadlineOrdinal(d string) string {
	if d == "" {
		return "9999-99-99"
	}
	return d
}

// sortStable applies less with a stable sort so ties preserve input
// order (needed for P10's determinism on top of Order as a final
// tiebreak, and to avoid flaky reordering within equal keys).
func sortStable(items []QueueItem, less func(a, b QueueItem) bool) {
	sort.SliceStable(items, func(i, j int) bool { return less(items[i], items[j]) })
}

// New returns the Strategy registered under name, or an InvalidInput
// error for an unknown one (§7).
func New(name string) (Strategy, error) {
	switch name {
	case "balanced":
		return Balanced{}, nil
	case "dense", "fill_first":
		return Dense{}, nil
	case "sla", "priority_first":
		return SLA{}, nil
	case "optimal":
		return Optimal{}, nil
	default:
		return nil, apperr.InvalidInputf("unknown strategy %q", name)
	}
}

// Listing is the public-facing strategy catalog returned by
// GET /api/planning/strategies (§6.1). optimal is deliberately
// excluded per spec.md §9's open question: it is an alias-with-filter
// over Balanced, not a fourth user-facing choice in the surface this
// was distilled from.
type Listing struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func Catalog() []Listing {
	return []Listing{
		{ID: "balanced", Name: "Balanced", Description: "Spreads load evenly across engineers and days."},
		{ID: "dense", Name: "Dense", Description: "Packs chunks onto as few engineer-days as possible."},
		{ID: "sla", Name: "SLA", Description: "Schedules the highest-priority, earliest-deadline work first."},
	}
}
