package strategy

import "github.com/EvgeniyBoldov/calendar/internal/types"

// SLA (alias priority_first) schedules the highest-priority,
// earliest-deadline chunks first, regardless of whether they belong
// to support work, and picks the earliest feasible slot outright.
type SLA struct{}

func (SLA) Name() string { return "sla" }

func (SLA) Sort(items []QueueItem) {
	sortStable(items, func(a, b QueueItem) bool {
		ap, bp := a.Priority.Rank(), b.Priority.Rank()
		if ap != bp {
			return ap < bp
		}
		ad, bd := deadlineOrdinal(a.Deadline), deadlineOrdinal(b.Deadline)
		if ad != bd {
			return ad < bd
		}
		return a.Order < b.Order
	})
}

func (SLA) SelectBest(candidates []Candidate) Candidate {
	best := candidates[0]
	for _, c := range candidates[1:] {
		if earlier(c.Suggestion, best.Suggestion) {
			best = c
		}
	}
	return best
}

func earlier(a, b types.SlotSuggestion) bool {
	if a.Date != b.Date {
		return a.Date < b.Date
	}
	return a.StartHour < b.StartHour
}
