package strategy

// Dense (alias fill_first) packs chunks onto as few engineer-days as
// possible: longer chunks are queued first, and among slots that still
// fit, it prefers the day that is already most loaded.
type Dense struct{}

func (Dense) Name() string { return "dense" }

func (Dense) Sort(items []QueueItem) {
	sortStable(items, func(a, b QueueItem) bool {
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
		if a.DurationHours != b.DurationHours {
			return a.DurationHours > b.DurationHours // decreasing duration
		}
		return a.Order < b.Order
	})
}

func (Dense) SelectBest(candidates []Candidate) Candidate {
	var best *Candidate
	bestRatio := -1.0
	for i := range candidates {
		c := candidates[i]
		if !c.Fits() {
			continue
		}
		ratio := c.LoadRatioBefore()
		if best == nil || ratio > bestRatio || (ratio == bestRatio && c.Suggestion.Date < best.Suggestion.Date) {
			cc := c
			best, bestRatio = &cc, ratio
		}
	}
	if best != nil && bestRatio > 0 {
		return *best
	}
	// No positively-loaded option fits; fall back to the first
	// candidate as given (§4.7).
	return candidates[0]
}
