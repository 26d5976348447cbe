package strategy

// Balanced spreads chunks across engineers and days: it queues by the
// shared key and, among feasible slots, prefers the day that stays
// most evenly loaded afterward.
type Balanced struct{}

func (Balanced) Name() string { return "balanced" }

func (Balanced) Sort(items []QueueItem) {
	sortStable(items, sharedKeyLess)
}

func (Balanced) SelectBest(candidates []Candidate) Candidate {
	best := candidates[0]
	bestRatio := best.LoadRatioAfter()
	for _, c := range candidates[1:] {
		ratio := c.LoadRatioAfter()
		if ratio < bestRatio || (ratio == bestRatio && c.Suggestion.Date < best.Suggestion.Date) {
			best, bestRatio = c, ratio
		}
	}
	return best
}
