package planning

import "github.com/EvgeniyBoldov/calendar/internal/types"

// Context is the per-call virtual-assignment overlay named in §4.8 and
// mandated to be a parameter, never service state, by §9's "ambient
// session as method state" redesign flag. Every PlanningService method
// that can propose more than one assignment creates its own Context
// and threads it through the Calendar View, Dependency Resolver and
// Strategies; nothing here is shared across calls.
type Context struct {
	assignments    []types.SessionAssignment
	byChunk        map[string]types.SessionAssignment
	byEngineerDate map[string][]types.OccupiedInterval
}

// NewContext returns an empty overlay.
func NewContext() *Context {
	return &Context{
		byChunk:        make(map[string]types.SessionAssignment),
		byEngineerDate: make(map[string][]types.OccupiedInterval),
	}
}

// Add records a newly proposed assignment in the overlay.
func (c *Context) Add(a types.SessionAssignment) {
	c.assignments = append(c.assignments, a)
	c.byChunk[a.ChunkID] = a
	key := a.EngineerID + "|" + a.Date
	c.byEngineerDate[key] = append(c.byEngineerDate[key], types.OccupiedInterval{
		Start: a.StartHour,
		End:   a.StartHour + a.DurationHours,
		DC:    a.DataCenterID,
	})
}

// VirtualOccupied implements calendar.Overlay.
func (c *Context) VirtualOccupied(engineerID, date string) []types.OccupiedInterval {
	return c.byEngineerDate[engineerID+"|"+date]
}

// VirtualDate implements dependency.DateOverlay.
func (c *Context) VirtualDate(chunkID string) (string, bool) {
	a, ok := c.byChunk[chunkID]
	if !ok {
		return "", false
	}
	return a.Date, true
}

// PreferredEngineerForWork returns the engineer already virtually
// attached, in this run, to any chunk of workID.
func (c *Context) PreferredEngineerForWork(workID string) (string, bool) {
	for _, a := range c.assignments {
		if a.WorkID == workID {
			return a.EngineerID, true
		}
	}
	return "", false
}

// Assignments returns every assignment proposed so far, in proposal
// order.
func (c *Context) Assignments() []types.SessionAssignment {
	return c.assignments
}
