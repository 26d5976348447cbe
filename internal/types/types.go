// Package types holds the persisted entities of the scheduling domain.
package types

import "time"

// WorkType distinguishes multi-chunk general work from single-day
// support attendance.
type WorkType string

const (
	WorkTypeGeneral WorkType = "general"
	WorkTypeSupport WorkType = "support"
)

// Priority is a closed ordering used by the chunk-queue strategies.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Rank maps a Priority onto the shared queue key (§4.6): critical
// sorts first.
func (p Priority) Rank() int {
	switch p {
	case PriorityCritical:
		return 0
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	default:
		return 3
	}
}

// WorkStatus is derived from the multiset of a work's chunk statuses
// by the automaton in §4.9; it is also set directly on creation.
type WorkStatus string

const (
	WorkStatusCreated    WorkStatus = "created"
	WorkStatusScheduling WorkStatus = "scheduling"
	WorkStatusAssigned   WorkStatus = "assigned"
	WorkStatusInProgress WorkStatus = "in_progress"
	WorkStatusCompleted  WorkStatus = "completed"
	WorkStatusDocumented WorkStatus = "documented"
)

// ChunkStatus tracks a WorkChunk through its lifecycle.
type ChunkStatus string

const (
	ChunkStatusCreated    ChunkStatus = "created"
	ChunkStatusPlanned    ChunkStatus = "planned"
	ChunkStatusAssigned   ChunkStatus = "assigned"
	ChunkStatusInProgress ChunkStatus = "in_progress"
	ChunkStatusCompleted  ChunkStatus = "completed"
)

// LinkType distinguishes the two ChunkLink edge kinds.
type LinkType string

const (
	LinkDependency LinkType = "dependency"
	LinkSync       LinkType = "sync"
)

// SessionStatus tracks a PlanningSession through its lifecycle.
type SessionStatus string

const (
	SessionDraft     SessionStatus = "draft"
	SessionApplied   SessionStatus = "applied"
	SessionCancelled SessionStatus = "cancelled"
	SessionExpired   SessionStatus = "expired"
)

// Region is a geographic scope owning DataCenters and Engineers.
type Region struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DataCenter belongs to exactly one Region.
type DataCenter struct {
	ID        string    `json:"id"`
	RegionID  string    `json:"region_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DistanceEntry is a directed travel time between two data centers.
type DistanceEntry struct {
	ID         string    `json:"id"`
	FromDCID   string    `json:"from_dc_id"`
	ToDCID     string    `json:"to_dc_id"`
	Minutes    int       `json:"minutes"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Engineer belongs to one Region and may be linked to an external user
// account (the User entity itself is out of scope).
type Engineer struct {
	ID        string    `json:"id"`
	RegionID  string    `json:"region_id"`
	UserID    string    `json:"user_id,omitempty"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TimeSlot is an engineer's work window on one date, half-open
// [StartHour, EndHour) in integer hours 0-24.
type TimeSlot struct {
	ID         string    `json:"id"`
	EngineerID string    `json:"engineer_id"`
	Date       string    `json:"date"` // YYYY-MM-DD
	StartHour  int       `json:"start_hour"`
	EndHour    int       `json:"end_hour"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Duration returns the slot's length in hours.
func (s TimeSlot) Duration() int { return s.EndHour - s.StartHour }

// Work is a job, either general (planned out of chunks) or support
// (single-day on-site attendance).
type Work struct {
	ID             string     `json:"id"`
	Type           WorkType   `json:"type"`
	Title          string     `json:"title"`
	Priority       Priority   `json:"priority"`
	Status         WorkStatus `json:"status"`
	Version        int        `json:"version"`
	AuthorID       string     `json:"author_id"`
	DataCenterID   string     `json:"data_center_id,omitempty"`
	DueDate        string     `json:"due_date,omitempty"`         // general only, YYYY-MM-DD
	TargetDate     string     `json:"target_date,omitempty"`      // support only, YYYY-MM-DD
	TargetTime     *int       `json:"target_time,omitempty"`      // support only, hour 0-23
	DurationHours  int        `json:"duration_hours,omitempty"`   // support only, 1-12
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// WorkChunk is the minimum assignable unit of a Work.
type WorkChunk struct {
	ID           string      `json:"id"`
	WorkID       string      `json:"work_id"`
	Order        int         `json:"order"`
	DataCenterID string      `json:"data_center_id,omitempty"` // overrides work's DC when set
	Status       ChunkStatus `json:"status"`
	Version      int         `json:"version"`

	EngineerID *string `json:"engineer_id,omitempty"`
	Date       *string `json:"date,omitempty"`
	StartHour  *int    `json:"start_hour,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsAssigned reports whether the assignment triple is set. Per the
// atomicity invariant (P2) the three fields are jointly null or set,
// so checking one is sufficient; callers that must defend against a
// corrupted record should use AssignmentConsistent.
func (c *WorkChunk) IsAssigned() bool {
	return c.EngineerID != nil && c.Date != nil && c.StartHour != nil
}

// AssignmentConsistent reports whether the assignment triple is
// jointly null or jointly set (P2).
func (c *WorkChunk) AssignmentConsistent() bool {
	set := 0
	if c.EngineerID != nil {
		set++
	}
	if c.Date != nil {
		set++
	}
	if c.StartHour != nil {
		set++
	}
	return set == 0 || set == 3
}

// ClearAssignment nils out the assignment triple.
func (c *WorkChunk) ClearAssignment() {
	c.EngineerID = nil
	c.Date = nil
	c.StartHour = nil
}

// SetAssignment sets the assignment triple.
func (c *WorkChunk) SetAssignment(engineerID, date string, startHour int) {
	c.EngineerID = &engineerID
	c.Date = &date
	c.StartHour = &startHour
}

// EffectiveDC returns the chunk's own DC if set, else the work's DC.
func EffectiveDC(chunk *WorkChunk, work *Work) string {
	if chunk.DataCenterID != "" {
		return chunk.DataCenterID
	}
	return work.DataCenterID
}

// WorkTask is an optional line item contributing hours to a chunk's
// total duration.
type WorkTask struct {
	ID             string    `json:"id"`
	ChunkID        string    `json:"chunk_id"`
	Name           string    `json:"name"`
	EstimatedHours int       `json:"estimated_hours"`
	Quantity       int       `json:"quantity"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Hours returns EstimatedHours * Quantity.
func (t WorkTask) Hours() int { return t.EstimatedHours * t.Quantity }

// ChunkLink is a directed edge between two chunks.
type ChunkLink struct {
	ID            string    `json:"id"`
	ChunkID       string    `json:"chunk_id"`
	LinkedChunkID string    `json:"linked_chunk_id"`
	Type          LinkType  `json:"type"`
	CreatedAt     time.Time `json:"created_at"`
}

// PlanningSession is a reversible batch of proposed assignments.
type PlanningSession struct {
	ID        string             `json:"id"`
	Strategy  string             `json:"strategy"`
	Status    SessionStatus      `json:"status"`
	UserID    string             `json:"user_id"`
	Assignments []SessionAssignment `json:"assignments"`
	Failed    []SessionFailure   `json:"failed"`
	Stats     SessionStats       `json:"stats"`
	ExpiresAt time.Time          `json:"expires_at"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// SessionAssignment is one proposed (chunk -> slot) entry in a
// session's preview list.
type SessionAssignment struct {
	ChunkID      string   `json:"chunk_id"`
	WorkID       string   `json:"work_id"`
	EngineerID   string   `json:"engineer_id"`
	Date         string   `json:"date"`
	StartHour    int      `json:"start_hour"`
	DurationHours int     `json:"duration_hours"`
	DataCenterID string   `json:"data_center_id,omitempty"`
	Priority     Priority `json:"priority"`
}

// SessionFailure records a chunk the session could not place.
type SessionFailure struct {
	ChunkID string `json:"chunk_id"`
	WorkID  string `json:"work_id"`
	Reason  string `json:"reason"`
}

// SessionStats summarizes a session's proposed assignments.
type SessionStats struct {
	TotalAssigned   int                       `json:"total_assigned"`
	TotalFailed     int                       `json:"total_failed"`
	ByEngineer      map[string]EngineerStat   `json:"by_engineer"`
	ByDataCenter    map[string]DCStat         `json:"by_data_center"`
	ByPriority      map[Priority]int          `json:"by_priority"`
}

type EngineerStat struct {
	Chunks int `json:"chunks"`
	Hours  int `json:"hours"`
}

type DCStat struct {
	Chunks int `json:"chunks"`
	Hours  int `json:"hours"`
}

// ChunkConstraints is derived per-chunk, never stored.
type ChunkConstraints struct {
	AllowedRegionIDs  []string `json:"allowed_region_ids"`
	MinDate           string   `json:"min_date"`
	MaxDate           string   `json:"max_date"`
	FixedDate         string   `json:"fixed_date,omitempty"`
	FixedTime         *int     `json:"fixed_time,omitempty"`
	DependsOnChunkIDs []string `json:"depends_on_chunk_ids"`
	SyncChunkIDs      []string `json:"sync_chunk_ids"`
	DurationHours     int      `json:"duration_hours"`
	DataCenterID      string   `json:"data_center_id,omitempty"`
}

// SlotSuggestion is one candidate (engineer, date, start_hour) found
// by the Slot Search Engine.
type SlotSuggestion struct {
	EngineerID   string `json:"engineer_id"`
	Date         string `json:"date"`
	StartHour    int    `json:"start_hour"`
	EndHour      int    `json:"end_hour"`
	DataCenterID string `json:"data_center_id,omitempty"`
}

// OccupiedInterval is a busy span on an engineer's day, persisted or
// virtual, with the DC it was performed at.
type OccupiedInterval struct {
	Start int
	End   int
	DC    string
}
