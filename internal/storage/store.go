// Package storage defines the persistence contract for the scheduling
// domain (C1 Data Store, plus the C9 Session Store bucket).
package storage

import "github.com/EvgeniyBoldov/calendar/internal/types"

// Store is the persistence contract for every entity in §3. All
// mutating methods are expected to run inside their own transaction;
// callers needing read-modify-write with optimistic locking use
// UpdateWork/UpdateWorkChunk, which re-read, compare Version and bump
// it atomically.
type Store interface {
	// Regions
	CreateRegion(r *types.Region) error
	GetRegion(id string) (*types.Region, error)
	ListRegions() ([]*types.Region, error)
	UpdateRegion(r *types.Region) error
	DeleteRegion(id string) error

	// DataCenters
	CreateDataCenter(dc *types.DataCenter) error
	GetDataCenter(id string) (*types.DataCenter, error)
	ListDataCenters() ([]*types.DataCenter, error)
	ListDataCentersByRegion(regionID string) ([]*types.DataCenter, error)
	UpdateDataCenter(dc *types.DataCenter) error
	DeleteDataCenter(id string) error

	// DistanceEntries
	CreateDistanceEntry(d *types.DistanceEntry) error
	GetDistanceEntry(fromDC, toDC string) (*types.DistanceEntry, error)
	ListDistanceEntries() ([]*types.DistanceEntry, error)
	DeleteDistanceEntry(id string) error

	// Engineers
	CreateEngineer(e *types.Engineer) error
	GetEngineer(id string) (*types.Engineer, error)
	ListEngineers() ([]*types.Engineer, error)
	ListEngineersByRegion(regionID string) ([]*types.Engineer, error)
	UpdateEngineer(e *types.Engineer) error
	DeleteEngineer(id string) error

	// TimeSlots
	CreateTimeSlot(s *types.TimeSlot) error
	GetTimeSlot(id string) (*types.TimeSlot, error)
	ListTimeSlotsByEngineerDate(engineerID, date string) ([]*types.TimeSlot, error)
	ListTimeSlotsByEngineerRange(engineerID, fromDate, toDate string) ([]*types.TimeSlot, error)
	DeleteTimeSlot(id string) error

	// Works
	CreateWork(w *types.Work) error
	GetWork(id string) (*types.Work, error)
	ListWorks() ([]*types.Work, error)
	// UpdateWork performs an optimistic, version-checked replace: it
	// re-reads the persisted row, fails with apperr.Conflict if
	// expectedVersion is non-nil and does not match, otherwise writes
	// w with Version bumped by one.
	UpdateWork(w *types.Work, expectedVersion *int) error
	DeleteWork(id string) error

	// WorkChunks
	CreateWorkChunk(c *types.WorkChunk) error
	GetWorkChunk(id string) (*types.WorkChunk, error)
	ListWorkChunksByWork(workID string) ([]*types.WorkChunk, error)
	ListWorkChunksByStatus(status types.ChunkStatus) ([]*types.WorkChunk, error)
	ListWorkChunksByEngineerDate(engineerID, date string) ([]*types.WorkChunk, error)
	UpdateWorkChunk(c *types.WorkChunk, expectedVersion *int) error
	DeleteWorkChunk(id string) error

	// WorkTasks
	CreateWorkTask(t *types.WorkTask) error
	ListWorkTasksByChunk(chunkID string) ([]*types.WorkTask, error)
	DeleteWorkTasksByChunk(chunkID string) error

	// ChunkLinks
	CreateChunkLink(l *types.ChunkLink) error
	ListChunkLinksFrom(chunkID string) ([]*types.ChunkLink, error)
	ListChunkLinksTo(chunkID string) ([]*types.ChunkLink, error)
	DeleteChunkLinksByChunk(chunkID string) error

	// PlanningSessions
	CreatePlanningSession(s *types.PlanningSession) error
	GetPlanningSession(id string) (*types.PlanningSession, error)
	ListPlanningSessions() ([]*types.PlanningSession, error)
	ListDraftSessionsExpiringBefore(t string) ([]*types.PlanningSession, error)
	UpdatePlanningSession(s *types.PlanningSession) error
	DeletePlanningSession(id string) error

	Close() error
}
