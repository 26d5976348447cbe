package manager

import (
	"time"

	"github.com/EvgeniyBoldov/calendar/internal/apperr"
	"github.com/EvgeniyBoldov/calendar/internal/events"
	"github.com/EvgeniyBoldov/calendar/internal/types"
)

// --- Engineers ---

func (m *Manager) CreateEngineer(regionID, userID, name string) (*types.Engineer, error) {
	if name == "" {
		return nil, apperr.InvalidInputf("engineer name is required")
	}
	if _, err := m.store.GetRegion(regionID); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	e := &types.Engineer{ID: newID(), RegionID: regionID, UserID: userID, Name: name, CreatedAt: now, UpdatedAt: now}
	if err := m.store.CreateEngineer(e); err != nil {
		return nil, err
	}
	m.publish(events.KindEngineerCreated, e.ID, "", e)
	return e, nil
}

func (m *Manager) GetEngineer(id string) (*types.Engineer, error) { return m.store.GetEngineer(id) }
func (m *Manager) ListEngineers() ([]*types.Engineer, error)      { return m.store.ListEngineers() }
func (m *Manager) ListEngineersByRegion(regionID string) ([]*types.Engineer, error) {
	return m.store.ListEngineersByRegion(regionID)
}

func (m *Manager) UpdateEngineer(id, name string) (*types.Engineer, error) {
	e, err := m.store.GetEngineer(id)
	if err != nil {
		return nil, err
	}
	e.Name = name
	e.UpdatedAt = time.Now().UTC()
	if err := m.store.UpdateEngineer(e); err != nil {
		return nil, err
	}
	m.publish(events.KindEngineerUpdated, e.ID, "", e)
	return e, nil
}

// DeleteEngineer refuses deletion while the engineer still has any
// active (planned, assigned or in-progress) chunk.
func (m *Manager) DeleteEngineer(id string) error {
	for _, status := range []types.ChunkStatus{types.ChunkStatusPlanned, types.ChunkStatusAssigned, types.ChunkStatusInProgress} {
		chunks, err := m.store.ListWorkChunksByStatus(status)
		if err != nil {
			return err
		}
		for _, c := range chunks {
			if c.EngineerID != nil && *c.EngineerID == id {
				return apperr.Conflictf("engineer %s still has active chunks", id)
			}
		}
	}
	if err := m.store.DeleteEngineer(id); err != nil {
		return err
	}
	m.publish(events.KindEngineerDeleted, id, "", nil)
	return nil
}

// --- TimeSlots ---

func (m *Manager) CreateTimeSlot(engineerID, date string, startHour, endHour int) (*types.TimeSlot, error) {
	if endHour <= startHour {
		return nil, apperr.InvalidInputf("slot end_hour (%d) must be after start_hour (%d)", endHour, startHour)
	}
	if _, err := m.store.GetEngineer(engineerID); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	s := &types.TimeSlot{
		ID: newID(), EngineerID: engineerID, Date: date,
		StartHour: startHour, EndHour: endHour, CreatedAt: now, UpdatedAt: now,
	}
	if err := m.store.CreateTimeSlot(s); err != nil {
		return nil, err
	}
	m.publish(events.KindSlotAdded, s.ID, "", s)
	return s, nil
}

func (m *Manager) ListTimeSlots(engineerID, fromDate, toDate string) ([]*types.TimeSlot, error) {
	return m.store.ListTimeSlotsByEngineerRange(engineerID, fromDate, toDate)
}

func (m *Manager) DeleteTimeSlot(id string) error {
	if err := m.store.DeleteTimeSlot(id); err != nil {
		return err
	}
	m.publish(events.KindSlotRemoved, id, "", nil)
	return nil
}
