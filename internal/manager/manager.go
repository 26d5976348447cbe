// Package manager implements the CRUD orchestration layer sitting
// between the HTTP API and the Data Store: it stamps IDs and
// timestamps, enforces the referential-integrity rules §3 calls for,
// and publishes the lifecycle events the Event Bus fans out. It is
// grounded on the teacher's pkg/manager passthrough-CRUD-plus-events
// shape, with the raft/FSM/TLS machinery dropped — see DESIGN.md.
package manager

import (
	"time"

	"github.com/EvgeniyBoldov/calendar/internal/apperr"
	"github.com/EvgeniyBoldov/calendar/internal/blobstore"
	"github.com/EvgeniyBoldov/calendar/internal/events"
	"github.com/EvgeniyBoldov/calendar/internal/log"
	"github.com/EvgeniyBoldov/calendar/internal/storage"
	"github.com/EvgeniyBoldov/calendar/internal/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Manager owns the store and event broker and is the single write
// path for every entity CRUD route.
type Manager struct {
	store  storage.Store
	bus    *events.Broker
	blobs  blobstore.Store
	logger zerolog.Logger
}

// New builds a Manager over an already-open store, broker and blob
// store (attachments, per §6.3, cascade-deleted alongside a Work).
func New(store storage.Store, bus *events.Broker, blobs blobstore.Store) *Manager {
	return &Manager{store: store, bus: bus, blobs: blobs, logger: log.WithComponent("manager")}
}

func newID() string { return uuid.New().String() }

// --- Regions ---

func (m *Manager) CreateRegion(name string) (*types.Region, error) {
	if name == "" {
		return nil, apperr.InvalidInputf("region name is required")
	}
	now := time.Now().UTC()
	r := &types.Region{ID: newID(), Name: name, CreatedAt: now, UpdatedAt: now}
	if err := m.store.CreateRegion(r); err != nil {
		return nil, err
	}
	m.publish(events.KindRegionCreated, r.ID, "", r)
	return r, nil
}

func (m *Manager) GetRegion(id string) (*types.Region, error) { return m.store.GetRegion(id) }
func (m *Manager) ListRegions() ([]*types.Region, error)      { return m.store.ListRegions() }

func (m *Manager) UpdateRegion(id, name string) (*types.Region, error) {
	r, err := m.store.GetRegion(id)
	if err != nil {
		return nil, err
	}
	r.Name = name
	r.UpdatedAt = time.Now().UTC()
	if err := m.store.UpdateRegion(r); err != nil {
		return nil, err
	}
	m.publish(events.KindRegionUpdated, r.ID, "", r)
	return r, nil
}

// DeleteRegion refuses deletion while any DataCenter or Engineer still
// belongs to it (§3 referential integrity).
func (m *Manager) DeleteRegion(id string) error {
	dcs, err := m.store.ListDataCentersByRegion(id)
	if err != nil {
		return err
	}
	if len(dcs) > 0 {
		return apperr.Conflictf("region %s still has %d data center(s)", id, len(dcs))
	}
	engineers, err := m.store.ListEngineersByRegion(id)
	if err != nil {
		return err
	}
	if len(engineers) > 0 {
		return apperr.Conflictf("region %s still has %d engineer(s)", id, len(engineers))
	}
	if err := m.store.DeleteRegion(id); err != nil {
		return err
	}
	m.publish(events.KindRegionDeleted, id, "", nil)
	return nil
}

// --- DataCenters ---

func (m *Manager) CreateDataCenter(regionID, name string) (*types.DataCenter, error) {
	if name == "" {
		return nil, apperr.InvalidInputf("data center name is required")
	}
	if _, err := m.store.GetRegion(regionID); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	dc := &types.DataCenter{ID: newID(), RegionID: regionID, Name: name, CreatedAt: now, UpdatedAt: now}
	if err := m.store.CreateDataCenter(dc); err != nil {
		return nil, err
	}
	m.publish(events.KindDataCenterCreated, dc.ID, "", dc)
	return dc, nil
}

func (m *Manager) GetDataCenter(id string) (*types.DataCenter, error) { return m.store.GetDataCenter(id) }
func (m *Manager) ListDataCenters() ([]*types.DataCenter, error)      { return m.store.ListDataCenters() }

func (m *Manager) UpdateDataCenter(id, name string) (*types.DataCenter, error) {
	dc, err := m.store.GetDataCenter(id)
	if err != nil {
		return nil, err
	}
	dc.Name = name
	dc.UpdatedAt = time.Now().UTC()
	if err := m.store.UpdateDataCenter(dc); err != nil {
		return nil, err
	}
	m.publish(events.KindDataCenterUpdated, dc.ID, "", dc)
	return dc, nil
}

func (m *Manager) DeleteDataCenter(id string) error {
	if err := m.store.DeleteDataCenter(id); err != nil {
		return err
	}
	m.publish(events.KindDataCenterDeleted, id, "", nil)
	return nil
}

// --- DistanceEntries ---

func (m *Manager) CreateDistanceEntry(fromDC, toDC string, minutes int) (*types.DistanceEntry, error) {
	if minutes < 0 {
		return nil, apperr.InvalidInputf("travel minutes must be non-negative, got %d", minutes)
	}
	now := time.Now().UTC()
	d := &types.DistanceEntry{ID: newID(), FromDCID: fromDC, ToDCID: toDC, Minutes: minutes, CreatedAt: now, UpdatedAt: now}
	if err := m.store.CreateDistanceEntry(d); err != nil {
		return nil, err
	}
	return d, nil
}

func (m *Manager) ListDistanceEntries() ([]*types.DistanceEntry, error) {
	return m.store.ListDistanceEntries()
}

func (m *Manager) DeleteDistanceEntry(id string) error { return m.store.DeleteDistanceEntry(id) }

func (m *Manager) publish(kind events.Kind, entityID, actorID string, data any) {
	m.bus.Publish(&events.Event{Kind: kind, EntityID: entityID, ActorID: actorID, Data: data})
}
