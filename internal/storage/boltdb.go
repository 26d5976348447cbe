package storage

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/EvgeniyBoldov/calendar/internal/apperr"
	"github.com/EvgeniyBoldov/calendar/internal/types"
	bolt "go.etcd.io/bbolt"
)

var (
	bucketRegions         = []byte("regions")
	bucketDataCenters     = []byte("data_centers")
	bucketDistanceEntries = []byte("distance_entries")
	bucketEngineers       = []byte("engineers")
	bucketTimeSlots       = []byte("time_slots")
	bucketWorks           = []byte("works")
	bucketWorkChunks      = []byte("work_chunks")
	bucketWorkTasks       = []byte("work_tasks")
	bucketChunkLinks      = []byte("chunk_links")
	bucketPlanningSess    = []byte("planning_sessions")
)

var allBuckets = [][]byte{
	bucketRegions,
	bucketDataCenters,
	bucketDistanceEntries,
	bucketEngineers,
	bucketTimeSlots,
	bucketWorks,
	bucketWorkChunks,
	bucketWorkTasks,
	bucketChunkLinks,
	bucketPlanningSess,
}

// BoltStore implements Store on top of an embedded bbolt file, one
// bucket per entity, values JSON-encoded.
type BoltStore struct {
	db *bolt.DB
}

// NewBoltStore opens (creating if absent) a bbolt database under
// dataDir and ensures every bucket exists.
func NewBoltStore(dataDir string) (*BoltStore, error) {
	dbPath := filepath.Join(dataDir, "scheduler.db")

	db, err := bolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range allBuckets {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Close() error { return s.db.Close() }

func put(tx *bolt.Tx, bucket []byte, id string, v any) error {
	b := tx.Bucket(bucket)
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return b.Put([]byte(id), data)
}

// --- Regions ---

func (s *BoltStore) CreateRegion(r *types.Region) error {
	now := time.Now().UTC()
	r.CreatedAt, r.UpdatedAt = now, now
	return s.db.Update(func(tx *bolt.Tx) error { return put(tx, bucketRegions, r.ID, r) })
}

func (s *BoltStore) GetRegion(id string) (*types.Region, error) {
	var r types.Region
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketRegions).Get([]byte(id))
		if data == nil {
			return apperr.NotFoundf("region %s not found", id)
		}
		return json.Unmarshal(data, &r)
	})
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *BoltStore) ListRegions() ([]*types.Region, error) {
	var out []*types.Region
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketRegions).ForEach(func(k, v []byte) error {
			var r types.Region
			if err := json.Unmarshal(v, &r); err != nil {
				return err
			}
			out = append(out, &r)
			return nil
		})
	})
	return out, err
}

func (s *BoltStore) UpdateRegion(r *types.Region) error {
	r.UpdatedAt = time.Now().UTC()
	return s.db.Update(func(tx *bolt.Tx) error { return put(tx, bucketRegions, r.ID, r) })
}

func (s *BoltStore) DeleteRegion(id string) error {
	return s.db.Update(func(tx *bolt.Tx) error { return tx.Bucket(bucketRegions).Delete([]byte(id)) })
}

// --- DataCenters ---

func (s *BoltStore) CreateDataCenter(dc *types.DataCenter) error {
	now := time.Now().UTC()
	dc.CreatedAt, dc.UpdatedAt = now, now
	return s.db.Update(func(tx *bolt.Tx) error { return put(tx, bucketDataCenters, dc.ID, dc) })
}

func (s *BoltStore) GetDataCenter(id string) (*types.DataCenter, error) {
	var dc types.DataCenter
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketDataCenters).Get([]byte(id))
		if data == nil {
			return apperr.NotFoundf("data center %s not found", id)
		}
		return json.Unmarshal(data, &dc)
	})
	if err != nil {
		return nil, err
	}
	return &dc, nil
}

func (s *BoltStore) ListDataCenters() ([]*types.DataCenter, error) {
	var out []*types.DataCenter
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketDataCenters).ForEach(func(k, v []byte) error {
			var dc types.DataCenter
			if err := json.Unmarshal(v, &dc); err != nil {
				return err
			}
			out = append(out, &dc)
			return nil
		})
	})
	return out, err
}

func (s *BoltStore) ListDataCentersByRegion(regionID string) ([]*types.DataCenter, error) {
	all, err := s.ListDataCenters()
	if err != nil {
		return nil, err
	}
	var out []*types.DataCenter
	for _, dc := range all {
		if dc.RegionID == regionID {
			out = append(out, dc)
		}
	}
	return out, nil
}

func (s *BoltStore) UpdateDataCenter(dc *types.DataCenter) error {
	dc.UpdatedAt = time.Now().UTC()
	return s.db.Update(func(tx *bolt.Tx) error { return put(tx, bucketDataCenters, dc.ID, dc) })
}

func (s *BoltStore) DeleteDataCenter(id string) error {
	return s.db.Update(func(tx *bolt.Tx) error { return tx.Bucket(bucketDataCenters).Delete([]byte(id)) })
}

// --- DistanceEntries ---

func (s *BoltStore) CreateDistanceEntry(d *types.DistanceEntry) error {
	now := time.Now().UTC()
	d.CreatedAt, d.UpdatedAt = now, now
	return s.db.Update(func(tx *bolt.Tx) error { return put(tx, bucketDistanceEntries, d.ID, d) })
}

func (s *BoltStore) GetDistanceEntry(fromDC, toDC string) (*types.DistanceEntry, error) {
	all, err := s.ListDistanceEntries()
	if err != nil {
		return nil, err
	}
	for _, d := range all {
		if d.FromDCID == fromDC && d.ToDCID == toDC {
			return d, nil
		}
	}
	return nil, apperr.NotFoundf("distance entry %s->%s not found", fromDC, toDC)
}

func (s *BoltStore) ListDistanceEntries() ([]*types.DistanceEntry, error) {
	var out []*types.DistanceEntry
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketDistanceEntries).ForEach(func(k, v []byte) error {
			var d types.DistanceEntry
			if err := json.Unmarshal(v, &d); err != nil {
				return err
			}
			out = append(out, &d)
			return nil
		})
	})
	return out, err
}

func (s *BoltStore) DeleteDistanceEntry(id string) error {
	return s.db.Update(func(tx *bolt.Tx) error { return tx.Bucket(bucketDistanceEntries).Delete([]byte(id)) })
}

// --- Engineers ---

func (s *BoltStore) CreateEngineer(e *types.Engineer) error {
	now := time.Now().UTC()
	e.CreatedAt, e.UpdatedAt = now, now
	return s.db.Update(func(tx *bolt.Tx) error { return put(tx, bucketEngineers, e.ID, e) })
}

func (s *BoltStore) GetEngineer(id string) (*types.Engineer, error) {
	var e types.Engineer
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketEngineers).Get([]byte(id))
		if data == nil {
			return apperr.NotFoundf("engineer %s not found", id)
		}
		return json.Unmarshal(data, &e)
	})
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *BoltStore) ListEngineers() ([]*types.Engineer, error) {
	var out []*types.Engineer
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketEngineers).ForEach(func(k, v []byte) error {
			var e types.Engineer
			if err := json.Unmarshal(v, &e); err != nil {
				return err
			}
			out = append(out, &e)
			return nil
		})
	})
	return out, err
}

func (s *BoltStore) ListEngineersByRegion(regionID string) ([]*types.Engineer, error) {
	all, err := s.ListEngineers()
	if err != nil {
		return nil, err
	}
	var out []*types.Engineer
	for _, e := range all {
		if e.RegionID == regionID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *BoltStore) UpdateEngineer(e *types.Engineer) error {
	e.UpdatedAt = time.Now().UTC()
	return s.db.Update(func(tx *bolt.Tx) error { return put(tx, bucketEngineers, e.ID, e) })
}

func (s *BoltStore) DeleteEngineer(id string) error {
	return s.db.Update(func(tx *bolt.Tx) error { return tx.Bucket(bucketEngineers).Delete([]byte(id)) })
}

// --- TimeSlots ---

func (s *BoltStore) CreateTimeSlot(sl *types.TimeSlot) error {
	now := time.Now().UTC()
	sl.CreatedAt, sl.UpdatedAt = now, now
	return s.db.Update(func(tx *bolt.Tx) error { return put(tx, bucketTimeSlots, sl.ID, sl) })
}

func (s *BoltStore) GetTimeSlot(id string) (*types.TimeSlot, error) {
	var sl types.TimeSlot
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketTimeSlots).Get([]byte(id))
		if data == nil {
			return apperr.NotFoundf("time slot %s not found", id)
		}
		return json.Unmarshal(data, &sl)
	})
	if err != nil {
		return nil, err
	}
	return &sl, nil
}

func (s *BoltStore) listAllTimeSlots() ([]*types.TimeSlot, error) {
	var out []*types.TimeSlot
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketTimeSlots).ForEach(func(k, v []byte) error {
			var sl types.TimeSlot
			if err := json.Unmarshal(v, &sl); err != nil {
				return err
			}
			out = append(out, &sl)
			return nil
		})
	})
	return out, err
}

func (s *BoltStore) ListTimeSlotsByEngineerDate(engineerID, date string) ([]*types.TimeSlot, error) {
	all, err := s.listAllTimeSlots()
	if err != nil {
		return nil, err
	}
	var out []*types.TimeSlot
	for _, sl := range all {
		if sl.EngineerID == engineerID && sl.Date == date {
			out = append(out, sl)
		}
	}
	return out, nil
}

func (s *BoltStore) ListTimeSlotsByEngineerRange(engineerID, fromDate, toDate string) ([]*types.TimeSlot, error) {
	all, err := s.listAllTimeSlots()
	if err != nil {
		return nil, err
	}
	var out []*types.TimeSlot
	for _, sl := range all {
		if sl.EngineerID == engineerID && sl.Date >= fromDate && sl.Date <= toDate {
			out = append(out, sl)
		}
	}
	return out, nil
}

func (s *BoltStore) DeleteTimeSlot(id string) error {
	return s.db.Update(func(tx *bolt.Tx) error { return tx.Bucket(bucketTimeSlots).Delete([]byte(id)) })
}

// --- Works ---

func (s *BoltStore) CreateWork(w *types.Work) error {
	now := time.Now().UTC()
	w.CreatedAt, w.UpdatedAt = now, now
	w.Version = 1
	return s.db.Update(func(tx *bolt.Tx) error { return put(tx, bucketWorks, w.ID, w) })
}

func (s *BoltStore) GetWork(id string) (*types.Work, error) {
	var w types.Work
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketWorks).Get([]byte(id))
		if data == nil {
			return apperr.NotFoundf("work %s not found", id)
		}
		return json.Unmarshal(data, &w)
	})
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (s *BoltStore) ListWorks() ([]*types.Work, error) {
	var out []*types.Work
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketWorks).ForEach(func(k, v []byte) error {
			var w types.Work
			if err := json.Unmarshal(v, &w); err != nil {
				return err
			}
			out = append(out, &w)
			return nil
		})
	})
	return out, err
}

// UpdateWork re-reads the persisted row inside the same transaction,
// checks expectedVersion (if provided) and fails with apperr.Conflict
// on mismatch, then writes w with Version bumped by one (§4.10).
func (s *BoltStore) UpdateWork(w *types.Work, expectedVersion *int) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketWorks)
		data := b.Get([]byte(w.ID))
		if data == nil {
			return apperr.NotFoundf("work %s not found", w.ID)
		}
		var current types.Work
		if err := json.Unmarshal(data, &current); err != nil {
			return err
		}
		if expectedVersion != nil && current.Version != *expectedVersion {
			return apperr.Conflictf("work %s version mismatch: have %d, expected %d", w.ID, current.Version, *expectedVersion)
		}
		w.Version = current.Version + 1
		w.CreatedAt = current.CreatedAt
		w.UpdatedAt = time.Now().UTC()
		data, err := json.Marshal(w)
		if err != nil {
			return err
		}
		return b.Put([]byte(w.ID), data)
	})
}

func (s *BoltStore) DeleteWork(id string) error {
	return s.db.Update(func(tx *bolt.Tx) error { return tx.Bucket(bucketWorks).Delete([]byte(id)) })
}

// --- WorkChunks ---

func (s *BoltStore) CreateWorkChunk(c *types.WorkChunk) error {
	now := time.Now().UTC()
	c.CreatedAt, c.UpdatedAt = now, now
	c.Version = 1
	return s.db.Update(func(tx *bolt.Tx) error { return put(tx, bucketWorkChunks, c.ID, c) })
}

func (s *BoltStore) GetWorkChunk(id string) (*types.WorkChunk, error) {
	var c types.WorkChunk
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketWorkChunks).Get([]byte(id))
		if data == nil {
			return apperr.NotFoundf("work chunk %s not found", id)
		}
		return json.Unmarshal(data, &c)
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *BoltStore) listAllWorkChunks() ([]*types.WorkChunk, error) {
	var out []*types.WorkChunk
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketWorkChunks).ForEach(func(k, v []byte) error {
			var c types.WorkChunk
			if err := json.Unmarshal(v, &c); err != nil {
				return err
			}
			out = append(out, &c)
			return nil
		})
	})
	return out, err
}

func (s *BoltStore) ListWorkChunksByWork(workID string) ([]*types.WorkChunk, error) {
	all, err := s.listAllWorkChunks()
	if err != nil {
		return nil, err
	}
	var out []*types.WorkChunk
	for _, c := range all {
		if c.WorkID == workID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *BoltStore) ListWorkChunksByStatus(status types.ChunkStatus) ([]*types.WorkChunk, error) {
	all, err := s.listAllWorkChunks()
	if err != nil {
		return nil, err
	}
	var out []*types.WorkChunk
	for _, c := range all {
		if c.Status == status {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *BoltStore) ListWorkChunksByEngineerDate(engineerID, date string) ([]*types.WorkChunk, error) {
	all, err := s.listAllWorkChunks()
	if err != nil {
		return nil, err
	}
	var out []*types.WorkChunk
	for _, c := range all {
		if c.EngineerID != nil && *c.EngineerID == engineerID && c.Date != nil && *c.Date == date {
			out = append(out, c)
		}
	}
	return out, nil
}

// UpdateWorkChunk re-reads, checks expectedVersion, and bumps Version,
// mirroring UpdateWork (§4.10).
func (s *BoltStore) UpdateWorkChunk(c *types.WorkChunk, expectedVersion *int) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketWorkChunks)
		data := b.Get([]byte(c.ID))
		if data == nil {
			return apperr.NotFoundf("work chunk %s not found", c.ID)
		}
		var current types.WorkChunk
		if err := json.Unmarshal(data, &current); err != nil {
			return err
		}
		if expectedVersion != nil && current.Version != *expectedVersion {
			return apperr.Conflictf("chunk %s version mismatch: have %d, expected %d", c.ID, current.Version, *expectedVersion)
		}
		c.Version = current.Version + 1
		c.CreatedAt = current.CreatedAt
		c.UpdatedAt = time.Now().UTC()
		data, err := json.Marshal(c)
		if err != nil {
			return err
		}
		return b.Put([]byte(c.ID), data)
	})
}

func (s *BoltStore) DeleteWorkChunk(id string) error {
	return s.db.Update(func(tx *bolt.Tx) error { return tx.Bucket(bucketWorkChunks).Delete([]byte(id)) })
}

// --- WorkTasks ---

func (s *BoltStore) CreateWorkTask(t *types.WorkTask) error {
	now := time.Now().UTC()
	t.CreatedAt, t.UpdatedAt = now, now
	return s.db.Update(func(tx *bolt.Tx) error { return put(tx, bucketWorkTasks, t.ID, t) })
}

func (s *BoltStore) ListWorkTasksByChunk(chunkID string) ([]*types.WorkTask, error) {
	var out []*types.WorkTask
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketWorkTasks).ForEach(func(k, v []byte) error {
			var t types.WorkTask
			if err := json.Unmarshal(v, &t); err != nil {
				return err
			}
			if t.ChunkID == chunkID {
				out = append(out, &t)
			}
			return nil
		})
	})
	return out, err
}

func (s *BoltStore) DeleteWorkTasksByChunk(chunkID string) error {
	tasks, err := s.ListWorkTasksByChunk(chunkID)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketWorkTasks)
		for _, t := range tasks {
			if err := b.Delete([]byte(t.ID)); err != nil {
				return err
			}
		}
		return nil
	})
}

// --- ChunkLinks ---

func (s *BoltStore) CreateChunkLink(l *types.ChunkLink) error {
	l.CreatedAt = time.Now().UTC()
	return s.db.Update(func(tx *bolt.Tx) error { return put(tx, bucketChunkLinks, l.ID, l) })
}

func (s *BoltStore) listAllChunkLinks() ([]*types.ChunkLink, error) {
	var out []*types.ChunkLink
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketChunkLinks).ForEach(func(k, v []byte) error {
			var l types.ChunkLink
			if err := json.Unmarshal(v, &l); err != nil {
				return err
			}
			out = append(out, &l)
			return nil
		})
	})
	return out, err
}

func (s *BoltStore) ListChunkLinksFrom(chunkID string) ([]*types.ChunkLink, error) {
	all, err := s.listAllChunkLinks()
	if err != nil {
		return nil, err
	}
	var out []*types.ChunkLink
	for _, l := range all {
		if l.ChunkID == chunkID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (s *BoltStore) ListChunkLinksTo(chunkID string) ([]*types.ChunkLink, error) {
	all, err := s.listAllChunkLinks()
	if err != nil {
		return nil, err
	}
	var out []*types.ChunkLink
	for _, l := range all {
		if l.LinkedChunkID == chunkID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (s *BoltStore) DeleteChunkLinksByChunk(chunkID string) error {
	all, err := s.listAllChunkLinks()
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketChunkLinks)
		for _, l := range all {
			if l.ChunkID == chunkID || l.LinkedChunkID == chunkID {
				if err := b.Delete([]byte(l.ID)); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// --- PlanningSessions ---

func (s *BoltStore) CreatePlanningSession(sess *types.PlanningSession) error {
	now := time.Now().UTC()
	sess.CreatedAt, sess.UpdatedAt = now, now
	return s.db.Update(func(tx *bolt.Tx) error { return put(tx, bucketPlanningSess, sess.ID, sess) })
}

func (s *BoltStore) GetPlanningSession(id string) (*types.PlanningSession, error) {
	var sess types.PlanningSession
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketPlanningSess).Get([]byte(id))
		if data == nil {
			return apperr.NotFoundf("planning session %s not found", id)
		}
		return json.Unmarshal(data, &sess)
	})
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *BoltStore) ListPlanningSessions() ([]*types.PlanningSession, error) {
	var out []*types.PlanningSession
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketPlanningSess).ForEach(func(k, v []byte) error {
			var sess types.PlanningSession
			if err := json.Unmarshal(v, &sess); err != nil {
				return err
			}
			out = append(out, &sess)
			return nil
		})
	})
	return out, err
}

func (s *BoltStore) ListDraftSessionsExpiringBefore(t string) ([]*types.PlanningSession, error) {
	all, err := s.ListPlanningSessions()
	if err != nil {
		return nil, err
	}
	cutoff, err := time.Parse(time.RFC3339, t)
	if err != nil {
		return nil, fmt.Errorf("invalid cutoff timestamp: %w", err)
	}
	var out []*types.PlanningSession
	for _, sess := range all {
		if sess.Status == types.SessionDraft && sess.ExpiresAt.Before(cutoff) {
			out = append(out, sess)
		}
	}
	return out, nil
}

func (s *BoltStore) UpdatePlanningSession(sess *types.PlanningSession) error {
	sess.UpdatedAt = time.Now().UTC()
	return s.db.Update(func(tx *bolt.Tx) error { return put(tx, bucketPlanningSess, sess.ID, sess) })
}

func (s *BoltStore) DeletePlanningSession(id string) error {
	return s.db.Update(func(tx *bolt.Tx) error { return tx.Bucket(bucketPlanningSess).Delete([]byte(id)) })
}
