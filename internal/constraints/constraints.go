// Package constraints implements the Constraint Service (C5): it
// derives a ChunkConstraints record per chunk for UI validation and
// for the Slot Search Engine's date window.
package constraints

import (
	"github.com/EvgeniyBoldov/calendar/internal/chunkcalc"
	"github.com/EvgeniyBoldov/calendar/internal/dateutil"
	"github.com/EvgeniyBoldov/calendar/internal/dependency"
	"github.com/EvgeniyBoldov/calendar/internal/storage"
	"github.com/EvgeniyBoldov/calendar/internal/types"
)

const defaultWindowDays = 30

// Compute derives the ChunkConstraints for chunk within work, per
// §4.4. overlay may be nil outside of a planning run.
func Compute(store storage.Store, chunk *types.WorkChunk, work *types.Work, overlay dependency.DateOverlay) (*types.ChunkConstraints, error) {
	c := &types.ChunkConstraints{}

	effectiveDC := types.EffectiveDC(chunk, work)
	c.DataCenterID = effectiveDC
	if effectiveDC != "" {
		dc, err := store.GetDataCenter(effectiveDC)
		if err != nil {
			return nil, err
		}
		c.AllowedRegionIDs = []string{dc.RegionID}
	}

	today := dateutil.Today()
	if work.Type == types.WorkTypeSupport {
		c.FixedDate = work.TargetDate
		c.FixedTime = work.TargetTime
		c.MinDate = work.TargetDate
		c.MaxDate = work.TargetDate
	} else {
		c.MinDate = today
		if work.DueDate != "" {
			c.MaxDate = work.DueDate
		} else {
			maxDate, err := dateutil.AddDays(today, defaultWindowDays)
			if err != nil {
				return nil, err
			}
			c.MaxDate = maxDate
		}
	}

	res, err := dependency.Resolve(store, chunk.ID, overlay)
	if err != nil {
		return nil, err
	}
	c.DependsOnChunkIDs = res.DependsOnIDs
	c.SyncChunkIDs = res.SyncIDs
	if res.EarliestAfterDate != "" && res.EarliestAfterDate > c.MinDate {
		c.MinDate = res.EarliestAfterDate
	}
	if res.SyncPinnedDate != "" {
		c.MinDate = res.SyncPinnedDate
		c.MaxDate = res.SyncPinnedDate
	}

	duration, err := chunkcalc.DurationHours(store, chunk.ID)
	if err != nil {
		return nil, err
	}
	c.DurationHours = duration

	return c, nil
}
