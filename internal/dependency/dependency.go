// Package dependency implements the Dependency Resolver (C4). Per
// §9's "cyclic references" redesign flag, ChunkLink edges are modeled
// as a directed graph keyed by chunk ID with edges stored separately
// (internal/storage's ChunkLink bucket) — never embedded on the
// WorkChunk itself.
package dependency

import (
	"github.com/EvgeniyBoldov/calendar/internal/dateutil"
	"github.com/EvgeniyBoldov/calendar/internal/storage"
	"github.com/EvgeniyBoldov/calendar/internal/types"
)

// Resolution is the per-chunk result of §4.3.
type Resolution struct {
	DependsOnIDs      []string
	SyncIDs           []string
	EarliestAfterDate string // "" if none
	SyncPinnedDate    string // "" if none
}

// DateOverlay exposes a peer chunk's virtual (not yet persisted) date
// within the current planning run. assign_all_chunks and create_session
// flush writes only at the end (§4.8), so a dependency predecessor
// processed earlier in the same run is visible only through here.
type DateOverlay interface {
	VirtualDate(chunkID string) (date string, ok bool)
}

type noOverlay struct{}

func (noOverlay) VirtualDate(string) (string, bool) { return "", false }

// dateOf prefers the chunk's persisted date, falling back to any
// virtual date proposed earlier in the same run.
func dateOf(c *types.WorkChunk, overlay DateOverlay) (string, bool) {
	if c.Date != nil {
		return *c.Date, true
	}
	return overlay.VirtualDate(c.ID)
}

// Resolve computes a chunk's dependency/sync facts against persisted
// ChunkLinks and the current assignment state of its peers, including
// any not-yet-flushed virtual assignments from overlay. Pass nil to
// consider only persisted state.
func Resolve(store storage.Store, chunkID string, overlay DateOverlay) (*Resolution, error) {
	if overlay == nil {
		overlay = noOverlay{}
	}
	outgoing, err := store.ListChunkLinksFrom(chunkID)
	if err != nil {
		return nil, err
	}
	incoming, err := store.ListChunkLinksTo(chunkID)
	if err != nil {
		return nil, err
	}

	res := &Resolution{}
	syncSeen := map[string]bool{}

	var latestDepDate string
	for _, link := range outgoing {
		switch link.Type {
		case types.LinkDependency:
			res.DependsOnIDs = append(res.DependsOnIDs, link.LinkedChunkID)
			peer, err := store.GetWorkChunk(link.LinkedChunkID)
			if err != nil {
				return nil, err
			}
			if d, ok := dateOf(peer, overlay); ok && (latestDepDate == "" || d > latestDepDate) {
				latestDepDate = d
			}
		case types.LinkSync:
			if !syncSeen[link.LinkedChunkID] {
				syncSeen[link.LinkedChunkID] = true
				res.SyncIDs = append(res.SyncIDs, link.LinkedChunkID)
			}
		}
	}
	for _, link := range incoming {
		if link.Type == types.LinkSync && !syncSeen[link.ChunkID] {
			syncSeen[link.ChunkID] = true
			res.SyncIDs = append(res.SyncIDs, link.ChunkID)
		}
	}

	if latestDepDate != "" {
		next, err := dateutil.AddDays(latestDepDate, 1)
		if err != nil {
			return nil, err
		}
		res.EarliestAfterDate = next
	}

	for _, peerID := range res.SyncIDs {
		peer, err := store.GetWorkChunk(peerID)
		if err != nil {
			return nil, err
		}
		if d, ok := dateOf(peer, overlay); ok {
			res.SyncPinnedDate = d
			break
		}
	}

	return res, nil
}
