package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/EvgeniyBoldov/calendar/internal/blobstore"
	"github.com/EvgeniyBoldov/calendar/internal/events"
	"github.com/EvgeniyBoldov/calendar/internal/manager"
	"github.com/EvgeniyBoldov/calendar/internal/notify"
	"github.com/EvgeniyBoldov/calendar/internal/planning"
	"github.com/EvgeniyBoldov/calendar/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncStreamEmitsConnectedThenEvent(t *testing.T) {
	store, err := storage.NewBoltStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	bus := events.NewBroker()
	mgr := manager.New(store, bus, blobstore.NoopStore{})
	plan := planning.New(store, bus, notify.LoggingSink{}, 15*time.Minute)
	server := New(mgr, plan, bus, nil)
	router := server.Router()

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/api/sync/stream", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		router.ServeHTTP(rec, req)
		close(done)
	}()

	// give handleSyncStream time to write the initial "connected" frame
	// and subscribe before this test publishes onto the shared bus.
	time.Sleep(50 * time.Millisecond)
	bus.Publish(&events.Event{Kind: events.KindChunkUpdated, EntityID: "c1", ActorID: "dev"})
	time.Sleep(50 * time.Millisecond)

	// the stream's context check only runs between blocking Next calls,
	// so cancel first, then publish a second event to unblock the
	// in-flight Next() wait and let the loop observe the cancellation.
	cancel()
	bus.Publish(&events.Event{Kind: events.KindChunkUpdated, EntityID: "c2", ActorID: "dev"})
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("handleSyncStream did not return after context cancellation")
	}

	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "event: connected"))
	assert.True(t, strings.Contains(body, "event: sync"))
	assert.True(t, strings.Contains(body, `"entity_id":"c1"`))
}
