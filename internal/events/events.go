// Package events implements the Event Bus (C10): a process-local,
// single-process fan-out of lifecycle events to subscribed UI clients.
package events

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Kind is an event kind as listed in spec §4.11.
type Kind string

const (
	KindWorkCreated       Kind = "work.created"
	KindWorkUpdated       Kind = "work.updated"
	KindWorkDeleted       Kind = "work.deleted"
	KindChunkCreated      Kind = "chunk.created"
	KindChunkUpdated      Kind = "chunk.updated"
	KindChunkDeleted      Kind = "chunk.deleted"
	KindChunkPlanned      Kind = "chunk.planned"
	KindChunkAssigned     Kind = "chunk.assigned"
	KindEngineerCreated   Kind = "engineer.created"
	KindEngineerUpdated   Kind = "engineer.updated"
	KindEngineerDeleted   Kind = "engineer.deleted"
	KindSlotAdded         Kind = "slot.added"
	KindSlotRemoved       Kind = "slot.removed"
	KindRegionCreated     Kind = "region.created"
	KindRegionUpdated     Kind = "region.updated"
	KindRegionDeleted     Kind = "region.deleted"
	KindDataCenterCreated Kind = "datacenter.created"
	KindDataCenterUpdated Kind = "datacenter.updated"
	KindDataCenterDeleted Kind = "datacenter.deleted"
	KindSessionCreated    Kind = "session.created"
	KindSessionApplied    Kind = "session.applied"
	KindSessionCancelled  Kind = "session.cancelled"
	KindFullSync          Kind = "full_sync"
)

// Event is one change notification.
type Event struct {
	ID        string            `json:"id"`
	Kind      Kind              `json:"kind"`
	EntityID  string            `json:"entity_id"`
	Data      any               `json:"data,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
	ActorID   string            `json:"actor_id,omitempty"`
	Meta      map[string]string `json:"meta,omitempty"`
}

// subscriber holds an unbounded, mutex-protected FIFO queue. Unlike
// the teacher's fixed-capacity channel, nothing here is ever dropped:
// Publish appends under lock and signals waiters; Next blocks (with an
// optional deadline) until an event is queued or the deadline passes.
type subscriber struct {
	mu     sync.Mutex
	queue  []*Event
	signal chan struct{}
	closed bool
}

func newSubscriber() *subscriber {
	return &subscriber{signal: make(chan struct{}, 1)}
}

func (s *subscriber) push(e *Event) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.queue = append(s.queue, e)
	s.mu.Unlock()
	select {
	case s.signal <- struct{}{}:
	default:
	}
}

// Next returns the next queued event, blocking up to timeout if the
// queue is currently empty. A nil event with closed=false means the
// timeout elapsed with nothing queued (the caller should emit a
// keepalive); a nil event with closed=true means the subscriber was
// unsubscribed and its queue is drained.
func (s *subscriber) Next(timeout time.Duration) (event *Event, closed bool) {
	s.mu.Lock()
	if len(s.queue) > 0 {
		event = s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()
		return event, false
	}
	if s.closed {
		s.mu.Unlock()
		return nil, true
	}
	s.mu.Unlock()

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-s.signal:
		s.mu.Lock()
		defer s.mu.Unlock()
		if len(s.queue) > 0 {
			event = s.queue[0]
			s.queue = s.queue[1:]
			return event, false
		}
		return nil, s.closed
	case <-timer.C:
		return nil, false
	}
}

// Broker is the process-local pub/sub fan-out.
type Broker struct {
	mu          sync.RWMutex
	subscribers map[string]*subscriber
}

// Subscription is the handle returned by Subscribe.
type Subscription struct {
	ID string
	b  *Broker
	s  *subscriber
}

// NewBroker creates an empty broker.
func NewBroker() *Broker {
	return &Broker{subscribers: make(map[string]*subscriber)}
}

// Subscribe registers a new subscriber and returns a handle whose
// Next method drains its unbounded queue.
func (b *Broker) Subscribe() *Subscription {
	sub := newSubscriber()
	id := uuid.New().String()

	b.mu.Lock()
	b.subscribers[id] = sub
	b.mu.Unlock()

	return &Subscription{ID: id, b: b, s: sub}
}

// Unsubscribe removes the subscription and discards its queue.
func (b *Broker) Unsubscribe(id string) {
	b.mu.Lock()
	sub, ok := b.subscribers[id]
	delete(b.subscribers, id)
	b.mu.Unlock()
	if !ok {
		return
	}
	sub.mu.Lock()
	sub.closed = true
	sub.queue = nil
	sub.mu.Unlock()
	select {
	case sub.signal <- struct{}{}:
	default:
	}
}

// Publish enqueues event into every current subscriber's queue. It
// never blocks and never drops: per-subscriber queues grow as needed
// (§4.11 "drops are not allowed").
func (b *Broker) Publish(e *Event) {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, sub := range b.subscribers {
		sub.push(e)
	}
}

// Next blocks until an event arrives or timeout elapses, returning
// closed=true once the subscription has been torn down.
func (s *Subscription) Next(timeout time.Duration) (event *Event, closed bool) {
	return s.s.Next(timeout)
}

// Close unsubscribes this handle.
func (s *Subscription) Close() { s.b.Unsubscribe(s.ID) }
