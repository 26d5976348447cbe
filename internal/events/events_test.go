package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishDeliversToSubscriber(t *testing.T) {
	b := NewBroker()
	sub := b.Subscribe()
	defer sub.Close()

	b.Publish(&Event{Kind: KindWorkCreated, EntityID: "w1"})

	event, closed := sub.Next(time.Second)
	require.False(t, closed)
	require.NotNil(t, event)
	assert.Equal(t, KindWorkCreated, event.Kind)
	assert.Equal(t, "w1", event.EntityID)
	assert.NotEmpty(t, event.ID, "Publish assigns an ID when none is set")
	assert.False(t, event.Timestamp.IsZero())
}

func TestPublishFansOutToAllSubscribers(t *testing.T) {
	b := NewBroker()
	sub1 := b.Subscribe()
	sub2 := b.Subscribe()
	defer sub1.Close()
	defer sub2.Close()

	b.Publish(&Event{Kind: KindChunkPlanned, EntityID: "c1"})

	e1, closed1 := sub1.Next(time.Second)
	e2, closed2 := sub2.Next(time.Second)
	require.False(t, closed1)
	require.False(t, closed2)
	assert.Equal(t, e1.ID, e2.ID)
}

func TestNextTimesOutWhenQueueEmpty(t *testing.T) {
	b := NewBroker()
	sub := b.Subscribe()
	defer sub.Close()

	event, closed := sub.Next(20 * time.Millisecond)
	assert.Nil(t, event)
	assert.False(t, closed)
}

func TestCloseUnblocksNext(t *testing.T) {
	b := NewBroker()
	sub := b.Subscribe()

	done := make(chan bool, 1)
	go func() {
		_, closed := sub.Next(5 * time.Second)
		done <- closed
	}()

	time.Sleep(10 * time.Millisecond)
	sub.Close()

	select {
	case closed := <-done:
		assert.True(t, closed)
	case <-time.After(time.Second):
		t.Fatal("Next did not unblock after Close")
	}
}

func TestQueueNeverDropsUnderBurst(t *testing.T) {
	b := NewBroker()
	sub := b.Subscribe()
	defer sub.Close()

	const n = 500
	for i := 0; i < n; i++ {
		b.Publish(&Event{Kind: KindFullSync})
	}

	count := 0
	for {
		event, closed := sub.Next(10 * time.Millisecond)
		if closed || event == nil {
			break
		}
		count++
	}
	assert.Equal(t, n, count, "unbounded queue must not drop events under burst publish")
}

func TestPublishAfterUnsubscribeDoesNotPanic(t *testing.T) {
	b := NewBroker()
	sub := b.Subscribe()
	sub.Close()
	assert.NotPanics(t, func() {
		b.Publish(&Event{Kind: KindWorkDeleted, EntityID: "w1"})
	})
}
