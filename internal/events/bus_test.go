package events

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_PublishSubscribe(t *testing.T) {
	bus := NewBus(NewEventLog(setupTestDB(t)), nil)
	defer bus.Close()

	ch := bus.Subscribe(EventSeriesAdded, 10)

	err := bus.Publish(context.Background(), seriesAdded(1, 71663, "The Simpsons"))
	require.NoError(t, err)

	select {
	case received := <-ch:
		assert.Equal(t, EventSeriesAdded, received.EventType())
		added, ok := received.(*SeriesAdded)
		require.True(t, ok)
		assert.Equal(t, int64(71663), added.TVDBID)
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
	}
}

func TestBus_PersistsToLog(t *testing.T) {
	ctx := context.Background()
	log := NewEventLog(setupTestDB(t))
	bus := NewBus(log, nil)
	defer bus.Close()

	require.NoError(t, bus.Publish(ctx, seriesAdded(3, 81189, "Breaking Bad")))

	events, err := log.ForEntity(ctx, EntitySeries, 3)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, EventSeriesAdded, events[0].EventType)
}

func TestBus_SubscribeAll(t *testing.T) {
	bus := NewBus(NewEventLog(setupTestDB(t)), nil)
	defer bus.Close()

	ch := bus.SubscribeAll(10)

	e1 := &testEvent{BaseEvent: NewBaseEvent("test.first", "test", 1), Message: "first"}
	e2 := &testEvent{BaseEvent: NewBaseEvent("test.second", "test", 2), Message: "second"}
	require.NoError(t, bus.Publish(context.Background(), e1))
	require.NoError(t, bus.Publish(context.Background(), e2))

	received := make([]Event, 0, 2)
	timeout := time.After(time.Second)
	for i := 0; i < 2; i++ {
		select {
		case e := <-ch:
			received = append(received, e)
		case <-timeout:
			t.Fatalf("timeout waiting for event %d", i+1)
		}
	}

	assert.Len(t, received, 2)
}

func TestBus_TypeFiltering(t *testing.T) {
	bus := NewBus(nil, nil)
	defer bus.Close()

	ch := bus.Subscribe(EventSeriesAdded, 10)

	require.NoError(t, bus.Publish(context.Background(), &testEvent{BaseEvent: NewBaseEvent("test.other", "test", 1)}))

	select {
	case e := <-ch:
		t.Fatalf("unexpected event %s", e.EventType())
	default:
	}
}

func TestBus_FullSubscriberDoesNotBlock(t *testing.T) {
	bus := NewBus(nil, nil)
	defer bus.Close()

	ch := bus.Subscribe(EventSeriesAdded, 1)

	require.NoError(t, bus.Publish(context.Background(), seriesAdded(1, 1, "One")))
	require.NoError(t, bus.Publish(context.Background(), seriesAdded(2, 2, "Two")))

	first := <-ch
	assert.Equal(t, int64(1), first.EntityID())
	select {
	case e := <-ch:
		t.Fatalf("expected dropped event, got %d", e.EntityID())
	default:
	}
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := NewBus(nil, nil)
	defer bus.Close()

	ch := bus.Subscribe(EventSeriesAdded, 10)
	bus.Unsubscribe(ch)

	require.NoError(t, bus.Publish(context.Background(), seriesAdded(1, 1, "One")))

	_, ok := <-ch
	assert.False(t, ok, "channel should be closed")
}

func TestBus_UnsubscribeAll(t *testing.T) {
	bus := NewBus(nil, nil)
	defer bus.Close()

	ch := bus.SubscribeAll(10)
	bus.Unsubscribe(ch)

	_, ok := <-ch
	assert.False(t, ok, "channel should be closed")
}

func TestBus_Close(t *testing.T) {
	bus := NewBus(nil, nil)
	ch := bus.SubscribeAll(10)

	require.NoError(t, bus.Close())
	require.NoError(t, bus.Close())

	_, ok := <-ch
	assert.False(t, ok)

	assert.NoError(t, bus.Publish(context.Background(), seriesAdded(1, 1, "One")))
}

func TestBus_ConcurrentPublish(t *testing.T) {
	bus := NewBus(nil, nil)
	defer bus.Close()

	ch := bus.SubscribeAll(100)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = bus.Publish(context.Background(), seriesAdded(int64(n), int64(n+1), "Concurrent"))
		}(i)
	}
	wg.Wait()

	count := 0
	timeout := time.After(time.Second)
loop:
	for {
		select {
		case <-ch:
			count++
			if count == 10 {
				break loop
			}
		case <-timeout:
			break loop
		}
	}

	assert.Equal(t, 10, count)
}
