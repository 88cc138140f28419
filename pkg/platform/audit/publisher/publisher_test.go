package publisher

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	audit "originate/pkg/platform/audit"
	"originate/pkg/platform/audit/store/memory"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decisionEvent(clientID string, action audit.Action) audit.Event {
	return audit.Event{
		RequestID: uuid.NewString(),
		ClientID:  clientID,
		Action:    string(action),
		Outcome:   "APPROVE",
		Reason:    "ALL_CLEAR",
	}
}

func TestPublisher_SyncMode(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store)
	defer pub.Close()

	err := pub.Emit(context.Background(), decisionEvent("client-1", audit.ActionDecisionMade))
	require.NoError(t, err)

	events, err := pub.List(context.Background(), "client-1")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, string(audit.ActionDecisionMade), events[0].Action)
}

func TestPublisher_AsyncMode(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store, WithAsyncBuffer(10))
	defer pub.Close()

	err := pub.Emit(context.Background(), decisionEvent("client-1", audit.ActionDecisionEarlyCut))
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		events, err := pub.List(context.Background(), "client-1")
		return err == nil && len(events) == 1
	}, time.Second, 10*time.Millisecond)
}

func TestPublisher_AsyncDrainsOnClose(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store, WithAsyncBuffer(100))

	for range 10 {
		require.NoError(t, pub.Emit(context.Background(), decisionEvent("client-1", audit.ActionDecisionMade)))
	}

	pub.Close()

	events, err := store.ListByClient(context.Background(), "client-1")
	require.NoError(t, err)
	assert.Len(t, events, 10, "all events should be drained on close")
}

func TestPublisher_BufferFull_DropsEvent(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store, WithAsyncBuffer(1))
	defer pub.Close()

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := pub.Emit(context.Background(), decisionEvent("client-1", audit.ActionDecisionMade))
			if err != nil {
				assert.ErrorIs(t, err, ErrBufferFull)
			}
		}()
	}
	wg.Wait()
}

func TestPublisher_SetsTimestamp(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store)
	defer pub.Close()

	before := time.Now()
	require.NoError(t, pub.Emit(context.Background(), decisionEvent("client-1", audit.ActionDecisionMade)))
	after := time.Now()

	events, err := pub.List(context.Background(), "client-1")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.False(t, events[0].Timestamp.Before(before))
	assert.False(t, events[0].Timestamp.After(after))
}

func TestPublisher_PreservesExistingTimestamp(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store)
	defer pub.Close()

	customTime := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	event := decisionEvent("client-1", audit.ActionDecisionMade)
	event.Timestamp = customTime

	require.NoError(t, pub.Emit(context.Background(), event))

	events, err := pub.List(context.Background(), "client-1")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, customTime, events[0].Timestamp)
}

func TestPublisher_DifferentClients(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store)
	defer pub.Close()

	require.NoError(t, pub.Emit(context.Background(), decisionEvent("client-1", audit.ActionDecisionMade)))
	require.NoError(t, pub.Emit(context.Background(), decisionEvent("client-2", audit.ActionDecisionEarlyCut)))

	events1, err := pub.List(context.Background(), "client-1")
	require.NoError(t, err)
	require.Len(t, events1, 1)
	assert.Equal(t, string(audit.ActionDecisionMade), events1[0].Action)

	events2, err := pub.List(context.Background(), "client-2")
	require.NoError(t, err)
	require.Len(t, events2, 1)
	assert.Equal(t, string(audit.ActionDecisionEarlyCut), events2[0].Action)
}

type failingStore struct{}

func (failingStore) Append(context.Context, audit.Event) error { return errors.New("disk full") }

func TestPublisher_SyncModeSurfacesStoreError(t *testing.T) {
	pub := NewPublisher(failingStore{})
	defer pub.Close()

	err := pub.Emit(context.Background(), decisionEvent("client-1", audit.ActionDecisionMade))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")

	_, err = pub.List(context.Background(), "client-1")
	assert.Error(t, err, "store without listing support")
}
