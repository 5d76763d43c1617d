package eventbus

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEventBus_SubscribePublish(t *testing.T) {
	bus := NewEventBus(nil)
	var called bool
	bus.Subscribe(EventTypeAttemptRecorded, func(ctx context.Context, event Event) error {
		called = true
		assert.Equal(t, EventTypeAttemptRecorded, event.Type())
		return nil
	})
	err := bus.Publish(context.Background(), NewBasicEvent(EventTypeAttemptRecorded, map[string]string{"userId": "u1"}))
	assert.NoError(t, err)
	assert.True(t, called)
}

func TestEventBus_PublishWithoutSubscribersSucceeds(t *testing.T) {
	bus := NewEventBus(nil)
	err := bus.Publish(context.Background(), NewBasicEvent("nobody.listens", nil))
	assert.NoError(t, err)
}

func TestEventBus_RetriesFailingHandler(t *testing.T) {
	bus := NewEventBusWithConfig(nil, BusConfig{MaxRetries: 2, RetryDelay: time.Millisecond})
	attempts := 0
	bus.Subscribe("flaky", func(ctx context.Context, event Event) error {
		attempts++
		if attempts < 3 {
			return errors.New("transient")
		}
		return nil
	})

	err := bus.Publish(context.Background(), NewBasicEvent("flaky", nil))
	assert.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestEventBus_ExhaustedRetriesReturnError(t *testing.T) {
	bus := NewEventBusWithConfig(nil, BusConfig{MaxRetries: 1, RetryDelay: time.Millisecond})
	bus.Subscribe("broken", func(ctx context.Context, event Event) error {
		return errors.New("permanent")
	})

	err := bus.Publish(context.Background(), NewBasicEvent("broken", nil))
	assert.Error(t, err)
}

func TestEventBus_Unsubscribe(t *testing.T) {
	bus := NewEventBus(nil)
	bus.Subscribe("ev", func(ctx context.Context, event Event) error { return nil })
	assert.Equal(t, 1, bus.GetSubscriberCount("ev"))
	bus.Unsubscribe("ev")
	assert.Equal(t, 0, bus.GetSubscriberCount("ev"))
}

func TestEventBus_PublishAndForget(t *testing.T) {
	bus := NewEventBus(nil)
	var wg sync.WaitGroup
	wg.Add(1)
	bus.Subscribe(EventTypeSessionRevoked, func(ctx context.Context, event Event) error {
		wg.Done()
		return nil
	})
	bus.PublishAndForget(context.Background(), NewBasicEventWithSource(EventTypeSessionRevoked, nil, "auth"))
	wait := make(chan struct{})
	go func() {
		wg.Wait()
		close(wait)
	}()
	select {
	case <-wait:
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for PublishAndForget")
	}
}

func TestBasicEvent_CarriesSource(t *testing.T) {
	event := NewBasicEventWithSource(EventTypeUserAuthenticated, map[string]string{"userId": "u1"}, "auth")
	assert.Equal(t, EventTypeUserAuthenticated, event.Type())
	assert.Equal(t, "auth", event.Source())
	assert.WithinDuration(t, time.Now(), event.Timestamp(), time.Second)
}
