package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestDispatcherDeliversToSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher(nil)

	var got []EventType
	d.Subscribe(EventUserCreated, func(_ context.Context, e Event) error {
		got = append(got, e.Type)
		return nil
	})
	d.Subscribe(EventUserDeleted, func(_ context.Context, e Event) error {
		got = append(got, e.Type)
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), New(EventUserCreated, 1, Actor{}, nil)))
	require.NoError(t, d.Publish(context.Background(), New(EventPasswordChanged, 1, Actor{}, nil)))

	assert.Equal(t, []EventType{EventUserCreated}, got)
}

func TestDispatcherContinuesAfterHandlerError(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	d := NewInMemoryDispatcher(zap.New(core))

	calls := 0
	d.Subscribe(EventUserUpdated, func(context.Context, Event) error {
		calls++
		return errors.New("cache down")
	})
	d.Subscribe(EventUserUpdated, func(context.Context, Event) error {
		calls++
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), New(EventUserUpdated, 3, Actor{UserID: 1}, nil)))
	assert.Equal(t, 2, calls)
	assert.Equal(t, 1, logs.FilterMessage("event handler failed").Len())
}

func TestNewStampsIdentity(t *testing.T) {
	e := New(EventLoginFailed, 0, Actor{}, LoginPayload{IDNumber: "ADM-001", Reason: "invalid_credentials"})

	assert.NotEmpty(t, e.ID)
	assert.False(t, e.Timestamp.IsZero())
	assert.Equal(t, EventLoginFailed, e.Type)
}
