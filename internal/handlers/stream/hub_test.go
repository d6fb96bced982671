package stream_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"salon/infras/pubsub"
	pubsubMocks "salon/infras/pubsub/mocks"
	"salon/internal/handlers/stream"
	"salon/shared/constant"
)

func newHub(t *testing.T) (*stream.Hub, *func(pubsub.Event)) {
	t.Helper()

	ctrl := gomock.NewController(t)

	var deliver func(pubsub.Event)

	bus := pubsubMocks.NewMockBus(ctrl)
	bus.EXPECT().Subscribe(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, onEvent func(pubsub.Event)) error {
		deliver = onEvent

		return nil
	}).Times(1)

	hub := stream.NewHub(bus)
	t.Cleanup(hub.Close)

	return hub, &deliver
}

func TestHub_SubscribesOnce(t *testing.T) {
	hub, deliver := newHub(t)

	first, err := hub.Join(constant.CollectionServices)
	require.NoError(t, err)

	second, err := hub.Join(constant.CollectionStaff)
	require.NoError(t, err)

	require.NotNil(t, *deliver)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, 1, hub.Count(constant.CollectionServices))
	assert.Equal(t, 1, hub.Count(constant.CollectionStaff))
}

func TestHub_ChangesCoalesce(t *testing.T) {
	hub, deliver := newHub(t)

	client, err := hub.Join(constant.CollectionServices)
	require.NoError(t, err)

	for range 5 {
		(*deliver)(pubsub.Event{Collection: constant.CollectionServices, Action: pubsub.ActionUpdated, ID: "svc-1"})
	}

	assert.Len(t, client.Changed, 1)

	<-client.Changed
	assert.Empty(t, client.Changed)
}

func TestHub_RoutesByCollection(t *testing.T) {
	hub, deliver := newHub(t)

	services, err := hub.Join(constant.CollectionServices)
	require.NoError(t, err)

	staff, err := hub.Join(constant.CollectionStaff)
	require.NoError(t, err)

	(*deliver)(pubsub.Event{Collection: constant.CollectionStaff, Action: pubsub.ActionCreated, ID: "staff-9"})

	assert.Empty(t, services.Changed)
	assert.Len(t, staff.Changed, 1)
}

func TestHub_WriteFailures(t *testing.T) {
	hub, deliver := newHub(t)

	client, err := hub.Join(constant.CollectionServices)
	require.NoError(t, err)

	event := pubsub.Event{Collection: constant.CollectionServices, Action: pubsub.ActionWriteFailed, ID: "svc-1", Error: "timeout"}
	(*deliver)(event)

	require.Len(t, client.Failures, 1)
	assert.Equal(t, event, <-client.Failures)
	assert.Empty(t, client.Changed)
}

func TestHub_Leave(t *testing.T) {
	hub, deliver := newHub(t)

	client, err := hub.Join(constant.CollectionServices)
	require.NoError(t, err)

	hub.Leave(client)

	assert.Equal(t, 0, hub.Count(constant.CollectionServices))

	(*deliver)(pubsub.Event{Collection: constant.CollectionServices, Action: pubsub.ActionDeleted})

	assert.Empty(t, client.Changed)
}

func TestHub_SubscribeFailure(t *testing.T) {
	ctrl := gomock.NewController(t)

	bus := pubsubMocks.NewMockBus(ctrl)
	gomock.InOrder(
		bus.EXPECT().Subscribe(gomock.Any(), gomock.Any()).Return(errors.New("redis down")),
		bus.EXPECT().Subscribe(gomock.Any(), gomock.Any()).Return(nil),
	)

	hub := stream.NewHub(bus)
	defer hub.Close()

	_, err := hub.Join(constant.CollectionServices)
	require.Error(t, err)
	assert.Equal(t, 0, hub.Count(constant.CollectionServices))

	_, err = hub.Join(constant.CollectionServices)
	require.NoError(t, err)
	assert.Equal(t, 1, hub.Count(constant.CollectionServices))
}
