package stream

import (
	"context"
	"fmt"
	"salon/infras/pubsub"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const failureBuffer = 8

// Client is one open stream on a collection. Changed is a one-slot dirty
// flag: any number of changes between two reads collapse into one refresh.
type Client struct {
	ID         string
	Collection string
	Changed    chan struct{}
	Failures   chan pubsub.Event
}

// Hub fans change events from the bus out to the open streams. It subscribes
// to the bus lazily on the first stream.
type Hub struct {
	bus pubsub.Bus

	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}

	subMu      sync.Mutex
	subscribed bool
	cancel     context.CancelFunc
}

func NewHub(bus pubsub.Bus) *Hub {
	return &Hub{
		bus:     bus,
		clients: make(map[string]map[*Client]struct{}),
	}
}

// Join registers a client for collection, subscribing to the bus first if
// needed.
func (hub *Hub) Join(collection string) (*Client, error) {
	if err := hub.subscribe(); err != nil {
		return nil, err
	}

	client := &Client{
		ID:         uuid.NewString(),
		Collection: collection,
		Changed:    make(chan struct{}, 1),
		Failures:   make(chan pubsub.Event, failureBuffer),
	}

	hub.mu.Lock()
	defer hub.mu.Unlock()

	clients, ok := hub.clients[collection]
	if !ok {
		clients = make(map[*Client]struct{})
		hub.clients[collection] = clients
	}

	clients[client] = struct{}{}

	log.Debug().Str("client_id", client.ID).Str("collection", collection).Msg("stream client joined")

	return client, nil
}

func (hub *Hub) Leave(client *Client) {
	hub.mu.Lock()
	defer hub.mu.Unlock()

	if clients, ok := hub.clients[client.Collection]; ok {
		delete(clients, client)

		if len(clients) == 0 {
			delete(hub.clients, client.Collection)
		}
	}

	log.Debug().Str("client_id", client.ID).Str("collection", client.Collection).Msg("stream client left")
}

// Broadcast delivers event to every client of its collection without blocking.
func (hub *Hub) Broadcast(event pubsub.Event) {
	hub.mu.RLock()
	defer hub.mu.RUnlock()

	for client := range hub.clients[event.Collection] {
		if event.Action == pubsub.ActionWriteFailed {
			select {
			case client.Failures <- event:
			default:
				log.Warn().Str("client_id", client.ID).Msg("dropping write failure; stream buffer full")
			}

			continue
		}

		select {
		case client.Changed <- struct{}{}:
		default:
		}
	}
}

// Count is the number of open streams on collection.
func (hub *Hub) Count(collection string) int {
	hub.mu.RLock()
	defer hub.mu.RUnlock()

	return len(hub.clients[collection])
}

// Close stops the bus subscription.
func (hub *Hub) Close() {
	hub.subMu.Lock()
	defer hub.subMu.Unlock()

	if hub.cancel != nil {
		hub.cancel()
	}

	hub.subscribed = false
}

func (hub *Hub) subscribe() error {
	hub.subMu.Lock()
	defer hub.subMu.Unlock()

	if hub.subscribed {
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())

	if err := hub.bus.Subscribe(ctx, hub.Broadcast); err != nil {
		cancel()

		return fmt.Errorf("failed to subscribe to change events: %w", err)
	}

	hub.cancel = cancel
	hub.subscribed = true

	return nil
}
