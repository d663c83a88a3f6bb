package events

import (
	"context"
	"log/slog"
	"sync"

	"github.com/Dosada05/tournament-engine/models"
)

// AllRooms receives every event regardless of tournament.
const AllRooms = "*"

const subscriberBuffer = 64

// Upstream forwards events out of process (NATS).
type Upstream interface {
	Publish(ctx context.Context, ev models.Event) error
}

// Subscriber receives the events of one room (a tournament id or AllRooms).
type Subscriber struct {
	Room     string
	Send     chan models.Event
	isClosed bool
	mu       sync.Mutex
}

// Hub fans domain events out to in-process subscribers grouped in rooms
// and, when configured, to an upstream broker.
type Hub struct {
	Unregister chan *Subscriber
	rooms      map[string]map[*Subscriber]bool
	upstream   Upstream
	logger     *slog.Logger
	mu         sync.RWMutex
}

func NewHub(logger *slog.Logger, upstream Upstream) *Hub {
	return &Hub{
		Unregister: make(chan *Subscriber),
		rooms:      make(map[string]map[*Subscriber]bool),
		upstream:   upstream,
		logger:     logger,
	}
}

// Run serves unregistrations until ctx is done, then closes every subscriber.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case sub := <-h.Unregister:
			h.mu.Lock()
			if subs, ok := h.rooms[sub.Room]; ok && subs[sub] {
				sub.close()
				delete(subs, sub)
				if len(subs) == 0 {
					delete(h.rooms, sub.Room)
				}
			}
			h.mu.Unlock()

		case <-ctx.Done():
			h.mu.Lock()
			for room, subs := range h.rooms {
				for sub := range subs {
					sub.close()
				}
				delete(h.rooms, room)
			}
			h.mu.Unlock()
			return
		}
	}
}

// Subscribe registers a new subscriber for room. It is visible to
// Publish as soon as Subscribe returns.
func (h *Hub) Subscribe(ctx context.Context, room string) (*Subscriber, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sub := &Subscriber{Room: room, Send: make(chan models.Event, subscriberBuffer)}
	h.add(sub)
	return sub, nil
}

func (h *Hub) add(sub *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.rooms[sub.Room]; !ok {
		h.rooms[sub.Room] = make(map[*Subscriber]bool)
	}
	h.rooms[sub.Room][sub] = true
	h.logger.Debug("subscriber registered", slog.String("room", sub.Room), slog.Int("subscribers", len(h.rooms[sub.Room])))
}

// Publish delivers ev to its tournament room, to AllRooms and upstream.
// Upstream failures are logged; local delivery never blocks.
func (h *Hub) Publish(ctx context.Context, ev models.Event) {
	h.BroadcastToRoom(ev.TournamentID, ev)
	h.BroadcastToRoom(AllRooms, ev)
	if h.upstream == nil {
		return
	}
	if err := h.upstream.Publish(ctx, ev); err != nil {
		h.logger.Error("failed to publish event upstream",
			slog.String("type", string(ev.Type)),
			slog.String("tournament_id", ev.TournamentID),
			slog.Any("error", err))
	}
}

// BroadcastToRoom sends ev to every subscriber of roomID, skipping the
// ones whose buffer is full.
func (h *Hub) BroadcastToRoom(roomID string, ev models.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.rooms[roomID] {
		sub.mu.Lock()
		if sub.isClosed {
			sub.mu.Unlock()
			continue
		}
		select {
		case sub.Send <- ev:
		default:
			h.logger.Warn("subscriber buffer full, event dropped",
				slog.String("room", roomID),
				slog.String("type", string(ev.Type)))
		}
		sub.mu.Unlock()
	}
}

func (s *Subscriber) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isClosed {
		close(s.Send)
		s.isClosed = true
	}
}
