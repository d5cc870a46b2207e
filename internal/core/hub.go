package core

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/RRGcodex/collaborative-whiteboard/internal/metrics"
)

// Hub owns the room membership table and relays drawing events between
// room members. All mutation and broadcast happens on the single Run
// goroutine, so a membership change and the occupancy read that follows it
// are one uninterrupted step.
type Hub struct {
	log *zerolog.Logger

	rooms   map[string]*Room
	clients map[*Client]struct{}

	register   chan *Client
	unregister chan *Client
	commands   chan clientCommand
	occupancy  chan occupancyQuery
	done       chan struct{}
}

type clientCommand struct {
	client *Client
	cmd    *Command
}

type occupancyQuery struct {
	room  string
	reply chan int
}

// NewHub creates a new whiteboard hub instance.
func NewHub(logger *zerolog.Logger) *Hub {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Hub{
		log:        logger,
		rooms:      make(map[string]*Room),
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		commands:   make(chan clientCommand),
		occupancy:  make(chan occupancyQuery),
		done:       make(chan struct{}),
	}
}

// RegisterClient hands a connected client to the hub.
func (h *Hub) RegisterClient(c *Client) {
	select {
	case h.register <- c:
	case <-h.done:
	}
}

// UnregisterClient removes a client from every room it joined and
// broadcasts the resulting occupancy to the remaining members.
func (h *Hub) UnregisterClient(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Occupancy returns the current member count of a room; zero means empty
// or unknown. The query runs on the hub loop, so it never observes a
// half-applied membership change.
func (h *Hub) Occupancy(roomID string) int {
	q := occupancyQuery{room: roomID, reply: make(chan int, 1)}
	select {
	case h.occupancy <- q:
		return <-q.reply
	case <-h.done:
		return 0
	}
}

// Run processes registrations and client commands until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			return
		case c := <-h.register:
			h.addClient(c)
		case c := <-h.unregister:
			h.dropClient(c)
		case cc := <-h.commands:
			h.handle(cc.client, cc.cmd)
		case q := <-h.occupancy:
			if room, ok := h.rooms[q.room]; ok {
				q.reply <- room.Count()
			} else {
				q.reply <- 0
			}
		}
	}
}

func (h *Hub) addClient(c *Client) {
	h.clients[c] = struct{}{}
	metrics.ConnectionsActive.Inc()

	// Pump the client's commands into the single hub loop. Exits when the
	// client is dropped or the hub stops.
	go func() {
		for {
			select {
			case cmd, ok := <-c.Commands:
				if !ok {
					return
				}
				select {
				case h.commands <- clientCommand{client: c, cmd: cmd}:
				case <-c.done:
					return
				case <-h.done:
					return
				}
			case <-c.done:
				return
			case <-h.done:
				return
			}
		}
	}()
}

// dropClient is the implicit leave on disconnect. The client is removed
// from each member set before that room's occupancy is read, so the counts
// broadcast to survivors never include the leaving connection.
func (h *Hub) dropClient(c *Client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	metrics.ConnectionsActive.Dec()

	for name := range c.Rooms {
		room, ok := h.rooms[name]
		if !ok {
			continue
		}
		room.RemoveClient(c)
		h.finishLeave(room)
	}
	c.Rooms = make(map[string]struct{})

	close(c.done)
	close(c.Events)
	h.log.Debug().Str("client_id", c.ID).Msg("client dropped")
}

func (h *Hub) handle(c *Client, cmd *Command) {
	// Commands racing a disconnect are discarded.
	if _, ok := h.clients[c]; !ok {
		return
	}

	switch cmd.Kind {
	case CommandJoinRoom:
		h.joinRoom(c, cmd.Room)
	case CommandLeaveRoom:
		h.leaveRoom(c, cmd.Room)
	case CommandDrawing:
		if cmd.Drawing != nil {
			h.relay(c, cmd.Drawing.Room, &Event{Kind: EventDrawing, Room: cmd.Drawing.Room, Drawing: cmd.Drawing}, "drawing")
		}
	case CommandShape:
		if cmd.Shape != nil {
			h.relay(c, cmd.Shape.Room, &Event{Kind: EventShape, Room: cmd.Shape.Room, Shape: cmd.Shape}, "shape")
		}
	case CommandClear:
		h.relay(c, cmd.Room, &Event{Kind: EventClear, Room: cmd.Room}, "clear")
	}
}

// joinRoom is idempotent; joining a nonexistent room creates it. The new
// occupancy goes to every member, the joiner included.
func (h *Hub) joinRoom(c *Client, name string) {
	if name == "" {
		return
	}

	room, ok := h.rooms[name]
	if !ok {
		room = NewRoom(name)
		h.rooms[name] = room
		metrics.RoomsActive.Inc()
	}

	if room.AddClient(c) {
		c.Rooms[name] = struct{}{}
		h.log.Info().Str("client_id", c.ID).Str("room", name).Msg("joined room")
	}
	h.broadcastCount(room)
}

func (h *Hub) leaveRoom(c *Client, name string) {
	if name == "" {
		return
	}

	room, ok := h.rooms[name]
	if !ok {
		return
	}
	if !room.RemoveClient(c) {
		return
	}
	delete(c.Rooms, name)
	h.log.Info().Str("client_id", c.ID).Str("room", name).Msg("left room")

	h.finishLeave(room)
}

// finishLeave tears down an emptied room or notifies the remaining members.
func (h *Hub) finishLeave(room *Room) {
	if room.Empty() {
		delete(h.rooms, room.Name)
		metrics.RoomsActive.Dec()
		return
	}
	h.broadcastCount(room)
}

func (h *Hub) broadcastCount(room *Room) {
	room.Broadcast(&Event{Kind: EventUserCount, Room: room.Name, Count: room.Count()}, nil)
}

// relay forwards an operation to every current member of the named room
// except the sender. Payloads are not inspected beyond the routing key; a
// missing room drops the operation silently.
func (h *Hub) relay(sender *Client, roomName string, event *Event, kind string) {
	if roomName == "" {
		return
	}
	room, ok := h.rooms[roomName]
	if !ok {
		return
	}
	room.Broadcast(event, sender)
	metrics.EventsRelayed.WithLabelValues(kind).Inc()
}
