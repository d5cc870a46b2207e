// Package wsclient is the client-side connection handle: an explicitly
// constructed, owned object with typed emit methods and scoped event
// subscriptions, instead of a shared module-level socket.
package wsclient

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/RRGcodex/collaborative-whiteboard/internal/core"
	"github.com/RRGcodex/collaborative-whiteboard/internal/proto"
)

// Handler consumes the raw data payload of one server event.
type Handler func(data json.RawMessage)

// Client wraps one websocket connection to the whiteboard server.
type Client struct {
	conn *websocket.Conn

	mu     sync.Mutex
	nextID int
	subs   map[string]map[int]Handler
	closed bool
}

// Dial connects to the server's /ws endpoint.
func Dial(ctx context.Context, url string) (*Client, error) {
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	return &Client{
		conn: conn,
		subs: make(map[string]map[int]Handler),
	}, nil
}

// Subscription is a scoped registration released by Unsubscribe.
type Subscription struct {
	client *Client
	event  string
	id     int
	once   sync.Once
}

// Unsubscribe removes the handler. Safe to call more than once.
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		s.client.mu.Lock()
		defer s.client.mu.Unlock()
		if handlers, ok := s.client.subs[s.event]; ok {
			delete(handlers, s.id)
			if len(handlers) == 0 {
				delete(s.client.subs, s.event)
			}
		}
	})
}

// On registers a handler for a server event (userCount, drawing, shape,
// clear) and returns its subscription handle.
func (c *Client) On(event string, h Handler) *Subscription {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++
	id := c.nextID
	if c.subs[event] == nil {
		c.subs[event] = make(map[int]Handler)
	}
	c.subs[event][id] = h

	return &Subscription{client: c, event: event, id: id}
}

// Listen reads server envelopes and dispatches them to subscribers until
// the connection closes or ctx is cancelled.
func (c *Client) Listen(ctx context.Context) error {
	for {
		var env struct {
			Type  string          `json:"type"`
			Event string          `json:"event"`
			Data  json.RawMessage `json:"data"`
			Error *proto.Error    `json:"error"`
		}
		if err := wsjson.Read(ctx, c.conn, &env); err != nil {
			return err
		}

		key := env.Event
		data := env.Data
		if env.Type == proto.OutboundTypeError {
			key = proto.OutboundTypeError
			data, _ = json.Marshal(env.Error)
		}

		c.mu.Lock()
		handlers := make([]Handler, 0, len(c.subs[key]))
		for _, h := range c.subs[key] {
			handlers = append(handlers, h)
		}
		c.mu.Unlock()

		for _, h := range handlers {
			h(data)
		}
	}
}

// Close releases every subscription and closes the connection.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.subs = make(map[string]map[int]Handler)
	c.mu.Unlock()

	return c.conn.Close(websocket.StatusNormalClosure, "closing")
}

func (c *Client) send(ctx context.Context, msgType string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", msgType, err)
	}
	if err := wsjson.Write(ctx, c.conn, proto.Inbound{Type: msgType, Data: payload}); err != nil {
		return fmt.Errorf("send %s: %w", msgType, err)
	}
	return nil
}

// JoinRoom subscribes this connection to a room.
func (c *Client) JoinRoom(ctx context.Context, roomID string) error {
	return c.send(ctx, proto.InboundTypeJoinRoom, proto.RoomData{RoomID: roomID})
}

// LeaveRoom unsubscribes this connection from a room.
func (c *Client) LeaveRoom(ctx context.Context, roomID string) error {
	return c.send(ctx, proto.InboundTypeLeaveRoom, proto.RoomData{RoomID: roomID})
}

// SendDrawing emits one freehand segment.
func (c *Client) SendDrawing(ctx context.Context, op core.DrawingOp) error {
	return c.send(ctx, proto.InboundTypeDrawing, proto.DrawingData{
		RoomID:   op.Room,
		From:     op.From,
		To:       op.To,
		Color:    op.Color,
		PenSize:  op.PenSize,
		IsEraser: op.Eraser,
	})
}

// SendShape emits one committed shape.
func (c *Client) SendShape(ctx context.Context, op core.ShapeOp) error {
	return c.send(ctx, proto.InboundTypeShape, proto.ShapeData{
		RoomID:  op.Room,
		Start:   op.Start,
		End:     op.End,
		Tool:    string(op.Tool),
		Color:   op.Color,
		PenSize: op.PenSize,
	})
}

// SendClear emits a canvas wipe for a room.
func (c *Client) SendClear(ctx context.Context, roomID string) error {
	return c.send(ctx, proto.InboundTypeClear, proto.RoomData{RoomID: roomID})
}
