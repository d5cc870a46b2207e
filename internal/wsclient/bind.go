package wsclient

import (
	"context"
	"encoding/json"

	"github.com/RRGcodex/collaborative-whiteboard/internal/board"
	"github.com/RRGcodex/collaborative-whiteboard/internal/canvas"
	"github.com/RRGcodex/collaborative-whiteboard/internal/core"
	"github.com/RRGcodex/collaborative-whiteboard/internal/proto"
)

// Emitter adapts the connection to the board's outbound interface.
type Emitter struct {
	ctx    context.Context
	client *Client
}

// Emitter returns a board emitter that sends over this connection using ctx.
func (c *Client) Emitter(ctx context.Context) *Emitter {
	return &Emitter{ctx: ctx, client: c}
}

func (e *Emitter) EmitDrawing(op core.DrawingOp) error {
	return e.client.SendDrawing(e.ctx, op)
}

func (e *Emitter) EmitShape(op core.ShapeOp) error {
	return e.client.SendShape(e.ctx, op)
}

func (e *Emitter) EmitClear(roomID string) error {
	return e.client.SendClear(e.ctx, roomID)
}

// BindBoard subscribes the board's appliers to relayed drawing, shape and
// clear events. The returned release function drops all three
// subscriptions; calling it twice is harmless.
func BindBoard(c *Client, b *board.Board) (release func()) {
	drawing := c.On(proto.EventDrawing, func(data json.RawMessage) {
		var d proto.DrawingData
		if err := json.Unmarshal(data, &d); err != nil {
			return
		}
		b.ApplyDrawing(core.DrawingOp{
			Room:    d.RoomID,
			From:    d.From,
			To:      d.To,
			Color:   d.Color,
			PenSize: d.PenSize,
			Eraser:  d.IsEraser,
		})
	})

	shape := c.On(proto.EventShape, func(data json.RawMessage) {
		var d proto.ShapeData
		if err := json.Unmarshal(data, &d); err != nil {
			return
		}
		b.ApplyShape(core.ShapeOp{
			Room:    d.RoomID,
			Start:   d.Start,
			End:     d.End,
			Tool:    canvas.ShapeKind(d.Tool),
			Color:   d.Color,
			PenSize: d.PenSize,
		})
	})

	clear := c.On(proto.EventClear, func(data json.RawMessage) {
		var d proto.RoomData
		if err := json.Unmarshal(data, &d); err != nil {
			return
		}
		b.ApplyClear(d.RoomID)
	})

	return func() {
		drawing.Unsubscribe()
		shape.Unsubscribe()
		clear.Unsubscribe()
	}
}
