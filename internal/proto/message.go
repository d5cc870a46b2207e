package proto

import (
	"encoding/json"

	"github.com/RRGcodex/collaborative-whiteboard/internal/canvas"
)

// Inbound is the envelope for messages coming from the client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

const (
	InboundTypeJoinRoom  = "joinRoom"
	InboundTypeLeaveRoom = "leaveRoom"
	InboundTypeDrawing   = "drawing"
	InboundTypeShape     = "shape"
	InboundTypeClear     = "clear"

	OutboundTypeEvent = "event"
	OutboundTypeError = "error"

	EventUserCount = "userCount"
	EventDrawing   = "drawing"
	EventShape     = "shape"
	EventClear     = "clear"
)

// RoomData names the room for joinRoom, leaveRoom and clear.
type RoomData struct {
	RoomID string `json:"roomId"`
}

// DrawingData is one freehand segment. Geometry and style pass through the
// relay untouched.
type DrawingData struct {
	RoomID   string       `json:"roomId"`
	From     canvas.Point `json:"from"`
	To       canvas.Point `json:"to"`
	Color    string       `json:"color"`
	PenSize  float64      `json:"penSize"`
	IsEraser bool         `json:"isEraser"`
}

// ShapeData is one committed shape; tool is circle, rectangle or arrow.
type ShapeData struct {
	RoomID  string       `json:"roomId"`
	Start   canvas.Point `json:"start"`
	End     canvas.Point `json:"end"`
	Tool    string       `json:"tool"`
	Color   string       `json:"color"`
	PenSize float64      `json:"penSize"`
}

// UserCountData reports room occupancy after a membership change.
type UserCountData struct {
	Count int `json:"count"`
}

// Outbound is the envelope for messages sent to the client.
type Outbound struct {
	Type  string `json:"type"`
	Event string `json:"event,omitempty"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// Error describes a protocol-level error response.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}
