package core

// EventKind is a notification the core emits to clients.
type EventKind int

const (
	// EventUserCount notifies room members about the current occupancy.
	EventUserCount EventKind = iota
	// EventDrawing delivers a relayed freehand segment.
	EventDrawing
	// EventShape delivers a relayed committed shape.
	EventShape
	// EventClear instructs room members to wipe their canvas.
	EventClear
)

// Event is sent to clients to describe what happened in the system.
type Event struct {
	Kind    EventKind
	Room    string
	Count   int // for EventUserCount
	Drawing *DrawingOp
	Shape   *ShapeOp
}
