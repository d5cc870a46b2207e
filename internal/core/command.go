package core

// CommandKind describes what the client wants to do.
type CommandKind int

const (
	// CommandJoinRoom subscribes the client to a room.
	CommandJoinRoom CommandKind = iota
	// CommandLeaveRoom unsubscribes the client from a room.
	CommandLeaveRoom
	// CommandDrawing relays a freehand segment to the room.
	CommandDrawing
	// CommandShape relays a committed shape to the room.
	CommandShape
	// CommandClear relays a canvas wipe to the room.
	CommandClear
)

// Command represents an action requested by a client.
type Command struct {
	Kind    CommandKind
	Room    string // join/leave/clear
	Drawing *DrawingOp
	Shape   *ShapeOp
}
