package core

import "github.com/RRGcodex/collaborative-whiteboard/internal/canvas"

// DrawingOp is one incremental freehand segment of a stroke. Ephemeral:
// relayed and rendered, never stored.
type DrawingOp struct {
	Room    string
	From    canvas.Point
	To      canvas.Point
	Color   string
	PenSize float64
	Eraser  bool
}

// ShapeOp is one completed geometric shape, emitted once on pointer release.
type ShapeOp struct {
	Room    string
	Start   canvas.Point
	End     canvas.Point
	Tool    canvas.ShapeKind
	Color   string
	PenSize float64
}
