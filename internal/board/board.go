// Package board implements the client-side whiteboard: the pointer input
// state machine, local tool state, the two canvas layers, and the applier
// that replays remote events.
package board

import (
	"image/color"
	"io"
	"sync"

	"github.com/RRGcodex/collaborative-whiteboard/internal/canvas"
	"github.com/RRGcodex/collaborative-whiteboard/internal/core"
)

// Tool selects how pointer input is interpreted.
type Tool string

const (
	ToolPen       Tool = "pen"
	ToolEraser    Tool = "eraser"
	ToolCircle    Tool = "circle"
	ToolRectangle Tool = "rectangle"
	ToolArrow     Tool = "arrow"
)

func (t Tool) freehand() bool {
	return t == ToolPen || t == ToolEraser
}

// Emitter publishes locally produced operations to the network. A nil
// emitter leaves the board fully local.
type Emitter interface {
	EmitDrawing(op core.DrawingOp) error
	EmitShape(op core.ShapeOp) error
	EmitClear(roomID string) error
}

// Board owns a persistent layer for committed content and a transient
// overlay for in-progress shape previews. The overlay is never transmitted.
type Board struct {
	mu sync.Mutex

	persistent *canvas.Canvas
	overlay    *canvas.Canvas
	emitter    Emitter

	room    string // currently viewed room
	tool    Tool
	color   string
	penSize float64
	eraser  bool

	drawing    bool
	strokeRoom string // room captured at pointer-down
	prevPoint  *canvas.Point
	startPoint *canvas.Point
}

// New creates a blank board with default tool state: pen, black, 3 px
// stroke.
func New(width, height int, emitter Emitter) *Board {
	return &Board{
		persistent: canvas.New(width, height),
		overlay:    canvas.New(width, height),
		emitter:    emitter,
		tool:       ToolPen,
		color:      "#000000",
		penSize:    3,
	}
}

// SetActiveRoom scopes the board to a room. Remote events for any other
// room are discarded by the applier.
func (b *Board) SetActiveRoom(roomID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.room = roomID
}

// ActiveRoom returns the room the board is currently scoped to.
func (b *Board) ActiveRoom() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.room
}

// SetTool selects the active tool. Picking the eraser turns the eraser
// flag on, anything else turns it off.
func (b *Board) SetTool(t Tool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tool = t
	b.eraser = t == ToolEraser
}

// SetColor sets the stroke color for future local input.
func (b *Board) SetColor(hex string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.color = hex
}

// SetPenSize sets the stroke width for future local input.
func (b *Board) SetPenSize(size float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.penSize = size
}

// PointerDown begins a stroke or shape gesture. The active room is bound
// here: switching rooms mid-gesture does not redirect the in-flight
// operations.
func (b *Board) PointerDown(p canvas.Point) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.drawing = true
	b.strokeRoom = b.room
	b.startPoint = &p
	if b.tool.freehand() {
		b.prevPoint = &p
	}
}

// PointerMove extends a freehand stroke by one segment, or redraws the
// shape preview on the overlay. Each move yields exactly one segment; fast
// strokes are not resampled.
func (b *Board) PointerMove(p canvas.Point) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.drawing {
		return
	}

	if b.tool.freehand() {
		if b.prevPoint == nil {
			return
		}
		op := core.DrawingOp{
			Room:    b.strokeRoom,
			From:    *b.prevPoint,
			To:      p,
			Color:   b.color,
			PenSize: b.penSize,
			Eraser:  b.eraser,
		}
		b.renderDrawing(op)
		b.prevPoint = &p
		if b.emitter != nil {
			_ = b.emitter.EmitDrawing(op)
		}
		return
	}

	// Shape preview: local-only, overlay redrawn from scratch every move.
	b.overlay.Clear()
	if b.startPoint != nil {
		b.overlay.Shape(*b.startPoint, p, canvas.ShapeKind(b.tool), parseColor(b.color), b.penSize)
	}
}

// PointerUp ends the gesture. A shape tool commits its final shape to the
// persistent layer and emits it once; a freehand tool just stops stroking.
func (b *Board) PointerUp(p canvas.Point) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.drawing {
		return
	}
	b.drawing = false
	b.prevPoint = nil

	if !b.tool.freehand() && b.startPoint != nil {
		op := core.ShapeOp{
			Room:    b.strokeRoom,
			Start:   *b.startPoint,
			End:     p,
			Tool:    canvas.ShapeKind(b.tool),
			Color:   b.color,
			PenSize: b.penSize,
		}
		b.renderShape(op)
		b.overlay.Clear()
		if b.emitter != nil {
			_ = b.emitter.EmitShape(op)
		}
	}

	b.startPoint = nil
	b.strokeRoom = ""
}

// PointerLeave behaves exactly like PointerUp at the leave point.
func (b *Board) PointerLeave(p canvas.Point) {
	b.PointerUp(p)
}

// Clear wipes both layers immediately and notifies the room.
func (b *Board) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.persistent.Clear()
	b.overlay.Clear()
	if b.room != "" && b.emitter != nil {
		_ = b.emitter.EmitClear(b.room)
	}
}

// Resize reallocates both layers blank. Content is not carried over and
// coordinates captured before the resize are not reconciled.
func (b *Board) Resize(width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.persistent = canvas.New(width, height)
	b.overlay = canvas.New(width, height)
}

// ExportPNG writes the persistent layer with a white background.
func (b *Board) ExportPNG(w io.Writer) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.persistent.ExportPNG(w)
}

// Persistent exposes the committed layer.
func (b *Board) Persistent() *canvas.Canvas {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.persistent
}

// Overlay exposes the preview layer.
func (b *Board) Overlay() *canvas.Canvas {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.overlay
}

// renderDrawing and renderShape are the single rendering path for local
// and remote operations: style always comes from the operation itself.
func (b *Board) renderDrawing(op core.DrawingOp) {
	b.persistent.Line(op.From, op.To, parseColor(op.Color), op.PenSize, op.Eraser)
}

func (b *Board) renderShape(op core.ShapeOp) {
	b.persistent.Shape(op.Start, op.End, op.Tool, parseColor(op.Color), op.PenSize)
}

func parseColor(hex string) color.RGBA {
	col, err := canvas.ParseHexColor(hex)
	if err != nil {
		return color.RGBA{A: 0xff} // black
	}
	return col
}
