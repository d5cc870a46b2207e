package board

import "github.com/RRGcodex/collaborative-whiteboard/internal/core"

// Remote event application. Every participant's persistent layer converges
// to the same pixels for the same received sequence, so these methods use
// only the operation's own style, never the board's local tool state. The
// relay already scopes delivery by room; the room check here discards any
// event that slips through for a room the board is not viewing.

// ApplyDrawing renders a relayed freehand segment on the persistent layer.
func (b *Board) ApplyDrawing(op core.DrawingOp) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if op.Room != b.room {
		return
	}
	b.renderDrawing(op)
}

// ApplyShape renders a relayed committed shape on the persistent layer.
// Remote previews are never transmitted, so the overlay is untouched.
func (b *Board) ApplyShape(op core.ShapeOp) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if op.Room != b.room {
		return
	}
	b.renderShape(op)
}

// ApplyClear wipes both layers when the clear targets the active room.
func (b *Board) ApplyClear(roomID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if roomID != b.room {
		return
	}
	b.persistent.Clear()
	b.overlay.Clear()
}
