package canvas

import (
	"image"
	"image/color"
	"math"
)

// ShapeKind identifies a committed geometric primitive.
type ShapeKind string

const (
	ShapeCircle    ShapeKind = "circle"
	ShapeRectangle ShapeKind = "rectangle"
	ShapeArrow     ShapeKind = "arrow"
)

// arrowHeadSize is the length in pixels of the two arrow-head strokes.
const arrowHeadSize = 15

// Canvas is one drawing layer backed by an RGBA pixel buffer. Pixels start
// fully transparent; erasing knocks alpha back out, so export must composite
// a background underneath.
//
// Rasterization uses binary coverage (a pixel is painted iff its center lies
// within half the stroke width of the stroked path). No anti-aliasing, which
// keeps replay deterministic: the same operation sequence always produces
// byte-identical buffers.
type Canvas struct {
	img *image.RGBA
}

// New creates a blank, fully transparent canvas.
func New(width, height int) *Canvas {
	return &Canvas{img: image.NewRGBA(image.Rect(0, 0, width, height))}
}

// Width returns the canvas width in pixels.
func (c *Canvas) Width() int { return c.img.Rect.Dx() }

// Height returns the canvas height in pixels.
func (c *Canvas) Height() int { return c.img.Rect.Dy() }

// Image exposes the backing buffer for inspection and export.
func (c *Canvas) Image() *image.RGBA { return c.img }

// Clear resets every pixel to transparent.
func (c *Canvas) Clear() {
	pix := c.img.Pix
	for i := range pix {
		pix[i] = 0
	}
}

// Line strokes one freehand segment from one point to the next with round
// caps. When eraser is set the stroke is a destination-out composite at
// double the nominal width: covered pixels become transparent again.
func (c *Canvas) Line(from, to Point, col color.RGBA, width float64, eraser bool) {
	if eraser {
		width *= 2
	}
	c.strokeSegment(from, to, col, width, eraser)
}

// Shape strokes one committed shape between its anchor points. Unknown kinds
// are ignored.
func (c *Canvas) Shape(start, end Point, kind ShapeKind, col color.RGBA, width float64) {
	switch kind {
	case ShapeCircle:
		c.strokeCircle(start, Dist(start, end), col, width)
	case ShapeRectangle:
		a := Point{X: end.X, Y: start.Y}
		b := Point{X: start.X, Y: end.Y}
		c.strokeSegment(start, a, col, width, false)
		c.strokeSegment(a, end, col, width, false)
		c.strokeSegment(end, b, col, width, false)
		c.strokeSegment(b, start, col, width, false)
	case ShapeArrow:
		angle := math.Atan2(end.Y-start.Y, end.X-start.X)
		left := Point{
			X: end.X - arrowHeadSize*math.Cos(angle-math.Pi/6),
			Y: end.Y - arrowHeadSize*math.Sin(angle-math.Pi/6),
		}
		right := Point{
			X: end.X - arrowHeadSize*math.Cos(angle+math.Pi/6),
			Y: end.Y - arrowHeadSize*math.Sin(angle+math.Pi/6),
		}
		c.strokeSegment(start, end, col, width, false)
		c.strokeSegment(end, left, col, width, false)
		c.strokeSegment(end, right, col, width, false)
	}
}

func (c *Canvas) strokeSegment(from, to Point, col color.RGBA, width float64, eraser bool) {
	half := width / 2
	if half <= 0 {
		return
	}

	minX := int(math.Floor(math.Min(from.X, to.X) - half))
	maxX := int(math.Ceil(math.Max(from.X, to.X) + half))
	minY := int(math.Floor(math.Min(from.Y, to.Y) - half))
	maxY := int(math.Ceil(math.Max(from.Y, to.Y) + half))

	c.paint(minX, minY, maxX, maxY, col, eraser, func(p Point) bool {
		return distToSegment(p, from, to) <= half
	})
}

func (c *Canvas) strokeCircle(center Point, radius float64, col color.RGBA, width float64) {
	half := width / 2
	if half <= 0 {
		return
	}

	reach := radius + half
	minX := int(math.Floor(center.X - reach))
	maxX := int(math.Ceil(center.X + reach))
	minY := int(math.Floor(center.Y - reach))
	maxY := int(math.Ceil(center.Y + reach))

	c.paint(minX, minY, maxX, maxY, col, false, func(p Point) bool {
		return math.Abs(Dist(p, center)-radius) <= half
	})
}

// paint walks the clipped bounding box and applies the composite to every
// pixel whose center the covered predicate accepts.
func (c *Canvas) paint(minX, minY, maxX, maxY int, col color.RGBA, eraser bool, covered func(Point) bool) {
	bounds := c.img.Rect
	if minX < bounds.Min.X {
		minX = bounds.Min.X
	}
	if minY < bounds.Min.Y {
		minY = bounds.Min.Y
	}
	if maxX > bounds.Max.X {
		maxX = bounds.Max.X
	}
	if maxY > bounds.Max.Y {
		maxY = bounds.Max.Y
	}

	for y := minY; y < maxY; y++ {
		for x := minX; x < maxX; x++ {
			if !covered(Point{X: float64(x) + 0.5, Y: float64(y) + 0.5}) {
				continue
			}
			if eraser {
				c.img.SetRGBA(x, y, color.RGBA{})
			} else {
				c.img.SetRGBA(x, y, col)
			}
		}
	}
}
