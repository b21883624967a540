package geometry

import (
	"math"

	"github.com/convitapp/convite-api/internal/models"
)

// textScaleTravel is the pointer travel, in logical units, that doubles (or
// halves) a text element's font size along one axis.
const textScaleTravel = 100.0

// ResizeText scales a font size multiplicatively from the session-start value.
// dx and dy are cumulative pointer deltas since the resize began. Right-side
// handles grow with positive dx, left-side handles with negative dx; bottom
// handles grow with positive dy, top handles with negative dy. Axis factors
// combine by product and the result is clamped to the permitted font range.
func ResizeText(startSize float64, handle HandleName, dx, dy float64) float64 {
	fx, fy := 1.0, 1.0
	switch handle {
	case HandleE, HandleSE, HandleNE:
		fx = 1 + dx/textScaleTravel
	case HandleW, HandleSW, HandleNW:
		fx = 1 - dx/textScaleTravel
	}
	switch handle {
	case HandleS, HandleSE, HandleSW:
		fy = 1 + dy/textScaleTravel
	case HandleN, HandleNE, HandleNW:
		fy = 1 - dy/textScaleTravel
	}

	size := startSize * fx * fy
	if math.IsNaN(size) || size < models.MinFontSize {
		return models.MinFontSize
	}
	if size > models.MaxFontSize {
		return models.MaxFontSize
	}
	return size
}

// ResizeImage applies the per-handle rectangle rule to an image element.
// start is the geometry captured when the resize began, current the geometry
// after the previous move; dx/dy are cumulative deltas since the session
// start. Handles touching the top or left edge shift x/y so the opposite edge
// stays fixed. An axis whose new dimension would fall below the floor keeps
// its current value (and position) for this step. Circles take the larger of
// the two resulting dimensions on both axes. The result is clamped so the
// element stays fully inside the canvas.
func ResizeImage(start, current Rect, handle HandleName, dx, dy float64, circle bool, canvas Size) Rect {
	out := current

	w, x := current.Width, current.X
	switch handle {
	case HandleE, HandleNE, HandleSE:
		w = start.Width + dx
		x = start.X
	case HandleW, HandleNW, HandleSW:
		w = start.Width - dx
		x = start.X + dx
	}
	// NaN fails this comparison too, leaving the axis untouched.
	if w >= models.MinElementSize {
		out.Width, out.X = w, x
	}

	h, y := current.Height, current.Y
	switch handle {
	case HandleS, HandleSE, HandleSW:
		h = start.Height + dy
		y = start.Y
	case HandleN, HandleNE, HandleNW:
		h = start.Height - dy
		y = start.Y + dy
	}
	if h >= models.MinElementSize {
		out.Height, out.Y = h, y
	}

	if circle {
		side := math.Max(out.Width, out.Height)
		if limit := math.Min(canvas.Width, canvas.Height); side > limit {
			side = limit
		}
		if side < models.MinElementSize {
			side = models.MinElementSize
		}
		out.Width, out.Height = side, side
	}

	return ClampToCanvas(out, canvas)
}

// ClampToCanvas keeps the rectangle within [0,W]x[0,H], each axis
// independently: dimensions cap at the canvas size, then the origin shifts so
// the far edge stays inside.
func ClampToCanvas(r Rect, canvas Size) Rect {
	if r.Width > canvas.Width {
		r.Width = canvas.Width
	}
	if r.Height > canvas.Height {
		r.Height = canvas.Height
	}
	r.X = clamp(r.X, 0, canvas.Width-r.Width)
	r.Y = clamp(r.Y, 0, canvas.Height-r.Height)
	return r
}

// ClampOrigin moves the element's origin so its derived bounding box stays
// inside the canvas. The origin and the box shift together, which makes the
// rule identical for image rectangles and baseline-anchored text.
func ClampOrigin(el models.Element, m TextMetrics, canvas Size) models.Element {
	box := BoundingBox(el, m)
	clamped := ClampToCanvas(box, canvas)
	el.X += clamped.X - box.X
	el.Y += clamped.Y - box.Y
	return el
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
