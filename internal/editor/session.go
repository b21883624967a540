// Package editor tracks one interactive editing session over an in-memory
// template: selection, drag and resize, driven by pointer events. The session
// owns its document exclusively until saved, so everything here is
// single-threaded and synchronous; every event is handled to completion.
package editor

import (
	"github.com/convitapp/convite-api/internal/geometry"
	"github.com/convitapp/convite-api/internal/models"
)

// Mode is the session's interaction state.
type Mode int

const (
	Idle Mode = iota
	Dragging
	Resizing
)

// Session converts pointer events into document mutations through the
// geometry kernel. Geometry errors never surface: resize and drag math clamp
// instead of failing.
type Session struct {
	doc     *models.Template
	metrics geometry.TextMetrics

	mode     Mode
	selected int
	handle   geometry.HandleName

	// anchor holds the pointer-down position while resizing, or the
	// pointer-to-origin offset while dragging.
	anchor geometry.Point

	// Snapshot of the element at resize start; resize deltas are cumulative
	// from here, not incremental per frame.
	startRect geometry.Rect
	startFont float64
}

// NewSession starts an idle session over the document with nothing selected.
func NewSession(doc *models.Template, metrics geometry.TextMetrics) *Session {
	return &Session{doc: doc, metrics: metrics, selected: -1}
}

// Mode returns the current interaction state.
func (s *Session) Mode() Mode { return s.mode }

// Selected returns the selected element index, if any.
func (s *Session) Selected() (int, bool) {
	if s.selected < 0 {
		return 0, false
	}
	return s.selected, true
}

// ActiveHandle returns the handle driving the current resize, if any.
func (s *Session) ActiveHandle() (geometry.HandleName, bool) {
	if s.mode != Resizing {
		return "", false
	}
	return s.handle, true
}

// PointerDown begins a drag or resize. A resize handle of the selected
// element takes precedence over selecting or dragging anything underneath;
// otherwise the topmost element under the pointer is selected and dragged.
// Pointer-down on empty canvas deselects.
func (s *Session) PointerDown(p geometry.Point) {
	if s.selected >= 0 && s.selected < len(s.doc.Elements) {
		el := s.doc.Elements[s.selected]
		if h, ok := geometry.HandleAt(p, el, s.metrics); ok {
			s.mode = Resizing
			s.handle = h
			s.anchor = p
			s.startRect = geometry.Rect{X: el.X, Y: el.Y, Width: el.Width, Height: el.Height}
			s.startFont = el.FontSize
			return
		}
	}

	if idx, ok := geometry.TopmostHit(p, s.doc.Elements, s.metrics); ok {
		el := s.doc.Elements[idx]
		s.selected = idx
		s.mode = Dragging
		// Offset anchor keeps the element from jumping under the cursor.
		s.anchor = geometry.Point{X: p.X - el.X, Y: p.Y - el.Y}
		return
	}

	s.selected = -1
	s.mode = Idle
}

// PointerMove advances the active drag or resize. Idle moves are ignored.
func (s *Session) PointerMove(p geometry.Point) {
	switch s.mode {
	case Dragging:
		s.drag(p)
	case Resizing:
		s.resize(p)
	}
}

// PointerUp ends the active session. Selection is retained.
func (s *Session) PointerUp() {
	s.mode = Idle
	s.handle = ""
}

// PointerLeave is treated exactly like PointerUp.
func (s *Session) PointerLeave() { s.PointerUp() }

func (s *Session) drag(p geometry.Point) {
	el := s.doc.Elements[s.selected]
	el.X = p.X - s.anchor.X
	el.Y = p.Y - s.anchor.Y
	s.doc.Elements[s.selected] = geometry.ClampOrigin(el, s.metrics, s.canvas())
}

func (s *Session) resize(p geometry.Point) {
	el := s.doc.Elements[s.selected]
	dx := p.X - s.anchor.X
	dy := p.Y - s.anchor.Y

	if el.IsText() {
		el.FontSize = geometry.ResizeText(s.startFont, s.handle, dx, dy)
		s.doc.Elements[s.selected] = geometry.ClampOrigin(el, s.metrics, s.canvas())
		return
	}

	current := geometry.Rect{X: el.X, Y: el.Y, Width: el.Width, Height: el.Height}
	r := geometry.ResizeImage(s.startRect, current, s.handle, dx, dy,
		el.Shape == models.ShapeCircle, s.canvas())
	el.X, el.Y, el.Width, el.Height = r.X, r.Y, r.Width, r.Height
	s.doc.Elements[s.selected] = el
}

func (s *Session) canvas() geometry.Size {
	return geometry.Size{
		Width:  s.doc.Dimensions.Width,
		Height: s.doc.Dimensions.Height,
	}
}
