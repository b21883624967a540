// Package geometry implements the shared geometry kernel: bounding boxes,
// hit tests, resize handles and resize math. The editor session and the
// compositor both go through these functions so that on-screen selection and
// final rendering never disagree about where an element sits.
//
// All functions are pure and total: for any well-formed element they return a
// valid result, defending against NaN and degenerate sizes by clamping rather
// than failing.
package geometry

import "github.com/convitapp/convite-api/internal/models"

// Point is a position on the canvas, in logical units.
type Point struct {
	X float64
	Y float64
}

// Size is a width/height pair, in logical units.
type Size struct {
	Width  float64
	Height float64
}

// Rect is an axis-aligned rectangle with its origin at the top-left corner.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Contains reports whether p lies inside the rectangle (edges inclusive).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.Width &&
		p.Y >= r.Y && p.Y <= r.Y+r.Height
}

// Center returns the rectangle's midpoint.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// TextMetrics measures a single line of text as it will be rendered for the
// given element's font settings. The compositor's font engine provides the
// canonical implementation; injecting it here keeps the kernel free of font
// I/O while guaranteeing editor and renderer measure identically.
type TextMetrics interface {
	LineWidth(line string, el models.Element) float64
}
