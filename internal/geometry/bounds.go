package geometry

import (
	"math"
	"strings"

	"github.com/convitapp/convite-api/internal/models"
)

const (
	// minTextWidth is the narrowest measured width a text box accounts for,
	// so empty or tiny strings stay selectable.
	minTextWidth = 50.0

	// textPadding is added to the measured text extent on each axis.
	textPadding = 5.0
)

// BoundingBox computes the element's derived box. Image elements occupy their
// stated rectangle exactly. Text boxes wrap the rendered glyphs: the widest
// line (floored at minTextWidth) plus padding, one fontSize per line, with the
// origin shifted so the baseline-anchored glyphs sit inside the box.
func BoundingBox(el models.Element, m TextMetrics) Rect {
	if el.IsImage() {
		return Rect{X: el.X, Y: el.Y, Width: el.Width, Height: el.Height}
	}

	lines := strings.Split(el.Content, "\n")
	widest := 0.0
	for _, line := range lines {
		if w := m.LineWidth(line, el); w > widest {
			widest = w
		}
	}
	widest = math.Max(widest, minTextWidth)

	return Rect{
		X:      el.X - textPadding,
		Y:      el.Y - el.FontSize - textPadding,
		Width:  widest + 2*textPadding,
		Height: float64(len(lines))*el.FontSize + 2*textPadding,
	}
}

// HitTest reports whether the point selects the element. Circle images test
// Euclidean distance against the inscribed circle; everything else is plain
// box containment.
func HitTest(p Point, el models.Element, m TextMetrics) bool {
	box := BoundingBox(el, m)
	if el.IsImage() && el.Shape == models.ShapeCircle {
		c := box.Center()
		radius := math.Min(box.Width, box.Height) / 2
		return math.Hypot(p.X-c.X, p.Y-c.Y) <= radius
	}
	return box.Contains(p)
}

// TopmostHit scans elements topmost-first (highest index wins) and returns
// the index of the first element containing the point.
func TopmostHit(p Point, elements []models.Element, m TextMetrics) (int, bool) {
	for i := len(elements) - 1; i >= 0; i-- {
		if HitTest(p, elements[i], m) {
			return i, true
		}
	}
	return -1, false
}
