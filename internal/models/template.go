package models

import (
	"strings"
	"time"

	"github.com/pkg/errors"
)

// ElementType discriminates the two element variants of a template.
type ElementType string

const (
	ElementText  ElementType = "text"
	ElementImage ElementType = "image"
)

// Shape controls how an image element is clipped when drawn.
type Shape string

const (
	ShapeRectangle Shape = "rectangle"
	ShapeCircle    Shape = "circle"
)

// TextAlign positions each text line relative to the element's x anchor.
type TextAlign string

const (
	AlignLeft   TextAlign = "left"
	AlignCenter TextAlign = "center"
	AlignRight  TextAlign = "right"
)

const (
	// MinElementSize is the resize floor for image dimensions, in logical units.
	MinElementSize = 20.0

	// MinFontSize and MaxFontSize bound text resizing.
	MinFontSize = 8.0
	MaxFontSize = 120.0

	// DefaultCanvasWidth and DefaultCanvasHeight define the canonical canvas.
	DefaultCanvasWidth  = 400.0
	DefaultCanvasHeight = 600.0
)

// Element is a single positioned primitive on the canvas. Type selects the
// variant; the remaining fields are meaningful per variant. Text elements
// anchor at (X, Y) with Y on the first line's baseline; image elements occupy
// the rectangle (X, Y, Width, Height). Content may carry {token} placeholders.
type Element struct {
	Type       ElementType `json:"type"`
	X          float64     `json:"x"`
	Y          float64     `json:"y"`
	Content    string      `json:"content,omitempty"`
	Src        string      `json:"src,omitempty"`
	Width      float64     `json:"width,omitempty"`
	Height     float64     `json:"height,omitempty"`
	FontSize   float64     `json:"fontSize,omitempty"`
	FontFamily string      `json:"fontFamily,omitempty"`
	Color      string      `json:"color,omitempty"`
	TextAlign  TextAlign   `json:"textAlign,omitempty"`
	FontWeight string      `json:"fontWeight,omitempty"`
	FontStyle  string      `json:"fontStyle,omitempty"`
	Shape      Shape       `json:"shape,omitempty"`
}

// IsText reports whether the element is a text element.
func (e Element) IsText() bool { return e.Type == ElementText }

// IsImage reports whether the element is an image element.
func (e Element) IsImage() bool { return e.Type == ElementImage }

// Dimensions is the fixed canvas size of a template, in logical units.
type Dimensions struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Template is the saved design: a background plus an ordered element list.
// Slice order is z order (index 0 is drawn first) and, reversed, hit-test
// priority. Bounding boxes are always derived from element fields and never
// stored on the document.
type Template struct {
	ID         string     `json:"id"`
	OwnerID    string     `json:"owner_id"`
	Name       string     `json:"name"`
	Background string     `json:"background"`
	Elements   []Element  `json:"elements"`
	Dimensions Dimensions `json:"dimensions"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// ErrValidation marks a template or element that was rejected before any
// mutation took place.
var ErrValidation = errors.New("validation failed")

// Validate checks the template's structural invariants. It never mutates the
// template; callers reject the whole request on the first violation.
func (t Template) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return errors.Wrap(ErrValidation, "template name is required")
	}
	if t.Dimensions.Width <= 0 || t.Dimensions.Height <= 0 {
		return errors.Wrap(ErrValidation, "dimensions must be positive")
	}
	for i, el := range t.Elements {
		if err := el.validate(); err != nil {
			return errors.Wrapf(err, "element %d", i)
		}
	}
	return nil
}

func (e Element) validate() error {
	switch e.Type {
	case ElementText:
		if e.FontSize < MinFontSize || e.FontSize > MaxFontSize {
			return errors.Wrapf(ErrValidation, "font size %.1f out of range", e.FontSize)
		}
		switch e.TextAlign {
		case AlignLeft, AlignCenter, AlignRight, "":
		default:
			return errors.Wrapf(ErrValidation, "unknown text align %q", e.TextAlign)
		}
		if e.FontWeight != "" && e.FontWeight != "normal" && e.FontWeight != "bold" {
			return errors.Wrapf(ErrValidation, "unknown font weight %q", e.FontWeight)
		}
		if e.FontStyle != "" && e.FontStyle != "normal" && e.FontStyle != "italic" {
			return errors.Wrapf(ErrValidation, "unknown font style %q", e.FontStyle)
		}
	case ElementImage:
		if e.Width < MinElementSize || e.Height < MinElementSize {
			return errors.Wrapf(ErrValidation, "image size %.1fx%.1f below floor", e.Width, e.Height)
		}
		switch e.Shape {
		case ShapeRectangle, ShapeCircle:
		default:
			return errors.Wrapf(ErrValidation, "unknown shape %q", e.Shape)
		}
		if e.Shape == ShapeCircle && e.Width != e.Height {
			return errors.Wrap(ErrValidation, "circle must keep width == height")
		}
	default:
		return errors.Wrapf(ErrValidation, "unknown element type %q", e.Type)
	}
	return nil
}
