// fonts.go - font handling for the compositor. Parses the embedded Go font
// family once and hands out faces per request; parsed fonts are immutable so
// concurrent renders can share a FontLibrary safely.
package render

import (
	"github.com/convitapp/convite-api/internal/models"
	"github.com/pkg/errors"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

const fontDPI = 72

// FontLibrary resolves an element's weight and style flags to a concrete
// face. Any requested fontFamily falls back to the embedded family rather
// than failing, so an unknown family never aborts a render.
type FontLibrary struct {
	regular    *opentype.Font
	bold       *opentype.Font
	italic     *opentype.Font
	boldItalic *opentype.Font
}

// NewFontLibrary parses the embedded font variants.
func NewFontLibrary() (*FontLibrary, error) {
	lib := &FontLibrary{}
	for _, v := range []struct {
		ttf []byte
		dst **opentype.Font
	}{
		{goregular.TTF, &lib.regular},
		{gobold.TTF, &lib.bold},
		{goitalic.TTF, &lib.italic},
		{gobolditalic.TTF, &lib.boldItalic},
	} {
		parsed, err := opentype.Parse(v.ttf)
		if err != nil {
			return nil, errors.Wrap(err, "parse embedded font")
		}
		*v.dst = parsed
	}
	return lib, nil
}

// Face builds a face for the element's weight, style and size. Faces are not
// safe for concurrent use, so each render call creates its own.
func (l *FontLibrary) Face(el models.Element) (font.Face, error) {
	bold := el.FontWeight == "bold"
	italic := el.FontStyle == "italic"

	src := l.regular
	switch {
	case bold && italic:
		src = l.boldItalic
	case bold:
		src = l.bold
	case italic:
		src = l.italic
	}

	size := el.FontSize
	if size <= 0 {
		size = models.MinFontSize
	}

	face, err := opentype.NewFace(src, &opentype.FaceOptions{
		Size:    size,
		DPI:     fontDPI,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create font face")
	}
	return face, nil
}

// LineWidth measures one line as it will be drawn, in logical units. It
// implements geometry.TextMetrics, making this library the single source of
// text extents for both hit-testing and rasterization. Measurement is total:
// a face failure yields a rough per-glyph estimate instead of an error.
func (l *FontLibrary) LineWidth(line string, el models.Element) float64 {
	face, err := l.Face(el)
	if err != nil {
		return float64(len([]rune(line))) * el.FontSize * 0.6
	}
	defer face.Close()
	return float64(font.MeasureString(face, line)) / 64
}
