// renderer.go - the compositor: turns a template plus a customization map
// into the final raster image, drawing elements bottom to top with the same
// geometry and text metrics the editor used. Rendering is deterministic and
// reentrant; no state is shared between calls.
package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"strings"

	"github.com/pkg/errors"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/convitapp/convite-api/internal/fields"
	"github.com/convitapp/convite-api/internal/models"
)

// ErrRender marks a generation that was aborted because an image reference
// could not be decoded. No partial artifact is ever produced.
var ErrRender = errors.New("render failed")

var (
	swatchFill    = color.RGBA{R: 0xE5, G: 0xE7, B: 0xEB, A: 0xFF}
	swatchCaption = color.RGBA{R: 0x6B, G: 0x72, B: 0x80, A: 0xFF}
)

const swatchCaptionText = "Imagem"

// Renderer composites templates into raster images.
type Renderer struct {
	fonts    *FontLibrary
	resolver *Resolver
	rules    []fields.Rule
}

// New builds a renderer using the default keyword rule table.
func New(fonts *FontLibrary, resolver *Resolver) *Renderer {
	return &Renderer{fonts: fonts, resolver: resolver, rules: fields.DefaultRules()}
}

// Fonts exposes the renderer's font library, which doubles as the canonical
// geometry.TextMetrics implementation.
func (r *Renderer) Fonts() *FontLibrary { return r.fonts }

// Render rasterizes the template with the given customizations. Missing
// customization values are harmless: placeholder tokens stay literal and
// image slots without a source render as the editor's placeholder swatch.
func (r *Renderer) Render(t models.Template, custom map[string]string) (*image.RGBA, error) {
	w := int(math.Round(t.Dimensions.Width))
	h := int(math.Round(t.Dimensions.Height))
	if w <= 0 || h <= 0 {
		return nil, errors.Wrapf(ErrRender, "invalid canvas %dx%d", w, h)
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	if err := r.drawBackground(img, t.Background); err != nil {
		return nil, err
	}

	// Slice order is z order: index 0 is the bottom layer.
	for i, el := range t.Elements {
		var err error
		switch el.Type {
		case models.ElementText:
			err = r.drawText(img, el, i, custom)
		case models.ElementImage:
			err = r.drawImage(img, el, i, custom)
		}
		if err != nil {
			return nil, err
		}
	}
	return img, nil
}

// RenderPNG renders and PNG-encodes in one step.
func (r *Renderer) RenderPNG(t models.Template, custom map[string]string) ([]byte, error) {
	img, err := r.Render(t, custom)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, errors.Wrapf(ErrRender, "encode png: %v", err)
	}
	return buf.Bytes(), nil
}

// drawBackground fills with a solid color for "#hex" values, otherwise
// decodes the referenced image and stretches it to the full canvas with no
// aspect preservation, matching the editor.
func (r *Renderer) drawBackground(img *image.RGBA, background string) error {
	if background == "" || isHexColor(background) {
		fill := color.RGBA{R: 255, G: 255, B: 255, A: 255}
		if background != "" {
			fill = parseHexColor(background)
		}
		draw.Draw(img, img.Bounds(), &image.Uniform{C: fill}, image.Point{}, draw.Src)
		return nil
	}

	bg, err := r.resolver.Resolve(background)
	if err != nil {
		return errors.Wrapf(ErrRender, "background: %v", err)
	}
	xdraw.ApproxBiLinear.Scale(img, img.Bounds(), bg, bg.Bounds(), xdraw.Src, nil)
	return nil
}

func (r *Renderer) drawText(dst *image.RGBA, el models.Element, index int, custom map[string]string) error {
	content := substitute(el.Content, index, custom, r.rules)

	face, err := r.fonts.Face(el)
	if err != nil {
		return errors.Wrapf(ErrRender, "element %d: %v", index, err)
	}
	defer face.Close()

	col := color.RGBA{A: 255}
	if el.Color != "" {
		col = parseHexColor(el.Color)
	}

	for i, line := range strings.Split(content, "\n") {
		lineWidth := float64(font.MeasureString(face, line)) / 64
		x := el.X
		switch el.TextAlign {
		case models.AlignCenter:
			x -= lineWidth / 2
		case models.AlignRight:
			x -= lineWidth
		}
		y := el.Y + float64(i)*el.FontSize

		drawer := &font.Drawer{
			Dst:  dst,
			Src:  image.NewUniform(col),
			Face: face,
			Dot: fixed.Point26_6{
				X: fixed.Int26_6(math.Round(x * 64)),
				Y: fixed.Int26_6(math.Round(y * 64)),
			},
		}
		drawer.DrawString(line)
	}
	return nil
}

func (r *Renderer) drawImage(dst *image.RGBA, el models.Element, index int, custom map[string]string) error {
	rect := image.Rect(
		round(el.X), round(el.Y),
		round(el.X+el.Width), round(el.Y+el.Height),
	)

	src := el.Src
	if v, ok := custom[fmt.Sprintf("imagem_%d", index+1)]; ok && v != "" {
		src = v
	}
	if src == "" {
		return r.drawSwatch(dst, el, rect)
	}

	img, err := r.resolver.Resolve(src)
	if err != nil {
		return errors.Wrapf(ErrRender, "element %d: %v", index, err)
	}

	scaled := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	xdraw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), img, img.Bounds(), xdraw.Src, nil)

	if el.Shape == models.ShapeCircle {
		draw.DrawMask(dst, rect, scaled, image.Point{}, newCircleMask(rect), rect.Min, draw.Over)
		return nil
	}
	draw.Draw(dst, rect, scaled, image.Point{}, draw.Over)
	return nil
}

// drawSwatch paints the editor's empty-slot placeholder: a light fill in the
// element's shape with a small centered caption. Generation never fails just
// because an optional image was omitted.
func (r *Renderer) drawSwatch(dst *image.RGBA, el models.Element, rect image.Rectangle) error {
	fill := &image.Uniform{C: swatchFill}
	if el.Shape == models.ShapeCircle {
		draw.DrawMask(dst, rect, fill, image.Point{}, newCircleMask(rect), rect.Min, draw.Over)
	} else {
		draw.Draw(dst, rect, fill, image.Point{}, draw.Over)
	}

	caption := models.Element{Type: models.ElementText, FontSize: 14}
	face, err := r.fonts.Face(caption)
	if err != nil {
		return errors.Wrapf(ErrRender, "swatch caption: %v", err)
	}
	defer face.Close()

	captionWidth := float64(font.MeasureString(face, swatchCaptionText)) / 64
	cx := el.X + el.Width/2 - captionWidth/2
	cy := el.Y + el.Height/2 + caption.FontSize/2

	drawer := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(swatchCaption),
		Face: face,
		Dot:  fixed.P(round(cx), round(cy)),
	}
	drawer.DrawString(swatchCaptionText)
	return nil
}

// substitute applies the customization map to a text element's content.
// Explicit {token}s substitute in place, unknown tokens staying literal.
// Token-less content falls back to keyword inference and then to the
// texto_{index+1} field, either of which replaces the whole content.
func substitute(content string, index int, custom map[string]string, rules []fields.Rule) string {
	tokens := fields.Tokens(content)
	if len(tokens) > 0 {
		for _, tok := range tokens {
			if v, ok := custom[tok]; ok {
				content = strings.ReplaceAll(content, "{"+tok+"}", v)
			}
		}
		return content
	}

	matched := false
	lower := strings.ToLower(content)
	for _, rule := range rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, kw) {
				matched = true
				if v, ok := custom[rule.Field]; ok && v != "" {
					return v
				}
				break
			}
		}
	}
	if matched {
		return content
	}

	if v, ok := custom[fmt.Sprintf("texto_%d", index+1)]; ok && v != "" {
		return v
	}
	return content
}

// circleMask is an alpha mask covering the inscribed circle of a rectangle.
type circleMask struct {
	rect   image.Rectangle
	cx, cy float64
	radius float64
}

func newCircleMask(rect image.Rectangle) *circleMask {
	w := float64(rect.Dx())
	h := float64(rect.Dy())
	return &circleMask{
		rect:   rect,
		cx:     float64(rect.Min.X) + w/2,
		cy:     float64(rect.Min.Y) + h/2,
		radius: math.Min(w, h) / 2,
	}
}

func (m *circleMask) ColorModel() color.Model { return color.AlphaModel }

func (m *circleMask) Bounds() image.Rectangle { return m.rect }

func (m *circleMask) At(x, y int) color.Color {
	// Sample at pixel centers.
	if math.Hypot(float64(x)+0.5-m.cx, float64(y)+0.5-m.cy) <= m.radius {
		return color.Alpha{A: 255}
	}
	return color.Alpha{}
}

func round(v float64) int { return int(math.Round(v)) }
