package render

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"testing"

	"github.com/pkg/errors"

	"github.com/convitapp/convite-api/internal/fields"
	"github.com/convitapp/convite-api/internal/models"
)

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	fonts, err := NewFontLibrary()
	if err != nil {
		t.Fatalf("load fonts: %v", err)
	}
	return New(fonts, NewResolver(nil))
}

func testTemplate(background string, elements ...models.Element) models.Template {
	return models.Template{
		Name:       "test",
		Background: background,
		Elements:   elements,
		Dimensions: models.Dimensions{Width: 400, Height: 600},
	}
}

// solidPNGDataURL encodes a uniform 10x10 PNG as an inline data URL.
func solidPNGDataURL(t *testing.T, c color.RGBA) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: c}, image.Point{}, draw.Src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode test png: %v", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestSubstitute(t *testing.T) {
	rules := fields.DefaultRules()
	tests := []struct {
		name    string
		content string
		index   int
		custom  map[string]string
		want    string
	}{
		{
			name:    "explicit token substitutes in place",
			content: "Olá {nome}!",
			custom:  map[string]string{"nome": "Maria"},
			want:    "Olá Maria!",
		},
		{
			name:    "unknown token stays literal",
			content: "Olá {nome}, até {hora}",
			custom:  map[string]string{"nome": "Maria"},
			want:    "Olá Maria, até {hora}",
		},
		{
			name:    "keyword value replaces whole content",
			content: "Nome do convidado",
			custom:  map[string]string{"nome": "João"},
			want:    "João",
		},
		{
			name:    "matched keyword without value keeps content",
			content: "Nome do convidado",
			index:   0,
			custom:  map[string]string{"texto_1": "não usa"},
			want:    "Nome do convidado",
		},
		{
			name:    "indexed fallback replaces token-less content",
			content: "texto livre aqui",
			index:   2,
			custom:  map[string]string{"texto_3": "Bem-vindos!"},
			want:    "Bem-vindos!",
		},
		{
			name:    "no match leaves content untouched",
			content: "sem campos",
			custom:  map[string]string{"outro": "x"},
			want:    "sem campos",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := substitute(tc.content, tc.index, tc.custom, rules)
			if got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestRenderSolidBackground(t *testing.T) {
	r := newTestRenderer(t)
	img, err := r.Render(testTemplate("#ff0000"), nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	want := color.RGBA{R: 255, A: 255}
	if got := img.RGBAAt(0, 0); got != want {
		t.Fatalf("expected %v at origin, got %v", want, got)
	}
	if got := img.RGBAAt(399, 599); got != want {
		t.Fatalf("expected %v at far corner, got %v", want, got)
	}
}

func TestRenderDefaultsToWhiteBackground(t *testing.T) {
	r := newTestRenderer(t)
	img, err := r.Render(testTemplate(""), nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	if got := img.RGBAAt(200, 300); got != want {
		t.Fatalf("expected white, got %v", got)
	}
}

func TestRenderEmptyCustomizationsNeverFails(t *testing.T) {
	r := newTestRenderer(t)
	template := testTemplate("#ffffff",
		models.Element{Type: models.ElementText, Content: "Olá {nome}!", X: 100, Y: 100, FontSize: 20},
		models.Element{Type: models.ElementImage, X: 50, Y: 200, Width: 100, Height: 100, Shape: models.ShapeRectangle},
	)

	img, err := r.Render(template, map[string]string{})
	if err != nil {
		t.Fatalf("render with empty customizations: %v", err)
	}
	if img.Bounds().Dx() != 400 || img.Bounds().Dy() != 600 {
		t.Fatalf("unexpected canvas size: %v", img.Bounds())
	}
}

func TestRenderMissingImageDrawsSwatch(t *testing.T) {
	r := newTestRenderer(t)
	template := testTemplate("#ffffff",
		models.Element{Type: models.ElementImage, X: 50, Y: 200, Width: 100, Height: 100, Shape: models.ShapeRectangle},
	)

	img, err := r.Render(template, nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	// Corner of the slot, away from the centered caption.
	if got := img.RGBAAt(52, 202); got != swatchFill {
		t.Fatalf("expected swatch fill %v, got %v", swatchFill, got)
	}
}

func TestRenderInlineImage(t *testing.T) {
	r := newTestRenderer(t)
	blue := color.RGBA{B: 255, A: 255}
	template := testTemplate("#ffffff",
		models.Element{
			Type: models.ElementImage, X: 100, Y: 100, Width: 80, Height: 80,
			Shape: models.ShapeRectangle, Src: solidPNGDataURL(t, blue),
		},
	)

	img, err := r.Render(template, nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got := img.RGBAAt(140, 140); got != blue {
		t.Fatalf("expected %v inside image slot, got %v", blue, got)
	}
}

func TestRenderCustomizationOverridesImageSource(t *testing.T) {
	r := newTestRenderer(t)
	red := color.RGBA{R: 255, A: 255}
	green := color.RGBA{G: 255, A: 255}
	template := testTemplate("#ffffff",
		models.Element{
			Type: models.ElementImage, X: 100, Y: 100, Width: 80, Height: 80,
			Shape: models.ShapeRectangle, Src: solidPNGDataURL(t, red),
		},
	)

	img, err := r.Render(template, map[string]string{"imagem_1": solidPNGDataURL(t, green)})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got := img.RGBAAt(140, 140); got != green {
		t.Fatalf("expected override color %v, got %v", green, got)
	}
}

func TestRenderCircleClipsToInscribedCircle(t *testing.T) {
	r := newTestRenderer(t)
	blue := color.RGBA{B: 255, A: 255}
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	template := testTemplate("#ffffff",
		models.Element{
			Type: models.ElementImage, X: 150, Y: 150, Width: 100, Height: 100,
			Shape: models.ShapeCircle, Src: solidPNGDataURL(t, blue),
		},
	)

	img, err := r.Render(template, nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got := img.RGBAAt(200, 200); got != blue {
		t.Fatalf("expected %v at circle center, got %v", blue, got)
	}
	// Box corners lie outside the inscribed circle and keep the background.
	if got := img.RGBAAt(152, 152); got != white {
		t.Fatalf("expected background at box corner, got %v", got)
	}
}

func TestRenderTextPaintsPixels(t *testing.T) {
	r := newTestRenderer(t)
	template := testTemplate("#ffffff",
		models.Element{
			Type: models.ElementText, Content: "Olá", X: 100, Y: 100,
			FontSize: 40, Color: "#000000",
		},
	)

	img, err := r.Render(template, nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	painted := false
	for y := 60; y < 110 && !painted; y++ {
		for x := 100; x < 200; x++ {
			if img.RGBAAt(x, y) != white {
				painted = true
				break
			}
		}
	}
	if !painted {
		t.Fatal("expected glyph pixels near the text baseline")
	}
}

func TestRenderBadImageSourceFails(t *testing.T) {
	r := newTestRenderer(t)
	template := testTemplate("#ffffff",
		models.Element{
			Type: models.ElementImage, X: 0, Y: 0, Width: 50, Height: 50,
			Shape: models.ShapeRectangle, Src: "data:image/png;base64,%%not-base64%%",
		},
	)

	_, err := r.Render(template, nil)
	if err == nil {
		t.Fatal("expected error for undecodable image source")
	}
	if !errors.Is(err, ErrRender) {
		t.Fatalf("expected render error, got %v", err)
	}
}

func TestRenderBadBackgroundFails(t *testing.T) {
	r := newTestRenderer(t)
	// Not a hex color and no opener configured to fetch it.
	_, err := r.Render(testTemplate("/media/missing.png"), nil)
	if err == nil {
		t.Fatal("expected error for unresolvable background")
	}
	if !errors.Is(err, ErrRender) {
		t.Fatalf("expected render error, got %v", err)
	}
}

func TestRenderRejectsDegenerateCanvas(t *testing.T) {
	r := newTestRenderer(t)
	template := models.Template{Name: "bad", Dimensions: models.Dimensions{Width: 0, Height: 600}}

	if _, err := r.Render(template, nil); !errors.Is(err, ErrRender) {
		t.Fatalf("expected render error, got %v", err)
	}
}

func TestRenderPNGProducesDecodableImage(t *testing.T) {
	r := newTestRenderer(t)
	data, err := r.RenderPNG(testTemplate("#00ff00"), nil)
	if err != nil {
		t.Fatalf("render png: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if img.Bounds().Dx() != 400 || img.Bounds().Dy() != 600 {
		t.Fatalf("unexpected size: %v", img.Bounds())
	}
}
