package render

import (
	"image/color"
	"strconv"
	"strings"
)

// parseHexColor converts "#rrggbb" or "#rrggbbaa" to an RGBA value.
// Malformed input falls back to opaque black, matching how the editor
// tolerates bad color fields instead of refusing to draw.
func parseHexColor(hex string) color.RGBA {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 && len(hex) != 8 {
		return color.RGBA{A: 255}
	}

	parse := func(s string) uint8 {
		v, _ := strconv.ParseUint(s, 16, 8)
		return uint8(v)
	}

	c := color.RGBA{
		R: parse(hex[0:2]),
		G: parse(hex[2:4]),
		B: parse(hex[4:6]),
		A: 255,
	}
	if len(hex) == 8 {
		c.A = parse(hex[6:8])
	}
	return c
}

// isHexColor reports whether the string looks like a hex color literal, which
// is how a template distinguishes a solid background from an image reference.
func isHexColor(s string) bool {
	return strings.HasPrefix(s, "#")
}
