package render

import (
	"image/color"
	"testing"
)

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.RGBA
	}{
		{"#ff0000", color.RGBA{R: 255, A: 255}},
		{"#00ff00", color.RGBA{G: 255, A: 255}},
		{"#1a2b3c", color.RGBA{R: 0x1a, G: 0x2b, B: 0x3c, A: 255}},
		{"#ffffff80", color.RGBA{R: 255, G: 255, B: 255, A: 0x80}},
		{"#fff", color.RGBA{A: 255}},
		{"garbage", color.RGBA{A: 255}},
		{"", color.RGBA{A: 255}},
	}
	for _, tc := range tests {
		if got := parseHexColor(tc.in); got != tc.want {
			t.Fatalf("parseHexColor(%q): expected %v, got %v", tc.in, tc.want, got)
		}
	}
}

func TestIsHexColor(t *testing.T) {
	if !isHexColor("#ffffff") {
		t.Fatal("expected hex literal to be recognized")
	}
	if isHexColor("/media/bg.png") || isHexColor("data:image/png;base64,xx") {
		t.Fatal("expected image references to be rejected")
	}
}
