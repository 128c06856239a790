package render

import (
	"image/color"
	"testing"

	"charsheet/pkg/css"
)

func mustColor(t *testing.T, s string) css.Color {
	t.Helper()
	c, ok := css.ParseColor(s)
	if !ok {
		t.Fatalf("bad color %q", s)
	}
	return c
}

func isBlue(c color.Color) bool {
	r, g, b, _ := c.RGBA()
	return r>>8 < 20 && g>>8 < 20 && b>>8 > 230
}
