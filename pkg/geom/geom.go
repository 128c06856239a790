// Package geom converts between pixel-valued style strings and integer
// field geometry.
package geom

import (
	"math"
	"strconv"

	"charsheet/pkg/css"
)

// MinSize is the smallest width or height a field may be given.
const MinSize = 10

// Geometry is a field's box in sheet pixels.
type Geometry struct {
	Left   int `json:"left" yaml:"left"`
	Top    int `json:"top" yaml:"top"`
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// Clamp returns g with width and height raised to MinSize.
func (g Geometry) Clamp() Geometry {
	if g.Width < MinSize {
		g.Width = MinSize
	}
	if g.Height < MinSize {
		g.Height = MinSize
	}
	return g
}

// Field names the four geometry fields as they appear in controls and
// custom properties.
type Field string

const (
	FieldLeft   Field = "left"
	FieldTop    Field = "top"
	FieldWidth  Field = "width"
	FieldHeight Field = "height"
)

// Fields lists every field in canonical order.
var Fields = []Field{FieldLeft, FieldTop, FieldWidth, FieldHeight}

// Get returns the value of one field.
func (g Geometry) Get(f Field) int {
	switch f {
	case FieldLeft:
		return g.Left
	case FieldTop:
		return g.Top
	case FieldWidth:
		return g.Width
	case FieldHeight:
		return g.Height
	}
	return 0
}

// With returns g with one field replaced. Sizes are clamped to MinSize.
func (g Geometry) With(f Field, v int) Geometry {
	switch f {
	case FieldLeft:
		g.Left = v
	case FieldTop:
		g.Top = v
	case FieldWidth:
		g.Width = v
	case FieldHeight:
		g.Height = v
	}
	return g.Clamp()
}

// ParsePixel parses a CSS pixel value. It reports false for "auto", empty
// strings and anything that is not a finite number.
func ParsePixel(v string) (float64, bool) {
	n, ok := css.ParseLength(v)
	if !ok || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

// Format renders n as "<n>px".
func Format(n int) string {
	return strconv.Itoa(n) + "px"
}

// FormatFloat renders a fractional offset with at most two decimals.
func FormatFloat(f float64) string {
	return strconv.FormatFloat(math.Round(f*100)/100, 'f', -1, 64) + "px"
}

// Round converts a measured box to integer geometry.
func Round(left, top, width, height float64) Geometry {
	return Geometry{
		Left:   int(math.Round(left)),
		Top:    int(math.Round(top)),
		Width:  int(math.Round(width)),
		Height: int(math.Round(height)),
	}
}
