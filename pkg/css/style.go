package css

import (
	"fmt"
	"strconv"
	"strings"
)

// Style is a computed style: every property that applies to a node after the
// cascade, with var() references already substituted.
type Style struct {
	Properties map[string]string
}

func NewStyle() *Style {
	return &Style{Properties: make(map[string]string)}
}

func (s *Style) Get(property string) (string, bool) {
	val, ok := s.Properties[property]
	return val, ok
}

func (s *Style) Set(property, value string) {
	s.Properties[property] = value
}

func (s *Style) GetLength(property string) (float64, bool) {
	val, ok := s.Get(property)
	if !ok {
		return 0, false
	}
	return ParseLength(val)
}

// ParseLength parses a pixel length ("100px" or "100").
func ParseLength(val string) (float64, bool) {
	val = strings.TrimSpace(val)
	val = strings.TrimSuffix(val, "px")
	num, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
	if err != nil {
		return 0, false
	}
	return num, true
}

type PositionType string

const (
	PositionStatic   PositionType = "static"
	PositionRelative PositionType = "relative"
	PositionAbsolute PositionType = "absolute"
	PositionFixed    PositionType = "fixed"
)

// GetPosition returns the position type (default: static)
func (s *Style) GetPosition() PositionType {
	if pos, ok := s.Get("position"); ok {
		switch pos {
		case "relative":
			return PositionRelative
		case "absolute":
			return PositionAbsolute
		case "fixed":
			return PositionFixed
		}
	}
	return PositionStatic
}

type DisplayType string

const (
	DisplayBlock  DisplayType = "block"
	DisplayFlex   DisplayType = "flex"
	DisplayInline DisplayType = "inline"
	DisplayNone   DisplayType = "none"
)

func (s *Style) GetDisplay() DisplayType {
	if d, ok := s.Get("display"); ok {
		switch d {
		case "flex", "inline-flex":
			return DisplayFlex
		case "inline", "inline-block":
			return DisplayInline
		case "none":
			return DisplayNone
		}
	}
	return DisplayBlock
}

// BoxEdge represents the four sides of a box.
type BoxEdge struct {
	Top, Right, Bottom, Left float64
}

func (s *Style) edge(prefix, suffix string) BoxEdge {
	get := func(side string) float64 {
		v, _ := s.GetLength(prefix + side + suffix)
		return v
	}
	return BoxEdge{Top: get("top"), Right: get("right"), Bottom: get("bottom"), Left: get("left")}
}

func (s *Style) GetPadding() BoxEdge     { return s.edge("padding-", "") }
func (s *Style) GetBorderWidth() BoxEdge { return s.edge("border-", "-width") }

// Color is an RGBA color with alpha in [0,1].
type Color struct {
	R, G, B uint8
	A       float64
}

var namedColors = map[string]Color{
	"black":       {0, 0, 0, 1},
	"white":       {255, 255, 255, 1},
	"red":         {255, 0, 0, 1},
	"green":       {0, 128, 0, 1},
	"blue":        {0, 0, 255, 1},
	"gray":        {128, 128, 128, 1},
	"grey":        {128, 128, 128, 1},
	"silver":      {192, 192, 192, 1},
	"orange":      {255, 165, 0, 1},
	"maroon":      {128, 0, 0, 1},
	"navy":        {0, 0, 128, 1},
	"teal":        {0, 128, 128, 1},
	"wheat":       {245, 222, 179, 1},
	"beige":       {245, 245, 220, 1},
	"ivory":       {255, 255, 240, 1},
	"tan":         {210, 180, 140, 1},
	"sienna":      {160, 82, 45, 1},
	"purple":      {128, 0, 128, 1},
	"yellow":      {255, 255, 0, 1},
	"transparent": {0, 0, 0, 0},
}

// ParseColor understands named colors, #rgb, #rrggbb and rgb()/rgba().
func ParseColor(s string) (Color, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := namedColors[s]; ok {
		return c, true
	}
	if strings.HasPrefix(s, "#") {
		hex := s[1:]
		if len(hex) == 3 {
			hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
		}
		if len(hex) != 6 {
			return Color{}, false
		}
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return Color{}, false
		}
		return Color{uint8(v >> 16), uint8(v >> 8), uint8(v), 1}, true
	}
	var r, g, b int
	a := 1.0
	if strings.HasPrefix(s, "rgba(") {
		if _, err := fmt.Sscanf(strings.ReplaceAll(s, " ", ""), "rgba(%d,%d,%d,%g)", &r, &g, &b, &a); err != nil {
			return Color{}, false
		}
		return Color{uint8(r), uint8(g), uint8(b), a}, true
	}
	if strings.HasPrefix(s, "rgb(") {
		if _, err := fmt.Sscanf(strings.ReplaceAll(s, " ", ""), "rgb(%d,%d,%d)", &r, &g, &b); err != nil {
			return Color{}, false
		}
		return Color{uint8(r), uint8(g), uint8(b), 1}, true
	}
	return Color{}, false
}

// Border is the resolved border of one box, enough for painting.
type Border struct {
	Width float64
	Style string // solid, dashed, dotted, none
	Color Color
}

// GetBorder reads the top border, which the painter applies to all sides.
func (s *Style) GetBorder() Border {
	b := Border{Style: "none", Color: Color{0, 0, 0, 1}}
	if w, ok := s.GetLength("border-top-width"); ok {
		b.Width = w
	}
	if st, ok := s.Get("border-top-style"); ok {
		b.Style = st
	}
	if c, ok := s.Get("border-top-color"); ok {
		if col, ok := ParseColor(c); ok {
			b.Color = col
		}
	}
	if b.Style == "none" {
		b.Width = 0
	}
	return b
}

// PositionOffset holds the resolved top/right/bottom/left insets of a
// positioned box. The Has* flags distinguish "0px" from "auto".
type PositionOffset struct {
	Top, Right, Bottom, Left             float64
	HasTop, HasRight, HasBottom, HasLeft bool
}

func (s *Style) GetPositionOffset() PositionOffset {
	var o PositionOffset
	o.Top, o.HasTop = s.GetLength("top")
	o.Right, o.HasRight = s.GetLength("right")
	o.Bottom, o.HasBottom = s.GetLength("bottom")
	o.Left, o.HasLeft = s.GetLength("left")
	return o
}
