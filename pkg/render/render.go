// Package render paints a measured sheet to an image with gg.
package render

import (
	"image"
	"io"
	"sort"
	"strings"

	"github.com/fogleman/gg"

	"charsheet/pkg/css"
	"charsheet/pkg/layout"
)

type Renderer struct {
	context  *gg.Context
	fontPath string
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithFont loads labels from a TrueType font file instead of gg's built-in
// bitmap face.
func WithFont(path string) Option {
	return func(r *Renderer) { r.fontPath = path }
}

func NewRenderer(width, height int, opts ...Option) *Renderer {
	r := &Renderer{context: gg.NewContext(width, height)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Renderer) Render(res *layout.Result) {
	r.context.SetRGB(1, 1, 1)
	r.context.Clear()

	boxes := res.All()
	sort.SliceStable(boxes, func(i, j int) bool {
		return boxes[i].ZIndex < boxes[j].ZIndex
	})
	for _, box := range boxes {
		r.drawBox(box)
	}
}

func (r *Renderer) drawBox(box *layout.Box) {
	r.drawBoxShadow(box)

	if bg, ok := box.Style.Get("background-color"); ok {
		if color, ok := css.ParseColor(bg); ok && color.A > 0 {
			r.setColor(color)
			r.context.DrawRectangle(box.X, box.Y, box.Width, box.Height)
			r.context.Fill()
		}
	}

	r.drawBorder(box)
	r.drawText(box)
}

func (r *Renderer) setColor(c css.Color) {
	r.context.SetRGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, c.A)
}

func (r *Renderer) drawBorder(box *layout.Box) {
	border := box.Style.GetBorder()
	if border.Width <= 0 {
		return
	}
	r.setColor(border.Color)
	w := border.Width
	// Sides as (x, y, width, height, horizontal).
	sides := []struct {
		x, y, width, height float64
		horizontal          bool
	}{
		{box.X, box.Y, box.Width, w, true},
		{box.X, box.Y + box.Height - w, box.Width, w, true},
		{box.X, box.Y, w, box.Height, false},
		{box.X + box.Width - w, box.Y, w, box.Height, false},
	}
	for _, s := range sides {
		r.drawBorderSide(s.x, s.y, s.width, s.height, border.Style, s.horizontal)
	}
}

func (r *Renderer) drawBorderSide(x, y, width, height float64, style string, horizontal bool) {
	switch style {
	case "solid", "double":
		r.context.DrawRectangle(x, y, width, height)
		r.context.Fill()

	case "dashed", "dotted":
		if style == "dashed" {
			r.context.SetDash(10, 5)
		} else {
			r.context.SetDash(2, 4)
		}
		if horizontal {
			r.context.SetLineWidth(height)
			r.context.DrawLine(x, y+height/2, x+width, y+height/2)
		} else {
			r.context.SetLineWidth(width)
			r.context.DrawLine(x+width/2, y, x+width/2, y+height)
		}
		r.context.Stroke()
		r.context.SetDash()
	}
}

// Shadow is one parsed box-shadow layer.
type Shadow struct {
	OffsetX, OffsetY, Blur, Spread float64
	Color                          css.Color
}

// ParseBoxShadow parses a comma separated box-shadow value. Inset shadows
// are skipped.
func ParseBoxShadow(value string) []Shadow {
	var out []Shadow
	for _, layer := range splitTopLevel(value) {
		layer = strings.TrimSpace(layer)
		if layer == "" || layer == "none" || strings.Contains(layer, "inset") {
			continue
		}
		s := Shadow{Color: css.Color{A: 1}}
		var lengths []float64
		for _, tok := range splitFields(layer) {
			if n, ok := css.ParseLength(tok); ok {
				lengths = append(lengths, n)
				continue
			}
			if c, ok := css.ParseColor(tok); ok {
				s.Color = c
			}
		}
		if len(lengths) < 2 {
			continue
		}
		s.OffsetX, s.OffsetY = lengths[0], lengths[1]
		if len(lengths) > 2 {
			s.Blur = lengths[2]
		}
		if len(lengths) > 3 {
			s.Spread = lengths[3]
		}
		out = append(out, s)
	}
	return out
}

// splitTopLevel splits on commas outside parentheses.
func splitTopLevel(s string) []string {
	var parts []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}

// splitFields splits on spaces outside parentheses.
func splitFields(s string) []string {
	var fields []string
	depth := 0
	var cur strings.Builder
	for _, ch := range s {
		switch {
		case ch == '(':
			depth++
		case ch == ')':
			depth--
		case ch == ' ' && depth == 0:
			if cur.Len() > 0 {
				fields = append(fields, cur.String())
				cur.Reset()
			}
			continue
		}
		cur.WriteRune(ch)
	}
	if cur.Len() > 0 {
		fields = append(fields, cur.String())
	}
	return fields
}

func (r *Renderer) drawBoxShadow(box *layout.Box) {
	value, ok := box.Style.Get("box-shadow")
	if !ok {
		return
	}
	for _, shadow := range ParseBoxShadow(value) {
		x := box.X + shadow.OffsetX - shadow.Spread
		y := box.Y + shadow.OffsetY - shadow.Spread
		w := box.Width + shadow.Spread*2
		h := box.Height + shadow.Spread*2

		// Blur is approximated with a few widening rectangles.
		steps := int(shadow.Blur / 2)
		if steps < 1 {
			steps = 1
		}
		if steps > 10 {
			steps = 10
		}
		for i := 0; i < steps; i++ {
			offset := float64(i) * 2
			c := shadow.Color
			c.A = c.A / float64(steps) * (1.0 - float64(i)/float64(steps))
			if steps == 1 {
				c.A = shadow.Color.A
			}
			r.setColor(c)
			r.context.DrawRectangle(x-offset, y-offset, w+offset*2, h+offset*2)
			r.context.Fill()
		}
	}
}

func (r *Renderer) drawText(box *layout.Box) {
	if box.Text == "" {
		return
	}
	color := css.Color{A: 1}
	if c, ok := box.Style.Get("color"); ok {
		if parsed, ok := css.ParseColor(c); ok {
			color = parsed
		}
	}
	r.setColor(color)

	fontSize := 14.0
	if fs, ok := box.Style.GetLength("font-size"); ok && fs > 0 {
		fontSize = fs
	}
	if r.fontPath != "" {
		// Without the font the built-in face still draws the label.
		_ = r.context.LoadFontFace(r.fontPath, fontSize)
	}
	r.context.DrawString(box.Text, box.ContentX(), box.ContentY()+fontSize)
}

func (r *Renderer) SavePNG(filename string) error {
	return r.context.SavePNG(filename)
}

// EncodePNG writes the painted sheet to w.
func (r *Renderer) EncodePNG(w io.Writer) error {
	return r.context.EncodePNG(w)
}

func (r *Renderer) Image() image.Image {
	return r.context.Image()
}
