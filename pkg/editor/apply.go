package editor

import (
	"charsheet/pkg/css"
	"charsheet/pkg/geom"
	"charsheet/pkg/html"
)

// MarkerClass enables absolute positioning in the sheet stylesheet.
const MarkerClass = "cs-positioned"

// CustomProperty returns the custom property carrying one field, e.g.
// "--pos-left".
func CustomProperty(f geom.Field) string {
	return "--pos-" + string(f)
}

// Applier writes geometry to fields. Cascade, when set, is consulted for
// the field's position mode; without it only the inline style is read.
type Applier struct {
	Cascade *css.Cascade
}

// Apply writes g to n through the channel(s) ch selects. Calling it twice
// with the same arguments leaves the same style as calling it once.
func (a Applier) Apply(n *html.Node, g geom.Geometry, ch Channel) {
	if ch == ChannelUnresolved {
		ch = ClassifyNode(n).Channel
	}
	for _, f := range geom.Fields {
		css.SetProperty(n, CustomProperty(f), geom.Format(g.Get(f)), false)
	}
	if ch == ChannelBoth || ch == ChannelLegacyDirect {
		for _, f := range geom.Fields {
			css.SetProperty(n, string(f), geom.Format(g.Get(f)), false)
		}
		if pos := a.position(n); pos == "" || pos == css.PositionStatic {
			css.SetProperty(n, "position", string(css.PositionAbsolute), false)
		}
	}
	n.AddClass(MarkerClass)
}

// position returns the field's current position mode, or "" when nothing
// sets one.
func (a Applier) position(n *html.Node) css.PositionType {
	if v, ok := css.GetProperty(n, "position"); ok {
		return css.PositionType(v)
	}
	if a.Cascade == nil {
		return ""
	}
	style := a.Cascade.ComputeStyle(n)
	if _, ok := style.Get("position"); !ok {
		return ""
	}
	return style.GetPosition()
}

// Apply writes g using an Applier without stylesheet access.
func Apply(n *html.Node, g geom.Geometry, ch Channel) {
	Applier{}.Apply(n, g, ch)
}

// Current reads the geometry n displays: inline channels first, then the
// computed style, then measure for anything still missing. The result is
// clamped to the minimum size.
func (a Applier) Current(n *html.Node, measure Measurer) geom.Geometry {
	var computed *css.Style
	if a.Cascade != nil {
		computed = a.Cascade.ComputeStyle(n)
	}
	var measured *geom.Geometry
	values := make([]float64, len(geom.Fields))
	for i, f := range geom.Fields {
		v, ok := readField(n, computed, f)
		if !ok && measure != nil {
			if measured == nil {
				m, found := measure(n)
				if !found {
					measure = nil
					continue
				}
				measured = &m
			}
			v = float64(measured.Get(f))
		}
		values[i] = v
	}
	return geom.Round(values[0], values[1], values[2], values[3]).Clamp()
}

// Measurer returns a field's laid-out box relative to its containing block.
type Measurer func(*html.Node) (geom.Geometry, bool)

func readField(n *html.Node, computed *css.Style, f geom.Field) (float64, bool) {
	if v, ok := css.GetProperty(n, CustomProperty(f)); ok {
		if px, ok := geom.ParsePixel(v); ok {
			return px, true
		}
	}
	if v, ok := css.GetProperty(n, string(f)); ok {
		if px, ok := geom.ParsePixel(v); ok {
			return px, true
		}
	}
	if computed != nil {
		if v, ok := computed.Get(string(f)); ok {
			if px, ok := geom.ParsePixel(v); ok {
				return px, true
			}
		}
	}
	return 0, false
}
