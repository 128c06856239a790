package layout

import (
	"charsheet/pkg/css"
	"charsheet/pkg/html"
)

// Box is the measured border box of one element, in page coordinates.
type Box struct {
	Node     *html.Node
	Style    *css.Style
	X        float64
	Y        float64
	Width    float64 // border-box width
	Height   float64 // border-box height
	Padding  css.BoxEdge
	Border   css.BoxEdge
	Position css.PositionType
	ZIndex   int
	Text     string // direct text content, for painting labels
	Children []*Box
	Parent   *Box
}

// ContentX returns the x of the content edge.
func (b *Box) ContentX() float64 { return b.X + b.Border.Left + b.Padding.Left }

// ContentY returns the y of the content edge.
func (b *Box) ContentY() float64 { return b.Y + b.Border.Top + b.Padding.Top }

// ContentWidth returns the width available to children.
func (b *Box) ContentWidth() float64 {
	w := b.Width - b.Border.Left - b.Border.Right - b.Padding.Left - b.Padding.Right
	if w < 0 {
		return 0
	}
	return w
}

// FindContainingBlock returns the nearest positioned ancestor box, or nil
// for the initial containing block.
func (b *Box) FindContainingBlock() *Box {
	for p := b.Parent; p != nil; p = p.Parent {
		if p.Position != css.PositionStatic {
			return p
		}
	}
	return nil
}

// Rect is a measured rectangle.
type Rect struct {
	X, Y, Width, Height float64
}

// Result is one layout pass over a document.
type Result struct {
	Roots  []*Box
	byNode map[*html.Node]*Box
}

// Box returns the box generated for node, or nil when it has none
// (display:none, detached, or a text node).
func (r *Result) Box(node *html.Node) *Box {
	return r.byNode[node]
}

// All returns every box in paint order: parents before children.
func (r *Result) All() []*Box {
	var out []*Box
	var walk func([]*Box)
	walk = func(boxes []*Box) {
		for _, b := range boxes {
			out = append(out, b)
			walk(b.Children)
		}
	}
	walk(r.Roots)
	return out
}

// Rect returns the border box of node.
func (r *Result) Rect(node *html.Node) (Rect, bool) {
	b := r.Box(node)
	if b == nil {
		return Rect{}, false
	}
	return Rect{X: b.X, Y: b.Y, Width: b.Width, Height: b.Height}, true
}

// OffsetWithin returns node's border-box origin relative to container's
// border-box origin.
func (r *Result) OffsetWithin(node, container *html.Node) (x, y float64, ok bool) {
	nb, cb := r.Box(node), r.Box(container)
	if nb == nil || cb == nil {
		return 0, 0, false
	}
	return nb.X - cb.X, nb.Y - cb.Y, true
}
