// Package layout measures a styled document: block flow, flex rows and
// columns with gap, and relative/absolute positioning against the nearest
// positioned ancestor. It is deliberately small; sheets are made of
// positioned boxes, not flowing prose.
package layout

import (
	"fmt"
	"strings"

	"charsheet/pkg/css"
	"charsheet/pkg/html"
)

const (
	defaultFontSize = 14.0
	lineHeightRatio = 1.2
	charWidthRatio  = 0.55
)

type LayoutEngine struct {
	viewport struct {
		width  float64
		height float64
	}
	styles        map[*html.Node]*css.Style
	absoluteBoxes []*Box
	byNode        map[*html.Node]*Box
}

func NewLayoutEngine(viewportWidth, viewportHeight float64) *LayoutEngine {
	le := &LayoutEngine{}
	le.viewport.width = viewportWidth
	le.viewport.height = viewportHeight
	return le
}

// Layout computes styles for doc and measures every element.
func (le *LayoutEngine) Layout(doc *html.Document) *Result {
	return le.LayoutWith(doc, css.NewCascade(doc))
}

// LayoutWith measures doc using an already parsed cascade.
func (le *LayoutEngine) LayoutWith(doc *html.Document, cascade *css.Cascade) *Result {
	le.styles = cascade.ComputeAll(doc.Root)
	le.absoluteBoxes = nil
	le.byNode = make(map[*html.Node]*Box)

	res := &Result{byNode: le.byNode}
	y := 0.0
	for _, child := range doc.Root.ElementChildren() {
		box := le.layoutNode(child, nil, 0, y, le.viewport.width)
		if box == nil {
			continue
		}
		res.Roots = append(res.Roots, box)
		if box.Position == css.PositionStatic || box.Position == css.PositionRelative {
			y += box.Height
		}
	}
	// Absolute boxes are placed once their containing blocks have a size.
	for _, box := range le.absoluteBoxes {
		le.applyAbsolutePositioning(box)
	}
	return res
}

func (le *LayoutEngine) styleOf(n *html.Node) *css.Style {
	if s, ok := le.styles[n]; ok {
		return s
	}
	return css.NewStyle()
}

func (le *LayoutEngine) layoutNode(node *html.Node, parent *Box, x, y, availableWidth float64) *Box {
	style := le.styleOf(node)
	if style.GetDisplay() == css.DisplayNone {
		return nil
	}
	box := &Box{
		Node:     node,
		Style:    style,
		X:        x,
		Y:        y,
		Padding:  style.GetPadding(),
		Border:   style.GetBorderWidth(),
		Position: style.GetPosition(),
		Parent:   parent,
		Text:     directText(node),
	}
	if z, ok := style.Get("z-index"); ok {
		fmt.Sscanf(z, "%d", &box.ZIndex)
	}
	le.byNode[node] = box

	if ml, ok := style.GetLength("margin-left"); ok && box.Position != css.PositionAbsolute {
		box.X += ml
	}
	if mt, ok := style.GetLength("margin-top"); ok && box.Position != css.PositionAbsolute {
		box.Y += mt
	}

	width, hasWidth := style.GetLength("width")
	switch {
	case hasWidth:
		box.Width = width
	case box.Position == css.PositionAbsolute || style.GetDisplay() == css.DisplayInline:
		box.Width = 0 // shrink-to-fit below
	default:
		box.Width = availableWidth
	}

	var contentHeight, contentWidth float64
	if style.GetDisplay() == css.DisplayFlex {
		contentWidth, contentHeight = le.layoutFlex(box)
	} else {
		contentWidth, contentHeight = le.layoutBlockChildren(box)
	}
	if box.Text != "" {
		fs := fontSize(style)
		contentHeight += fs * lineHeightRatio
		if tw := textWidth(box.Text, fs); tw > contentWidth {
			contentWidth = tw
		}
	}
	if !hasWidth && box.Width == 0 {
		box.Width = contentWidth + box.Padding.Left + box.Padding.Right + box.Border.Left + box.Border.Right
	}
	if h, ok := style.GetLength("height"); ok {
		box.Height = h
	} else {
		box.Height = contentHeight + box.Padding.Top + box.Padding.Bottom + box.Border.Top + box.Border.Bottom
	}

	switch box.Position {
	case css.PositionAbsolute, css.PositionFixed:
		le.absoluteBoxes = append(le.absoluteBoxes, box)
	case css.PositionRelative:
		offset := style.GetPositionOffset()
		box.shift(offset.Left, offset.Top)
	}
	return box
}

// layoutBlockChildren stacks in-flow children vertically and returns the
// content extent they occupy.
func (le *LayoutEngine) layoutBlockChildren(box *Box) (width, height float64) {
	cy := box.ContentY()
	for _, child := range box.Node.ElementChildren() {
		cb := le.layoutNode(child, box, box.ContentX(), cy, box.ContentWidth())
		if cb == nil {
			continue
		}
		box.Children = append(box.Children, cb)
		if cb.Position == css.PositionAbsolute || cb.Position == css.PositionFixed {
			continue
		}
		cy += cb.Height
		if cb.Width > width {
			width = cb.Width
		}
	}
	return width, cy - box.ContentY()
}

func (b *Box) shift(dx, dy float64) {
	if dx == 0 && dy == 0 {
		return
	}
	b.X += dx
	b.Y += dy
	for _, c := range b.Children {
		if c.Position != css.PositionAbsolute && c.Position != css.PositionFixed {
			c.shift(dx, dy)
		}
	}
}

func directText(n *html.Node) string {
	var parts []string
	for _, c := range n.Children {
		if c.Type == html.TextNode {
			if t := strings.TrimSpace(c.Text); t != "" {
				parts = append(parts, t)
			}
		}
	}
	return strings.Join(parts, " ")
}

func fontSize(style *css.Style) float64 {
	if fs, ok := style.GetLength("font-size"); ok && fs > 0 {
		return fs
	}
	return defaultFontSize
}

func textWidth(text string, fs float64) float64 {
	return float64(len([]rune(text))) * fs * charWidthRatio
}
