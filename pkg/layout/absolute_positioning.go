package layout

// applyAbsolutePositioning places an absolutely positioned box against its
// containing block's padding edge (CSS 2.1 §10.3.7 / §10.6.4, without the
// auto-margin centering cases).
func (le *LayoutEngine) applyAbsolutePositioning(box *Box) {
	var cbX, cbY, cbWidth, cbHeight float64
	if cb := box.FindContainingBlock(); cb != nil {
		cbX = cb.X + cb.Border.Left
		cbY = cb.Y + cb.Border.Top
		cbWidth = cb.Width - cb.Border.Left - cb.Border.Right
		cbHeight = cb.Height - cb.Border.Top - cb.Border.Bottom
	} else {
		cbWidth = le.viewport.width
		cbHeight = le.viewport.height
	}

	offset := box.Style.GetPositionOffset()
	x, y := cbX, cbY
	switch {
	case offset.HasLeft:
		x = cbX + offset.Left
	case offset.HasRight:
		x = cbX + cbWidth - offset.Right - box.Width
	}
	switch {
	case offset.HasTop:
		y = cbY + offset.Top
	case offset.HasBottom:
		y = cbY + cbHeight - offset.Bottom - box.Height
	}
	box.moveTo(x, y)
}

// moveTo relocates box and its whole subtree, including nested absolute
// boxes that have already been placed relative to it.
func (b *Box) moveTo(x, y float64) {
	dx, dy := x-b.X, y-b.Y
	var walk func(*Box)
	walk = func(n *Box) {
		n.X += dx
		n.Y += dy
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(b)
}
