package layout

import "charsheet/pkg/css"

// layoutFlex places in-flow children along one axis with gap. Items keep
// their specified or shrink-to-fit size; there is no grow/shrink.
func (le *LayoutEngine) layoutFlex(box *Box) (width, height float64) {
	style := box.Style
	column := false
	if dir, ok := style.Get("flex-direction"); ok && (dir == "column" || dir == "column-reverse") {
		column = true
	}
	gap, _ := style.GetLength("gap")

	x, y := box.ContentX(), box.ContentY()
	placed := 0
	for _, child := range box.Node.ElementChildren() {
		childStyle := le.styleOf(child)
		avail := 0.0
		if column {
			avail = box.ContentWidth()
		}
		if _, ok := childStyle.GetLength("width"); !ok && !column {
			// Row items shrink to their content.
			avail = 0
		}
		cb := le.layoutNode(child, box, x, y, avail)
		if cb == nil {
			continue
		}
		box.Children = append(box.Children, cb)
		if cb.Position == css.PositionAbsolute || cb.Position == css.PositionFixed {
			continue
		}
		if placed > 0 {
			if column {
				cb.shift(0, gap)
			} else {
				cb.shift(gap, 0)
			}
		}
		placed++
		if column {
			y = cb.Y + cb.Height
			if cb.Width > width {
				width = cb.Width
			}
		} else {
			x = cb.X + cb.Width
			if cb.Height > height {
				height = cb.Height
			}
		}
	}
	if column {
		return width, y - box.ContentY()
	}
	return x - box.ContentX(), height
}
