package html

import "strings"

// Classes returns the node's class tokens in attribute order.
func (n *Node) Classes() []string {
	return strings.Fields(n.Attr("class"))
}

func (n *Node) HasClass(cls string) bool {
	for _, c := range n.Classes() {
		if c == cls {
			return true
		}
	}
	return false
}

// AddClass appends cls unless already present.
func (n *Node) AddClass(cls string) {
	if n.HasClass(cls) {
		return
	}
	n.SetAttribute("class", strings.Join(append(n.Classes(), cls), " "))
}

func (n *Node) RemoveClass(cls string) {
	classes := n.Classes()
	kept := classes[:0]
	for _, c := range classes {
		if c != cls {
			kept = append(kept, c)
		}
	}
	n.SetAttribute("class", strings.Join(kept, " "))
}

// ToggleClass flips cls and reports whether it is present afterwards.
func (n *Node) ToggleClass(cls string) bool {
	if n.HasClass(cls) {
		n.RemoveClass(cls)
		return false
	}
	n.AddClass(cls)
	return true
}
