package editor

import (
	"strings"

	"charsheet/pkg/css"
	"charsheet/pkg/html"
)

const (
	GuideBorder = "2px dashed #ff6400"
	GuideShadow = "0 0 0 1px rgba(255, 100, 0, 0.35)"
)

// Guide draws a dashed outline around the field under edit. A sheet owns
// one guide; showing it on a new field hides it from the old one first.
type Guide struct {
	target *html.Node
	saved  []css.Declaration
}

func isGuideProperty(prop string) bool {
	return prop == "border" || strings.HasPrefix(prop, "border-") ||
		prop == "box-shadow" || prop == "outline" || strings.HasPrefix(prop, "outline-")
}

// Show snapshots n's inline border declarations and overrides border and
// box-shadow with !important.
func (g *Guide) Show(n *html.Node) {
	g.Hide()
	g.target = n
	g.saved = nil
	for _, d := range css.InlineStyle(n) {
		if isGuideProperty(d.Property) {
			g.saved = append(g.saved, d)
		}
	}
	css.SetProperty(n, "border", GuideBorder, true)
	css.SetProperty(n, "box-shadow", GuideShadow, true)
}

// Hide restores the snapshot taken by Show. It is a no-op when no guide is
// showing.
func (g *Guide) Hide() {
	if g.target == nil {
		return
	}
	n := g.target
	for _, prop := range []string{"border", "box-shadow"} {
		if d, ok := g.lookup(prop); ok {
			css.SetProperty(n, d.Property, d.Value, d.Important)
		} else {
			css.RemoveProperty(n, prop)
		}
	}
	g.target = nil
	g.saved = nil
}

// Target returns the field currently outlined, or nil.
func (g *Guide) Target() *html.Node { return g.target }

func (g *Guide) lookup(prop string) (css.Declaration, bool) {
	for _, d := range g.saved {
		if d.Property == prop {
			return d, true
		}
	}
	return css.Declaration{}, false
}
