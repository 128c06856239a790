package css

import (
	"sort"
	"strings"

	"charsheet/pkg/html"
)

// Cascade holds parsed stylesheets for one document and computes styles.
type Cascade struct {
	Sheets []*Stylesheet
}

// NewCascade parses every stylesheet of doc. Sheets that fail to parse keep
// the rules read before the error.
func NewCascade(doc *html.Document) *Cascade {
	c := &Cascade{}
	for _, text := range doc.Stylesheets {
		sheet, _ := ParseStylesheet(text)
		c.Sheets = append(c.Sheets, sheet)
	}
	return c
}

type applied struct {
	decl        Declaration
	important   bool
	inline      bool
	specificity int
	order       int
}

// ComputeStyle computes the final style for a node: matching rules sorted by
// importance, origin and specificity, inline style on top, shorthands
// expanded and var() references resolved against inherited custom
// properties.
func (c *Cascade) ComputeStyle(node *html.Node) *Style {
	return c.compute(node, c.inheritedCustom(node.Parent))
}

func (c *Cascade) compute(node *html.Node, inherited map[string]string) *Style {
	var all []applied
	order := 0
	for _, sheet := range c.Sheets {
		for _, rule := range sheet.Rules {
			if !MatchesSelector(node, rule.Selector) {
				continue
			}
			for _, d := range rule.Declarations {
				all = append(all, applied{decl: d, important: d.Important, specificity: rule.Selector.Specificity, order: order})
				order++
			}
		}
	}
	for _, d := range InlineStyle(node) {
		all = append(all, applied{decl: d, important: d.Important, inline: true, order: order})
		order++
	}

	sort.SliceStable(all, func(i, j int) bool {
		a, b := all[i], all[j]
		if a.important != b.important {
			return !a.important
		}
		if a.inline != b.inline {
			return !a.inline
		}
		if a.specificity != b.specificity {
			return a.specificity < b.specificity
		}
		return a.order < b.order
	})

	style := NewStyle()
	for k, v := range inherited {
		style.Set(k, v)
	}
	// Custom properties first so var() can see this node's own values.
	for _, a := range all {
		if strings.HasPrefix(a.decl.Property, "--") {
			style.Set(a.decl.Property, a.decl.Value)
		}
	}
	for _, a := range all {
		if strings.HasPrefix(a.decl.Property, "--") {
			continue
		}
		value := ResolveVars(a.decl.Value, style.Properties)
		if value == "" {
			continue
		}
		expandShorthand(style, a.decl.Property, value)
	}
	return style
}

func (c *Cascade) inheritedCustom(node *html.Node) map[string]string {
	if node == nil || node.Type != html.ElementNode || node.TagName == "document" {
		return nil
	}
	style := c.compute(node, c.inheritedCustom(node.Parent))
	out := make(map[string]string)
	for k, v := range style.Properties {
		if strings.HasPrefix(k, "--") {
			out[k] = v
		}
	}
	return out
}

// ResolveVars substitutes var(--name[, fallback]) references. Unknown
// variables without a fallback resolve to "".
func ResolveVars(value string, vars map[string]string) string {
	for depth := 0; depth < 8; depth++ {
		start := strings.Index(value, "var(")
		if start < 0 {
			return value
		}
		end := closingParen(value, start+3)
		if end < 0 {
			return value
		}
		inner := value[start+4 : end]
		name, fallback, hasFallback := strings.Cut(inner, ",")
		name = strings.TrimSpace(name)
		repl, ok := vars[name]
		if !ok {
			if !hasFallback {
				return ""
			}
			repl = strings.TrimSpace(fallback)
		}
		value = value[:start] + repl + value[end+1:]
	}
	return value
}

func closingParen(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// expandShorthand writes property into style, expanding the shorthands the
// sheet templates use.
func expandShorthand(style *Style, property, value string) {
	switch property {
	case "margin", "padding":
		expandBox(style, property, value)
	case "border":
		for _, side := range []string{"top", "right", "bottom", "left"} {
			expandBorderSide(style, "border-"+side, value)
		}
	case "border-top", "border-right", "border-bottom", "border-left":
		expandBorderSide(style, property, value)
	case "border-width", "border-style", "border-color":
		suffix := strings.TrimPrefix(property, "border")
		for _, side := range []string{"top", "right", "bottom", "left"} {
			style.Set("border-"+side+suffix, value)
		}
	default:
		style.Set(property, value)
	}
}

func expandBox(style *Style, prefix, value string) {
	parts := strings.Fields(value)
	var t, r, b, l string
	switch len(parts) {
	case 1:
		t, r, b, l = parts[0], parts[0], parts[0], parts[0]
	case 2:
		t, r, b, l = parts[0], parts[1], parts[0], parts[1]
	case 3:
		t, r, b, l = parts[0], parts[1], parts[2], parts[1]
	case 4:
		t, r, b, l = parts[0], parts[1], parts[2], parts[3]
	default:
		return
	}
	style.Set(prefix+"-top", t)
	style.Set(prefix+"-right", r)
	style.Set(prefix+"-bottom", b)
	style.Set(prefix+"-left", l)
}

// expandBorderSide expands "2px dashed #ff6400" for one side.
func expandBorderSide(style *Style, side, value string) {
	width, kind, color := "medium", "none", "black"
	for _, part := range strings.Fields(value) {
		switch {
		case part == "none" || part == "solid" || part == "dashed" || part == "dotted" || part == "double":
			kind = part
		case strings.HasSuffix(part, "px") || part == "0":
			width = part
		default:
			color = part
		}
	}
	if width == "medium" {
		width = "3px"
	}
	style.Set(side+"-width", width)
	style.Set(side+"-style", kind)
	style.Set(side+"-color", color)
}

// ComputeAll computes styles for every element below root in one top-down
// pass, sharing inherited custom properties along the way.
func (c *Cascade) ComputeAll(root *html.Node) map[*html.Node]*Style {
	styles := make(map[*html.Node]*Style)
	var walk func(n *html.Node, inherited map[string]string)
	walk = func(n *html.Node, inherited map[string]string) {
		for _, child := range n.Children {
			if child.Type != html.ElementNode {
				continue
			}
			style := c.compute(child, inherited)
			styles[child] = style
			next := make(map[string]string)
			for k, v := range style.Properties {
				if strings.HasPrefix(k, "--") {
					next[k] = v
				}
			}
			walk(child, next)
		}
	}
	walk(root, c.inheritedCustom(root))
	return styles
}
