package css

import (
	"strings"

	"charsheet/pkg/html"
)

// Declaration is one "property: value [!important]" pair.
type Declaration struct {
	Property  string
	Value     string
	Important bool
}

// Declarations keeps source order, which matters for serialization and for
// restoring snapshots exactly.
type Declarations []Declaration

// ParseDeclarations parses a declaration block such as an inline style
// attribute. Later duplicates replace earlier ones in place.
func ParseDeclarations(block string) Declarations {
	var decls Declarations
	for _, part := range strings.Split(block, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		colon := strings.IndexByte(part, ':')
		if colon <= 0 {
			continue
		}
		prop := strings.TrimSpace(part[:colon])
		if !strings.HasPrefix(prop, "--") {
			prop = strings.ToLower(prop)
		}
		value := strings.TrimSpace(part[colon+1:])
		important := false
		if idx := strings.LastIndex(strings.ToLower(value), "!important"); idx >= 0 {
			important = true
			value = strings.TrimSpace(value[:idx])
		}
		if value == "" {
			continue
		}
		decls = decls.set(prop, value, important)
	}
	return decls
}

func (d Declarations) index(prop string) int {
	for i, decl := range d {
		if decl.Property == prop {
			return i
		}
	}
	return -1
}

// Get returns the value of prop.
func (d Declarations) Get(prop string) (string, bool) {
	if i := d.index(prop); i >= 0 {
		return d[i].Value, true
	}
	return "", false
}

// Lookup returns the whole declaration for prop.
func (d Declarations) Lookup(prop string) (Declaration, bool) {
	if i := d.index(prop); i >= 0 {
		return d[i], true
	}
	return Declaration{}, false
}

func (d Declarations) set(prop, value string, important bool) Declarations {
	if i := d.index(prop); i >= 0 {
		d[i].Value = value
		d[i].Important = important
		return d
	}
	return append(d, Declaration{Property: prop, Value: value, Important: important})
}

func (d Declarations) remove(prop string) Declarations {
	if i := d.index(prop); i >= 0 {
		return append(d[:i], d[i+1:]...)
	}
	return d
}

func (d Declarations) String() string {
	parts := make([]string, 0, len(d))
	for _, decl := range d {
		s := decl.Property + ": " + decl.Value
		if decl.Important {
			s += " !important"
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, "; ")
}

// InlineStyle parses the node's style attribute.
func InlineStyle(n *html.Node) Declarations {
	return ParseDeclarations(n.Attr("style"))
}

func writeInline(n *html.Node, d Declarations) {
	if len(d) == 0 {
		n.RemoveAttribute("style")
		return
	}
	n.SetAttribute("style", d.String())
}

// SetProperty writes one inline declaration, like style.setProperty().
func SetProperty(n *html.Node, prop, value string, important bool) {
	writeInline(n, InlineStyle(n).set(prop, value, important))
}

// RemoveProperty deletes one inline declaration.
func RemoveProperty(n *html.Node, prop string) {
	writeInline(n, InlineStyle(n).remove(prop))
}

// GetProperty reads one inline declaration.
func GetProperty(n *html.Node, prop string) (string, bool) {
	return InlineStyle(n).Get(prop)
}
