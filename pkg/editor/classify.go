// Package editor implements interactive field positioning on a rendered
// sheet: classifying a field into a stable key, writing geometry through
// the custom-property and direct-property channels, the dashed bounding
// guide, and the modal editing session with its per-sheet registry.
package editor

import (
	"strings"

	"charsheet/pkg/html"
)

// Channel says which styling mechanism a field honors.
type Channel int

const (
	// ChannelUnresolved is re-derived from the class list when geometry
	// is written.
	ChannelUnresolved Channel = iota
	// ChannelCustomProperty writes only the --pos-* custom properties.
	ChannelCustomProperty
	// ChannelLegacyDirect is never produced by Classify; Apply writes it
	// like ChannelBoth.
	ChannelLegacyDirect
	// ChannelBoth writes the custom properties and the direct properties.
	ChannelBoth
)

func (c Channel) String() string {
	switch c {
	case ChannelCustomProperty:
		return "customProperty"
	case ChannelLegacyDirect:
		return "legacyDirect"
	case ChannelBoth:
		return "both"
	}
	return "unresolved"
}

// UnknownKey is the identity of a field no rule recognizes.
const UnknownKey = "unknown"

// Classification is a field's identity key and style channel.
type Classification struct {
	Key     string
	Channel Channel
}

// Known reports whether any rule matched.
func (c Classification) Known() bool {
	return c.Key != UnknownKey
}

// Placeholder reports whether a marker matched but its sub-token was
// missing ("ability-unknown", "save-unknown").
func (c Classification) Placeholder() bool {
	return strings.HasSuffix(c.Key, "-unknown")
}

// Classify derives a field's classification from its class list. nested
// returns the class list of the field's inner control and is only called
// for ability fields; it may be nil.
func Classify(classList string, nested func() string) Classification {
	tokens := strings.Fields(classList)

	for _, tok := range tokens {
		if name, ok := strings.CutPrefix(tok, "pos-"); ok && name != "" {
			return Classification{Key: tok, Channel: ChannelCustomProperty}
		}
	}

	if hasAny(tokens, "ability", "cs-ability") {
		code := attrCode(tokens)
		if code == "" && nested != nil {
			code = attrCode(strings.Fields(nested()))
		}
		if code == "" {
			code = "unknown"
		}
		return Classification{Key: "ability-" + code, Channel: ChannelBoth}
	}

	groupType, grouped := "", false
	for _, tok := range tokens {
		if tok == "save-group" || tok == "cs-save-group" {
			grouped = true
		}
		if t, ok := strings.CutPrefix(tok, "save-group-"); ok && t != "" {
			groupType, grouped = t, true
			break
		}
	}
	if grouped {
		if groupType == "" {
			groupType = "unknown"
		}
		return Classification{Key: "save-" + groupType, Channel: ChannelBoth}
	}

	saveType, isSave := "", hasAny(tokens, "save", "cs-save")
	for _, tok := range tokens {
		if t, ok := strings.CutSuffix(tok, "-save"); ok && t != "" && t != "cs" {
			saveType, isSave = t, true
			break
		}
	}
	if isSave {
		if saveType == "" {
			saveType = "unknown"
		}
		return Classification{Key: "save-" + saveType, Channel: ChannelBoth}
	}

	return Classification{Key: UnknownKey, Channel: ChannelCustomProperty}
}

// ClassifyNode classifies n, looking through its descendants for the inner
// control of an ability field.
func ClassifyNode(n *html.Node) Classification {
	return Classify(n.Attr("class"), func() string {
		var classes []string
		n.Walk(func(d *html.Node) bool {
			if d != n && d.Type == html.ElementNode {
				if c := d.Attr("class"); c != "" {
					classes = append(classes, c)
				}
			}
			return true
		})
		return strings.Join(classes, " ")
	})
}

// Fields returns every positionable element below root in document order.
func Fields(root *html.Node) []*html.Node {
	return root.FindAll(IsField)
}

// IsField reports whether n carries any classification marker.
func IsField(n *html.Node) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	c := Classify(n.Attr("class"), nil)
	return c.Known()
}

func hasAny(tokens []string, want ...string) bool {
	for _, tok := range tokens {
		for _, w := range want {
			if tok == w {
				return true
			}
		}
	}
	return false
}

func attrCode(tokens []string) string {
	for _, tok := range tokens {
		if code, ok := strings.CutPrefix(tok, "attr-"); ok && code != "" {
			return strings.ToLower(code)
		}
	}
	return ""
}
