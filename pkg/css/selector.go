package css

import (
	"strings"

	"charsheet/pkg/html"
)

type Combinator int

const (
	DescendantCombinator Combinator = iota
	ChildCombinator
)

// AttributeSelector is one [name op value] test.
type AttributeSelector struct {
	Name     string
	Operator string // "", "=", "^=", "$=", "*=", "~=", "|="
	Value    string
}

// SelectorPart is a compound selector such as div.save#x[data-a].
type SelectorPart struct {
	Element    string
	ID         string
	Classes    []string
	Attributes []AttributeSelector
}

// Selector is a complex selector: parts joined by combinators.
type Selector struct {
	Raw         string
	Parts       []SelectorPart
	Combinators []Combinator // len(Parts)-1
	Specificity int
}

// SplitSelectorGroup splits "a, b > c" on top-level commas.
func SplitSelectorGroup(group string) []string {
	var out []string
	depth := 0
	start := 0
	for i, ch := range group {
		switch ch {
		case '[', '(':
			depth++
		case ']', ')':
			depth--
		case ',':
			if depth == 0 {
				if s := strings.TrimSpace(group[start:i]); s != "" {
					out = append(out, s)
				}
				start = i + 1
			}
		}
	}
	if s := strings.TrimSpace(group[start:]); s != "" {
		out = append(out, s)
	}
	return out
}

// ParseSelector parses one complex selector. Unsupported syntax yields a
// selector with no parts, which never matches.
func ParseSelector(raw string) Selector {
	sel := Selector{Raw: strings.TrimSpace(raw)}
	s := sel.Raw
	pending := DescendantCombinator
	for len(s) > 0 {
		trimmed := strings.TrimLeft(s, " \t\n")
		sawSpace := len(trimmed) != len(s)
		s = trimmed
		if s == "" {
			break
		}
		if s[0] == '>' {
			pending = ChildCombinator
			s = s[1:]
			continue
		}
		if sawSpace && pending != ChildCombinator {
			pending = DescendantCombinator
		}
		part, rest, ok := parseCompound(s)
		if !ok {
			return Selector{Raw: sel.Raw}
		}
		if len(sel.Parts) > 0 {
			sel.Combinators = append(sel.Combinators, pending)
		}
		sel.Parts = append(sel.Parts, part)
		pending = DescendantCombinator
		s = rest
	}
	for _, p := range sel.Parts {
		if p.ID != "" {
			sel.Specificity += 100
		}
		sel.Specificity += 10 * (len(p.Classes) + len(p.Attributes))
		if p.Element != "" && p.Element != "*" {
			sel.Specificity++
		}
	}
	return sel
}

func parseCompound(s string) (SelectorPart, string, bool) {
	var part SelectorPart
	i := 0
	readIdent := func() string {
		start := i
		for i < len(s) && isIdentChar(s[i]) {
			i++
		}
		return s[start:i]
	}
	if i < len(s) && (s[i] == '*' || isIdentChar(s[i])) {
		if s[i] == '*' {
			part.Element = "*"
			i++
		} else {
			part.Element = strings.ToLower(readIdent())
		}
	}
	for i < len(s) {
		switch s[i] {
		case '.':
			i++
			cls := readIdent()
			if cls == "" {
				return part, "", false
			}
			part.Classes = append(part.Classes, cls)
		case '#':
			i++
			part.ID = readIdent()
		case '[':
			end := strings.IndexByte(s[i:], ']')
			if end < 0 {
				return part, "", false
			}
			part.Attributes = append(part.Attributes, parseAttributeSelector(s[i+1:i+end]))
			i += end + 1
		default:
			if i == 0 {
				return part, "", false
			}
			return part, s[i:], true
		}
	}
	return part, "", i > 0
}

func parseAttributeSelector(body string) AttributeSelector {
	for _, op := range []string{"^=", "$=", "*=", "~=", "|=", "="} {
		if idx := strings.Index(body, op); idx > 0 {
			return AttributeSelector{
				Name:     strings.TrimSpace(body[:idx]),
				Operator: op,
				Value:    strings.Trim(strings.TrimSpace(body[idx+len(op):]), `"'`),
			}
		}
	}
	return AttributeSelector{Name: strings.TrimSpace(body)}
}

func isIdentChar(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

// MatchesSelector returns true if the node matches the complex selector.
func MatchesSelector(node *html.Node, selector Selector) bool {
	if node.Type != html.ElementNode || len(selector.Parts) == 0 {
		return false
	}
	return matchesFrom(node, selector, len(selector.Parts)-1)
}

// Matches reports whether node matches any selector of a group string.
func Matches(node *html.Node, group string) bool {
	for _, s := range SplitSelectorGroup(group) {
		if MatchesSelector(node, ParseSelector(s)) {
			return true
		}
	}
	return false
}

// QuerySelectorAll returns the elements below root matching a selector group.
func QuerySelectorAll(root *html.Node, group string) []*html.Node {
	selectors := make([]Selector, 0)
	for _, s := range SplitSelectorGroup(group) {
		selectors = append(selectors, ParseSelector(s))
	}
	return root.FindAll(func(n *html.Node) bool {
		for _, sel := range selectors {
			if MatchesSelector(n, sel) {
				return true
			}
		}
		return false
	})
}

// Closest walks from node up through its ancestors and returns the first
// element matching the group.
func Closest(node *html.Node, group string) *html.Node {
	for cur := node; cur != nil; cur = cur.Parent {
		if cur.Type == html.ElementNode && cur.TagName != "document" && Matches(cur, group) {
			return cur
		}
	}
	return nil
}

func matchesFrom(node *html.Node, selector Selector, idx int) bool {
	if !matchesPart(node, selector.Parts[idx]) {
		return false
	}
	if idx == 0 {
		return true
	}
	switch selector.Combinators[idx-1] {
	case ChildCombinator:
		p := node.Parent
		return p != nil && p.TagName != "document" && matchesFrom(p, selector, idx-1)
	default:
		for a := node.Parent; a != nil && a.TagName != "document"; a = a.Parent {
			if matchesFrom(a, selector, idx-1) {
				return true
			}
		}
		return false
	}
}

func matchesPart(node *html.Node, part SelectorPart) bool {
	if part.Element != "" && part.Element != "*" && node.TagName != part.Element {
		return false
	}
	if part.ID != "" && node.Attr("id") != part.ID {
		return false
	}
	for _, cls := range part.Classes {
		if !node.HasClass(cls) {
			return false
		}
	}
	for _, attr := range part.Attributes {
		if !matchesAttribute(node, attr) {
			return false
		}
	}
	return true
}

func matchesAttribute(node *html.Node, attr AttributeSelector) bool {
	value, ok := node.GetAttribute(attr.Name)
	if !ok {
		return false
	}
	switch attr.Operator {
	case "":
		return true
	case "=":
		return value == attr.Value
	case "^=":
		return strings.HasPrefix(value, attr.Value)
	case "$=":
		return strings.HasSuffix(value, attr.Value)
	case "*=":
		return strings.Contains(value, attr.Value)
	case "~=":
		for _, w := range strings.Fields(value) {
			if w == attr.Value {
				return true
			}
		}
		return false
	case "|=":
		return value == attr.Value || strings.HasPrefix(value, attr.Value+"-")
	}
	return false
}
