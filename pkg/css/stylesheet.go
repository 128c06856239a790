package css

import (
	"fmt"
	"strings"
)

// Rule is one selector with its declaration block. A rule written with a
// selector group is split into one Rule per selector.
type Rule struct {
	Selector     Selector
	Declarations Declarations
	Order        int // source order, breaks specificity ties
}

type Stylesheet struct {
	Rules []Rule
}

// ParseStylesheet parses CSS text into rules. Comments and at-rules are
// skipped; malformed rules are dropped rather than failing the sheet.
func ParseStylesheet(text string) (*Stylesheet, error) {
	sheet := &Stylesheet{Rules: make([]Rule, 0)}
	text = stripComments(text)
	order := 0
	for {
		open := strings.IndexByte(text, '{')
		if open < 0 {
			break
		}
		end := matchingBrace(text, open)
		if end < 0 {
			return sheet, fmt.Errorf("unbalanced braces after %q", strings.TrimSpace(text[:open]))
		}
		prelude := strings.TrimSpace(text[:open])
		body := text[open+1 : end]
		text = text[end+1:]
		if prelude == "" || strings.HasPrefix(prelude, "@") {
			continue
		}
		decls := ParseDeclarations(body)
		for _, raw := range SplitSelectorGroup(prelude) {
			sel := ParseSelector(raw)
			if len(sel.Parts) == 0 {
				continue
			}
			sheet.Rules = append(sheet.Rules, Rule{Selector: sel, Declarations: decls, Order: order})
			order++
		}
	}
	return sheet, nil
}

func matchingBrace(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func stripComments(s string) string {
	var sb strings.Builder
	for {
		start := strings.Index(s, "/*")
		if start < 0 {
			sb.WriteString(s)
			return sb.String()
		}
		sb.WriteString(s[:start])
		end := strings.Index(s[start+2:], "*/")
		if end < 0 {
			return sb.String()
		}
		s = s[start+2+end+2:]
	}
}
