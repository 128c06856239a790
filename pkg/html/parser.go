package html

import (
	"fmt"
	"strings"
)

type Parser struct {
	tokenizer *Tokenizer
	doc       *Document
	stack     []*Node
}

func NewParser(html string) *Parser {
	return &Parser{
		tokenizer: NewTokenizer(html),
		doc:       NewDocument(),
	}
}

func (p *Parser) Parse() (*Document, error) {
	p.stack = []*Node{p.doc.Root}

	for {
		token, err := p.tokenizer.NextToken()
		if err != nil {
			return nil, fmt.Errorf("tokenizer error: %w", err)
		}
		if token.Type == TokenEOF {
			break
		}

		switch token.Type {
		case TokenStartTag:
			// Raw text elements never enter the tree.
			switch token.TagName {
			case "style":
				p.doc.Stylesheets = append(p.doc.Stylesheets, p.tokenizer.ReadRawUntil("style"))
				continue
			case "script":
				p.doc.Scripts = append(p.doc.Scripts, p.tokenizer.ReadRawUntil("script"))
				continue
			}

			node := NewElement(token.TagName, token.Attributes)
			p.currentParent().AddChild(node)
			if !token.SelfClosing && !isVoidElement(token.TagName) {
				p.stack = append(p.stack, node)
			}

		case TokenText:
			p.currentParent().AppendText(token.Text)

		case TokenEndTag:
			p.closeTag(token.TagName)
		}
	}

	return p.doc, nil
}

func (p *Parser) currentParent() *Node {
	return p.stack[len(p.stack)-1]
}

// closeTag pops the stack until the matching tag is closed. Unmatched end
// tags are ignored.
func (p *Parser) closeTag(tagName string) {
	for i := len(p.stack) - 1; i >= 1; i-- {
		if p.stack[i].TagName == tagName {
			p.stack = p.stack[:i]
			return
		}
	}
}

func Parse(html string) (*Document, error) {
	return NewParser(html).Parse()
}

// ParseFragment parses markup and returns the detached top-level nodes.
// Stylesheets and scripts inside the fragment are dropped.
func ParseFragment(markup string) ([]*Node, error) {
	doc, err := Parse(markup)
	if err != nil {
		return nil, err
	}
	nodes := append([]*Node(nil), doc.Root.Children...)
	for _, n := range nodes {
		doc.Root.RemoveChild(n)
	}
	return nodes, nil
}

// MustParseFragment is ParseFragment for markup known at compile time.
func MustParseFragment(markup string) *Node {
	nodes, err := ParseFragment(strings.TrimSpace(markup))
	if err != nil {
		panic(fmt.Sprintf("html: bad fragment: %v", err))
	}
	if len(nodes) != 1 {
		panic(fmt.Sprintf("html: fragment has %d roots, want 1", len(nodes)))
	}
	return nodes[0]
}
