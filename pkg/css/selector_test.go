package css

import (
	"testing"

	"charsheet/pkg/html"
)

func TestMatches(t *testing.T) {
	doc := parseDoc(t, `<section class="sheet" id="s1">
		<div class="abilities"><span class="cs-ability" data-k="str"><input class="attr-str"></span></div>
		<div class="pos-armor-class"></div>
	</section>`)
	section := doc.Root.ElementChildren()[0]
	ability := section.ElementChildren()[0].ElementChildren()[0]
	input := ability.ElementChildren()[0]
	ac := section.ElementChildren()[1]

	tests := []struct {
		node  *html.Node
		group string
		want  bool
	}{
		{ability, ".cs-ability", true},
		{ability, "span.cs-ability[data-k=str]", true},
		{ability, "#s1 .cs-ability", true},
		{ability, "#s1 > .cs-ability", false},
		{ability, ".abilities > .cs-ability", true},
		{input, "[class^=attr-]", true},
		{ac, `[class*="pos-"], .cs-ability`, true},
		{ac, "div:hover", false},
		{ac, ".sheet .nope", false},
	}
	for _, tt := range tests {
		if got := Matches(tt.node, tt.group); got != tt.want {
			t.Errorf("Matches(%s, %q) = %v, want %v", tt.node.Attr("class"), tt.group, got, tt.want)
		}
	}

	if got := QuerySelectorAll(doc.Root, `[class*="pos-"], .cs-ability`); len(got) != 2 {
		t.Errorf("QuerySelectorAll returned %d nodes, want 2", len(got))
	}
	if Closest(input, ".sheet") != section {
		t.Error("Closest should find the section")
	}
}

func TestSpecificity(t *testing.T) {
	tests := map[string]int{
		"div":                1,
		".a":                 10,
		"#x":                 100,
		"div.a[data-x] span": 22,
	}
	for raw, want := range tests {
		if got := ParseSelector(raw).Specificity; got != want {
			t.Errorf("specificity(%q) = %d, want %d", raw, got, want)
		}
	}
}
