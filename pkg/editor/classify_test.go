package editor

import (
	"testing"

	"charsheet/pkg/html"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		classes string
		nested  string
		want    Classification
	}{
		{"pos token", "field pos-armor-class", "", Classification{"pos-armor-class", ChannelCustomProperty}},
		{"pos wins over ability", "ability pos-str-box attr-str", "", Classification{"pos-str-box", ChannelCustomProperty}},
		{"bare pos- is not a key", "pos-", "", Classification{UnknownKey, ChannelCustomProperty}},
		{"ability with own attr", "attr-str cs-ability", "", Classification{"ability-str", ChannelBoth}},
		{"ability with nested attr", "ability", "score attr-DEX", Classification{"ability-dex", ChannelBoth}},
		{"ability without attr", "ability", "score", Classification{"ability-unknown", ChannelBoth}},
		{"save group", "save-group save-group-death", "", Classification{"save-death", ChannelBoth}},
		{"save group token alone", "row save-group-wands", "", Classification{"save-wands", ChannelBoth}},
		{"save group marker alone", "cs-save-group", "", Classification{"save-unknown", ChannelBoth}},
		{"save suffix", "save paralysis-save", "", Classification{"save-paralysis", ChannelBoth}},
		{"save suffix without marker", "breath-save", "", Classification{"save-breath", ChannelBoth}},
		{"save marker alone", "cs-save", "", Classification{"save-unknown", ChannelBoth}},
		{"nothing", "header big", "", Classification{UnknownKey, ChannelCustomProperty}},
		{"empty", "", "", Classification{UnknownKey, ChannelCustomProperty}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.classes, func() string { return tt.nested })
			if got != tt.want {
				t.Errorf("Classify(%q) = %+v, want %+v", tt.classes, got, tt.want)
			}
		})
	}
}

func TestClassifyPosNames(t *testing.T) {
	for _, name := range []string{"a", "armor-class", "slot-10", "hp_max"} {
		got := Classify("x pos-"+name+" y", nil)
		if got.Key != "pos-"+name || got.Channel != ChannelCustomProperty {
			t.Errorf("Classify(pos-%s) = %+v", name, got)
		}
	}
}

func TestClassifyNodeLooksIntoControls(t *testing.T) {
	root := html.MustParseFragment(`<div class="ability"><label>STR</label><input class="score attr-str"></div>`)
	got := ClassifyNode(root)
	if got.Key != "ability-str" || got.Channel != ChannelBoth {
		t.Errorf("ClassifyNode = %+v", got)
	}
	if got.Placeholder() || !got.Known() {
		t.Errorf("ability-str reported as placeholder/unknown")
	}
}

func TestFields(t *testing.T) {
	root := html.MustParseFragment(`<div>
<div class="pos-ac"></div><p>plain</p><div class="save-group-death"></div><span class="cs-ability attr-con"></span>
</div>`)
	got := Fields(root)
	if len(got) != 3 {
		t.Fatalf("Fields found %d, want 3", len(got))
	}
}
