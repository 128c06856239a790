package html

import "testing"

func makeTree() *Node {
	// <div id="parent"><span>hello</span><p>world</p></div>
	parent := NewElement("div", map[string]string{"id": "parent"})
	span := NewElement("span", nil)
	span.AppendText("hello")
	parent.AddChild(span)

	p := NewElement("p", nil)
	p.AppendText("world")
	parent.AddChild(p)

	return parent
}

func TestRemoveChild(t *testing.T) {
	parent := makeTree()
	span := parent.Children[0]
	removed := parent.RemoveChild(span)
	if removed != span {
		t.Fatal("RemoveChild should return the removed child")
	}
	if span.Parent != nil {
		t.Error("removed child should have nil parent")
	}
	if len(parent.Children) != 1 {
		t.Errorf("expected 1 child, got %d", len(parent.Children))
	}
}

func TestRemoveChildNotFound(t *testing.T) {
	parent := makeTree()
	if parent.RemoveChild(NewElement("em", nil)) != nil {
		t.Error("RemoveChild of non-child should return nil")
	}
}

func TestInsertBefore(t *testing.T) {
	parent := makeTree()
	em := NewElement("em", nil)
	parent.InsertBefore(em, parent.Children[1])
	if len(parent.Children) != 3 {
		t.Fatalf("expected 3 children, got %d", len(parent.Children))
	}
	if parent.Children[1] != em || em.Parent != parent {
		t.Error("em should be at index 1 with parent set")
	}
}

func TestInsertBeforeNilRef(t *testing.T) {
	parent := makeTree()
	em := NewElement("em", nil)
	parent.InsertBefore(em, nil)
	if parent.Children[len(parent.Children)-1] != em {
		t.Error("InsertBefore(nil) should append")
	}
}

func TestAddChildReparents(t *testing.T) {
	a := makeTree()
	b := NewElement("section", nil)
	span := a.Children[0]
	b.AddChild(span)
	if len(a.Children) != 1 || span.Parent != b {
		t.Errorf("span should move to b, a has %d children", len(a.Children))
	}
}

func TestContains(t *testing.T) {
	parent := makeTree()
	span := parent.Children[0]
	if !parent.Contains(parent) || !parent.Contains(span) || !parent.Contains(span.Children[0]) {
		t.Error("parent should contain itself and its descendants")
	}
	if parent.Contains(NewElement("em", nil)) {
		t.Error("parent should not contain unrelated node")
	}
}

func TestIndexInParent(t *testing.T) {
	parent := makeTree()
	if parent.IndexInParent() != -1 {
		t.Error("root node should have index -1")
	}
	if parent.Children[1].IndexInParent() != 1 {
		t.Error("second child should be at index 1")
	}
}

func TestClassHelpers(t *testing.T) {
	n := NewElement("div", map[string]string{"class": "a  b"})
	if !n.HasClass("a") || n.HasClass("c") {
		t.Fatal("HasClass mismatch")
	}
	n.AddClass("c")
	n.AddClass("a")
	if got := n.Attr("class"); got != "a b c" {
		t.Errorf("class = %q, want %q", got, "a b c")
	}
	n.RemoveClass("b")
	if got := n.Attr("class"); got != "a c" {
		t.Errorf("class = %q, want %q", got, "a c")
	}
	if n.ToggleClass("a") || !n.ToggleClass("z") {
		t.Error("ToggleClass should report presence afterwards")
	}
}

func TestFindAllAndElementByID(t *testing.T) {
	parent := makeTree()
	parent.Children[1].SetAttribute("id", "para")
	if got := parent.ElementByID("para"); got != parent.Children[1] {
		t.Errorf("ElementByID returned %v", got)
	}
	all := parent.FindAll(func(n *Node) bool { return true })
	if len(all) != 2 {
		t.Errorf("FindAll should skip the root and text nodes, got %d", len(all))
	}
}

func TestSerializeOuter(t *testing.T) {
	parent := makeTree()
	got := parent.SerializeOuter()
	want := `<div id="parent"><span>hello</span><p>world</p></div>`
	if got != want {
		t.Errorf("SerializeOuter() = %q, want %q", got, want)
	}
}

func TestSerializeEscaping(t *testing.T) {
	n := NewElement("input", map[string]string{"value": `"1" & <2>`})
	got := n.SerializeOuter()
	want := `<input value="&quot;1&quot; &amp; &lt;2&gt;">`
	if got != want {
		t.Errorf("SerializeOuter() = %q, want %q", got, want)
	}
}
