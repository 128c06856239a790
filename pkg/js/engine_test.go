package js

import (
	"io"
	"strings"
	"testing"

	"charsheet/pkg/calibrate"
	"charsheet/pkg/css"
	"charsheet/pkg/html"

	"github.com/charmbracelet/log"
)

func parseHTML(t *testing.T, s string) *html.Document {
	t.Helper()
	doc, err := html.Parse(s)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return doc
}

// run appends script to doc and executes it on a quiet engine.
func run(t *testing.T, doc *html.Document, script string, opts ...Option) *Engine {
	t.Helper()
	engine := New(append([]Option{WithLogger(log.New(io.Discard))}, opts...)...)
	doc.Scripts = append(doc.Scripts, script)
	if err := engine.Execute(doc); err != nil {
		t.Fatal(err)
	}
	return engine
}

func TestGetElementById(t *testing.T) {
	doc := parseHTML(t, `<div id="foo">hello</div>`)
	run(t, doc, `
		var el = document.getElementById("foo");
		if (el === null) throw new Error("element not found");
		if (el.id !== "foo") throw new Error("wrong id: " + el.id);
		if (el.tagName !== "DIV") throw new Error("wrong tagName: " + el.tagName);
		if (document.getElementById("nope") !== null) throw new Error("expected null");
	`)
}

func TestProxyIdentity(t *testing.T) {
	doc := parseHTML(t, `<div id="a"><span class="x"></span></div>`)
	run(t, doc, `
		var a = document.getElementById("a");
		if (a !== document.querySelector("#a")) throw new Error("same node, different proxy");
		if (a.firstElementChild.parentElement !== a) throw new Error("parentElement");
		if (!a.contains(document.querySelector(".x"))) throw new Error("contains");
	`)
}

func TestQuerySelectors(t *testing.T) {
	doc := parseHTML(t, `<div id="sheet"><span class="pos-ac"></span><span class="cs-ability attr-str"></span><span class="cs-ability attr-dex"></span></div>`)
	run(t, doc, `
		var all = document.querySelectorAll(".cs-ability");
		if (all.length !== 2) throw new Error("expected 2, got " + all.length);
		var sheet = document.getElementById("sheet");
		if (sheet.querySelector(".pos-ac") === null) throw new Error("scoped querySelector");
		if (!all[1].matches(".attr-dex")) throw new Error("matches");
		if (all[0].closest("#sheet") !== sheet) throw new Error("closest");
		if (document.getElementsByClassName("attr-str").length !== 1) throw new Error("by class");
	`)
}

func TestClassList(t *testing.T) {
	tests := []struct {
		name   string
		script string
		want   string
	}{
		{"add", `el.classList.add("b", "c")`, "a b c"},
		{"add duplicate", `el.classList.add("a")`, "a"},
		{"remove", `el.classList.remove("a")`, ""},
		{"toggle on", `el.classList.toggle("b")`, "a b"},
		{"toggle forced off", `el.classList.toggle("a", false)`, ""},
		{"replace", `el.classList.replace("a", "z")`, "z"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := parseHTML(t, `<div id="el" class="a"></div>`)
			run(t, doc, `var el = document.getElementById("el"); `+tt.script+`;`)
			if got := doc.Root.ElementByID("el").Attr("class"); got != tt.want {
				t.Errorf("class = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStyleProperties(t *testing.T) {
	doc := parseHTML(t, `<div id="el" style="color: red"></div>`)
	run(t, doc, `
		var el = document.getElementById("el");
		el.style.setProperty("--pos-top", "40px");
		el.style.setProperty("border", "2px dashed #ff6400", "important");
		el.style.marginLeft = "3px";
		if (el.style.getPropertyValue("--pos-top") !== "40px") throw new Error("custom property");
		if (el.style.getPropertyPriority("border") !== "important") throw new Error("priority");
		if (el.style.color !== "red") throw new Error("color: " + el.style.color);
		el.style.removeProperty("color");
	`)
	el := doc.Root.ElementByID("el")
	if v, ok := css.GetProperty(el, "margin-left"); !ok || v != "3px" {
		t.Errorf("margin-left = %q, %v", v, ok)
	}
	if _, ok := css.GetProperty(el, "color"); ok {
		t.Error("color should be removed")
	}
	if d, ok := css.InlineStyle(el).Lookup("border"); !ok || !d.Important {
		t.Errorf("border = %+v, want important", d)
	}
}

func TestTextAndInnerHTMLNotifyObservers(t *testing.T) {
	doc := parseHTML(t, `<ul id="tabs"><li>one</li></ul><p id="p">old</p>`)
	tabs := doc.Root.ElementByID("tabs")
	var added int
	obs := html.NewMutationObserver(func(r html.MutationRecord) { added += len(r.Added) })
	obs.Observe(tabs)

	run(t, doc, `
		document.getElementById("tabs").innerHTML = "<li>a</li><li>b</li>";
		document.getElementById("p").textContent = "new";
		var li = document.createElement("li");
		document.getElementById("tabs").appendChild(li);
	`)
	if added != 3 {
		t.Errorf("observer saw %d additions, want 3", added)
	}
	if got := len(tabs.ElementChildren()); got != 3 {
		t.Errorf("tabs has %d children, want 3", got)
	}
	if got := doc.Root.ElementByID("p").TextContent(); got != "new" {
		t.Errorf("textContent = %q", got)
	}
}

func TestEvents(t *testing.T) {
	doc := parseHTML(t, `<div id="outer"><button id="b"></button></div>`)
	run(t, doc, `
		var seen = [];
		var outer = document.getElementById("outer");
		var b = document.getElementById("b");
		function onKey(e) { seen.push(e.key); e.preventDefault(); }
		outer.addEventListener("keydown", onKey);
		var ok = b.dispatchEvent({type: "keydown", key: "ArrowUp"});
		if (ok) throw new Error("preventDefault not reported");
		if (seen.join() !== "ArrowUp") throw new Error("bubbling: " + seen.join());
		outer.removeEventListener("keydown", onKey);
		if (!b.dispatchEvent("keydown")) throw new Error("listener still attached");
	`)
	if n := doc.Root.ElementByID("outer").ListenerCount("keydown"); n != 0 {
		t.Errorf("outer has %d keydown listeners, want 0", n)
	}
}

func TestGoDispatchReachesScript(t *testing.T) {
	doc := parseHTML(t, `<div id="sheet"></div>`)
	engine := run(t, doc, `
		document.getElementById("sheet").addEventListener("resize", function (e) {
			e.target.setAttribute("data-resized", e.detail.width);
		});
	`)
	sheet := doc.Root.ElementByID("sheet")
	ev := html.NewEvent("resize")
	ev.Detail["width"] = "640"
	sheet.Dispatch(ev)
	if got := sheet.Attr("data-resized"); got != "640" {
		t.Errorf("data-resized = %q", got)
	}

	engine.Close()
	if n := sheet.ListenerCount("resize"); n != 0 {
		t.Errorf("Close left %d listeners", n)
	}
}

func TestScriptErrorNamesScript(t *testing.T) {
	doc := parseHTML(t, `<div></div>`)
	doc.Scripts = append(doc.Scripts, `console.log("first")`, `throw new Error("boom")`)
	err := New(WithLogger(log.New(io.Discard))).Execute(doc)
	if err == nil || !strings.Contains(err.Error(), "script 1") {
		t.Fatalf("err = %v, want script 1 failure", err)
	}
}

func TestRunRequiresDocument(t *testing.T) {
	if _, err := New().Run(`1`); err == nil {
		t.Fatal("expected error without a bound document")
	}
}

func TestConsoleUsesLogger(t *testing.T) {
	var sb strings.Builder
	doc := parseHTML(t, `<div></div>`)
	run(t, doc, `console.warn("tab", 3)`, WithLogger(log.New(&sb)))
	if !strings.Contains(sb.String(), "tab 3") {
		t.Errorf("log output %q missing message", sb.String())
	}
}

type fakeHost struct {
	edited  *html.Node
	keys    []string
	actions []string
	force   bool
}

func (h *fakeHost) Edit(n *html.Node) bool { h.edited = n; return true }
func (h *fakeHost) Press(k string) bool    { h.keys = append(h.keys, k); return h.edited != nil }
func (h *fakeHost) Click(a string) bool    { h.actions = append(h.actions, a); return h.edited != nil }

func (h *fakeHost) ActiveKey() (string, bool) {
	if h.edited == nil {
		return "", false
	}
	return "ac", true
}

func (h *fakeHost) Calibrate(_ *html.Node, force bool) calibrate.Result {
	h.force = force
	return calibrate.Result{
		Model:  calibrate.Model{BaseTop: 10, StepTop: 40},
		Source: calibrate.SourceFitted,
		Placed: 4,
	}
}

func TestLayoutGlobal(t *testing.T) {
	doc := parseHTML(t, `<div id="sheet"><span id="ac" class="pos-ac"></span><ul id="tabs"></ul></div>`)
	host := &fakeHost{}
	run(t, doc, `
		if (layout.active !== null) throw new Error("no session yet");
		layout.edit(document.getElementById("ac"));
		if (layout.active !== "ac") throw new Error("active: " + layout.active);
		layout.press("ArrowUp");
		layout.click("apply");
		var r = layout.calibrate(document.getElementById("tabs"), true);
		if (r.stepTop !== 40 || r.placed !== 4) throw new Error("result: " + JSON.stringify(r));
		if (r.source !== "fitted") throw new Error("source: " + r.source);
	`, WithHost(host))

	if host.edited != doc.Root.ElementByID("ac") {
		t.Error("edit did not receive the #ac node")
	}
	if len(host.keys) != 1 || host.keys[0] != "ArrowUp" {
		t.Errorf("keys = %v", host.keys)
	}
	if len(host.actions) != 1 || host.actions[0] != "apply" {
		t.Errorf("actions = %v", host.actions)
	}
	if !host.force {
		t.Error("force flag not passed")
	}
}

func TestLayoutEditRejectsNonNode(t *testing.T) {
	doc := parseHTML(t, `<div></div>`)
	doc.Scripts = append(doc.Scripts, `layout.edit("ac")`)
	err := New(WithLogger(log.New(io.Discard)), WithHost(&fakeHost{})).Execute(doc)
	if err == nil {
		t.Fatal("expected TypeError for non-node argument")
	}
}
