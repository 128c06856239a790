package sheet

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"charsheet/pkg/actor"
	"charsheet/pkg/calibrate"
	"charsheet/pkg/config"
	"charsheet/pkg/css"
	"charsheet/pkg/editor"
	"charsheet/pkg/geom"
	"charsheet/pkg/html"
	"charsheet/pkg/notify"
	"charsheet/pkg/store"
)

var (
	owner    = User{ID: "u-owner"}
	stranger = User{ID: "u-stranger"}
	gm       = User{ID: "u-gm", Privileged: true}
)

type fixture struct {
	sheet *Sheet
	actor *actor.Actor
	store *store.Memory
	rec   *notify.Recorder
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	a := actor.New("Brannoc", owner.ID, actor.ClassFighter)
	a.Scores[actor.STR] = 16
	a.AddItem("Rope", 1)
	f := &fixture{actor: a, store: store.NewMemory(store.DefaultNamespace), rec: &notify.Recorder{}}
	base := []Option{WithLogger(log.New(io.Discard)), WithNotifier(f.rec), WithUser(owner)}
	f.sheet = New(a, f.store, append(base, opts...)...)
	t.Cleanup(func() { f.sheet.Close() })
	return f
}

func (f *fixture) render(t *testing.T) *html.Node {
	t.Helper()
	if err := f.sheet.Render(context.Background()); err != nil {
		t.Fatalf("Render: %v", err)
	}
	return f.sheet.Root()
}

// field returns the first field classified under key.
func field(t *testing.T, root *html.Node, key string) *html.Node {
	t.Helper()
	for _, n := range editor.Fields(root) {
		if editor.ClassifyNode(n).Key == key {
			return n
		}
	}
	t.Fatalf("no field %q", key)
	return nil
}

func TestRenderBuildsClassifiedFields(t *testing.T) {
	f := newFixture(t)
	root := f.render(t)
	if root.Attr("id") != RootID {
		t.Fatalf("root id = %q", root.Attr("id"))
	}
	keys := map[string]bool{}
	for _, n := range editor.Fields(root) {
		keys[editor.ClassifyNode(n).Key] = true
	}
	for _, want := range []string{
		"pos-name", "pos-armor-class", "pos-hit-points",
		"ability-str", "ability-cha",
		"save-death", "save-spells",
	} {
		if !keys[want] {
			t.Errorf("missing field %q", want)
		}
	}
	if !strings.Contains(field(t, root, "ability-str").TextContent(), "+2") {
		t.Errorf("strength modifier not rendered: %q", field(t, root, "ability-str").TextContent())
	}
	if got := root.Attr("data-mode"); got != editor.ModeView {
		t.Errorf("data-mode = %q", got)
	}
}

func TestSigned(t *testing.T) {
	tests := map[int]string{2: "+2", 0: "0", -1: "-1"}
	for in, want := range tests {
		if got := signed(in); got != want {
			t.Errorf("signed(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestRenderAppliesStoredOverrides(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	want := geom.Geometry{Left: 30, Top: 200, Width: 150, Height: 24}
	if err := f.store.Set(ctx, f.actor.ID, "ability-str", want); err != nil {
		t.Fatal(err)
	}
	if err := f.store.Set(ctx, f.actor.ID, "pos-name", want); err != nil {
		t.Fatal(err)
	}
	root := f.render(t)

	str := field(t, root, "ability-str")
	for prop, v := range map[string]string{"--pos-left": "30px", "--pos-height": "24px", "left": "30px", "position": "absolute"} {
		if got, _ := css.GetProperty(str, prop); got != v {
			t.Errorf("ability-str %s = %q, want %q", prop, got, v)
		}
	}
	name := field(t, root, "pos-name")
	if got, _ := css.GetProperty(name, "--pos-top"); got != "200px" {
		t.Errorf("pos-name --pos-top = %q", got)
	}
	if _, ok := css.GetProperty(name, "left"); ok {
		t.Error("custom-property field got a direct left")
	}
	for _, n := range []*html.Node{str, name} {
		if !n.HasClass(editor.MarkerClass) {
			t.Errorf("%s lacks %s", n.Attr("class"), editor.MarkerClass)
		}
	}
	if g := f.sheet.registry.Guide().Target(); g != nil {
		t.Error("render left a guide showing")
	}
}

func TestTriggerAuthorization(t *testing.T) {
	tests := []struct {
		name string
		mode string
		user User
		want bool
	}{
		{"stranger in view mode", editor.ModeView, stranger, false},
		{"owner in view mode", editor.ModeView, owner, true},
		{"gm in view mode", editor.ModeView, gm, true},
		{"stranger in edit mode", editor.ModeEdit, stranger, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, WithMode(tt.mode))
			root := f.render(t)
			got := f.sheet.Trigger(field(t, root, "pos-armor-class"), tt.user) != nil
			if got != tt.want {
				t.Errorf("Trigger opened = %v, want %v", got, tt.want)
			}
			if !tt.want && f.sheet.Registry().Active() != nil {
				t.Error("refused trigger left a session")
			}
		})
	}
}

func TestTriggerResolvesEnclosingField(t *testing.T) {
	f := newFixture(t)
	root := f.render(t)
	inner := css.QuerySelectorAll(root, ".attr-dex")[0]
	s := f.sheet.Trigger(inner, owner)
	if s == nil {
		t.Fatal("no session")
	}
	if s.Key() != "ability-dex" || s.Target() != field(t, root, "ability-dex") {
		t.Errorf("session on %q (%s)", s.Key(), s.Target().Attr("class"))
	}
}

func TestEditEventOpensSession(t *testing.T) {
	f := newFixture(t)
	root := f.render(t)
	css.QuerySelectorAll(root, ".attr-str")[0].Dispatch(html.NewEvent(EditEvent))
	active := f.sheet.Registry().Active()
	if active == nil || active.Key() != "ability-str" {
		t.Fatalf("active session = %v", active)
	}

	// A second trigger replaces the first.
	field(t, root, "save-death").Dispatch(html.NewEvent(EditEvent))
	if got := f.sheet.Registry().Active(); got == active || got.Key() != "save-death" {
		t.Errorf("active after second trigger = %v", got.Key())
	}
	if active.State() != editor.StateClosed {
		t.Errorf("first session state = %v", active.State())
	}
	if n := len(css.QuerySelectorAll(root, "."+editor.DialogClass)); n != 1 {
		t.Errorf("%d dialogs in the sheet, want 1", n)
	}
}

func TestEditEventInsideDialogKeepsSession(t *testing.T) {
	f := newFixture(t)
	root := f.render(t)
	s := f.sheet.Trigger(field(t, root, "pos-armor-class"), owner)
	if s == nil {
		t.Fatal("no session")
	}
	buttons := css.QuerySelectorAll(s.Dialog(), "[data-action]")
	if len(buttons) == 0 {
		t.Fatal("dialog has no buttons")
	}
	for _, typ := range []string{"click", "click", EditEvent} {
		buttons[0].Dispatch(html.NewEvent(typ))
	}
	if got := f.sheet.Registry().Active(); got != s {
		t.Fatalf("active session = %v, want the original", got)
	}
	if s.State() != editor.StateOpen {
		t.Errorf("session state = %v", s.State())
	}
}

func TestEditEventOutsideFieldsIgnored(t *testing.T) {
	f := newFixture(t)
	root := f.render(t)
	root.Dispatch(html.NewEvent(EditEvent))
	if active := f.sheet.Registry().Active(); active != nil {
		t.Fatalf("session opened on %q", active.Key())
	}
	if f.sheet.Trigger(root, owner) != nil {
		t.Error("Trigger opened a session on the sheet root")
	}
	if root.HasClass(editor.MarkerClass) {
		t.Errorf("root class = %q", root.Attr("class"))
	}
	if _, ok := css.GetProperty(root, "--pos-left"); ok {
		t.Error("root gained --pos-left")
	}
}

func TestNudgeAndApplyPersists(t *testing.T) {
	f := newFixture(t)
	root := f.render(t)
	s := f.sheet.Trigger(field(t, root, "pos-armor-class"), owner)
	if s == nil {
		t.Fatal("no session")
	}
	orig := s.Original()
	for _, key := range []string{"ArrowDown", "ArrowDown", "ArrowRight", "+"} {
		if !s.Press(key) {
			t.Fatalf("key %q not handled", key)
		}
	}
	s.Click(editor.ActionApply)

	got, ok, err := f.store.Get(context.Background(), f.actor.ID, "pos-armor-class")
	if err != nil || !ok {
		t.Fatalf("Get = %v, %v", ok, err)
	}
	want := geom.Geometry{Left: orig.Left + 1, Top: orig.Top + 2, Width: orig.Width + 1, Height: orig.Height}
	if got != want {
		t.Errorf("stored %+v, want %+v", got, want)
	}
	if msg, _ := f.rec.Last(); msg.Level != notify.LevelInfo {
		t.Errorf("last notification = %+v", msg)
	}

	// The override survives a re-render.
	root = f.render(t)
	if v, _ := css.GetProperty(field(t, root, "pos-armor-class"), "--pos-top"); v != geom.Format(want.Top) {
		t.Errorf("--pos-top after re-render = %q", v)
	}
}

func TestTabsCalibratedOnRender(t *testing.T) {
	f := newFixture(t)
	root := f.render(t)
	tabs := root.ElementByID("sheet-tabs")
	m, ok := calibrate.ReadModel(tabs)
	if !ok || m.StepTop <= 0 {
		t.Fatalf("stored model = %+v, %v", m, ok)
	}
	anchors := css.QuerySelectorAll(tabs, TabAnchorSelector)
	if len(anchors) != len(DefaultTabs) {
		t.Fatalf("%d anchors", len(anchors))
	}
	for i, a := range anchors {
		if pos, _ := css.GetProperty(a, "position"); pos != "absolute" {
			t.Errorf("anchor %d position = %q", i, pos)
		}
		if top, _ := css.GetProperty(a, "top"); top != geom.FormatFloat(m.At(i).Top) {
			t.Errorf("anchor %d top = %q, want %q", i, top, geom.FormatFloat(m.At(i).Top))
		}
	}
	if f.sheet.Calibrator().Watching() != 1 {
		t.Errorf("watching %d containers", f.sheet.Calibrator().Watching())
	}
}

func TestResizeReplacesTabs(t *testing.T) {
	f := newFixture(t)
	root := f.render(t)
	tabs := root.ElementByID("sheet-tabs")
	last := css.QuerySelectorAll(tabs, TabAnchorSelector)[3]
	want, _ := css.GetProperty(last, "top")
	css.SetProperty(last, "top", "999px", false)

	f.sheet.Resize(640, 900)
	if got, _ := css.GetProperty(last, "top"); got != want {
		t.Errorf("top after resize = %q, want %q", got, want)
	}
	if w, h := f.sheet.Viewport(); w != 640 || h != 900 {
		t.Errorf("viewport = %dx%d", w, h)
	}
}

func TestRecalibrate(t *testing.T) {
	f := newFixture(t, WithTabModels(map[string]calibrate.Model{"sheet-tabs": {BaseTop: 5, StepTop: 30}}))
	f.render(t)
	res := f.sheet.Recalibrate(true)
	got, ok := res["sheet-tabs"]
	if !ok {
		t.Fatalf("results = %v", res)
	}
	if got.Source != calibrate.SourceConfig || got.Model.StepTop != 30 || got.Placed != len(DefaultTabs) {
		t.Errorf("result = %+v", got)
	}
}

func TestScriptsDriveLayout(t *testing.T) {
	f := newFixture(t, WithScripts(`
		var ac = document.querySelector(".pos-armor-class");
		if (!layout.edit(ac)) throw new Error("edit refused");
		if (layout.active !== "pos-armor-class") throw new Error("active: " + layout.active);
		layout.press("ArrowUp");
		layout.click("apply");
	`))
	f.render(t)
	if _, ok, _ := f.store.Get(context.Background(), f.actor.ID, "pos-armor-class"); !ok {
		t.Error("script apply did not persist")
	}
	if f.sheet.Registry().Active() != nil {
		t.Error("session still open after apply")
	}
}

func TestFailingScriptDoesNotFailRender(t *testing.T) {
	f := newFixture(t, WithScripts(`throw new Error("bad macro")`))
	f.render(t)
	msg, ok := f.rec.Last()
	if !ok || msg.Level != notify.LevelWarn || !strings.Contains(msg.Text, "bad macro") {
		t.Errorf("last notification = %+v, %v", msg, ok)
	}
}

func TestCloseTearsDown(t *testing.T) {
	f := newFixture(t)
	root := f.render(t)
	s := f.sheet.Trigger(field(t, root, "pos-hit-points"), owner)
	if s == nil {
		t.Fatal("no session")
	}
	target := s.Target()

	if err := f.sheet.Close(); err != nil {
		t.Fatal(err)
	}
	if s.State() != editor.StateClosed {
		t.Errorf("session state = %v", s.State())
	}
	if _, ok := css.GetProperty(target, "border"); ok {
		t.Error("guide still drawn after close")
	}
	if n := f.sheet.Calibrator().Watching(); n != 0 {
		t.Errorf("calibrator still watching %d containers", n)
	}
	if n := root.ListenerCount(EditEvent); n != 0 {
		t.Errorf("%d edit listeners left", n)
	}
	if err := f.sheet.Render(context.Background()); !errors.Is(err, ErrClosed) {
		t.Errorf("Render after Close = %v", err)
	}
	if f.sheet.Trigger(target, owner) != nil {
		t.Error("Trigger after Close opened a session")
	}
	if err := f.sheet.Close(); err != nil {
		t.Errorf("second Close = %v", err)
	}

	// The caller owns the store.
	if _, _, err := f.store.Get(context.Background(), f.actor.ID, "x"); err != nil {
		t.Errorf("store closed by sheet: %v", err)
	}
}

func TestOpenOwnsStore(t *testing.T) {
	ctx := context.Background()
	a := actor.New("Wren", owner.ID, actor.ClassThief)
	s, err := Open(ctx, config.Default(), a, WithLogger(log.New(io.Discard)))
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Render(ctx); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if _, _, err := s.Store().Get(ctx, a.ID, "pos-name"); !errors.Is(err, store.ErrClosed) {
		t.Errorf("Get after Close = %v, want ErrClosed", err)
	}
}

func TestRenderPNG(t *testing.T) {
	f := newFixture(t, WithViewport(400, 500))
	var buf bytes.Buffer
	if err := f.sheet.RenderPNG(&buf); err == nil {
		t.Error("RenderPNG before Render succeeded")
	}
	f.render(t)
	if err := f.sheet.RenderPNG(&buf); err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")) {
		t.Error("output is not a PNG")
	}
}
