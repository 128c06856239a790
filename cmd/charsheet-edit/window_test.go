package main

import (
	"context"
	"io"
	"slices"
	"strings"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"github.com/charmbracelet/log"

	"charsheet/pkg/actor"
	"charsheet/pkg/css"
	"charsheet/pkg/editor"
	"charsheet/pkg/geom"
	"charsheet/pkg/sheet"
	"charsheet/pkg/store"
)

func newTestWindow(t *testing.T) (*editorWindow, *store.Memory, *actor.Actor) {
	t.Helper()
	a := test.NewApp()
	t.Cleanup(a.Quit)

	act := actor.New("Brannoc", "u-owner", actor.ClassFighter)
	user := sheet.User{ID: act.OwnerID}
	st := store.NewMemory(store.DefaultNamespace)
	ctx := context.Background()

	ew := newEditorWindow(ctx, a, user, act.Name)
	s := sheet.New(act, st,
		sheet.WithLogger(log.New(io.Discard)),
		sheet.WithUser(user),
		sheet.WithNotifier(ew.notifier()),
	)
	t.Cleanup(func() { s.Close() })
	if err := s.Render(ctx); err != nil {
		t.Fatalf("Render: %v", err)
	}
	ew.attach(s, fyne.NewSize(380, 480))
	return ew, st, act
}

func TestPickerListsFields(t *testing.T) {
	ew, _, _ := newTestWindow(t)
	for _, key := range []string{"pos-armor-class", "ability-str", "save-death"} {
		if !slices.Contains(ew.picker.Options, key) {
			t.Errorf("picker options %v lack %q", ew.picker.Options, key)
		}
	}
}

func TestClosingActionsRenderAgain(t *testing.T) {
	const key = "pos-armor-class"
	ew, st, act := newTestWindow(t)
	ctx := context.Background()

	ew.edit(key)
	if ew.sheet.Registry().Active() == nil {
		t.Fatal("no session after picking a field")
	}
	ew.press("ArrowRight")
	before := ew.fields[key]
	ew.click(editor.ActionApply)

	saved, ok, err := st.Get(ctx, act.ID, key)
	if err != nil || !ok {
		t.Fatalf("Get after apply = %v, %v", ok, err)
	}
	if ew.fields[key] == before {
		t.Error("fields not re-indexed after apply")
	}
	if v, _ := css.GetProperty(ew.fields[key], "--pos-left"); v != geom.Format(saved.Left) {
		t.Errorf("--pos-left after apply = %q, want %q", v, geom.Format(saved.Left))
	}

	ew.edit(key)
	ew.press("ArrowRight")
	ew.click(editor.ActionReset)
	if _, ok, _ := st.Get(ctx, act.ID, key); ok {
		t.Error("override still stored after reset")
	}
	if v, ok := css.GetProperty(ew.fields[key], "--pos-left"); ok {
		t.Errorf("reset field still previews --pos-left %q", v)
	}
	if !strings.Contains(ew.status.Text, "Reset layout for "+key) {
		t.Errorf("status = %q", ew.status.Text)
	}
	if ew.geometry.Text != "No field selected" {
		t.Errorf("geometry readout = %q", ew.geometry.Text)
	}
}

func TestCancelDropsPreview(t *testing.T) {
	const key = "pos-armor-class"
	ew, _, _ := newTestWindow(t)
	ew.edit(key)
	ew.onKey(&fyne.KeyEvent{Name: fyne.KeyRight})
	if _, ok := css.GetProperty(ew.fields[key], "--pos-left"); !ok {
		t.Fatal("nudge not previewed")
	}
	ew.onKey(&fyne.KeyEvent{Name: fyne.KeyEscape})
	if ew.sheet.Registry().Active() != nil {
		t.Fatal("escape left the session open")
	}
	if _, ok := css.GetProperty(ew.fields[key], "--pos-left"); ok {
		t.Error("cancelled nudge still on the rendered sheet")
	}
}
