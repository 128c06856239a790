package main

import (
	"context"
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"charsheet/pkg/editor"
	"charsheet/pkg/html"
	"charsheet/pkg/notify"
	"charsheet/pkg/sheet"
)

// typedKeys maps window keys to the DOM keys the session dialog handles.
var typedKeys = map[fyne.KeyName]string{
	fyne.KeyUp:    "ArrowUp",
	fyne.KeyDown:  "ArrowDown",
	fyne.KeyLeft:  "ArrowLeft",
	fyne.KeyRight: "ArrowRight",
}

// typedRunes are passed through as keys.
var typedRunes = map[rune]bool{'+': true, '=': true, '-': true, '[': true, ']': true}

type editorWindow struct {
	ctx    context.Context
	sheet  *sheet.Sheet
	user   sheet.User
	fields map[string]*html.Node

	window   fyne.Window
	preview  *canvas.Image
	picker   *widget.Select
	geometry *widget.Label
	status   *widget.Label
}

func newEditorWindow(ctx context.Context, a fyne.App, user sheet.User, title string) *editorWindow {
	return &editorWindow{
		ctx:      ctx,
		user:     user,
		window:   a.NewWindow("charsheet: " + title),
		geometry: widget.NewLabel("No field selected"),
		status:   widget.NewLabel(""),
	}
}

// notifier shows sheet notifications on the status line.
func (ew *editorWindow) notifier() notify.Notifier {
	return notify.Func(func(msg string, level notify.Level) {
		ew.status.SetText(fmt.Sprintf("%s: %s", level, msg))
	})
}

// attach builds the window content around a rendered sheet.
func (ew *editorWindow) attach(s *sheet.Sheet, previewSize fyne.Size) {
	ew.sheet = s
	ew.preview = canvas.NewImageFromImage(nil)
	ew.preview.FillMode = canvas.ImageFillContain
	ew.preview.SetMinSize(previewSize)
	ew.picker = widget.NewSelect(nil, func(key string) { ew.edit(key) })
	ew.picker.PlaceHolder = "Pick a field"
	ew.indexFields()

	ew.window.SetContent(container.NewBorder(nil, ew.status, nil, ew.controls(), ew.preview))
	ew.window.Canvas().SetOnTypedKey(ew.onKey)
	ew.window.Canvas().SetOnTypedRune(func(r rune) {
		if typedRunes[r] {
			ew.press(string(r))
		}
	})
	ew.refresh()
}

func (ew *editorWindow) controls() fyne.CanvasObject {
	action := func(label string, a editor.Action) *widget.Button {
		return widget.NewButton(label, func() { ew.click(a) })
	}
	compass := container.NewGridWithColumns(3,
		layout.NewSpacer(), action("N", editor.ActionUp), layout.NewSpacer(),
		action("W", editor.ActionLeft), layout.NewSpacer(), action("E", editor.ActionRight),
		layout.NewSpacer(), action("S", editor.ActionDown), layout.NewSpacer(),
	)
	size := container.NewGridWithColumns(2,
		action("Width -", editor.ActionWidthDec), action("Width +", editor.ActionWidthInc),
		action("Height -", editor.ActionHeightDec), action("Height +", editor.ActionHeightInc),
	)
	apply := action("Apply", editor.ActionApply)
	apply.Importance = widget.HighImportance
	closing := container.NewHBox(apply, action("Reset", editor.ActionReset), action("Cancel", editor.ActionCancel))

	recalibrate := widget.NewButton("Recalibrate tabs", func() {
		for id, r := range ew.sheet.Recalibrate(true) {
			ew.status.SetText(fmt.Sprintf("%s: %s model, %d tabs placed", id, r.Source, r.Placed))
		}
		ew.refresh()
	})

	return container.NewVBox(
		widget.NewLabel("Field"), ew.picker, ew.geometry,
		widget.NewSeparator(), compass, size,
		widget.NewSeparator(), closing,
		widget.NewSeparator(), recalibrate,
	)
}

// indexFields collects the classified fields of the rendered sheet.
func (ew *editorWindow) indexFields() {
	ew.fields = make(map[string]*html.Node)
	var keys []string
	for _, n := range editor.Fields(ew.sheet.Root()) {
		key := editor.ClassifyNode(n).Key
		if _, dup := ew.fields[key]; !dup {
			ew.fields[key] = n
			keys = append(keys, key)
		}
	}
	ew.picker.Options = keys
	ew.picker.Refresh()
}

func (ew *editorWindow) edit(key string) {
	target, ok := ew.fields[key]
	if !ok {
		return
	}
	if ew.sheet.Trigger(target, ew.user) == nil {
		dialog.ShowError(fmt.Errorf("%s may not edit this sheet", ew.user.ID), ew.window)
	}
	ew.refresh()
}

func (ew *editorWindow) onKey(ev *fyne.KeyEvent) {
	switch ev.Name {
	case fyne.KeyReturn, fyne.KeyEnter:
		ew.click(editor.ActionApply)
	case fyne.KeyEscape:
		ew.click(editor.ActionCancel)
	default:
		if key, ok := typedKeys[ev.Name]; ok {
			ew.press(key)
		}
	}
}

func (ew *editorWindow) press(key string) {
	if ew.sheet.Press(key) {
		ew.refresh()
	}
}

// click performs a on the open session. When that closes the session the
// sheet is rendered again, so the preview shows what is stored.
func (ew *editorWindow) click(a editor.Action) {
	if !ew.sheet.Click(string(a)) {
		return
	}
	if ew.sheet.Registry().Active() == nil {
		if err := ew.sheet.Render(ew.ctx); err != nil {
			ew.status.SetText(err.Error())
		}
		ew.indexFields()
	}
	ew.refresh()
}

// refresh repaints the preview and the geometry readout.
func (ew *editorWindow) refresh() {
	if active := ew.sheet.Registry().Active(); active != nil {
		g := active.Geometry()
		ew.geometry.SetText(fmt.Sprintf("%s\nleft %d  top %d\nwidth %d  height %d", active.Key(), g.Left, g.Top, g.Width, g.Height))
	} else {
		ew.geometry.SetText("No field selected")
	}
	img, err := ew.sheet.Image()
	if err != nil {
		ew.status.SetText(err.Error())
		return
	}
	ew.preview.Image = img
	ew.preview.Refresh()
}
