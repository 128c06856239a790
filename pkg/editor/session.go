package editor

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"charsheet/pkg/css"
	"charsheet/pkg/geom"
	"charsheet/pkg/html"
	"charsheet/pkg/notify"
)

// State is a session's place in its lifecycle. Sessions only move forward.
type State int

const (
	StateIdle State = iota
	// StateOpen sessions own the dialog and the guide.
	StateOpen
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	}
	return "idle"
}

// Session is one edit of one field. Every control interaction changes the
// live geometry by one pixel and writes it to the field immediately.
type Session struct {
	ctx      context.Context
	registry *Registry
	target   *html.Node
	class    Classification
	original geom.Geometry
	live     geom.Geometry
	state    State
	dialog   *html.Node
	inputs   map[geom.Field]*html.Node
	detach   []func()
}

func (s *Session) Key() string                    { return s.class.Key }
func (s *Session) Classification() Classification { return s.class }
func (s *Session) Target() *html.Node             { return s.target }
func (s *Session) State() State                   { return s.state }
func (s *Session) Dialog() *html.Node             { return s.dialog }

// Original returns the geometry captured when the session opened.
func (s *Session) Original() geom.Geometry { return s.original }

// Geometry returns the live geometry.
func (s *Session) Geometry() geom.Geometry { return s.live }

// Input returns the numeric control for f.
func (s *Session) Input(f geom.Field) *html.Node { return s.inputs[f] }

// Press dispatches a keydown for key to the dialog, as a focused keyboard
// would. It reports whether the key was handled.
func (s *Session) Press(key string) bool {
	if s.state != StateOpen {
		return false
	}
	return !s.dialog.Dispatch(html.NewKeyEvent(key))
}

// Click dispatches a click on the dialog button for a.
func (s *Session) Click(a Action) bool {
	if s.state != StateOpen {
		return false
	}
	btn := s.dialog.Find(func(n *html.Node) bool { return n.Attr("data-action") == string(a) })
	if btn == nil {
		return false
	}
	return !btn.Dispatch(html.NewEvent("click"))
}

// SetField types v into the numeric control for f and fires its change
// event.
func (s *Session) SetField(f geom.Field, v int) {
	input := s.inputs[f]
	if s.state != StateOpen || input == nil {
		return
	}
	input.SetAttribute("value", strconv.Itoa(v))
	input.Dispatch(html.NewEvent("change"))
}

func (s *Session) onKey(e *html.Event) {
	a, ok := KeyAction(e.Key)
	if !ok {
		return
	}
	e.PreventDefault()
	e.StopPropagation()
	s.perform(a)
}

func (s *Session) onClick(e *html.Event) {
	btn := css.Closest(e.Target, "[data-action]")
	if btn == nil || !s.dialog.Contains(btn) {
		return
	}
	e.PreventDefault()
	e.StopPropagation()
	s.perform(Action(btn.Attr("data-action")))
}

func (s *Session) onChange(e *html.Event) {
	f := geom.Field(e.Target.Attr("name"))
	if _, ok := s.inputs[f]; !ok || s.state != StateOpen {
		return
	}
	if v, err := strconv.Atoi(strings.TrimSpace(e.Target.Attr("value"))); err == nil {
		s.live = s.live.With(f, v)
		s.preview()
	}
	s.syncInput(f)
}

func (s *Session) perform(a Action) {
	if s.state != StateOpen {
		return
	}
	if d, ok := actionDeltas[a]; ok {
		s.live = s.live.With(d.field, s.live.Get(d.field)+d.by)
		s.syncInput(d.field)
		s.preview()
		return
	}
	switch a {
	case ActionApply:
		s.Apply()
	case ActionReset:
		s.Reset()
	case ActionCancel:
		s.Cancel()
	}
}

func (s *Session) preview() {
	s.registry.applier.Apply(s.target, s.live, s.class.Channel)
}

func (s *Session) syncInput(f geom.Field) {
	if input := s.inputs[f]; input != nil {
		input.SetAttribute("value", strconv.Itoa(s.live.Get(f)))
	}
}

// readInputs returns the geometry shown in the controls. Unreadable
// controls keep the live value.
func (s *Session) readInputs() geom.Geometry {
	g := s.live
	for _, f := range geom.Fields {
		if v, err := strconv.Atoi(strings.TrimSpace(s.inputs[f].Attr("value"))); err == nil {
			g = g.With(f, v)
		}
	}
	return g
}

// Apply writes the final geometry, persists it under the field's key and
// closes the session. A persistence failure is reported to the notifier;
// the session closes either way.
func (s *Session) Apply() {
	if s.state != StateOpen {
		return
	}
	r := s.registry
	g := s.readInputs()
	s.live = g
	s.preview()
	err := r.store.Set(s.ctx, r.entityID, s.class.Key, g)
	s.close()
	if err != nil {
		r.logger.Error("save override", "key", s.class.Key, "err", err)
		r.notifier.Notify(fmt.Sprintf("Could not save layout for %s: %v", s.class.Key, err), notify.LevelError)
		return
	}
	r.logger.Debug("saved override", "key", s.class.Key, "geometry", g)
	r.notifier.Notify(fmt.Sprintf("Saved layout for %s", s.class.Key), notify.LevelInfo)
}

// Reset deletes the field's override, so the next render uses the default
// layout, and closes the session.
func (s *Session) Reset() {
	if s.state != StateOpen {
		return
	}
	r := s.registry
	err := r.store.Delete(s.ctx, r.entityID, s.class.Key)
	s.close()
	if err != nil {
		r.logger.Error("delete override", "key", s.class.Key, "err", err)
		r.notifier.Notify(fmt.Sprintf("Could not reset layout for %s: %v", s.class.Key, err), notify.LevelError)
		return
	}
	r.notifier.Notify(fmt.Sprintf("Reset layout for %s", s.class.Key), notify.LevelInfo)
}

// Cancel closes without persisting. The previewed style stays on the field
// until the sheet is rendered again.
func (s *Session) Cancel() {
	s.close()
}

func (s *Session) close() {
	if s.state != StateOpen {
		return
	}
	s.state = StateClosed
	if s.registry.guide.Target() == s.target {
		s.registry.guide.Hide()
	}
	for _, detach := range s.detach {
		detach()
	}
	s.detach = nil
	s.dialog.Remove()
	s.registry.deregister(s)
}
