// Package sheet renders an actor's character sheet into an in-process
// document and hosts layout editing on it.
//
// A Sheet owns one editor Registry and one tab Calibrator. Render rebuilds
// the document from the template, applies every persisted layout override,
// calibrates the tab strip and runs sheet scripts. Close tears everything
// down: the open session is cancelled, observers and listeners are
// detached, and a store opened by the sheet is closed.
package sheet

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"strconv"

	"github.com/charmbracelet/log"
	"go.uber.org/multierr"

	"charsheet/pkg/actor"
	"charsheet/pkg/calibrate"
	"charsheet/pkg/config"
	"charsheet/pkg/css"
	"charsheet/pkg/editor"
	"charsheet/pkg/geom"
	"charsheet/pkg/html"
	"charsheet/pkg/js"
	"charsheet/pkg/layout"
	"charsheet/pkg/notify"
	"charsheet/pkg/render"
	"charsheet/pkg/store"
)

const (
	// RootID is the id of the sheet element in the template.
	RootID = "sheet"

	TabContainerSelector = ".cs-tabs"
	TabAnchorSelector    = ".cs-tab-anchor"

	// EditEvent on a field (or inside one) opens an editing session for
	// the sheet's user.
	EditEvent = "dblclick"
)

var ErrClosed = errors.New("sheet closed")

// User is who is looking at the sheet.
type User struct {
	ID         string
	Privileged bool
}

type Sheet struct {
	actor    *actor.Actor
	store    store.Store
	ownStore bool

	mode     string
	user     User
	width    int
	height   int
	tmplName string
	tmplText string
	tabs     []string
	scripts  []string
	models   map[string]calibrate.Model
	fontPath string
	logger   *log.Logger
	notifier notify.Notifier

	ctx      context.Context
	doc      *html.Document
	cascade  *css.Cascade
	registry *editor.Registry
	calib    *calibrate.Calibrator
	engine   *js.Engine
	detach   []func()
	closed   bool
}

type Option func(*Sheet)

func WithMode(mode string) Option           { return func(s *Sheet) { s.mode = mode } }
func WithUser(u User) Option                { return func(s *Sheet) { s.user = u } }
func WithLogger(l *log.Logger) Option       { return func(s *Sheet) { s.logger = l } }
func WithNotifier(n notify.Notifier) Option { return func(s *Sheet) { s.notifier = n } }
func WithFont(path string) Option           { return func(s *Sheet) { s.fontPath = path } }
func WithTabs(tabs ...string) Option        { return func(s *Sheet) { s.tabs = tabs } }
func WithScripts(scripts ...string) Option  { return func(s *Sheet) { s.scripts = scripts } }
func WithViewport(width, height int) Option { return func(s *Sheet) { s.width, s.height = width, height } }
func WithTabModels(m map[string]calibrate.Model) Option {
	return func(s *Sheet) { s.models = m }
}

// WithTemplate replaces the built-in sheet template. The template must
// render an element with id RootID.
func WithTemplate(name, text string) Option {
	return func(s *Sheet) { s.tmplName, s.tmplText = name, text }
}

// New returns an unrendered sheet for a. The caller keeps ownership of st.
func New(a *actor.Actor, st store.Store, opts ...Option) *Sheet {
	s := &Sheet{
		actor:    a,
		store:    st,
		mode:     editor.ModeView,
		width:    800,
		height:   1000,
		tmplName: "sheet",
		tmplText: defaultTemplate,
		tabs:     DefaultTabs,
		logger:   log.Default(),
		ctx:      context.Background(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.notifier == nil {
		s.notifier = notify.NewLog(s.logger)
	}
	s.registry = editor.NewRegistry(a.ID, st,
		editor.WithNotifier(s.notifier),
		editor.WithLogger(s.logger),
	)
	s.calib = calibrate.New(func() calibrate.Measurer { return s.Layout() },
		calibrate.WithModels(s.models),
		calibrate.WithLogger(s.logger),
	)
	return s
}

// Open opens the store cfg names and returns a sheet that owns it, sized
// and calibrated from cfg. Options after cfg's take precedence.
func Open(ctx context.Context, cfg config.Config, a *actor.Actor, opts ...Option) (*Sheet, error) {
	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	base := []Option{
		WithViewport(cfg.Viewport.Width, cfg.Viewport.Height),
		WithTabModels(cfg.Tabs),
		WithFont(cfg.FontPath),
	}
	s := New(a, st, append(base, opts...)...)
	s.ownStore = true
	return s, nil
}

func (s *Sheet) Actor() *actor.Actor               { return s.actor }
func (s *Sheet) Document() *html.Document          { return s.doc }
func (s *Sheet) Registry() *editor.Registry        { return s.registry }
func (s *Sheet) Calibrator() *calibrate.Calibrator { return s.calib }
func (s *Sheet) Store() store.Store                { return s.store }
func (s *Sheet) Mode() string                      { return s.mode }
func (s *Sheet) Viewport() (width, height int)     { return s.width, s.height }

// Root returns the sheet element, or nil before the first Render.
func (s *Sheet) Root() *html.Node {
	if s.doc == nil {
		return nil
	}
	if root := s.doc.Root.ElementByID(RootID); root != nil {
		return root
	}
	return s.doc.Root
}

// SetMode switches between view and edit mode. It affects who may open
// new sessions, not a session already open.
func (s *Sheet) SetMode(mode string) {
	s.mode = mode
	if root := s.Root(); root != nil {
		root.SetAttribute("data-mode", mode)
	}
}

// SetUser changes who edit triggers act for.
func (s *Sheet) SetUser(u User) { s.user = u }

// Render rebuilds the document. Any open session and every observer of the
// previous document are torn down first. Script failures are reported
// through the notifier and do not fail the render.
func (s *Sheet) Render(ctx context.Context) error {
	if s.closed {
		return ErrClosed
	}
	s.ctx = ctx
	s.teardown()

	values := newTemplateValues(s.actor, s.mode, s.tabs, s.scripts)
	markup, err := expandTemplate(s.tmplName, s.tmplText, values)
	if err != nil {
		return err
	}
	doc, err := html.Parse(markup)
	if err != nil {
		return fmt.Errorf("parse sheet %s: %w", s.tmplName, err)
	}
	s.doc = doc
	s.cascade = css.NewCascade(doc)

	if err := s.applyOverrides(ctx); err != nil {
		return err
	}

	root := s.Root()
	s.registry.Attach(root, s.cascade, s.measure)
	s.detach = append(s.detach, root.AddEventListener(EditEvent, func(e *html.Event) {
		if s.Trigger(e.Target, s.user) != nil {
			e.StopPropagation()
		}
	}))
	s.calibrateTabs()

	s.engine = js.New(js.WithLogger(s.logger), js.WithHost(s))
	if err := s.engine.Execute(doc); err != nil {
		s.logger.Warn("sheet script failed", "actor", s.actor.ID, "err", err)
		s.notifier.Notify(fmt.Sprintf("Sheet script failed: %v", err), notify.LevelWarn)
	}
	return nil
}

// applyOverrides writes every persisted geometry onto the fields whose key
// it was saved under.
func (s *Sheet) applyOverrides(ctx context.Context) error {
	overrides, err := s.store.List(ctx, s.actor.ID)
	if err != nil {
		return fmt.Errorf("load overrides for %s: %w", s.actor.ID, err)
	}
	if len(overrides) == 0 {
		return nil
	}
	applier := editor.Applier{Cascade: s.cascade}
	applied := 0
	for _, n := range editor.Fields(s.doc.Root) {
		class := editor.ClassifyNode(n)
		if g, ok := overrides[class.Key]; ok {
			applier.Apply(n, g, class.Channel)
			applied++
		}
	}
	s.logger.Debug("layout overrides applied", "actor", s.actor.ID, "stored", len(overrides), "fields", applied)
	return nil
}

func (s *Sheet) calibrateTabs() {
	for _, c := range css.QuerySelectorAll(s.doc.Root, TabContainerSelector) {
		s.calib.Run(c, css.QuerySelectorAll(c, TabAnchorSelector), false)
		s.calib.Watch(c, TabAnchorSelector)
	}
}

// Recalibrate re-runs calibration on every tab container. With force, a
// stored model is re-fitted; a configured one never is. Results are keyed by
// container id.
func (s *Sheet) Recalibrate(force bool) map[string]calibrate.Result {
	out := make(map[string]calibrate.Result)
	if s.doc == nil {
		return out
	}
	for i, c := range css.QuerySelectorAll(s.doc.Root, TabContainerSelector) {
		key := c.Attr("id")
		if key == "" {
			key = "#" + strconv.Itoa(i)
		}
		out[key] = s.Calibrate(c, force)
	}
	return out
}

// Trigger is the edit-intent entry point. node may be a field or anything
// inside one; the nearest field ancestor is edited. It returns the opened
// session, or nil when u may not edit this sheet, node is not inside a field,
// or node belongs to an editing dialog.
func (s *Sheet) Trigger(node *html.Node, u User) *editor.Session {
	if s.closed || node == nil {
		return nil
	}
	if css.Closest(node, "."+editor.DialogClass) != nil {
		return nil
	}
	var target *html.Node
	for cur := node; cur != nil; cur = cur.Parent {
		if editor.IsField(cur) {
			target = cur
			break
		}
	}
	if target == nil {
		s.logger.Debug("edit trigger outside any field", "tag", node.TagName, "class", node.Attr("class"))
		return nil
	}
	return s.registry.Open(s.ctx, target, editor.Subject{
		UserID:     u.ID,
		Privileged: u.Privileged,
		OwnerID:    s.actor.OwnerID,
		Mode:       s.mode,
	})
}

// Resize changes the viewport and notifies the sheet and its tab containers
// the way a window resize would.
func (s *Sheet) Resize(width, height int) {
	s.width, s.height = width, height
	if s.doc == nil {
		return
	}
	targets := append([]*html.Node{s.Root()}, css.QuerySelectorAll(s.doc.Root, TabContainerSelector)...)
	for _, n := range targets {
		e := html.NewEvent("resize")
		e.Detail["width"] = strconv.Itoa(width)
		e.Detail["height"] = strconv.Itoa(height)
		n.Dispatch(e)
	}
}

// Layout measures the current document.
func (s *Sheet) Layout() *layout.Result {
	return layout.NewLayoutEngine(float64(s.width), float64(s.height)).LayoutWith(s.doc, s.cascade)
}

// measure returns n's laid-out box relative to the padding edge of its
// containing block.
func (s *Sheet) measure(n *html.Node) (geom.Geometry, bool) {
	if s.doc == nil {
		return geom.Geometry{}, false
	}
	b := s.Layout().Box(n)
	if b == nil {
		return geom.Geometry{}, false
	}
	var ox, oy float64
	if cb := b.FindContainingBlock(); cb != nil {
		ox, oy = cb.X+cb.Border.Left, cb.Y+cb.Border.Top
	}
	return geom.Round(b.X-ox, b.Y-oy, b.Width, b.Height), true
}

func (s *Sheet) paint() (*render.Renderer, error) {
	if s.doc == nil {
		return nil, fmt.Errorf("paint: sheet not rendered")
	}
	r := render.NewRenderer(s.width, s.height, render.WithFont(s.fontPath))
	r.Render(s.Layout())
	return r, nil
}

// Image paints the current document, guide and dialog included.
func (s *Sheet) Image() (image.Image, error) {
	r, err := s.paint()
	if err != nil {
		return nil, err
	}
	return r.Image(), nil
}

// RenderPNG paints the current document to w.
func (s *Sheet) RenderPNG(w io.Writer) error {
	r, err := s.paint()
	if err != nil {
		return err
	}
	if err := r.EncodePNG(w); err != nil {
		return fmt.Errorf("render png: %w", err)
	}
	return nil
}

// teardown releases everything attached to the current document.
func (s *Sheet) teardown() {
	s.registry.Close()
	s.calib.Stop()
	if s.engine != nil {
		s.engine.Close()
		s.engine = nil
	}
	for _, fn := range s.detach {
		fn()
	}
	s.detach = nil
}

// Close is an implicit cancel of any open session. It is safe to call more
// than once.
func (s *Sheet) Close() (err error) {
	if s.closed {
		return nil
	}
	s.closed = true
	s.teardown()
	if s.ownStore {
		if er := s.store.Close(); er != nil {
			err = multierr.Append(err, fmt.Errorf("close store: %w", er))
		}
	}
	return err
}
