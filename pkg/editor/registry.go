package editor

import (
	"context"

	"github.com/charmbracelet/log"

	"charsheet/pkg/css"
	"charsheet/pkg/html"
	"charsheet/pkg/notify"
	"charsheet/pkg/store"
)

// Registry owns the editing state of one sheet instance: at most one open
// session and the sheet's single bounding guide.
type Registry struct {
	entityID  string
	store     store.Store
	notifier  notify.Notifier
	authorize Authorizer
	applier   Applier
	measure   Measurer
	host      *html.Node
	logger    *log.Logger

	guide  Guide
	active *Session
}

type Option func(*Registry)

func WithNotifier(n notify.Notifier) Option { return func(r *Registry) { r.notifier = n } }
func WithAuthorizer(a Authorizer) Option    { return func(r *Registry) { r.authorize = a } }
func WithLogger(l *log.Logger) Option       { return func(r *Registry) { r.logger = l } }

// WithCascade lets the registry read computed styles of the sheet.
func WithCascade(c *css.Cascade) Option { return func(r *Registry) { r.applier.Cascade = c } }

// WithMeasurer supplies laid-out geometry for fields whose style does not
// state it.
func WithMeasurer(m Measurer) Option { return func(r *Registry) { r.measure = m } }

// WithDialogHost sets where session dialogs are inserted. By default the
// dialog is appended to the root of the edited field's tree.
func WithDialogHost(n *html.Node) Option { return func(r *Registry) { r.host = n } }

func NewRegistry(entityID string, st store.Store, opts ...Option) *Registry {
	r := &Registry{
		entityID:  entityID,
		store:     st,
		authorize: CanEdit,
		logger:    log.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.notifier == nil {
		r.notifier = notify.NewLog(r.logger)
	}
	return r
}

// Attach points the registry at a freshly rendered document. Any open
// session belongs to the old document and is cancelled.
func (r *Registry) Attach(host *html.Node, cascade *css.Cascade, measure Measurer) {
	r.Close()
	r.host = host
	r.applier.Cascade = cascade
	r.measure = measure
}

// Open starts editing target for subj. An unauthorized subject gets nil and
// nothing changes. Any session already open is torn down first.
func (r *Registry) Open(ctx context.Context, target *html.Node, subj Subject) *Session {
	if target == nil || target.Type != html.ElementNode {
		return nil
	}
	if !r.authorize(subj) {
		r.logger.Debug("edit not permitted", "user", subj.UserID, "mode", subj.Mode)
		return nil
	}
	if r.active != nil {
		r.active.Cancel()
	}

	class := ClassifyNode(target)
	switch {
	case !class.Known():
		r.logger.Warn("editing unclassified field; its override cannot be matched on reload", "class", target.Attr("class"))
	case class.Placeholder():
		r.logger.Warn("field marker without sub-token", "key", class.Key, "class", target.Attr("class"))
	}

	s := &Session{
		ctx:      ctx,
		registry: r,
		target:   target,
		class:    class,
	}
	s.original = r.applier.Current(target, r.measure)
	s.live = s.original

	r.guide.Show(target)
	s.dialog, s.inputs = buildDialog(class.Key, s.live)
	r.dialogHost(target).AddChild(s.dialog)
	s.detach = []func(){
		s.dialog.AddEventListener("keydown", s.onKey),
		s.dialog.AddEventListener("click", s.onClick),
		s.dialog.AddEventListener("change", s.onChange),
	}
	s.state = StateOpen
	r.active = s
	r.logger.Debug("edit session opened", "key", class.Key, "channel", class.Channel, "geometry", s.original)
	return s
}

func (r *Registry) dialogHost(target *html.Node) *html.Node {
	if r.host != nil {
		return r.host
	}
	root := target
	for root.Parent != nil {
		root = root.Parent
	}
	return root
}

// Active returns the open session, or nil.
func (r *Registry) Active() *Session { return r.active }

// Guide returns the sheet's bounding guide.
func (r *Registry) Guide() *Guide { return &r.guide }

// Close cancels the open session, if any. Closing the sheet calls this.
func (r *Registry) Close() {
	if r.active != nil {
		r.active.Cancel()
	}
}

func (r *Registry) deregister(s *Session) {
	if r.active == s {
		r.active = nil
	}
}
