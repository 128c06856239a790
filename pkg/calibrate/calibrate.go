package calibrate

import (
	"github.com/charmbracelet/log"

	"charsheet/pkg/css"
	"charsheet/pkg/geom"
	"charsheet/pkg/html"
)

// Measurer reports an element's border-box offset within a container.
// *layout.Result implements it.
type Measurer interface {
	OffsetWithin(node, container *html.Node) (x, y float64, ok bool)
}

// Source says where the model used for placement came from.
type Source int

const (
	SourceNone Source = iota
	SourceConfig
	SourceStored
	SourceFitted
)

func (s Source) String() string {
	switch s {
	case SourceConfig:
		return "config"
	case SourceStored:
		return "stored"
	case SourceFitted:
		return "fitted"
	}
	return "none"
}

// Result describes one calibration or placement pass.
type Result struct {
	Model  Model
	Source Source
	Placed int
}

// Calibrator fits and applies tab models for the containers of one sheet.
type Calibrator struct {
	measure    func() Measurer
	configured map[string]Model
	logger     *log.Logger
	watches    []*watch
}

type Option func(*Calibrator)

// WithModels supplies configured models keyed by container id.
func WithModels(models map[string]Model) Option {
	return func(c *Calibrator) { c.configured = models }
}

func WithLogger(l *log.Logger) Option {
	return func(c *Calibrator) { c.logger = l }
}

// New returns a Calibrator. measure lays out the current document; it is
// called once per fit.
func New(measure func() Measurer, opts ...Option) *Calibrator {
	c := &Calibrator{measure: measure, logger: log.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// model returns the explicit model for container, if any.
func (c *Calibrator) model(container *html.Node) (Model, Source) {
	if m, ok := c.configured[container.Attr("id")]; ok && container.Attr("id") != "" {
		return m, SourceConfig
	}
	if m, ok := ReadModel(container); ok {
		return m, SourceStored
	}
	return Model{}, SourceNone
}

// Run calibrates container and places anchors. Sampling is skipped when a
// model is configured or already stored, unless force is set; it is also
// skipped with fewer than two anchors, in which case only per-anchor
// overrides are applied.
func (c *Calibrator) Run(container *html.Node, anchors []*html.Node, force bool) Result {
	m, src := c.model(container)
	if src == SourceConfig && force {
		c.logger.Debug("configured tab model kept despite force", "container", container.Attr("id"))
	}
	if src == SourceNone || (force && src == SourceStored) {
		if fitted, ok := c.fit(container, anchors); ok {
			m, src = fitted, SourceFitted
			WriteModel(container, m)
			c.logger.Debug("tab model fitted", "container", container.Attr("id"), "anchors", len(anchors), "model", m)
		}
	}
	return Result{Model: m, Source: src, Placed: place(anchors, m, src != SourceNone)}
}

func (c *Calibrator) fit(container *html.Node, anchors []*html.Node) (Model, bool) {
	if len(anchors) < 2 {
		c.logger.Debug("tab calibration skipped", "container", container.Attr("id"), "anchors", len(anchors))
		return Model{}, false
	}
	if c.measure == nil {
		return Model{}, false
	}
	measurer := c.measure()
	offsets := make([]Point, 0, len(anchors))
	for _, a := range anchors {
		x, y, ok := measurer.OffsetWithin(a, container)
		if !ok {
			c.logger.Debug("tab anchor has no box", "class", a.Attr("class"))
			return Model{}, false
		}
		offsets = append(offsets, Point{Left: x, Top: y})
	}
	return Fit(offsets)
}

// Place re-places anchors from the model already stored or configured for
// container, without fitting.
func (c *Calibrator) Place(container *html.Node, anchors []*html.Node) Result {
	m, src := c.model(container)
	return Result{Model: m, Source: src, Placed: place(anchors, m, src != SourceNone)}
}

// place positions each anchor. Per-anchor data-tab-top / data-tab-left
// always win; without a model only those overrides are applied.
func place(anchors []*html.Node, m Model, haveModel bool) int {
	placed := 0
	for i, a := range anchors {
		at := m.At(i)
		top, hasTop := anchorOverride(a, "data-tab-top")
		if !hasTop && haveModel {
			top, hasTop = at.Top, true
		}
		left, hasLeft := anchorOverride(a, "data-tab-left")
		if !hasLeft && haveModel {
			left, hasLeft = at.Left, true
		}
		if !hasTop && !hasLeft {
			continue
		}
		css.SetProperty(a, "position", "absolute", false)
		if hasTop {
			css.SetProperty(a, "top", geom.FormatFloat(top), false)
		}
		if hasLeft {
			css.SetProperty(a, "left", geom.FormatFloat(left), false)
		}
		placed++
	}
	return placed
}
