// Package calibrate lays out a strip of tab anchors from a linear offset
// model: anchor i sits at base + i*step on each axis. The model is fitted
// once from measured anchor positions unless one is configured, and a
// configured or previously fitted model is never overwritten.
package calibrate

import (
	"strconv"

	"charsheet/pkg/css"
	"charsheet/pkg/geom"
	"charsheet/pkg/html"
)

// Point is an offset relative to the container's origin.
type Point struct {
	Left, Top float64
}

type Model struct {
	BaseTop  float64 `toml:"base_top" json:"baseTop"`
	StepTop  float64 `toml:"step_top" json:"stepTop"`
	BaseLeft float64 `toml:"base_left" json:"baseLeft"`
	StepLeft float64 `toml:"step_left" json:"stepLeft"`
}

// At returns the model position of anchor i.
func (m Model) At(i int) Point {
	return Point{
		Left: m.BaseLeft + float64(i)*m.StepLeft,
		Top:  m.BaseTop + float64(i)*m.StepTop,
	}
}

// Fit derives a model from measured anchor offsets. The base is the first
// anchor; the step is the mean of consecutive differences. It needs at
// least two anchors.
func Fit(offsets []Point) (Model, bool) {
	if len(offsets) < 2 {
		return Model{}, false
	}
	var sumTop, sumLeft float64
	for i := 1; i < len(offsets); i++ {
		sumTop += offsets[i].Top - offsets[i-1].Top
		sumLeft += offsets[i].Left - offsets[i-1].Left
	}
	n := float64(len(offsets) - 1)
	return Model{
		BaseTop:  offsets[0].Top,
		StepTop:  sumTop / n,
		BaseLeft: offsets[0].Left,
		StepLeft: sumLeft / n,
	}, true
}

type modelField struct {
	name string
	get  func(*Model) *float64
}

var modelFields = []modelField{
	{"base-top", func(m *Model) *float64 { return &m.BaseTop }},
	{"step-top", func(m *Model) *float64 { return &m.StepTop }},
	{"base-left", func(m *Model) *float64 { return &m.BaseLeft }},
	{"step-left", func(m *Model) *float64 { return &m.StepLeft }},
}

// ReadModel returns the model stored on container, either as --tab-*
// custom properties or as data-tab-* attributes. Custom properties win
// field by field.
func ReadModel(container *html.Node) (Model, bool) {
	var m Model
	found := false
	for _, f := range modelFields {
		if v, ok := container.GetAttribute("data-tab-" + f.name); ok {
			if n, err := strconv.ParseFloat(v, 64); err == nil {
				*f.get(&m) = n
				found = true
			}
		}
		if v, ok := css.GetProperty(container, "--tab-"+f.name); ok {
			if n, ok := geom.ParsePixel(v); ok {
				*f.get(&m) = n
				found = true
			}
		}
	}
	return m, found
}

// WriteModel stores m on container in both forms.
func WriteModel(container *html.Node, m Model) {
	for _, f := range modelFields {
		v := *f.get(&m)
		exact := strconv.FormatFloat(v, 'f', -1, 64)
		css.SetProperty(container, "--tab-"+f.name, exact+"px", false)
		container.SetAttribute("data-tab-"+f.name, exact)
	}
}

// ClearModel removes both stored forms.
func ClearModel(container *html.Node) {
	for _, f := range modelFields {
		css.RemoveProperty(container, "--tab-"+f.name)
		container.RemoveAttribute("data-tab-" + f.name)
	}
}

// anchorOverride reads an anchor's data-tab-top / data-tab-left.
func anchorOverride(anchor *html.Node, attr string) (float64, bool) {
	v, ok := anchor.GetAttribute(attr)
	if !ok {
		return 0, false
	}
	return geom.ParsePixel(v)
}
