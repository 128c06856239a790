package editor

import (
	"strconv"

	"charsheet/pkg/geom"
	"charsheet/pkg/html"
)

// DialogClass marks the root of a session's dialog.
const DialogClass = "cs-layout-dialog"

var actionLabels = map[Action]string{
	ActionUp:        "Up",
	ActionDown:      "Down",
	ActionLeft:      "Left",
	ActionRight:     "Right",
	ActionWidthInc:  "Width +",
	ActionWidthDec:  "Width -",
	ActionHeightInc: "Height +",
	ActionHeightDec: "Height -",
	ActionApply:     "Apply",
	ActionReset:     "Reset",
	ActionCancel:    "Cancel",
}

func element(tag, class string, children ...*html.Node) *html.Node {
	n := html.NewElement(tag, nil)
	if class != "" {
		n.SetAttribute("class", class)
	}
	for _, c := range children {
		n.AddChild(c)
	}
	return n
}

func button(a Action) *html.Node {
	b := html.NewElement("button", map[string]string{
		"type":        "button",
		"data-action": string(a),
	})
	b.AppendText(actionLabels[a])
	return b
}

// buildDialog renders the editing controls pre-filled with g.
func buildDialog(key string, g geom.Geometry) (*html.Node, map[geom.Field]*html.Node) {
	dialog := element("div", DialogClass)
	dialog.SetAttribute("data-key", key)
	dialog.SetAttribute("tabindex", "0")

	title := element("div", "cs-layout-title")
	title.AppendText("Layout: " + key)
	dialog.AddChild(title)

	inputs := make(map[geom.Field]*html.Node, len(geom.Fields))
	fields := element("div", "cs-layout-fields")
	for _, f := range geom.Fields {
		input := html.NewElement("input", map[string]string{
			"type":  "number",
			"name":  string(f),
			"step":  "1",
			"value": strconv.Itoa(g.Get(f)),
		})
		if f == geom.FieldWidth || f == geom.FieldHeight {
			input.SetAttribute("min", strconv.Itoa(geom.MinSize))
		}
		label := element("label", "cs-layout-field")
		label.AppendText(string(f))
		label.AddChild(input)
		fields.AddChild(label)
		inputs[f] = input
	}
	dialog.AddChild(fields)

	dialog.AddChild(element("div", "cs-layout-nudge",
		button(ActionUp), button(ActionLeft), button(ActionRight), button(ActionDown)))
	dialog.AddChild(element("div", "cs-layout-size",
		button(ActionWidthDec), button(ActionWidthInc), button(ActionHeightDec), button(ActionHeightInc)))
	dialog.AddChild(element("div", "cs-layout-actions",
		button(ActionApply), button(ActionReset), button(ActionCancel)))
	return dialog, inputs
}
