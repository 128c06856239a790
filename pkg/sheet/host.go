package sheet

import (
	"charsheet/pkg/calibrate"
	"charsheet/pkg/css"
	"charsheet/pkg/editor"
	"charsheet/pkg/html"
)

// The methods below back the `layout` global of sheet scripts.

func (s *Sheet) Edit(target *html.Node) bool {
	return s.Trigger(target, s.user) != nil
}

func (s *Sheet) Press(key string) bool {
	if active := s.registry.Active(); active != nil {
		return active.Press(key)
	}
	return false
}

func (s *Sheet) Click(action string) bool {
	if active := s.registry.Active(); active != nil {
		return active.Click(editor.Action(action))
	}
	return false
}

func (s *Sheet) ActiveKey() (string, bool) {
	if active := s.registry.Active(); active != nil {
		return active.Key(), true
	}
	return "", false
}

// Calibrate runs the calibrator on one tab container.
func (s *Sheet) Calibrate(container *html.Node, force bool) calibrate.Result {
	return s.calib.Run(container, css.QuerySelectorAll(container, TabAnchorSelector), force)
}
