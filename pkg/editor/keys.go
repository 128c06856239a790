package editor

import "charsheet/pkg/geom"

// Action is a dialog control, carried in the button's data-action.
type Action string

const (
	ActionUp        Action = "up"
	ActionDown      Action = "down"
	ActionLeft      Action = "left"
	ActionRight     Action = "right"
	ActionWidthInc  Action = "width+"
	ActionWidthDec  Action = "width-"
	ActionHeightInc Action = "height+"
	ActionHeightDec Action = "height-"
	ActionApply     Action = "apply"
	ActionReset     Action = "reset"
	ActionCancel    Action = "cancel"
)

// delta is a one-pixel change to one field.
type delta struct {
	field geom.Field
	by    int
}

var actionDeltas = map[Action]delta{
	ActionUp:        {geom.FieldTop, -1},
	ActionDown:      {geom.FieldTop, 1},
	ActionLeft:      {geom.FieldLeft, -1},
	ActionRight:     {geom.FieldLeft, 1},
	ActionWidthInc:  {geom.FieldWidth, 1},
	ActionWidthDec:  {geom.FieldWidth, -1},
	ActionHeightInc: {geom.FieldHeight, 1},
	ActionHeightDec: {geom.FieldHeight, -1},
}

// keyActions maps keyboard keys to the button they stand for. Keys not
// listed here are left alone.
var keyActions = map[string]Action{
	"ArrowUp":    ActionUp,
	"ArrowDown":  ActionDown,
	"ArrowLeft":  ActionLeft,
	"ArrowRight": ActionRight,
	"+":          ActionWidthInc,
	"=":          ActionWidthInc,
	"-":          ActionWidthDec,
	"[":          ActionHeightDec,
	"]":          ActionHeightInc,
}

// KeyAction returns the action bound to key.
func KeyAction(key string) (Action, bool) {
	a, ok := keyActions[key]
	return a, ok
}

// NudgeActions lists the actions that change geometry, in dialog order.
var NudgeActions = []Action{
	ActionUp, ActionDown, ActionLeft, ActionRight,
	ActionWidthInc, ActionWidthDec, ActionHeightInc, ActionHeightDec,
}
