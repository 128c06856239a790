package js

import (
	"charsheet/pkg/calibrate"
	"charsheet/pkg/html"

	"github.com/dop251/goja"
)

// Host is what the `layout` global drives. A sheet implements it on top of
// its editor registry and tab calibrator.
type Host interface {
	// Edit opens an editing session on target for the sheet's current user.
	Edit(target *html.Node) bool
	// Press and Click act on the open session, if any.
	Press(key string) bool
	Click(action string) bool
	// ActiveKey reports the field key of the open session.
	ActiveKey() (string, bool)
	Calibrate(container *html.Node, force bool) calibrate.Result
}

func registerLayout(ctx *domContext, host Host) {
	vm := ctx.vm
	obj := vm.NewObject()
	obj.Set("edit", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(host.Edit(ctx.argNode(call, 0, "edit")))
	})
	obj.Set("press", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(host.Press(selectorArg(ctx, call, "press")))
	})
	obj.Set("click", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(host.Click(selectorArg(ctx, call, "click")))
	})
	obj.Set("calibrate", func(call goja.FunctionCall) goja.Value {
		container := ctx.argNode(call, 0, "calibrate")
		force := len(call.Arguments) > 1 && call.Arguments[1].ToBoolean()
		res := host.Calibrate(container, force)
		out := vm.NewObject()
		out.Set("source", res.Source.String())
		out.Set("placed", res.Placed)
		out.Set("baseTop", res.Model.BaseTop)
		out.Set("stepTop", res.Model.StepTop)
		out.Set("baseLeft", res.Model.BaseLeft)
		out.Set("stepLeft", res.Model.StepLeft)
		return out
	})
	obj.DefineAccessorProperty("active", vm.ToValue(func(goja.FunctionCall) goja.Value {
		if key, ok := host.ActiveKey(); ok {
			return vm.ToValue(key)
		}
		return goja.Null()
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	vm.Set("layout", obj)
}
