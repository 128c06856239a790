package js

import (
	"charsheet/pkg/css"
	"charsheet/pkg/html"

	"github.com/dop251/goja"
)

// selectorArg returns the first argument or throws a TypeError naming method.
func selectorArg(ctx *domContext, call goja.FunctionCall, method string) string {
	if len(call.Arguments) == 0 {
		panic(ctx.vm.NewTypeError("Failed to execute '" + method + "': 1 argument required"))
	}
	return call.Arguments[0].String()
}

// querySelectorFn returns a JS function implementing querySelector. The root
// itself never matches.
func querySelectorFn(ctx *domContext, root *html.Node) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		matches := css.QuerySelectorAll(root, selectorArg(ctx, call, "querySelector"))
		if len(matches) == 0 {
			return goja.Null()
		}
		return ctx.elementProxy(matches[0])
	}
}

func querySelectorAllFn(ctx *domContext, root *html.Node) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		return ctx.elementArray(css.QuerySelectorAll(root, selectorArg(ctx, call, "querySelectorAll")))
	}
}

// matchesFn returns a JS function implementing element.matches(selector).
func matchesFn(ctx *domContext, node *html.Node) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		return ctx.vm.ToValue(css.Matches(node, selectorArg(ctx, call, "matches")))
	}
}

// closestFn returns a JS function implementing element.closest(selector).
func closestFn(ctx *domContext, node *html.Node) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		return ctx.nullable(css.Closest(node, selectorArg(ctx, call, "closest")))
	}
}
