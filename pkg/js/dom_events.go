package js

import (
	"charsheet/pkg/html"

	"github.com/dop251/goja"
)

// jsListener remembers a script listener so removeEventListener can find it
// by function identity.
type jsListener struct {
	node   *html.Node
	typ    string
	fn     goja.Value
	remove func()
}

func addEventListenerFn(ctx *domContext, node *html.Node) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 2 {
			panic(ctx.vm.NewTypeError("Failed to execute 'addEventListener': 2 arguments required"))
		}
		typ, fn := call.Arguments[0].String(), call.Arguments[1]
		callable, ok := goja.AssertFunction(fn)
		if !ok {
			panic(ctx.vm.NewTypeError("Failed to execute 'addEventListener': parameter 2 is not a function"))
		}
		remove := node.AddEventListener(typ, func(ev *html.Event) {
			if _, err := callable(goja.Undefined(), ctx.eventObject(ev)); err != nil {
				ctx.logger.Error("event listener failed", "event", typ, "err", err)
			}
		})
		ctx.listeners = append(ctx.listeners, jsListener{node: node, typ: typ, fn: fn, remove: remove})
		return goja.Undefined()
	}
}

func removeEventListenerFn(ctx *domContext, node *html.Node) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 2 {
			return goja.Undefined()
		}
		typ, fn := call.Arguments[0].String(), call.Arguments[1]
		for i, l := range ctx.listeners {
			if l.node == node && l.typ == typ && l.fn.SameAs(fn) {
				l.remove()
				ctx.listeners = append(ctx.listeners[:i], ctx.listeners[i+1:]...)
				break
			}
		}
		return goja.Undefined()
	}
}

// dispatchEventFn accepts either an event type string or an object with
// type, key and detail fields. It returns false when a listener called
// preventDefault.
func dispatchEventFn(ctx *domContext, node *html.Node) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			panic(ctx.vm.NewTypeError("Failed to execute 'dispatchEvent': 1 argument required"))
		}
		return ctx.vm.ToValue(node.Dispatch(ctx.toEvent(call.Arguments[0])))
	}
}

func (ctx *domContext) toEvent(v goja.Value) *html.Event {
	obj, ok := v.(*goja.Object)
	if !ok {
		return html.NewEvent(v.String())
	}
	ev := html.NewEvent(stringField(obj, "type"))
	ev.Key = stringField(obj, "key")
	if d := obj.Get("detail"); d != nil && !goja.IsUndefined(d) && !goja.IsNull(d) {
		detail := d.ToObject(ctx.vm)
		for _, k := range detail.Keys() {
			ev.Detail[k] = detail.Get(k).String()
		}
	}
	return ev
}

func stringField(obj *goja.Object, name string) string {
	v := obj.Get(name)
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return ""
	}
	return v.String()
}

// eventObject is the script-side view of ev. preventDefault and
// stopPropagation act on the Go event.
func (ctx *domContext) eventObject(ev *html.Event) goja.Value {
	vm := ctx.vm
	obj := vm.NewObject()
	obj.Set("type", ev.Type)
	obj.Set("key", ev.Key)
	obj.Set("target", ctx.nullable(ev.Target))
	obj.Set("currentTarget", ctx.nullable(ev.CurrentTarget))
	detail := vm.NewObject()
	for k, v := range ev.Detail {
		detail.Set(k, v)
	}
	obj.Set("detail", detail)
	obj.Set("preventDefault", func(goja.FunctionCall) goja.Value {
		ev.PreventDefault()
		return goja.Undefined()
	})
	obj.Set("stopPropagation", func(goja.FunctionCall) goja.Value {
		ev.StopPropagation()
		return goja.Undefined()
	})
	obj.DefineAccessorProperty("defaultPrevented", vm.ToValue(func(goja.FunctionCall) goja.Value {
		return vm.ToValue(ev.DefaultPrevented())
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	return obj
}

// detach removes every listener scripts added.
func (ctx *domContext) detach() {
	for _, l := range ctx.listeners {
		l.remove()
	}
	ctx.listeners = nil
}
