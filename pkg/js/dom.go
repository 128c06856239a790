package js

import (
	"strconv"
	"strings"

	"charsheet/pkg/css"
	"charsheet/pkg/html"

	"github.com/charmbracelet/log"
	"github.com/dop251/goja"
)

// domContext holds shared state for DOM bindings within a single execution.
// It maintains a node-to-proxy cache so the same JS object is returned for
// the same underlying *html.Node (needed for === identity checks).
type domContext struct {
	vm        *goja.Runtime
	doc       *html.Document
	cache     map[*html.Node]goja.Value
	listeners []jsListener
	logger    *log.Logger
}

func newDOMContext(vm *goja.Runtime, doc *html.Document, logger *log.Logger) *domContext {
	return &domContext{
		vm:     vm,
		doc:    doc,
		cache:  make(map[*html.Node]goja.Value),
		logger: logger,
	}
}

// registerDocument sets up the global `document` object on the goja runtime.
func registerDocument(vm *goja.Runtime, doc *html.Document, logger *log.Logger) *domContext {
	ctx := newDOMContext(vm, doc, logger)
	root := doc.Root

	docObj := vm.NewObject()
	docObj.Set("getElementById", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			return goja.Null()
		}
		return ctx.nullable(root.ElementByID(call.Arguments[0].String()))
	})
	docObj.Set("getElementsByClassName", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			return ctx.elementArray(nil)
		}
		cls := call.Arguments[0].String()
		return ctx.elementArray(root.FindAll(func(n *html.Node) bool { return n.HasClass(cls) }))
	})
	docObj.Set("createElement", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			panic(vm.NewTypeError("Failed to execute 'createElement' on 'Document': 1 argument required"))
		}
		return ctx.elementProxy(html.NewElement(call.Arguments[0].String(), nil))
	})
	docObj.Set("querySelector", querySelectorFn(ctx, root))
	docObj.Set("querySelectorAll", querySelectorAllFn(ctx, root))
	docObj.Set("dispatchEvent", dispatchEventFn(ctx, root))
	docObj.Set("addEventListener", addEventListenerFn(ctx, root))
	docObj.Set("removeEventListener", removeEventListenerFn(ctx, root))
	docObj.DefineAccessorProperty("body", vm.ToValue(func(goja.FunctionCall) goja.Value {
		return ctx.nullable(root.Find(func(n *html.Node) bool { return n.TagName == "body" }))
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)

	vm.Set("document", docObj)
	return ctx
}

// nullable maps a nil node to JS null.
func (ctx *domContext) nullable(node *html.Node) goja.Value {
	if node == nil {
		return goja.Null()
	}
	return ctx.elementProxy(node)
}

// elementArray creates a JS array of Element proxies.
func (ctx *domContext) elementArray(nodes []*html.Node) goja.Value {
	vals := make([]interface{}, len(nodes))
	for i, n := range nodes {
		vals[i] = ctx.elementProxy(n)
	}
	return ctx.vm.NewArray(vals...)
}

// elementProxy creates (or retrieves from cache) a JS DynamicObject wrapping an html.Node.
func (ctx *domContext) elementProxy(node *html.Node) goja.Value {
	if v, ok := ctx.cache[node]; ok {
		return v
	}
	v := ctx.vm.NewDynamicObject(&elementAccessor{ctx: ctx, node: node})
	ctx.cache[node] = v
	return v
}

// unwrapNode extracts the *html.Node behind a proxy, or nil.
func (ctx *domContext) unwrapNode(val goja.Value) *html.Node {
	if val == nil || goja.IsNull(val) || goja.IsUndefined(val) {
		return nil
	}
	obj, ok := val.(*goja.Object)
	if !ok {
		return nil
	}
	for node, cached := range ctx.cache {
		if cached.SameAs(obj) {
			return node
		}
	}
	return nil
}

// argNode unwraps argument i or throws a TypeError naming method.
func (ctx *domContext) argNode(call goja.FunctionCall, i int, method string) *html.Node {
	if len(call.Arguments) <= i {
		panic(ctx.vm.NewTypeError("Failed to execute '" + method + "': " + strconv.Itoa(i+1) + " argument(s) required"))
	}
	n := ctx.unwrapNode(call.Arguments[i])
	if n == nil {
		panic(ctx.vm.NewTypeError("Failed to execute '" + method + "': parameter " + strconv.Itoa(i+1) + " is not a Node"))
	}
	return n
}

// elementAccessor implements goja.DynamicObject to intercept property access
// on DOM element proxies.
type elementAccessor struct {
	ctx  *domContext
	node *html.Node
}

var elementKeys = []string{
	"nodeType", "tagName", "id", "className", "textContent", "innerHTML", "outerHTML",
	"getAttribute", "setAttribute", "hasAttribute", "removeAttribute",
	"children", "parentElement", "firstElementChild", "nextElementSibling", "childElementCount",
	"style", "classList",
	"appendChild", "removeChild", "insertBefore", "remove", "contains",
	"querySelector", "querySelectorAll", "matches", "closest",
	"addEventListener", "removeEventListener", "dispatchEvent",
}

func (e *elementAccessor) Get(key string) goja.Value {
	vm := e.ctx.vm
	n := e.node

	switch key {
	case "nodeType":
		if n.Type == html.TextNode {
			return vm.ToValue(3)
		}
		return vm.ToValue(1)
	case "tagName":
		if n.Type == html.TextNode {
			return goja.Undefined()
		}
		return vm.ToValue(strings.ToUpper(n.TagName))
	case "id":
		return vm.ToValue(n.Attr("id"))
	case "className":
		return vm.ToValue(n.Attr("class"))
	case "textContent":
		return vm.ToValue(n.TextContent())
	case "innerHTML":
		return vm.ToValue(n.Serialize())
	case "outerHTML":
		return vm.ToValue(n.SerializeOuter())
	case "getAttribute":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) == 0 {
				return goja.Null()
			}
			val, ok := n.GetAttribute(call.Arguments[0].String())
			if !ok {
				return goja.Null()
			}
			return vm.ToValue(val)
		})
	case "setAttribute":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) < 2 {
				panic(vm.NewTypeError("Failed to execute 'setAttribute': 2 arguments required"))
			}
			n.SetAttribute(strings.ToLower(call.Arguments[0].String()), call.Arguments[1].String())
			return goja.Undefined()
		})
	case "hasAttribute":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) == 0 {
				return vm.ToValue(false)
			}
			_, ok := n.GetAttribute(call.Arguments[0].String())
			return vm.ToValue(ok)
		})
	case "removeAttribute":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) > 0 {
				n.RemoveAttribute(call.Arguments[0].String())
			}
			return goja.Undefined()
		})
	case "children":
		return e.ctx.elementArray(n.ElementChildren())
	case "parentElement":
		if p := n.Parent; p != nil && p.TagName != "document" {
			return e.ctx.elementProxy(p)
		}
		return goja.Null()
	case "firstElementChild":
		if kids := n.ElementChildren(); len(kids) > 0 {
			return e.ctx.elementProxy(kids[0])
		}
		return goja.Null()
	case "nextElementSibling":
		if n.Parent == nil {
			return goja.Null()
		}
		for _, sib := range n.Parent.Children[n.IndexInParent()+1:] {
			if sib.Type == html.ElementNode {
				return e.ctx.elementProxy(sib)
			}
		}
		return goja.Null()
	case "childElementCount":
		return vm.ToValue(len(n.ElementChildren()))
	case "style":
		return newStyleProxy(vm, n)
	case "classList":
		return newClassListProxy(e.ctx, n)
	case "appendChild":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			child := e.ctx.argNode(call, 0, "appendChild")
			n.AddChild(child)
			return e.ctx.elementProxy(child)
		})
	case "removeChild":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			child := e.ctx.argNode(call, 0, "removeChild")
			if n.RemoveChild(child) == nil {
				panic(vm.NewTypeError("Failed to execute 'removeChild': The node to be removed is not a child of this node"))
			}
			return e.ctx.elementProxy(child)
		})
	case "insertBefore":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			child := e.ctx.argNode(call, 0, "insertBefore")
			var ref *html.Node
			if len(call.Arguments) > 1 {
				ref = e.ctx.unwrapNode(call.Arguments[1])
			}
			return e.ctx.elementProxy(n.InsertBefore(child, ref))
		})
	case "remove":
		return vm.ToValue(func(goja.FunctionCall) goja.Value {
			n.Remove()
			return goja.Undefined()
		})
	case "contains":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) == 0 {
				return vm.ToValue(false)
			}
			other := e.ctx.unwrapNode(call.Arguments[0])
			return vm.ToValue(other != nil && n.Contains(other))
		})
	case "querySelector":
		return vm.ToValue(querySelectorFn(e.ctx, n))
	case "querySelectorAll":
		return vm.ToValue(querySelectorAllFn(e.ctx, n))
	case "matches":
		return vm.ToValue(matchesFn(e.ctx, n))
	case "closest":
		return vm.ToValue(closestFn(e.ctx, n))
	case "addEventListener":
		return vm.ToValue(addEventListenerFn(e.ctx, n))
	case "removeEventListener":
		return vm.ToValue(removeEventListenerFn(e.ctx, n))
	case "dispatchEvent":
		return vm.ToValue(dispatchEventFn(e.ctx, n))
	}
	return goja.Undefined()
}

func (e *elementAccessor) Set(key string, val goja.Value) bool {
	switch key {
	case "textContent":
		e.replaceChildren(nil)
		e.node.AppendText(val.String())
		return true
	case "className":
		e.node.SetAttribute("class", val.String())
		return true
	case "id":
		e.node.SetAttribute("id", val.String())
		return true
	case "innerHTML":
		nodes, err := html.ParseFragment(val.String())
		if err != nil {
			panic(e.ctx.vm.NewGoError(err))
		}
		e.replaceChildren(nodes)
		return true
	}
	return false
}

// replaceChildren swaps n's children through RemoveChild/AddChild so that
// mutation observers see the change.
func (e *elementAccessor) replaceChildren(nodes []*html.Node) {
	for _, c := range append([]*html.Node(nil), e.node.Children...) {
		e.node.RemoveChild(c)
	}
	for _, c := range nodes {
		e.node.AddChild(c)
	}
}

func (e *elementAccessor) Has(key string) bool {
	for _, k := range elementKeys {
		if k == key {
			return true
		}
	}
	return false
}

func (e *elementAccessor) Delete(key string) bool { return false }
func (e *elementAccessor) Keys() []string         { return elementKeys }

// newStyleProxy exposes the inline style of node. Named access maps camelCase
// to kebab-case; setProperty/getPropertyValue take CSS names as written,
// custom properties included.
func newStyleProxy(vm *goja.Runtime, node *html.Node) goja.Value {
	return vm.NewDynamicObject(&styleAccessor{vm: vm, node: node})
}

type styleAccessor struct {
	vm   *goja.Runtime
	node *html.Node
}

func (s *styleAccessor) Get(key string) goja.Value {
	switch key {
	case "setProperty":
		return s.vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) < 2 {
				panic(s.vm.NewTypeError("Failed to execute 'setProperty': 2 arguments required"))
			}
			prop, value := call.Arguments[0].String(), call.Arguments[1].String()
			important := len(call.Arguments) > 2 && call.Arguments[2].String() == "important"
			if value == "" {
				css.RemoveProperty(s.node, prop)
			} else {
				css.SetProperty(s.node, prop, value, important)
			}
			return goja.Undefined()
		})
	case "getPropertyValue":
		return s.vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) == 0 {
				return s.vm.ToValue("")
			}
			v, _ := css.GetProperty(s.node, call.Arguments[0].String())
			return s.vm.ToValue(v)
		})
	case "getPropertyPriority":
		return s.vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) > 0 {
				if d, ok := css.InlineStyle(s.node).Lookup(call.Arguments[0].String()); ok && d.Important {
					return s.vm.ToValue("important")
				}
			}
			return s.vm.ToValue("")
		})
	case "removeProperty":
		return s.vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) == 0 {
				return s.vm.ToValue("")
			}
			prop := call.Arguments[0].String()
			old, _ := css.GetProperty(s.node, prop)
			css.RemoveProperty(s.node, prop)
			return s.vm.ToValue(old)
		})
	case "cssText":
		return s.vm.ToValue(s.node.Attr("style"))
	}
	v, _ := css.GetProperty(s.node, camelToKebab(key))
	return s.vm.ToValue(v)
}

func (s *styleAccessor) Set(key string, val goja.Value) bool {
	if key == "cssText" {
		s.node.SetAttribute("style", val.String())
		return true
	}
	prop := camelToKebab(key)
	if v := val.String(); v != "" {
		css.SetProperty(s.node, prop, v, false)
	} else {
		css.RemoveProperty(s.node, prop)
	}
	return true
}

func (s *styleAccessor) Has(key string) bool { return true }

func (s *styleAccessor) Delete(key string) bool {
	css.RemoveProperty(s.node, camelToKebab(key))
	return true
}

func (s *styleAccessor) Keys() []string {
	decls := css.InlineStyle(s.node)
	keys := make([]string, 0, len(decls))
	for _, d := range decls {
		keys = append(keys, d.Property)
	}
	return keys
}

// camelToKebab converts a JS camelCase property name to CSS kebab-case.
func camelToKebab(s string) string {
	if s == "cssFloat" {
		return "float"
	}
	var sb strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				sb.WriteByte('-')
			}
			sb.WriteRune(r + ('a' - 'A'))
		} else {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
