// Package js runs sheet macros. Scripts see a small DOM through the global
// `document` and drive the layout editor through the global `layout`.
package js

import (
	"fmt"

	"charsheet/pkg/html"

	"github.com/charmbracelet/log"
	"github.com/dop251/goja"
)

// Engine executes JavaScript against a sheet's DOM.
type Engine struct {
	vm     *goja.Runtime
	logger *log.Logger
	host   Host
	dom    *domContext
}

type Option func(*Engine)

// WithLogger routes console output to l.
func WithLogger(l *log.Logger) Option { return func(e *Engine) { e.logger = l } }

// WithHost exposes h to scripts as the `layout` global.
func WithHost(h Host) Option { return func(e *Engine) { e.host = h } }

// New creates a new JS engine with a fresh goja runtime.
func New(opts ...Option) *Engine {
	e := &Engine{vm: goja.New(), logger: log.Default()}
	for _, opt := range opts {
		opt(e)
	}

	c := &consoleAPI{logger: e.logger}
	c.register(e.vm)
	return e
}

// Bind points `document` (and `layout`, when a host is set) at doc without
// running anything.
func (e *Engine) Bind(doc *html.Document) {
	e.Close()
	e.dom = registerDocument(e.vm, doc, e.logger)
	if e.host != nil {
		registerLayout(e.dom, e.host)
	}
}

// Execute binds doc and runs its scripts in document order. The first
// failing script stops execution.
func (e *Engine) Execute(doc *html.Document) error {
	e.Bind(doc)
	for i, script := range doc.Scripts {
		if _, err := e.vm.RunString(script); err != nil {
			return fmt.Errorf("script %d: %w", i, err)
		}
	}
	return nil
}

// Run evaluates src against the document bound by the last Bind or Execute.
func (e *Engine) Run(src string) (goja.Value, error) {
	if e.dom == nil {
		return nil, fmt.Errorf("js: no document bound")
	}
	v, err := e.vm.RunString(src)
	if err != nil {
		return nil, fmt.Errorf("run: %w", err)
	}
	return v, nil
}

// Close detaches every event listener scripts registered.
func (e *Engine) Close() {
	if e.dom != nil {
		e.dom.detach()
	}
}
