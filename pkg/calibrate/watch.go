package calibrate

import (
	"charsheet/pkg/css"
	"charsheet/pkg/html"
)

type watch struct {
	removeResize func()
	observer     *html.MutationObserver
}

// Watch re-places the anchors matching selector inside container whenever
// the container receives a "resize" event or its subtree gains or loses
// nodes. The model is not re-fitted. The returned function stops this
// watch; Stop stops all of them.
func (c *Calibrator) Watch(container *html.Node, selector string) (stop func()) {
	replace := func() {
		c.Place(container, css.QuerySelectorAll(container, selector))
	}
	w := &watch{
		removeResize: container.AddEventListener("resize", func(*html.Event) { replace() }),
		observer:     html.NewMutationObserver(func(html.MutationRecord) { replace() }),
	}
	w.observer.Observe(container)
	c.watches = append(c.watches, w)
	return func() { c.unwatch(w) }
}

func (c *Calibrator) unwatch(w *watch) {
	for i, cur := range c.watches {
		if cur == w {
			c.watches = append(c.watches[:i], c.watches[i+1:]...)
			break
		}
	}
	w.removeResize()
	w.observer.Disconnect()
}

// Stop detaches every resize listener and mutation observer.
func (c *Calibrator) Stop() {
	for _, w := range append([]*watch(nil), c.watches...) {
		c.unwatch(w)
	}
}

// Watching reports how many containers are being watched.
func (c *Calibrator) Watching() int { return len(c.watches) }
