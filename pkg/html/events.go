package html

// Event is a synchronous DOM event. Key is set for keyboard events, Detail
// carries free-form payload (e.g. the data-action of a clicked button).
type Event struct {
	Type   string
	Key    string
	Target *Node
	Detail map[string]string

	// CurrentTarget is the node whose listener is running.
	CurrentTarget *Node

	defaultPrevented bool
	stopped          bool
}

func NewEvent(typ string) *Event {
	return &Event{Type: typ, Detail: make(map[string]string)}
}

// NewKeyEvent builds a keydown event for key ("ArrowUp", "+", "[", ...).
func NewKeyEvent(key string) *Event {
	e := NewEvent("keydown")
	e.Key = key
	return e
}

func (e *Event) PreventDefault()        { e.defaultPrevented = true }
func (e *Event) DefaultPrevented() bool { return e.defaultPrevented }
func (e *Event) StopPropagation()       { e.stopped = true }

type listener struct {
	typ string
	fn  func(*Event)
}

// AddEventListener registers fn for events of typ dispatched on n or its
// descendants. The returned function detaches the listener; calling it more
// than once is harmless.
func (n *Node) AddEventListener(typ string, fn func(*Event)) (remove func()) {
	l := &listener{typ: typ, fn: fn}
	n.listeners = append(n.listeners, l)
	return func() {
		for i, cur := range n.listeners {
			if cur == l {
				n.listeners = append(n.listeners[:i], n.listeners[i+1:]...)
				return
			}
		}
	}
}

// ListenerCount reports how many listeners of typ are attached to n.
func (n *Node) ListenerCount(typ string) int {
	count := 0
	for _, l := range n.listeners {
		if l.typ == typ {
			count++
		}
	}
	return count
}

// Dispatch delivers e to n and then bubbles it through n's ancestors until a
// listener stops propagation. It returns false when the default action was
// prevented.
func (n *Node) Dispatch(e *Event) bool {
	e.Target = n
	for cur := n; cur != nil && !e.stopped; cur = cur.Parent {
		e.CurrentTarget = cur
		for _, l := range append([]*listener(nil), cur.listeners...) {
			if l.typ == e.Type {
				l.fn(e)
			}
		}
	}
	e.CurrentTarget = nil
	return !e.defaultPrevented
}
