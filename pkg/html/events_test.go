package html

import "testing"

func TestDispatchBubbles(t *testing.T) {
	parent := makeTree()
	span := parent.Children[0]
	var order []string
	parent.AddEventListener("click", func(e *Event) {
		order = append(order, "parent")
		if e.Target != span {
			t.Error("target should be the dispatching node")
		}
	})
	span.AddEventListener("click", func(e *Event) { order = append(order, "span") })
	span.Dispatch(NewEvent("click"))
	if len(order) != 2 || order[0] != "span" || order[1] != "parent" {
		t.Errorf("order = %v", order)
	}
}

func TestDispatchStopAndPrevent(t *testing.T) {
	parent := makeTree()
	span := parent.Children[0]
	parentCalled := false
	parent.AddEventListener("keydown", func(e *Event) { parentCalled = true })
	span.AddEventListener("keydown", func(e *Event) {
		e.PreventDefault()
		e.StopPropagation()
	})
	if span.Dispatch(NewKeyEvent("ArrowUp")) {
		t.Error("Dispatch should report prevented default")
	}
	if parentCalled {
		t.Error("propagation should have stopped")
	}
}

func TestRemoveListener(t *testing.T) {
	n := NewElement("div", nil)
	calls := 0
	remove := n.AddEventListener("keydown", func(e *Event) { calls++ })
	n.Dispatch(NewKeyEvent("a"))
	remove()
	remove()
	n.Dispatch(NewKeyEvent("a"))
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if n.ListenerCount("keydown") != 0 {
		t.Error("listener still attached")
	}
}

func TestMutationObserver(t *testing.T) {
	parent := makeTree()
	var records []MutationRecord
	obs := NewMutationObserver(func(r MutationRecord) { records = append(records, r) })
	obs.Observe(parent)

	// Changes deep in the subtree are reported.
	parent.Children[0].AddChild(NewElement("i", nil))
	parent.RemoveChild(parent.Children[1])
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}
	if len(records[0].Added) != 1 || len(records[1].Removed) != 1 {
		t.Errorf("unexpected records %+v", records)
	}

	obs.Disconnect()
	parent.AddChild(NewElement("p", nil))
	if len(records) != 2 || obs.Observing() {
		t.Error("disconnected observer should not be notified")
	}
}
