package html

// MutationRecord describes one structural change under an observed node.
type MutationRecord struct {
	Target  *Node
	Added   []*Node
	Removed []*Node
}

// MutationObserver receives child-list changes for every node below the
// nodes it observes. Callbacks run synchronously inside the mutating call.
type MutationObserver struct {
	callback func(MutationRecord)
	targets  []*Node
}

func NewMutationObserver(callback func(MutationRecord)) *MutationObserver {
	return &MutationObserver{callback: callback}
}

// Observe starts watching target's subtree.
func (o *MutationObserver) Observe(target *Node) {
	for _, t := range o.targets {
		if t == target {
			return
		}
	}
	target.observers = append(target.observers, o)
	o.targets = append(o.targets, target)
}

// Disconnect stops all observation.
func (o *MutationObserver) Disconnect() {
	for _, t := range o.targets {
		for i, cur := range t.observers {
			if cur == o {
				t.observers = append(t.observers[:i], t.observers[i+1:]...)
				break
			}
		}
	}
	o.targets = nil
}

// Observing reports whether the observer is attached to anything.
func (o *MutationObserver) Observing() bool { return len(o.targets) > 0 }

func (n *Node) notifyMutation(rec MutationRecord) {
	for cur := n; cur != nil; cur = cur.Parent {
		for _, o := range append([]*MutationObserver(nil), cur.observers...) {
			o.callback(rec)
		}
	}
}
