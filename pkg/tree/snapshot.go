package tree

// Node is a detached copy of a tree node suitable for sending over the wire.
type Node[K comparable] struct {
	Id       K         `json:"id"`
	Num      int       `json:"numberId"`
	Parent   *K        `json:"parent,omitempty"`
	Children []Node[K] `json:"children"`
}

// Snapshot copies the attached part of the tree.
// The result is either empty or has exactly one top node.
func (t *Tree[K]) Snapshot() []Node[K] {
	if !t.hasRoot {
		return []Node[K]{}
	}
	return []Node[K]{t.node(t.root, nil)}
}

func (t *Tree[K]) node(id K, parent *K) Node[K] {
	n := Node[K]{Id: id, Num: t.num[id], Children: make([]Node[K], 0, len(t.children[id]))}
	if parent != nil {
		p := *parent
		n.Parent = &p
	}
	for _, c := range t.children[id] {
		n.Children = append(n.Children, t.node(c, &id))
	}
	return n
}

// Count returns the number of nodes in the snapshot.
func Count[K comparable](nodes []Node[K]) int {
	n := 0
	for _, x := range nodes {
		n += 1 + Count(x.Children)
	}
	return n
}
