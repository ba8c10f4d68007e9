// Package tree keeps the relay overlay: one root (the publisher)
// and relay nodes with a bounded number of children each.
//
// Edges are stored by id in two maps (child to parent, parent to ordered children),
// so the structure never holds references to sessions and a snapshot is acyclic.
// A node that lost its parent stays here as the head of an unattached fragment
// together with its own subtree until it re-attaches or leaves.
//
// Tree is not safe for concurrent use, the owner serializes all calls.
package tree

import (
	"errors"
	"fmt"
)

// DefaultLimit is the fan-out limit used when none is specified.
const DefaultLimit = 2

var (
	ErrParentNotFound = errors.New("parent not found")
	ErrParentFull     = errors.New("parent is full")
	ErrInvariant      = errors.New("invariant violation")
)

type Role string

const (
	RoleRoot       Role = "root"
	RoleRelay      Role = "relay"
	RoleUnattached Role = "unattached"
)

type Tree[K comparable] struct {
	limit    int
	root     K
	hasRoot  bool
	num      map[K]int
	parent   map[K]K
	children map[K][]K
}

// Detached describes what a node left behind.
type Detached[K comparable] struct {
	Parent    K
	HasParent bool
	// Children are the former direct children in attachment order.
	Children []K
	// Orphans are all former descendants, for the root it's everyone else in the tree.
	Orphans []K
	WasRoot bool
}

func New[K comparable](limit int) *Tree[K] {
	if limit < 1 {
		limit = DefaultLimit
	}
	t := &Tree[K]{limit: limit}
	t.clear()
	return t
}

func (t *Tree[K]) clear() {
	var zero K
	t.root, t.hasRoot = zero, false
	t.num = make(map[K]int)
	t.parent = make(map[K]K)
	t.children = make(map[K][]K)
}

func (t *Tree[K]) Limit() int { return t.limit }

// Root returns the current root if there is one.
func (t *Tree[K]) Root() (K, bool) { return t.root, t.hasRoot }

// Has tells if the node is known, attached or not.
func (t *Tree[K]) Has(id K) bool { _, ok := t.num[id]; return ok }

func (t *Tree[K]) Parent(id K) (K, bool) { p, ok := t.parent[id]; return p, ok }

func (t *Tree[K]) ChildCount(id K) int { return len(t.children[id]) }

// IsAttached tells if the node is reachable from the root.
func (t *Tree[K]) IsAttached(id K) bool {
	if !t.hasRoot || !t.Has(id) {
		return false
	}
	cur := id
	for range len(t.num) {
		if cur == t.root {
			return true
		}
		p, ok := t.parent[cur]
		if !ok {
			return false
		}
		cur = p
	}
	return false
}

func (t *Tree[K]) Role(id K) Role {
	switch {
	case t.hasRoot && id == t.root:
		return RoleRoot
	case t.IsAttached(id):
		return RoleRelay
	default:
		return RoleUnattached
	}
}

// Len returns the number of attached nodes.
func (t *Tree[K]) Len() int {
	if !t.hasRoot {
		return 0
	}
	return len(t.Members())
}

// Members returns attached nodes in breadth-first order starting from the root.
func (t *Tree[K]) Members() []K {
	if !t.hasRoot {
		return nil
	}
	return t.walk(t.root)
}

// walk lists the subtree of the node in breadth-first order.
func (t *Tree[K]) walk(from K) []K {
	out := []K{from}
	for i := 0; i < len(out); i++ {
		out = append(out, t.children[out[i]]...)
	}
	return out
}

// Reset drops everything and makes the node a new root.
func (t *Tree[K]) Reset(root K, num int) {
	t.clear()
	t.root, t.hasRoot = root, true
	t.num[root] = num
}

// Attach makes an edge from the parent to the child.
// A child that already has a parent is moved along with its subtree.
func (t *Tree[K]) Attach(child K, num int, parent K) error {
	if child == parent {
		return fmt.Errorf("%w: self attach", ErrInvariant)
	}
	if !t.IsAttached(parent) {
		return ErrParentNotFound
	}
	if child == t.root {
		return fmt.Errorf("%w: the root can't have a parent", ErrInvariant)
	}
	if t.isAncestor(child, parent) {
		return fmt.Errorf("%w: cycle", ErrInvariant)
	}
	old, had := t.parent[child]
	if had && old == parent {
		t.num[child] = num
		return nil
	}
	if len(t.children[parent]) >= t.limit {
		return ErrParentFull
	}
	if had {
		t.unlink(child, old)
	}
	t.parent[child] = parent
	t.children[parent] = append(t.children[parent], child)
	t.num[child] = num
	return nil
}

// Detach removes the node.
// The root takes the whole tree with it, otherwise the former children
// become unattached fragments. Unknown nodes are reported with false.
func (t *Tree[K]) Detach(id K) (Detached[K], bool) {
	if !t.Has(id) {
		return Detached[K]{}, false
	}
	sub := t.walk(id)
	d := Detached[K]{
		Children: append([]K(nil), t.children[id]...),
		Orphans:  sub[1:],
	}
	if t.hasRoot && id == t.root {
		d.WasRoot = true
		t.clear()
		return d, true
	}
	if p, ok := t.parent[id]; ok {
		d.Parent, d.HasParent = p, true
		t.unlink(id, p)
	}
	for _, c := range d.Children {
		delete(t.parent, c)
	}
	delete(t.children, id)
	delete(t.num, id)
	return d, true
}

func (t *Tree[K]) unlink(child, parent K) {
	delete(t.parent, child)
	kids := t.children[parent]
	for i, c := range kids {
		if c == child {
			kids = append(kids[:i:i], kids[i+1:]...)
			break
		}
	}
	if len(kids) == 0 {
		delete(t.children, parent)
		return
	}
	t.children[parent] = kids
}

// isAncestor tells if a is on the path from n up to its topmost node.
func (t *Tree[K]) isAncestor(a, n K) bool {
	cur := n
	for range len(t.num) + 1 {
		if cur == a {
			return true
		}
		p, ok := t.parent[cur]
		if !ok {
			return false
		}
		cur = p
	}
	return true
}

// Check verifies the structure, nil means that everything is fine.
func (t *Tree[K]) Check() error {
	if !t.hasRoot {
		if len(t.num) > 0 || len(t.parent) > 0 || len(t.children) > 0 {
			return fmt.Errorf("%w: nodes without a root", ErrInvariant)
		}
		return nil
	}
	if _, ok := t.num[t.root]; !ok {
		return fmt.Errorf("%w: unknown root", ErrInvariant)
	}
	if _, ok := t.parent[t.root]; ok {
		return fmt.Errorf("%w: root has a parent", ErrInvariant)
	}
	for c, p := range t.parent {
		if !t.Has(c) || !t.Has(p) {
			return fmt.Errorf("%w: dangling edge %v -> %v", ErrInvariant, p, c)
		}
		n := 0
		for _, x := range t.children[p] {
			if x == c {
				n++
			}
		}
		if n != 1 {
			return fmt.Errorf("%w: %v is listed %d times under %v", ErrInvariant, c, n, p)
		}
	}
	for p, kids := range t.children {
		if len(kids) > t.limit {
			return fmt.Errorf("%w: %v has %d children", ErrInvariant, p, len(kids))
		}
		for _, c := range kids {
			if pp, ok := t.parent[c]; !ok || pp != p {
				return fmt.Errorf("%w: %v doesn't point to %v", ErrInvariant, c, p)
			}
		}
	}
	for id := range t.num {
		seen := 0
		for cur, ok := id, true; ok; cur, ok = t.parent[cur] {
			if seen++; seen > len(t.num) {
				return fmt.Errorf("%w: cycle through %v", ErrInvariant, id)
			}
		}
	}
	return nil
}
