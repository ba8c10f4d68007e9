package tree

import "fmt"

// Policy tells how to choose among parents with free slots.
type Policy string

const (
	// Fullest prefers the node with the most children still under the limit,
	// so partially used nodes are filled before idle ones.
	Fullest Policy = "fullest"
	// First takes the first node with a free slot.
	First Policy = "first"
)

func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(s); p {
	case Fullest, First:
		return p, nil
	case "":
		return Fullest, nil
	}
	return "", fmt.Errorf("unknown selector policy %q", s)
}

// Select finds a parent for a new node.
// Nodes are visited breadth-first from the root, so among equal candidates
// the one closer to the root wins. The excluded node and its subtree are skipped.
func (t *Tree[K]) Select(exclude K, policy Policy) (K, bool) {
	var best K
	if !t.hasRoot {
		return best, false
	}
	bestN := -1
	queue := []K{t.root}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if id == exclude {
			continue
		}
		kids := t.children[id]
		queue = append(queue, kids...)
		if len(kids) >= t.limit {
			continue
		}
		if policy == First {
			return id, true
		}
		if len(kids) > bestN {
			best, bestN = id, len(kids)
		}
	}
	return best, bestN >= 0
}
