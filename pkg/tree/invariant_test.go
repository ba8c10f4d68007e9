package tree

import (
	"math/rand"
	"testing"
)

// op applies one random operation to the tree, mostly through the selector.
func op(tr *Tree[int], r *rand.Rand, next *int, policy Policy) {
	switch k := r.Intn(10); {
	case k == 0:
		*next++
		tr.Reset(*next, *next)
	case k < 6:
		*next++
		if p, ok := tr.Select(*next, policy); ok {
			_ = tr.Attach(*next, *next, p)
		}
	case k < 8:
		// answers racing the selector: arbitrary parents, including full ones
		_ = tr.Attach(r.Intn(*next+1), 0, r.Intn(*next+1))
	default:
		tr.Detach(r.Intn(*next + 1))
	}
}

func checkSnapshot(t *testing.T, tr *Tree[int]) {
	snap := tr.Snapshot()
	if len(snap) > 1 {
		t.Fatalf("more than one top node: %v", len(snap))
	}
	if len(snap) == 1 && snap[0].Parent != nil {
		t.Fatalf("top node has a parent")
	}
	seen := map[int]bool{}
	var visit func(n Node[int])
	visit = func(n Node[int]) {
		if seen[n.Id] {
			t.Fatalf("%v is seen twice", n.Id)
		}
		seen[n.Id] = true
		if len(n.Children) > tr.Limit() {
			t.Fatalf("%v has %v children", n.Id, len(n.Children))
		}
		for _, c := range n.Children {
			if c.Parent == nil || *c.Parent != n.Id {
				t.Fatalf("%v doesn't point to %v", c.Id, n.Id)
			}
			visit(c)
		}
	}
	for _, n := range snap {
		visit(n)
	}
	if len(seen) != tr.Len() {
		t.Fatalf("snapshot has %v nodes, tree %v", len(seen), tr.Len())
	}
}

func TestRandomOperationsKeepInvariants(t *testing.T) {
	for _, policy := range []Policy{Fullest, First} {
		for _, limit := range []int{1, 2, 3} {
			r := rand.New(rand.NewSource(int64(limit)))
			tr := New[int](limit)
			next := 0
			for range 5000 {
				op(tr, r, &next, policy)
				if err := tr.Check(); err != nil {
					t.Fatalf("%v/%v: %v", policy, limit, err)
				}
				checkSnapshot(t, tr)
			}
		}
	}
}

func FuzzTree(f *testing.F) {
	f.Add(int64(1), uint8(2), uint16(100))
	f.Add(int64(42), uint8(1), uint16(500))
	f.Fuzz(func(t *testing.T, seed int64, limit uint8, steps uint16) {
		r := rand.New(rand.NewSource(seed))
		tr := New[int](int(limit%4) + 1)
		next := 0
		for range int(steps % 2000) {
			op(tr, r, &next, Fullest)
			if err := tr.Check(); err != nil {
				t.Fatal(err)
			}
		}
		checkSnapshot(t, tr)
	})
}
