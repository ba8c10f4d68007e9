package tree

import "testing"

func TestParsePolicy(t *testing.T) {
	for in, want := range map[string]Policy{"": Fullest, "fullest": Fullest, "first": First} {
		p, err := ParsePolicy(in)
		if err != nil || p != want {
			t.Errorf("%q: %v %v", in, p, err)
		}
	}
	if _, err := ParsePolicy("random"); err == nil {
		t.Errorf("expected an error")
	}
}

func TestSelect(t *testing.T) {
	tests := []struct {
		name    string
		edges   [][2]string
		exclude string
		policy  Policy
		want    string
		none    bool
	}{
		{name: "empty", policy: Fullest, none: true},
		{name: "only root", edges: [][2]string{{"a", "b"}}, exclude: "b", policy: Fullest, want: "a"},
		{name: "fullest prefers a half-used parent", edges: [][2]string{{"a", "b"}, {"a", "c"}, {"c", "d"}}, exclude: "x", policy: Fullest, want: "c"},
		{name: "first takes the first free slot", edges: [][2]string{{"a", "b"}, {"a", "c"}, {"c", "d"}}, exclude: "x", policy: First, want: "b"},
		{name: "first takes the root", edges: [][2]string{{"a", "b"}, {"b", "c"}}, exclude: "x", policy: First, want: "a"},
		{name: "full root", edges: [][2]string{{"a", "b"}, {"a", "c"}}, exclude: "x", policy: Fullest, want: "b"},
		{name: "fullest ties go to the shallower node", edges: [][2]string{{"a", "b"}, {"a", "c"}, {"b", "d"}, {"c", "e"}}, exclude: "x", policy: Fullest, want: "b"},
		{name: "all full", edges: [][2]string{{"a", "b"}, {"a", "c"}, {"b", "d"}, {"b", "e"}, {"c", "f"}, {"c", "g"}}, exclude: "d", policy: Fullest, want: "e"},
		{name: "excluded subtree", edges: [][2]string{{"a", "b"}, {"a", "c"}, {"b", "d"}, {"c", "e"}, {"c", "f"}}, exclude: "b", policy: Fullest, want: "e"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			tr := New[string](2)
			if len(test.edges) > 0 {
				tr = build(t, 2, test.edges...)
			}
			got, ok := tr.Select(test.exclude, test.policy)
			if test.none {
				if ok {
					t.Errorf("expected nothing, got %v", got)
				}
				return
			}
			if !ok || got != test.want {
				t.Errorf("expected %v, got %v (%v)", test.want, got, ok)
			}
		})
	}
}

func TestSelectNoneWhenEverybodyIsFull(t *testing.T) {
	tr := build(t, 1, [2]string{"a", "b"}, [2]string{"b", "c"})
	if got, ok := tr.Select("c", Fullest); ok {
		t.Errorf("expected nothing, got %v", got)
	}
	if got, ok := tr.Select("c", First); ok {
		t.Errorf("expected nothing, got %v", got)
	}
}

// A joins as host, B attaches to A, then C looks for a parent.
func TestSelectHostScenario(t *testing.T) {
	tr := New[string](2)
	tr.Reset("A", 1)
	if p, _ := tr.Select("B", Fullest); p != "A" {
		t.Fatalf("B should go to A, got %v", p)
	}
	if err := tr.Attach("B", 2, "A"); err != nil {
		t.Fatal(err)
	}
	for _, policy := range []Policy{Fullest, First} {
		if p, _ := tr.Select("C", policy); p != "A" {
			t.Errorf("%v: C should go to A, got %v", policy, p)
		}
	}
}
