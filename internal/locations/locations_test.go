package locations

import (
	"reflect"
	"testing"
)

func buildLine(t *testing.T) *Graph {
	t.Helper()
	g := NewGraph()
	g.Add(&Location{ID: "a", Kind: KindVillage})
	g.Add(&Location{ID: "b", Kind: KindVillage})
	g.Add(&Location{ID: "c", Kind: KindVillage})
	g.AddEdge("a", "b")
	g.AddEdge("b", "c")
	return g
}

func TestAddDuplicatePanics(t *testing.T) {
	g := NewGraph()
	g.Add(&Location{ID: "a"})
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on duplicate location id")
		}
	}()
	g.Add(&Location{ID: "a"})
}

func TestAddEdgeSymmetric(t *testing.T) {
	g := buildLine(t)
	if !reflect.DeepEqual(g.Neighbors("a"), []ID{"b"}) {
		t.Fatalf("a's neighbors = %v, want [b]", g.Neighbors("a"))
	}
	if !reflect.DeepEqual(g.Neighbors("b"), []ID{"a", "c"}) {
		t.Fatalf("b's neighbors = %v, want [a c]", g.Neighbors("b"))
	}
}

func TestShortestPath(t *testing.T) {
	g := buildLine(t)
	path := g.ShortestPath("a", "c")
	want := []ID{"a", "b", "c"}
	if !reflect.DeepEqual(path, want) {
		t.Fatalf("ShortestPath(a,c) = %v, want %v", path, want)
	}
}

func TestShortestPathUnreachable(t *testing.T) {
	g := buildLine(t)
	g.Add(&Location{ID: "isolated"})
	if path := g.ShortestPath("a", "isolated"); path != nil {
		t.Fatalf("expected nil path to an unreachable node, got %v", path)
	}
}

func TestNextStepToward(t *testing.T) {
	g := buildLine(t)
	if next := g.NextStepToward("a", "c"); next != "b" {
		t.Fatalf("NextStepToward(a,c) = %q, want %q", next, "b")
	}
	if next := g.NextStepToward("a", "a"); next != "" {
		t.Fatalf("NextStepToward(a,a) = %q, want empty", next)
	}
}

func TestIDsCanonicalOrder(t *testing.T) {
	g := NewGraph()
	g.Add(&Location{ID: "z"})
	g.Add(&Location{ID: "a"})
	g.Add(&Location{ID: "m"})
	want := []ID{"a", "m", "z"}
	if got := g.IDs(); !reflect.DeepEqual(got, want) {
		t.Fatalf("IDs() = %v, want %v", got, want)
	}
}

func TestRebuildPresence(t *testing.T) {
	g := buildLine(t)
	g.RebuildPresence(map[ID][]string{"a": {"agent_1", "agent_2"}})
	if got := g.Get("a").AgentsPresent; !reflect.DeepEqual(got, []string{"agent_1", "agent_2"}) {
		t.Fatalf("a's AgentsPresent = %v", got)
	}
	if got := g.Get("b").AgentsPresent; got != nil {
		t.Fatalf("b's AgentsPresent = %v, want nil", got)
	}
}
