package callgraphstats

import "testing"

func TestCheckCountsLoopsAndIsolated(t *testing.T) {
	edges := map[string]map[string]bool{
		"main": {"g": true, "h": true},
		"g":    {"g": true},
		"h":    {},
		"orphan": {},
	}
	stats := New(edges).Check()
	if stats.Loops != 1 {
		t.Errorf("expected 1 self-loop (g->g), got %d", stats.Loops)
	}
	if stats.Isolated != 1 {
		t.Errorf("expected 1 isolated node (orphan), got %d", stats.Isolated)
	}
}

func TestOrderIsDeterministic(t *testing.T) {
	edges := map[string]map[string]bool{
		"z": {"a": true},
		"a": {},
	}
	g1 := New(edges)
	g2 := New(edges)
	if g1.Order() != g2.Order() {
		t.Fatalf("Order mismatch between identical builds")
	}
	for v := 0; v < g1.Order(); v++ {
		var got1, got2 []int
		g1.Visit(v, func(w int, _ int64) bool { got1 = append(got1, w); return false })
		g2.Visit(v, func(w int, _ int64) bool { got2 = append(got2, w); return false })
		if len(got1) != len(got2) {
			t.Errorf("node %d: edge count differs between runs", v)
		}
	}
}
