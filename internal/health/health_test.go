package health

import (
	"strings"
	"testing"

	"cee/internal/graph"
	"cee/internal/scoring"
)

func setComprehension(g *graph.Graph, id string, score, confidence float64) {
	ent, _ := g.Entanglement(id)
	ent.ComprehensionScore = score
	ent.Confidence = confidence
	ent.State = scoring.StateFor(score, confidence, ent.CascadeFailures)
}

func TestStrugglingOrder(t *testing.T) {
	g := graph.New("c", "")
	for _, id := range []string{"s1", "s2", "col1", "col2", "ok"} {
		g.AddNode(graph.ConceptNode{ID: id})
	}
	setComprehension(g, "s1", 35, 1)
	setComprehension(g, "s2", 40, 1)
	setComprehension(g, "col1", 10, 1)
	setComprehension(g, "col2", 5, 1)
	setComprehension(g, "ok", 90, 1)

	e, _ := g.Entanglement("col2")
	e.CascadeFailures = 4
	e2, _ := g.Entanglement("s2")
	e2.CascadeFailures = 1

	out := Struggling(g)
	if len(out) != 4 {
		t.Fatalf("len = %d, want 4: %+v", len(out), out)
	}
	// Collapsed first; within each group, cascade failures descending.
	wantOrder := []string{"col2", "col1", "s2", "s1"}
	for i, want := range wantOrder {
		if out[i].ConceptID != want {
			t.Fatalf("order = %v, want %v", ids(out), wantOrder)
		}
	}
}

func ids(list []StrugglingConcept) []string {
	var out []string
	for _, s := range list {
		out = append(out, s.ConceptID)
	}
	return out
}

func TestKeystones(t *testing.T) {
	g := graph.New("c", "")
	for _, id := range []string{"hub", "minor", "d1", "d2", "d3", "d4"} {
		g.AddNode(graph.ConceptNode{ID: id})
	}
	for _, d := range []string{"d1", "d2", "d3", "d4"} {
		g.AddEdge(graph.ConceptEdge{From: "hub", To: d, Kind: graph.EdgePrerequisite})
	}
	g.AddEdge(graph.ConceptEdge{From: "minor", To: "d1", Kind: graph.EdgePrerequisite})

	ks := Keystones(g, 0)
	if len(ks) != 1 || ks[0].ConceptID != "hub" || ks[0].DependentCount != 4 {
		t.Errorf("keystones = %+v, want only hub with 4 dependents", ks)
	}

	// Lower threshold picks up minor too, sorted by dependent count.
	ks = Keystones(g, 1)
	if len(ks) != 2 || ks[0].ConceptID != "hub" || ks[1].ConceptID != "minor" {
		t.Errorf("keystones(1) = %+v", ks)
	}
}

func TestCriticalPath(t *testing.T) {
	g := graph.New("c", "")
	// Two roots: a short chain and a long one sharing a tail.
	for _, id := range []string{"r1", "r2", "m1", "m2", "tail"} {
		g.AddNode(graph.ConceptNode{ID: id})
	}
	g.AddEdge(graph.ConceptEdge{From: "r1", To: "tail", Kind: graph.EdgePrerequisite})
	g.AddEdge(graph.ConceptEdge{From: "r2", To: "m1", Kind: graph.EdgePrerequisite})
	g.AddEdge(graph.ConceptEdge{From: "m1", To: "m2", Kind: graph.EdgePrerequisite})
	g.AddEdge(graph.ConceptEdge{From: "m2", To: "tail", Kind: graph.EdgePrerequisite})

	got := CriticalPath(g)
	want := []string{"r2", "m1", "m2", "tail"}
	if len(got) != len(want) {
		t.Fatalf("criticalPath = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("criticalPath = %v, want %v", got, want)
		}
	}
}

func TestCriticalPathEmptyGraph(t *testing.T) {
	g := graph.New("c", "")
	if got := CriticalPath(g); len(got) != 0 {
		t.Errorf("criticalPath on empty graph = %v", got)
	}
}

func TestCriticalPathTerminatesOnCycle(t *testing.T) {
	g := graph.New("c", "")
	for _, id := range []string{"root", "a", "b"} {
		g.AddNode(graph.ConceptNode{ID: id})
	}
	g.AddEdge(graph.ConceptEdge{From: "root", To: "a", Kind: graph.EdgePrerequisite})
	g.AddEdge(graph.ConceptEdge{From: "a", To: "b", Kind: graph.EdgePrerequisite})
	g.AddEdge(graph.ConceptEdge{From: "b", To: "a", Kind: graph.EdgePrerequisite})

	// Best-effort on cycles; must simply return.
	got := CriticalPath(g)
	if len(got) == 0 {
		t.Error("expected a non-empty best-effort path")
	}
}

func TestCalculateHealth(t *testing.T) {
	g := graph.New("c", "")
	for _, id := range []string{"m", "s", "u", "st", "col", "unk"} {
		g.AddNode(graph.ConceptNode{ID: id})
	}
	setComprehension(g, "m", 95, 1)  // mastered -> 100
	setComprehension(g, "s", 75, 1)  // stable -> 80
	setComprehension(g, "u", 55, 1)  // unstable -> 50
	setComprehension(g, "st", 35, 1) // struggling -> 25
	setComprehension(g, "col", 5, 1) // collapsed -> 0
	// unk stays unknown and is excluded from the weighted average.

	r := Calculate(g)
	if r.TotalConcepts != 6 || r.TrackedConcepts != 5 {
		t.Errorf("counts = %d/%d, want 6 total, 5 tracked", r.TotalConcepts, r.TrackedConcepts)
	}
	if r.OverallScore != 51 {
		t.Errorf("overallScore = %v, want (100+80+50+25+0)/5 = 51", r.OverallScore)
	}
	if r.StateCounts[graph.StateCollapsed] != 1 || r.StateCounts[graph.StateUnknown] != 1 {
		t.Errorf("stateCounts = %v", r.StateCounts)
	}

	joined := strings.Join(r.Recommendations, "\n")
	if !strings.Contains(joined, "collapsed") {
		t.Errorf("recommendations = %v, want a collapsed-concept warning", r.Recommendations)
	}
	if !strings.Contains(joined, "struggling") {
		t.Errorf("recommendations = %v, want a struggling-ratio warning (2/5 collapsed+struggling > 0.3)", r.Recommendations)
	}
}

func TestCalculateHealthEmpty(t *testing.T) {
	g := graph.New("c", "")
	r := Calculate(g)
	if r.OverallScore != 100 {
		t.Errorf("overallScore = %v, want 100 with no evidence", r.OverallScore)
	}
	if len(r.Recommendations) != 0 {
		t.Errorf("recommendations = %v, want none", r.Recommendations)
	}
}

func TestCalculateHealthKeystoneWarning(t *testing.T) {
	g := graph.New("c", "")
	for _, id := range []string{"hub", "d1", "d2", "d3"} {
		g.AddNode(graph.ConceptNode{ID: id})
	}
	for _, d := range []string{"d1", "d2", "d3"} {
		g.AddEdge(graph.ConceptEdge{From: "hub", To: d, Kind: graph.EdgePrerequisite})
	}
	setComprehension(g, "hub", 35, 1) // struggling keystone

	r := Calculate(g)
	found := false
	for _, rec := range r.Recommendations {
		if strings.Contains(rec, "keystone") && strings.Contains(rec, "hub") {
			found = true
		}
	}
	if !found {
		t.Errorf("recommendations = %v, want a keystone warning for hub", r.Recommendations)
	}
}
