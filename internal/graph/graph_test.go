package graph

import (
	"testing"
)

func TestAddNodeCreatesEntanglement(t *testing.T) {
	g := New("course-1", "user-1")
	g.AddNode(ConceptNode{ID: "closures", Title: "Closures"})

	ent, ok := g.Entanglement("closures")
	if !ok {
		t.Fatal("expected entanglement entry after AddNode")
	}
	if ent.State != StateUnknown {
		t.Errorf("state = %q, want %q", ent.State, StateUnknown)
	}
	if ent.ComprehensionScore != 50 {
		t.Errorf("score = %v, want 50", ent.ComprehensionScore)
	}
	if ent.Confidence != 0 {
		t.Errorf("confidence = %v, want 0", ent.Confidence)
	}
}

func TestAddNodeOverwritePreservesEntanglement(t *testing.T) {
	g := New("course-1", "")
	g.AddNode(ConceptNode{ID: "closures", Title: "Closures"})

	ent, _ := g.Entanglement("closures")
	ent.ComprehensionScore = 90
	ent.Attempts = 4

	g.AddNode(ConceptNode{ID: "closures", Title: "Closures, revised"})

	node, _ := g.Node("closures")
	if node.Title != "Closures, revised" {
		t.Errorf("title = %q, want overwrite to win", node.Title)
	}
	ent, _ = g.Entanglement("closures")
	if ent.ComprehensionScore != 90 || ent.Attempts != 4 {
		t.Errorf("entanglement reset on re-add: score=%v attempts=%d", ent.ComprehensionScore, ent.Attempts)
	}
}

func TestAddEdgeMirrorsPrerequisiteSets(t *testing.T) {
	g := New("course-1", "")
	g.AddNode(ConceptNode{ID: "a"})
	g.AddNode(ConceptNode{ID: "b"})

	e := g.AddEdge(ConceptEdge{From: "a", To: "b", Kind: EdgePrerequisite, Weight: 0.5, TransferCoefficient: 0.7})
	if e.ID != "a-b-prerequisite" {
		t.Errorf("edge id = %q", e.ID)
	}

	b, _ := g.Node("b")
	if len(b.Prerequisites) != 1 || b.Prerequisites[0] != "a" {
		t.Errorf("b.Prerequisites = %v, want [a]", b.Prerequisites)
	}
	a, _ := g.Node("a")
	if len(a.Dependents) != 1 || a.Dependents[0] != "b" {
		t.Errorf("a.Dependents = %v, want [b]", a.Dependents)
	}

	// Same edge again: no duplicate edge, no duplicate mirror entry.
	g.AddEdge(ConceptEdge{From: "a", To: "b", Kind: EdgePrerequisite})
	if len(g.Edges) != 1 {
		t.Errorf("len(Edges) = %d, want 1", len(g.Edges))
	}
	b, _ = g.Node("b")
	if len(b.Prerequisites) != 1 {
		t.Errorf("b.Prerequisites = %v after duplicate add", b.Prerequisites)
	}
}

func TestAddEdgeNonPrerequisiteLeavesMirrorsAlone(t *testing.T) {
	g := New("course-1", "")
	g.AddNode(ConceptNode{ID: "a"})
	g.AddNode(ConceptNode{ID: "b"})
	g.AddEdge(ConceptEdge{From: "a", To: "b", Kind: EdgeRelated, Weight: 0.4})

	a, _ := g.Node("a")
	b, _ := g.Node("b")
	if len(a.Dependents) != 0 || len(b.Prerequisites) != 0 {
		t.Errorf("related edge must not touch prerequisite mirrors: %v %v", a.Dependents, b.Prerequisites)
	}
}

func TestAddEdgeClampsRanges(t *testing.T) {
	g := New("course-1", "")
	e := g.AddEdge(ConceptEdge{From: "a", To: "b", Kind: EdgePrerequisite, Weight: 1.7, TransferCoefficient: -0.2})
	if e.Weight != 1 {
		t.Errorf("weight = %v, want clamped to 1", e.Weight)
	}
	if e.TransferCoefficient != 0 {
		t.Errorf("transferCoefficient = %v, want clamped to 0", e.TransferCoefficient)
	}
}

func TestEdgeBetween(t *testing.T) {
	g := New("course-1", "")
	g.AddNode(ConceptNode{ID: "a"})
	g.AddNode(ConceptNode{ID: "b"})
	g.AddEdge(ConceptEdge{From: "a", To: "b", Kind: EdgePrerequisite})

	if _, ok := g.EdgeBetween("a", "b"); !ok {
		t.Error("expected edge a->b")
	}
	if _, ok := g.EdgeBetween("b", "a"); ok {
		t.Error("did not expect edge b->a")
	}
}
