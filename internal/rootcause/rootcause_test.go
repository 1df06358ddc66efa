package rootcause

import (
	"math"
	"testing"

	"cee/internal/graph"
	"cee/internal/scoring"
)

// setComprehension forces a concept to a score/confidence pair, deriving the
// state through the scoring table like production code does.
func setComprehension(g *graph.Graph, id string, score, confidence float64) {
	ent, ok := g.Entanglement(id)
	if !ok {
		panic("unknown concept " + id)
	}
	ent.ComprehensionScore = score
	ent.Confidence = confidence
	ent.State = scoring.StateFor(score, confidence, ent.CascadeFailures)
}

// chainGraph builds closures -> callbacks -> async-await with prerequisite
// edges at the course-import defaults.
func chainGraph() *graph.Graph {
	g := graph.New("js-deep-dive", "user-1")
	for _, id := range []string{"closures", "callbacks", "async-await"} {
		g.AddNode(graph.ConceptNode{ID: id, Title: id})
	}
	g.AddEdge(graph.ConceptEdge{From: "closures", To: "callbacks", Kind: graph.EdgePrerequisite, Weight: 0.5, TransferCoefficient: 0.7})
	g.AddEdge(graph.ConceptEdge{From: "callbacks", To: "async-await", Kind: graph.EdgePrerequisite, Weight: 0.5, TransferCoefficient: 0.7})
	return g
}

func TestAnalyzeChainScenario(t *testing.T) {
	g := chainGraph()
	setComprehension(g, "closures", 20, 0.9)  // collapsed
	setComprehension(g, "callbacks", 45, 0.8) // struggling

	res := Analyze(g, "async-await", 0)

	if len(res.RootCauses) != 2 {
		t.Fatalf("len(rootCauses) = %d, want 2: %+v", len(res.RootCauses), res.RootCauses)
	}

	top := res.RootCauses[0]
	if top.ConceptID != "closures" {
		t.Errorf("top root cause = %q, want closures", top.ConceptID)
	}
	if top.Severity != SeverityCritical {
		t.Errorf("closures severity = %q, want critical", top.Severity)
	}
	if res.RootCauses[1].ConceptID != "callbacks" {
		t.Errorf("second root cause = %q, want callbacks", res.RootCauses[1].ConceptID)
	}
	if res.RootCauses[1].Severity != SeverityMajor {
		t.Errorf("callbacks severity = %q, want major", res.RootCauses[1].Severity)
	}
	if top.Confidence <= res.RootCauses[1].Confidence {
		t.Errorf("closures confidence %v should exceed callbacks %v", top.Confidence, res.RootCauses[1].Confidence)
	}

	want := []string{"closures", "callbacks", "async-await"}
	if len(res.CausationChain) != len(want) {
		t.Fatalf("causationChain = %v, want %v", res.CausationChain, want)
	}
	for i, id := range want {
		if res.CausationChain[i] != id {
			t.Fatalf("causationChain = %v, want %v", res.CausationChain, want)
		}
	}
}

func TestAnalyzeConfidenceFormula(t *testing.T) {
	g := chainGraph()
	setComprehension(g, "callbacks", 45, 0.8)

	res := Analyze(g, "async-await", 0)
	if len(res.RootCauses) != 1 {
		t.Fatalf("len(rootCauses) = %d, want 1", len(res.RootCauses))
	}
	// cascadeRatio 0, scoreGap 55, depthFactor 1 at depth 0:
	// 0*0.3 + 0.55*0.4 + 1*0.3 = 0.52
	got := res.RootCauses[0].Confidence
	if math.Abs(got-0.52) > 1e-9 {
		t.Errorf("confidence = %v, want 0.52", got)
	}
}

func TestAnalyzeDirectCollapsedPrerequisite(t *testing.T) {
	g := graph.New("c", "")
	g.AddNode(graph.ConceptNode{ID: "b"})
	g.AddNode(graph.ConceptNode{ID: "a"})
	g.AddEdge(graph.ConceptEdge{From: "b", To: "a", Kind: graph.EdgePrerequisite, Weight: 0.5, TransferCoefficient: 0.7})
	setComprehension(g, "b", 10, 1) // collapsed
	setComprehension(g, "a", 35, 1) // struggling

	res := Analyze(g, "a", 0)
	found := false
	for _, rc := range res.RootCauses {
		if rc.ConceptID == "b" {
			found = true
			if rc.Severity != SeverityCritical {
				t.Errorf("severity = %q, want critical", rc.Severity)
			}
		}
	}
	if !found {
		t.Error("collapsed direct prerequisite missing from root causes")
	}
}

func TestAnalyzeHealthyChain(t *testing.T) {
	g := chainGraph()
	setComprehension(g, "closures", 90, 1)
	setComprehension(g, "callbacks", 88, 1)

	res := Analyze(g, "async-await", 0)
	if len(res.RootCauses) != 0 {
		t.Errorf("rootCauses = %+v, want none", res.RootCauses)
	}
	if len(res.CausationChain) != 1 || res.CausationChain[0] != "async-await" {
		t.Errorf("causationChain = %v, want [async-await]", res.CausationChain)
	}
}

func TestAnalyzeEvidence(t *testing.T) {
	g := chainGraph()
	ent, _ := g.Entanglement("closures")
	ent.CascadeFailures = 4
	ent.Attempts = 7
	setComprehension(g, "closures", 20, 0.9)

	res := Analyze(g, "callbacks", 0)
	if len(res.RootCauses) == 0 {
		t.Fatal("expected a root cause")
	}
	ev := res.RootCauses[0].Evidence
	if len(ev) != 4 {
		t.Errorf("evidence = %v, want collapsed + cascade + low score + stuck attempts", ev)
	}
}

func TestAnalyzeTerminatesOnCycle(t *testing.T) {
	g := graph.New("c", "")
	g.AddNode(graph.ConceptNode{ID: "a"})
	g.AddNode(graph.ConceptNode{ID: "b"})
	g.AddEdge(graph.ConceptEdge{From: "a", To: "b", Kind: graph.EdgePrerequisite})
	g.AddEdge(graph.ConceptEdge{From: "b", To: "a", Kind: graph.EdgePrerequisite})
	setComprehension(g, "a", 20, 1)
	setComprehension(g, "b", 20, 1)

	// Must return; visited set breaks the cycle.
	res := Analyze(g, "a", 10)
	if len(res.RootCauses) == 0 {
		t.Error("expected root causes on cyclic graph")
	}
}

func TestAnalyzeRespectsMaxDepth(t *testing.T) {
	g := graph.New("c", "")
	ids := []string{"e", "d", "c", "b", "a"}
	for _, id := range ids {
		g.AddNode(graph.ConceptNode{ID: id})
	}
	// e -> d -> c -> b -> a
	for i := 0; i < len(ids)-1; i++ {
		g.AddEdge(graph.ConceptEdge{From: ids[i], To: ids[i+1], Kind: graph.EdgePrerequisite})
	}
	for _, id := range ids[:4] {
		setComprehension(g, id, 20, 1)
	}

	res := Analyze(g, "a", 2)
	for _, rc := range res.RootCauses {
		if rc.ConceptID == "e" {
			t.Error("depth-limited traversal should not reach e")
		}
	}
	if len(res.RootCauses) != 3 {
		t.Errorf("len(rootCauses) = %d, want b, c, d", len(res.RootCauses))
	}
}

func TestAnalyzeMissingTrigger(t *testing.T) {
	g := graph.New("c", "")
	res := Analyze(g, "ghost", 0)
	if len(res.RootCauses) != 0 {
		t.Errorf("rootCauses on missing trigger = %+v", res.RootCauses)
	}
	if len(res.CausationChain) != 1 || res.CausationChain[0] != "ghost" {
		t.Errorf("causationChain = %v", res.CausationChain)
	}
}
