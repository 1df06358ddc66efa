package output

import (
	"strings"
	"testing"
	"time"

	"cee/internal/graph"
)

func sampleGraph() *graph.Graph {
	g := graph.New("js-deep-dive", "user-1")
	g.AddNode(graph.ConceptNode{ID: "closures", Title: "Closures", Difficulty: 60})
	g.AddNode(graph.ConceptNode{ID: "callbacks", Title: "Callbacks", Difficulty: 55})
	g.AddEdge(graph.ConceptEdge{From: "closures", To: "callbacks", Kind: graph.EdgePrerequisite, Weight: 0.5, TransferCoefficient: 0.7})
	return g
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	g := sampleGraph()
	ent, _ := g.Entanglement("closures")
	ent.ComprehensionScore = 42.123456789 // rounds on encode
	ent.Attempts = 3
	ent.LastInteraction = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	data, err := EncodeGraph(g)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	decoded, err := DecodeGraph(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if len(decoded.Nodes) != 2 || len(decoded.Edges) != 1 || len(decoded.Entanglements) != 2 {
		t.Fatalf("decoded shape: %d nodes, %d edges, %d entanglements", len(decoded.Nodes), len(decoded.Edges), len(decoded.Entanglements))
	}
	if decoded.Metadata.CourseID != "js-deep-dive" || decoded.Metadata.UserID != "user-1" {
		t.Errorf("metadata = %+v", decoded.Metadata)
	}
	dent, ok := decoded.Entanglement("closures")
	if !ok {
		t.Fatal("closures entanglement lost in round trip")
	}
	if dent.ComprehensionScore != 42.123457 {
		t.Errorf("score = %v, want rounded 42.123457", dent.ComprehensionScore)
	}
	node, _ := decoded.Node("closures")
	if len(node.Dependents) != 1 || node.Dependents[0] != "callbacks" {
		t.Errorf("adjacency mirror lost: %v", node.Dependents)
	}
}

func TestEncodeIsDeterministic(t *testing.T) {
	g := sampleGraph()
	a, err := EncodeGraph(g)
	if err != nil {
		t.Fatal(err)
	}
	b, err := EncodeGraph(g)
	if err != nil {
		t.Fatal(err)
	}
	if string(a) != string(b) {
		t.Error("two encodings of the same graph differ")
	}
}

func TestCompareSnapshotsIgnoresLastUpdated(t *testing.T) {
	g := sampleGraph()
	a, _ := EncodeGraph(g)

	g.Metadata.LastUpdated = g.Metadata.LastUpdated.Add(time.Hour)
	b, _ := EncodeGraph(g)

	equal, err := CompareSnapshots(a, b)
	if err != nil {
		t.Fatal(err)
	}
	if !equal {
		t.Error("snapshots differing only in lastUpdated should compare equal")
	}

	g.AddNode(graph.ConceptNode{ID: "async-await"})
	c, _ := EncodeGraph(g)
	equal, err = CompareSnapshots(a, c)
	if err != nil {
		t.Fatal(err)
	}
	if equal {
		t.Error("materially different snapshots compared equal")
	}
}

func TestDecodeRejectsNewerVersion(t *testing.T) {
	data := []byte(`{"version": 99, "metadata": {"courseId": "c", "version": 99}}`)
	if _, err := DecodeGraph(data); err == nil {
		t.Fatal("expected error for unsupported snapshot version")
	} else if !strings.Contains(err.Error(), "version") {
		t.Errorf("error = %v, want version complaint", err)
	}
}

func TestDecodeEmptyCollections(t *testing.T) {
	data := []byte(`{"version": 1, "metadata": {"courseId": "c", "version": 1}, "nodes": [], "entanglements": [], "edges": null}`)
	g, err := DecodeGraph(data)
	if err != nil {
		t.Fatal(err)
	}
	if g.Nodes == nil || g.Entanglements == nil || g.Edges == nil {
		t.Error("decoded graph must have usable empty collections")
	}
}
