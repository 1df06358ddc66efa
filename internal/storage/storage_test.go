package storage

import (
	"testing"
	"time"

	"cee/internal/graph"
	"cee/internal/scoring"
	"cee/internal/slogutil"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(t.TempDir(), slogutil.NewDiscardLogger())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func sampleGraph() *graph.Graph {
	g := graph.New("js-deep-dive", "user-1")
	g.AddNode(graph.ConceptNode{ID: "closures", Title: "Closures"})
	g.AddNode(graph.ConceptNode{ID: "callbacks", Title: "Callbacks"})
	g.AddEdge(graph.ConceptEdge{From: "closures", To: "callbacks", Kind: graph.EdgePrerequisite, Weight: 0.5, TransferCoefficient: 0.7})
	return g
}

func TestSaveAndLoadGraph(t *testing.T) {
	db := openTestDB(t)
	g := sampleGraph()

	if _, err := db.SaveGraph(g); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := db.LoadGraph("js-deep-dive", "user-1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded.Nodes) != 2 || len(loaded.Edges) != 1 {
		t.Errorf("loaded %d nodes, %d edges", len(loaded.Nodes), len(loaded.Edges))
	}
	if _, ok := loaded.Entanglement("closures"); !ok {
		t.Error("entanglement lost across save/load")
	}
}

func TestLoadGraphLatestWins(t *testing.T) {
	db := openTestDB(t)
	g := sampleGraph()
	if _, err := db.SaveGraph(g); err != nil {
		t.Fatal(err)
	}

	sig := graph.BehaviorSignal{
		Kind:      graph.SignalQuiz,
		Timestamp: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Quiz:      &graph.QuizSignal{CorrectAnswers: 9, TotalQuestions: 10, AttemptsUsed: 1},
	}
	scoring.UpdateEntanglement(g, "closures", sig)
	if _, err := db.SaveGraph(g); err != nil {
		t.Fatal(err)
	}

	loaded, err := db.LoadGraph("js-deep-dive", "user-1")
	if err != nil {
		t.Fatal(err)
	}
	ent, _ := loaded.Entanglement("closures")
	if ent.Attempts != 1 {
		t.Errorf("attempts = %d, want the newer snapshot", ent.Attempts)
	}
}

func TestLoadGraphMissingScope(t *testing.T) {
	db := openTestDB(t)
	if _, err := db.LoadGraph("nope", ""); err != ErrNoSnapshot {
		t.Errorf("err = %v, want ErrNoSnapshot", err)
	}
}

func TestPruneSnapshots(t *testing.T) {
	db := openTestDB(t)
	g := sampleGraph()
	for i := 0; i < 5; i++ {
		if _, err := db.SaveGraph(g); err != nil {
			t.Fatal(err)
		}
	}
	removed, err := db.PruneSnapshots("js-deep-dive", "user-1", 2)
	if err != nil {
		t.Fatal(err)
	}
	if removed != 3 {
		t.Errorf("removed = %d, want 3", removed)
	}
	if _, err := db.LoadGraph("js-deep-dive", "user-1"); err != nil {
		t.Errorf("latest snapshot must survive pruning: %v", err)
	}
}

func TestSignalJournalRoundTrip(t *testing.T) {
	db := openTestDB(t)
	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	sig := graph.BehaviorSignal{
		Kind:      graph.SignalVideo,
		Timestamp: ts,
		Video:     &graph.VideoSignal{WatchedPercentage: 80, RewindCount: 2},
	}
	if err := db.AppendSignal("js-deep-dive", "user-1", "closures", sig); err != nil {
		t.Fatalf("append: %v", err)
	}

	entries, err := db.Signals("js-deep-dive", "user-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	got := entries[0]
	if got.ConceptID != "closures" || got.Signal.Kind != graph.SignalVideo {
		t.Errorf("entry = %+v", got)
	}
	if got.Signal.Video == nil || got.Signal.Video.WatchedPercentage != 80 {
		t.Errorf("payload = %+v", got.Signal.Video)
	}
	if !got.Signal.Timestamp.Equal(ts) {
		t.Errorf("timestamp = %v, want %v", got.Signal.Timestamp, ts)
	}
}
