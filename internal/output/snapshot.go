package output

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"cee/internal/errors"
	"cee/internal/graph"
)

// GraphSnapshot is the on-disk form of a graph. The node and entanglement
// maps are flattened into slices sorted by concept id so two snapshots of the
// same graph always compare equal regardless of map iteration order.
type GraphSnapshot struct {
	Version           int                      `json:"version"`
	Metadata          graph.Metadata           `json:"metadata"`
	Nodes             []*graph.ConceptNode     `json:"nodes"`
	Entanglements     []*graph.Entanglement    `json:"entanglements"`
	Edges             []*graph.ConceptEdge     `json:"edges"`
	TransferPatterns  []*graph.TransferPattern `json:"transferPatterns,omitempty"`
	ActiveRepairPaths []*graph.RepairPath      `json:"activeRepairPaths,omitempty"`
}

// EncodeGraph serializes a graph deterministically.
func EncodeGraph(g *graph.Graph) ([]byte, error) {
	snap := GraphSnapshot{
		Version:           g.Metadata.Version,
		Metadata:          g.Metadata,
		Nodes:             make([]*graph.ConceptNode, 0, len(g.Nodes)),
		Entanglements:     make([]*graph.Entanglement, 0, len(g.Entanglements)),
		Edges:             g.Edges,
		TransferPatterns:  g.TransferPatterns,
		ActiveRepairPaths: g.ActiveRepairPaths,
	}
	if snap.Version == 0 {
		snap.Version = graph.SnapshotVersion
	}
	for _, n := range g.Nodes {
		snap.Nodes = append(snap.Nodes, n)
	}
	sort.Slice(snap.Nodes, func(i, j int) bool { return snap.Nodes[i].ID < snap.Nodes[j].ID })
	for _, e := range g.Entanglements {
		snap.Entanglements = append(snap.Entanglements, e)
	}
	sort.Slice(snap.Entanglements, func(i, j int) bool {
		return snap.Entanglements[i].ConceptID < snap.Entanglements[j].ConceptID
	})

	return DeterministicEncode(snap)
}

// DecodeGraph rebuilds a graph from its serialized form. Snapshot versions
// newer than this build understands are rejected.
func DecodeGraph(data []byte) (*graph.Graph, error) {
	var snap GraphSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if snap.Version > graph.SnapshotVersion {
		return nil, errors.New(errors.SnapshotVersionUnsupported,
			fmt.Sprintf("snapshot version %d not supported (max %d)", snap.Version, graph.SnapshotVersion),
			nil)
	}

	g := &graph.Graph{
		Nodes:             make(map[string]*graph.ConceptNode, len(snap.Nodes)),
		Entanglements:     make(map[string]*graph.Entanglement, len(snap.Entanglements)),
		Edges:             snap.Edges,
		TransferPatterns:  snap.TransferPatterns,
		ActiveRepairPaths: snap.ActiveRepairPaths,
		Metadata:          snap.Metadata,
	}
	if g.Edges == nil {
		g.Edges = make([]*graph.ConceptEdge, 0)
	}
	for _, n := range snap.Nodes {
		g.Nodes[n.ID] = n
	}
	for _, e := range snap.Entanglements {
		g.Entanglements[e.ConceptID] = e
	}
	g.Metadata.Version = graph.SnapshotVersion
	return g, nil
}

// snapshotExcludeFields lists time-varying fields stripped before comparing
// two encoded graphs.
var snapshotExcludeFields = []string{"metadata.lastUpdated"}

// NormalizeForCompare removes time-varying fields from an encoded snapshot.
func NormalizeForCompare(data []byte) ([]byte, error) {
	var parsed map[string]interface{}
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, err
	}
	for _, field := range snapshotExcludeFields {
		removeNestedField(parsed, field)
	}
	return DeterministicEncode(parsed)
}

// CompareSnapshots reports whether two encoded graphs are identical ignoring
// time-varying fields.
func CompareSnapshots(a, b []byte) (bool, error) {
	na, err := NormalizeForCompare(a)
	if err != nil {
		return false, fmt.Errorf("normalize first snapshot: %w", err)
	}
	nb, err := NormalizeForCompare(b)
	if err != nil {
		return false, fmt.Errorf("normalize second snapshot: %w", err)
	}
	return string(na) == string(nb), nil
}

func removeNestedField(data map[string]interface{}, path string) {
	parts := strings.Split(path, ".")
	current := data
	for i := 0; i < len(parts)-1; i++ {
		next, ok := current[parts[i]].(map[string]interface{})
		if !ok {
			return
		}
		current = next
	}
	delete(current, parts[len(parts)-1])
}
