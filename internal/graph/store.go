package graph

import (
	"time"
)

// New creates an empty graph for a course, optionally scoped to a learner.
func New(courseID, userID string) *Graph {
	return &Graph{
		Nodes:         make(map[string]*ConceptNode),
		Entanglements: make(map[string]*Entanglement),
		Edges:         make([]*ConceptEdge, 0),
		Metadata: Metadata{
			CourseID:    courseID,
			UserID:      userID,
			LastUpdated: time.Now().UTC(),
			Version:     SnapshotVersion,
		},
	}
}

// Node returns the concept with the given id, if present.
func (g *Graph) Node(id string) (*ConceptNode, bool) {
	n, ok := g.Nodes[id]
	return n, ok
}

// Entanglement returns the learner state for a concept, if present.
func (g *Graph) Entanglement(id string) (*Entanglement, bool) {
	e, ok := g.Entanglements[id]
	return e, ok
}

// EdgeID derives the deterministic edge identifier.
func EdgeID(from, to string, kind EdgeKind) string {
	return from + "-" + to + "-" + string(kind)
}

// AddNode inserts or overwrites a concept node. An entanglement entry is
// created on first sight of the id; on re-add the existing entanglement is
// preserved untouched, so re-importing a course never resets learner state.
func (g *Graph) AddNode(node ConceptNode) *ConceptNode {
	n := node
	if existing, ok := g.Nodes[n.ID]; ok {
		// The adjacency mirrors belong to the edge set, not the incoming
		// node value. Keep them across overwrites.
		n.Prerequisites = existing.Prerequisites
		n.Dependents = existing.Dependents
	}
	g.Nodes[n.ID] = &n

	if _, ok := g.Entanglements[n.ID]; !ok {
		g.Entanglements[n.ID] = &Entanglement{
			ConceptID:          n.ID,
			State:              StateUnknown,
			ComprehensionScore: 50,
			Confidence:         0,
		}
	}
	g.touch()
	return &n
}

// AddEdge inserts a typed edge, assigning its deterministic id. Adding the
// same (from, to, kind) twice returns the existing edge unchanged. For
// prerequisite edges the endpoint nodes' Prerequisites/Dependents mirrors are
// updated by set union; this method is the only writer of those fields.
//
// No cycle detection happens here: traversals guard against cycles with
// visited sets instead.
func (g *Graph) AddEdge(edge ConceptEdge) *ConceptEdge {
	e := edge
	e.ID = EdgeID(e.From, e.To, e.Kind)
	for _, existing := range g.Edges {
		if existing.ID == e.ID {
			return existing
		}
	}
	e.Weight = clamp01(e.Weight)
	e.TransferCoefficient = clamp01(e.TransferCoefficient)
	g.Edges = append(g.Edges, &e)

	if e.Kind == EdgePrerequisite {
		if to, ok := g.Nodes[e.To]; ok {
			to.Prerequisites = appendUnique(to.Prerequisites, e.From)
		}
		if from, ok := g.Nodes[e.From]; ok {
			from.Dependents = appendUnique(from.Dependents, e.To)
		}
	}
	g.touch()
	return &e
}

// EdgeBetween returns the first edge from one concept to another in insertion
// order, if any.
func (g *Graph) EdgeBetween(from, to string) (*ConceptEdge, bool) {
	for _, e := range g.Edges {
		if e.From == from && e.To == to {
			return e, true
		}
	}
	return nil, false
}

// PrerequisiteEdge returns the prerequisite edge from one concept to another,
// if any.
func (g *Graph) PrerequisiteEdge(from, to string) (*ConceptEdge, bool) {
	for _, e := range g.Edges {
		if e.From == from && e.To == to && e.Kind == EdgePrerequisite {
			return e, true
		}
	}
	return nil, false
}

// ConceptIDs returns all node ids in unspecified order.
func (g *Graph) ConceptIDs() []string {
	ids := make([]string, 0, len(g.Nodes))
	for id := range g.Nodes {
		ids = append(ids, id)
	}
	return ids
}

func (g *Graph) touch() {
	g.Metadata.LastUpdated = time.Now().UTC()
}

func appendUnique(list []string, id string) []string {
	for _, v := range list {
		if v == id {
			return list
		}
	}
	return append(list, id)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
