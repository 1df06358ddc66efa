// Package health answers aggregate questions about a concept graph: which
// concepts are struggling, which are structural keystones, what the longest
// prerequisite chain is, and how healthy the learner's grasp of the course is
// overall.
package health

import (
	"fmt"
	"sort"

	"cee/internal/graph"
)

// DefaultMinDependents is the keystone threshold.
const DefaultMinDependents = 3

// StrugglingConcept pairs a concept with the state that flagged it.
type StrugglingConcept struct {
	ConceptID          string                  `json:"conceptId"`
	Title              string                  `json:"title,omitempty"`
	State              graph.EntanglementState `json:"state"`
	ComprehensionScore float64                 `json:"comprehensionScore"`
	CascadeFailures    int                     `json:"cascadeFailures"`
}

// Struggling lists concepts whose state is struggling or collapsed, collapsed
// first, then by cascade failures descending; concept id breaks ties so the
// order never depends on map iteration.
func Struggling(g *graph.Graph) []StrugglingConcept {
	var out []StrugglingConcept
	for id, ent := range g.Entanglements {
		if ent.State != graph.StateStruggling && ent.State != graph.StateCollapsed {
			continue
		}
		sc := StrugglingConcept{
			ConceptID:          id,
			State:              ent.State,
			ComprehensionScore: ent.ComprehensionScore,
			CascadeFailures:    ent.CascadeFailures,
		}
		if node, ok := g.Node(id); ok {
			sc.Title = node.Title
		}
		out = append(out, sc)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if (a.State == graph.StateCollapsed) != (b.State == graph.StateCollapsed) {
			return a.State == graph.StateCollapsed
		}
		if a.CascadeFailures != b.CascadeFailures {
			return a.CascadeFailures > b.CascadeFailures
		}
		return a.ConceptID < b.ConceptID
	})
	return out
}

// Keystone is a concept with enough dependents that a gap in it has outsized
// downstream effect.
type Keystone struct {
	ConceptID      string `json:"conceptId"`
	Title          string `json:"title,omitempty"`
	DependentCount int    `json:"dependentCount"`
}

// Keystones lists concepts with at least minDependents direct dependents,
// most-depended-on first. minDependents <= 0 selects DefaultMinDependents.
func Keystones(g *graph.Graph, minDependents int) []Keystone {
	if minDependents <= 0 {
		minDependents = DefaultMinDependents
	}
	var out []Keystone
	for id, node := range g.Nodes {
		if len(node.Dependents) >= minDependents {
			out = append(out, Keystone{ConceptID: id, Title: node.Title, DependentCount: len(node.Dependents)})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DependentCount != out[j].DependentCount {
			return out[i].DependentCount > out[j].DependentCount
		}
		return out[i].ConceptID < out[j].ConceptID
	})
	return out
}

// CriticalPath returns the longest prerequisite chain in the graph, found by
// memoized longest-downstream-path search from every root (zero-prerequisite)
// node. Memoization assumes the prerequisite subgraph is acyclic; on a cyclic
// graph the result is best-effort but the search still terminates.
func CriticalPath(g *graph.Graph) []string {
	memo := make(map[string][]string)
	inProgress := make(map[string]bool)

	var longestFrom func(id string) []string
	longestFrom = func(id string) []string {
		if cached, ok := memo[id]; ok {
			return cached
		}
		if inProgress[id] {
			// Cycle guard: stop rather than recurse forever.
			return []string{id}
		}
		inProgress[id] = true
		defer delete(inProgress, id)

		node, ok := g.Node(id)
		if !ok {
			return []string{id}
		}
		best := []string{id}
		for _, depID := range node.Dependents {
			if chain := longestFrom(depID); len(chain)+1 > len(best) {
				withSelf := make([]string, 0, len(chain)+1)
				withSelf = append(withSelf, id)
				withSelf = append(withSelf, chain...)
				best = withSelf
			}
		}
		memo[id] = best
		return best
	}

	roots := make([]string, 0)
	for id, node := range g.Nodes {
		if len(node.Prerequisites) == 0 {
			roots = append(roots, id)
		}
	}
	sort.Strings(roots)

	var best []string
	for _, id := range roots {
		if chain := longestFrom(id); len(chain) > len(best) {
			best = chain
		}
	}
	return best
}

// statePoints are the fixed per-state contributions to the overall health
// score. Unknown concepts carry no evidence and are excluded.
var statePoints = map[graph.EntanglementState]float64{
	graph.StateMastered:   100,
	graph.StateStable:     80,
	graph.StateUnstable:   50,
	graph.StateStruggling: 25,
	graph.StateCollapsed:  0,
}

// Report summarizes graph health.
type Report struct {
	TotalConcepts   int                             `json:"totalConcepts"`
	TrackedConcepts int                             `json:"trackedConcepts"` // concepts with a non-unknown state
	StateCounts     map[graph.EntanglementState]int `json:"stateCounts"`
	OverallScore    float64                         `json:"overallScore"` // 0-100
	Recommendations []string                        `json:"recommendations,omitempty"`
}

// Recommendation thresholds.
const (
	strugglingRatioThreshold = 0.3
	unstableRatioThreshold   = 0.5
)

// Calculate produces the health report for a graph. With no tracked concepts
// the overall score is 100: no evidence of trouble yet.
func Calculate(g *graph.Graph) *Report {
	r := &Report{
		TotalConcepts: len(g.Nodes),
		StateCounts:   make(map[graph.EntanglementState]int),
	}

	var pointSum float64
	for _, ent := range g.Entanglements {
		r.StateCounts[ent.State]++
		if ent.State == graph.StateUnknown {
			continue
		}
		r.TrackedConcepts++
		pointSum += statePoints[ent.State]
	}

	if r.TrackedConcepts > 0 {
		r.OverallScore = pointSum / float64(r.TrackedConcepts)
	} else {
		r.OverallScore = 100
	}

	r.Recommendations = recommendations(g, r)
	return r
}

func recommendations(g *graph.Graph, r *Report) []string {
	var recs []string

	if collapsed := r.StateCounts[graph.StateCollapsed]; collapsed > 0 {
		recs = append(recs, fmt.Sprintf("address %d collapsed concept(s) before moving forward", collapsed))
	}

	if r.TrackedConcepts > 0 {
		strugglingRatio := float64(r.StateCounts[graph.StateStruggling]+r.StateCounts[graph.StateCollapsed]) / float64(r.TrackedConcepts)
		if strugglingRatio > strugglingRatioThreshold {
			recs = append(recs, "a large share of studied concepts is struggling; slow the pace and consolidate")
		}
		unstableRatio := float64(r.StateCounts[graph.StateUnstable]) / float64(r.TrackedConcepts)
		if unstableRatio > unstableRatioThreshold {
			recs = append(recs, "many concepts are borderline; schedule short review sessions to stabilize them")
		}
	}

	// Struggling keystones put everything downstream at risk.
	for _, k := range Keystones(g, DefaultMinDependents) {
		if ent, ok := g.Entanglement(k.ConceptID); ok {
			if ent.State == graph.StateStruggling || ent.State == graph.StateCollapsed {
				recs = append(recs, fmt.Sprintf("keystone concept %q is %s; %d dependent concepts are at risk", k.ConceptID, ent.State, k.DependentCount))
			}
		}
	}
	return recs
}
