// Package rootcause walks prerequisite chains backward from a struggling
// concept to find the upstream concept most likely responsible for the gap.
package rootcause

import (
	"fmt"
	"sort"

	"cee/internal/graph"
)

// DefaultMaxDepth bounds the backward traversal.
const DefaultMaxDepth = 5

// Severity ranks how badly a root-cause concept has degraded.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityMajor    Severity = "major"
	SeverityMinor    Severity = "minor"
)

// RootCause is one upstream concept implicated in a downstream struggle.
type RootCause struct {
	ConceptID          string                  `json:"conceptId"`
	Title              string                  `json:"title,omitempty"`
	State              graph.EntanglementState `json:"state"`
	ComprehensionScore float64                 `json:"comprehensionScore"`
	Severity           Severity                `json:"severity"`
	Confidence         float64                 `json:"confidence"` // 0-1
	Depth              int                     `json:"depth"`
	Evidence           []string                `json:"evidence,omitempty"`
}

// Result is the full diagnosis for one trigger concept.
type Result struct {
	TriggerConceptID string      `json:"triggerConceptId"`
	RootCauses       []RootCause `json:"rootCauses"`
	// CausationChain runs from the most confident root cause forward to the
	// trigger. With no root causes it contains only the trigger.
	CausationChain []string `json:"causationChain"`
}

// Analyze runs a depth-bounded backward DFS over prerequisite edges from the
// trigger. Each concept is visited at most once across the whole call, which
// bounds work on diamond-shaped prerequisite graphs and terminates on cycles.
// maxDepth <= 0 selects DefaultMaxDepth.
func Analyze(g *graph.Graph, triggerID string, maxDepth int) *Result {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	res := &Result{
		TriggerConceptID: triggerID,
		RootCauses:       []RootCause{},
		CausationChain:   []string{triggerID},
	}

	visited := make(map[string]bool)
	bestConfidence := -1.0

	// walk visits a concept at the given depth; path holds the concept ids
	// from the trigger down to (and including) the current concept.
	var walk func(id string, depth int, path []string)
	walk = func(id string, depth int, path []string) {
		if depth > maxDepth || visited[id] {
			return
		}
		visited[id] = true

		node, ok := g.Node(id)
		if !ok {
			// Edge referencing a missing node: dead end.
			return
		}

		for _, preID := range node.Prerequisites {
			if ent, ok := g.Entanglement(preID); ok && problematic(ent.State) {
				rc := buildRootCause(g, preID, ent, depth, maxDepth)
				res.RootCauses = append(res.RootCauses, rc)

				if rc.Confidence > bestConfidence {
					bestConfidence = rc.Confidence
					chain := make([]string, 0, len(path)+1)
					chain = append(chain, path...)
					chain = append(chain, preID)
					reverse(chain)
					res.CausationChain = chain
				}
			}
			// Keep descending past problematic prerequisites: the chain may
			// continue further up.
			walk(preID, depth+1, append(path, preID))
		}
	}
	walk(triggerID, 0, []string{triggerID})

	sort.SliceStable(res.RootCauses, func(i, j int) bool {
		return res.RootCauses[i].Confidence > res.RootCauses[j].Confidence
	})
	return res
}

func problematic(s graph.EntanglementState) bool {
	return s == graph.StateCollapsed || s == graph.StateStruggling || s == graph.StateUnstable
}

func buildRootCause(g *graph.Graph, id string, ent *graph.Entanglement, depth, maxDepth int) RootCause {
	attempts := ent.Attempts
	if attempts < 1 {
		attempts = 1
	}
	ratio := float64(ent.CascadeFailures) / float64(attempts)
	scoreGap := 100 - ent.ComprehensionScore
	depthFactor := 1 - float64(depth)/float64(maxDepth+1)

	confidence := clamp(ratio*0.3+(scoreGap/100)*0.4+depthFactor*0.3, 0, 1)

	rc := RootCause{
		ConceptID:          id,
		State:              ent.State,
		ComprehensionScore: ent.ComprehensionScore,
		Severity:           severityFor(ent.State),
		Confidence:         confidence,
		Depth:              depth,
	}
	if node, ok := g.Node(id); ok {
		rc.Title = node.Title
	}
	rc.Evidence = buildEvidence(ent)
	return rc
}

func severityFor(s graph.EntanglementState) Severity {
	switch s {
	case graph.StateCollapsed:
		return SeverityCritical
	case graph.StateStruggling:
		return SeverityMajor
	default:
		return SeverityMinor
	}
}

// buildEvidence assembles human-readable justification for flagging a
// concept. The list may be empty when a concept is only mildly unstable.
func buildEvidence(ent *graph.Entanglement) []string {
	var evidence []string
	if ent.State == graph.StateCollapsed {
		evidence = append(evidence, "comprehension of this concept has collapsed")
	}
	if ent.CascadeFailures > 2 {
		evidence = append(evidence, fmt.Sprintf("%d downstream failures trace back to this concept", ent.CascadeFailures))
	}
	if ent.ComprehensionScore < 40 {
		evidence = append(evidence, fmt.Sprintf("comprehension score is %.0f, well below passing", ent.ComprehensionScore))
	}
	if ent.Attempts > 5 && ent.ComprehensionScore < 60 {
		evidence = append(evidence, fmt.Sprintf("score stuck below 60 after %d attempts", ent.Attempts))
	}
	return evidence
}

func reverse(s []string) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
