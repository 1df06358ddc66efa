// Package impact projects how an unresolved comprehension gap propagates to
// concepts that depend on it, directly or transitively.
package impact

import (
	"math"
	"sort"

	"cee/internal/graph"
)

// DefaultMaxDepth bounds the forward traversal.
const DefaultMaxDepth = 5

// depthDecay attenuates impact per prerequisite hop.
const depthDecay = 0.8

// Fallbacks for edges the graph cannot resolve (a dependents entry whose edge
// was removed by external mutation).
const (
	fallbackTransfer = 0.7
	fallbackWeight   = 0.5
)

// Level buckets the projected score reduction.
type Level string

const (
	LevelHigh   Level = "high"
	LevelMedium Level = "medium"
	LevelLow    Level = "low"
)

// AffectedConcept is one downstream concept at risk.
type AffectedConcept struct {
	ConceptID               string  `json:"conceptId"`
	Title                   string  `json:"title,omitempty"`
	PathLength              int     `json:"pathLength"` // hops from the source
	EstimatedScoreReduction float64 `json:"estimatedScoreReduction"`
	Level                   Level   `json:"impactLevel"`
}

// Result is the forward impact projection for one source concept.
type Result struct {
	SourceConceptID string            `json:"sourceConceptId"`
	SourceGap       float64           `json:"sourceGap"`
	AffectedConcepts []AffectedConcept `json:"affectedConcepts"`
	// CriticalPathAffected lists high-impact dependents that are themselves
	// load-bearing (more than two dependents of their own).
	CriticalPathAffected []string `json:"criticalPathAffected,omitempty"`
	TotalAtRisk          int      `json:"totalAtRisk"`
}

// Analyze runs a breadth-first traversal forward over dependents from the
// source concept, each concept visited at most once globally. maxDepth <= 0
// selects DefaultMaxDepth.
func Analyze(g *graph.Graph, sourceID string, maxDepth int) *Result {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	sourceGap := 50.0
	if ent, ok := g.Entanglement(sourceID); ok {
		sourceGap = 100 - ent.ComprehensionScore
	}

	res := &Result{
		SourceConceptID:  sourceID,
		SourceGap:        sourceGap,
		AffectedConcepts: []AffectedConcept{},
	}

	type queued struct {
		id    string
		depth int
	}
	visited := map[string]bool{sourceID: true}
	queue := []queued{{id: sourceID, depth: 0}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.depth >= maxDepth {
			continue
		}

		node, ok := g.Node(cur.id)
		if !ok {
			continue
		}
		for _, depID := range node.Dependents {
			if visited[depID] {
				continue
			}
			visited[depID] = true
			depth := cur.depth + 1

			transfer, weight := fallbackTransfer, fallbackWeight
			if e, ok := g.PrerequisiteEdge(cur.id, depID); ok {
				transfer, weight = e.TransferCoefficient, e.Weight
			}

			reduction := sourceGap * transfer * math.Pow(depthDecay, float64(depth)) * weight
			ac := AffectedConcept{
				ConceptID:               depID,
				PathLength:              depth,
				EstimatedScoreReduction: reduction,
				Level:                   levelFor(reduction),
			}
			if depNode, ok := g.Node(depID); ok {
				ac.Title = depNode.Title
				if ac.Level == LevelHigh && len(depNode.Dependents) > 2 {
					res.CriticalPathAffected = append(res.CriticalPathAffected, depID)
				}
			}
			res.AffectedConcepts = append(res.AffectedConcepts, ac)
			queue = append(queue, queued{id: depID, depth: depth})
		}
	}

	sort.SliceStable(res.AffectedConcepts, func(i, j int) bool {
		a, b := res.AffectedConcepts[i], res.AffectedConcepts[j]
		if a.Level != b.Level {
			return levelRank(a.Level) < levelRank(b.Level)
		}
		return a.PathLength < b.PathLength
	})
	res.TotalAtRisk = len(res.AffectedConcepts)
	return res
}

func levelFor(reduction float64) Level {
	switch {
	case reduction > 30:
		return LevelHigh
	case reduction > 15:
		return LevelMedium
	default:
		return LevelLow
	}
}

func levelRank(l Level) int {
	switch l {
	case LevelHigh:
		return 0
	case LevelMedium:
		return 1
	default:
		return 2
	}
}
