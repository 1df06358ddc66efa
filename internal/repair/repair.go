// Package repair turns a root-cause diagnosis into an ordered remediation
// plan: fix the most confident root causes first, bridge weak links along the
// causation chain, then revisit the target concept itself.
package repair

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"cee/internal/graph"
	"cee/internal/rootcause"
)

// Per-state study time estimates, in minutes.
const (
	timeCollapsed  = 20
	timeStruggling = 15
	timeUnstable   = 10
	timeDefault    = 5
	timeBridge     = 8
	timeTarget     = 10
)

// Generate builds a repair path for the target concept from a prior
// diagnosis and registers it on the graph's active list. The plan is greedy
// and makes no global-optimality claim.
func Generate(g *graph.Graph, targetID string, diag *rootcause.Result) *graph.RepairPath {
	path := &graph.RepairPath{
		ID:              uuid.NewString(),
		TargetConceptID: targetID,
		Steps:           []graph.RepairStep{},
		Status:          graph.RepairActive,
		CreatedAt:       time.Now().UTC(),
	}

	covered := make(map[string]bool)

	// Root causes first, strongest confidence first (Analyze pre-sorts).
	if diag != nil {
		for _, rc := range diag.RootCauses {
			if covered[rc.ConceptID] {
				continue
			}
			covered[rc.ConceptID] = true
			path.Steps = append(path.Steps, rootCauseStep(rc))
		}

		// Bridging: anything on the causation chain that is still weak but
		// was not itself flagged as a root cause.
		for _, id := range diag.CausationChain {
			if covered[id] || id == targetID {
				continue
			}
			ent, ok := g.Entanglement(id)
			if !ok || ent.ComprehensionScore >= 70 {
				continue
			}
			covered[id] = true
			path.Steps = append(path.Steps, graph.RepairStep{
				ConceptID:            id,
				Priority:             graph.PriorityRecommended,
				EstimatedTimeMinutes: timeBridge,
				Activities:           []string{"review", "quiz"},
				Reason:               fmt.Sprintf("weak link on the causation chain (score %.0f)", ent.ComprehensionScore),
			})
		}
	}

	if !covered[targetID] {
		path.Steps = append(path.Steps, graph.RepairStep{
			ConceptID:            targetID,
			Priority:             graph.PriorityRequired,
			EstimatedTimeMinutes: timeTarget,
			Activities:           []string{"review", "practice"},
			Reason:               "revisit the target concept once its prerequisites are repaired",
		})
	}

	required := 0
	for _, step := range path.Steps {
		path.TotalEstimatedTimeMinutes += step.EstimatedTimeMinutes
		if step.Priority == graph.PriorityRequired {
			required++
		}
	}
	if imp := float64(required) * 15; imp < 40 {
		path.ExpectedImprovement = imp
	} else {
		path.ExpectedImprovement = 40
	}

	g.ActiveRepairPaths = append(g.ActiveRepairPaths, path)
	return path
}

func rootCauseStep(rc rootcause.RootCause) graph.RepairStep {
	step := graph.RepairStep{
		ConceptID: rc.ConceptID,
		Priority:  graph.PriorityRecommended,
		Reason:    fmt.Sprintf("diagnosed root cause (%s, confidence %.2f)", rc.Severity, rc.Confidence),
	}
	if rc.Severity == rootcause.SeverityCritical || rc.Severity == rootcause.SeverityMajor {
		step.Priority = graph.PriorityRequired
	}
	switch rc.State {
	case graph.StateCollapsed:
		step.EstimatedTimeMinutes = timeCollapsed
		step.Activities = []string{"video", "review", "practice", "quiz"}
	case graph.StateStruggling:
		step.EstimatedTimeMinutes = timeStruggling
		step.Activities = []string{"practice", "quiz"}
	case graph.StateUnstable:
		step.EstimatedTimeMinutes = timeUnstable
		step.Activities = []string{"quiz"}
	default:
		step.EstimatedTimeMinutes = timeDefault
		step.Activities = []string{"quiz"}
	}
	return step
}

// Complete marks an active repair path finished and removes it from the
// graph. Returns false if no active path has that id.
func Complete(g *graph.Graph, pathID string) bool {
	return remove(g, pathID, graph.RepairCompleted)
}

// Dismiss drops an active repair path without completing it.
func Dismiss(g *graph.Graph, pathID string) bool {
	return remove(g, pathID, graph.RepairDismissed)
}

func remove(g *graph.Graph, pathID string, status graph.RepairPathStatus) bool {
	for i, p := range g.ActiveRepairPaths {
		if p.ID == pathID {
			p.Status = status
			g.ActiveRepairPaths = append(g.ActiveRepairPaths[:i], g.ActiveRepairPaths[i+1:]...)
			return true
		}
	}
	return false
}
