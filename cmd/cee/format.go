package main

import (
	"fmt"
	"os"
	"strings"

	"cee/internal/output"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatJSON  OutputFormat = "json"
	FormatHuman OutputFormat = "human"
)

// FormatResponse formats a response according to the specified format
func FormatResponse(resp interface{}, format OutputFormat) (string, error) {
	switch format {
	case FormatJSON:
		return formatJSON(resp)
	case FormatHuman:
		return formatHuman(resp)
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

// formatJSON renders the response with sorted keys and rounded floats so
// repeated runs over the same graph produce identical bytes.
func formatJSON(resp interface{}) (string, error) {
	data, err := output.DeterministicEncode(resp)
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return string(data), nil
}

// printResponse formats and prints a response, exiting on format error.
func printResponse(resp interface{}, format OutputFormat) {
	out, err := FormatResponse(resp, format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(out)
}

func formatHuman(resp interface{}) (string, error) {
	switch v := resp.(type) {
	case *GraphResponseCLI:
		return formatGraphHuman(v)
	case *SignalResponseCLI:
		return formatSignalHuman(v)
	case *RootCauseResponseCLI:
		return formatRootCauseHuman(v)
	case *ImpactResponseCLI:
		return formatImpactHuman(v)
	case *RepairResponseCLI:
		return formatRepairHuman(v)
	case *TraverseResponseCLI:
		return formatTraverseHuman(v)
	case *HealthResponseCLI:
		return formatHealthHuman(v)
	case *StrugglingResponseCLI:
		return formatStrugglingHuman(v)
	case *KeystonesResponseCLI:
		return formatKeystonesHuman(v)
	case *CriticalPathResponseCLI:
		return formatCriticalPathHuman(v)
	default:
		// For unknown types, fall back to JSON
		return formatJSON(resp)
	}
}

func formatGraphHuman(resp *GraphResponseCLI) (string, error) {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Concept Graph: %s (user: %s)\n", resp.CourseID, resp.UserID))
	b.WriteString(strings.Repeat("=", 60) + "\n\n")
	b.WriteString(fmt.Sprintf("Concepts: %d\n", resp.ConceptCount))
	b.WriteString(fmt.Sprintf("Edges: %d\n", resp.EdgeCount))
	if resp.SnapshotID != "" {
		b.WriteString(fmt.Sprintf("Snapshot: %s\n", resp.SnapshotID))
	}

	return b.String(), nil
}

func formatSignalHuman(resp *SignalResponseCLI) (string, error) {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Signal Applied: %s -> %s\n", resp.Kind, resp.ConceptID))
	b.WriteString(strings.Repeat("=", 60) + "\n\n")
	b.WriteString(fmt.Sprintf("State: %s\n", resp.State))
	b.WriteString(fmt.Sprintf("Comprehension: %.1f/100 (confidence: %.2f)\n", resp.ComprehensionScore, resp.Confidence))
	b.WriteString(fmt.Sprintf("Attempts: %d\n", resp.Attempts))

	return b.String(), nil
}

func formatRootCauseHuman(resp *RootCauseResponseCLI) (string, error) {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Root Cause Analysis: %s\n", resp.TriggerConceptID))
	b.WriteString(strings.Repeat("=", 60) + "\n\n")

	if len(resp.RootCauses) == 0 {
		b.WriteString("No upstream root causes found.\n")
		return b.String(), nil
	}

	b.WriteString("Root Causes:\n")
	for i, rc := range resp.RootCauses {
		b.WriteString(fmt.Sprintf("  %d. %s [%s, %s]\n", i+1, rc.ConceptID, rc.State, rc.Severity))
		b.WriteString(fmt.Sprintf("     Score: %.1f, Confidence: %.2f, Depth: %d\n", rc.ComprehensionScore, rc.Confidence, rc.Depth))
		for _, ev := range rc.Evidence {
			b.WriteString(fmt.Sprintf("     - %s\n", ev))
		}
	}

	if len(resp.CausationChain) > 1 {
		b.WriteString(fmt.Sprintf("\nCausation Chain: %s\n", strings.Join(resp.CausationChain, " -> ")))
	}

	return b.String(), nil
}

func formatImpactHuman(resp *ImpactResponseCLI) (string, error) {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Forward Impact: %s\n", resp.SourceConceptID))
	b.WriteString(strings.Repeat("=", 60) + "\n\n")
	b.WriteString(fmt.Sprintf("Source Gap: %.1f points\n", resp.SourceGap))
	b.WriteString(fmt.Sprintf("Concepts At Risk: %d\n\n", resp.TotalAtRisk))

	for _, a := range resp.AffectedConcepts {
		b.WriteString(fmt.Sprintf("  [%s] %s: -%.1f points (%d hops)\n", a.Level, a.ConceptID, a.EstimatedScoreReduction, a.PathLength))
	}

	if len(resp.CriticalPathAffected) > 0 {
		b.WriteString(fmt.Sprintf("\nCritical Path Affected: %s\n", strings.Join(resp.CriticalPathAffected, ", ")))
	}

	return b.String(), nil
}

func formatRepairHuman(resp *RepairResponseCLI) (string, error) {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Repair Path: %s\n", resp.TargetConceptID))
	b.WriteString(strings.Repeat("=", 60) + "\n\n")
	b.WriteString(fmt.Sprintf("ID: %s\n", resp.ID))
	b.WriteString(fmt.Sprintf("Estimated Time: %d minutes\n", resp.TotalEstimatedTimeMinutes))
	b.WriteString(fmt.Sprintf("Expected Improvement: +%.0f points\n\n", resp.ExpectedImprovement))

	b.WriteString("Steps:\n")
	for i, step := range resp.Steps {
		b.WriteString(fmt.Sprintf("  %d. %s [%s, %d min]\n", i+1, step.ConceptID, step.Priority, step.EstimatedTimeMinutes))
		if step.Reason != "" {
			b.WriteString(fmt.Sprintf("     %s\n", step.Reason))
		}
		for _, act := range step.Activities {
			b.WriteString(fmt.Sprintf("     - %s\n", act))
		}
	}

	return b.String(), nil
}

func formatTraverseHuman(resp *TraverseResponseCLI) (string, error) {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Traversal Recorded: %s -> %s (%s)\n", resp.From, resp.To, resp.Outcome))
	b.WriteString(strings.Repeat("=", 60) + "\n\n")
	b.WriteString(fmt.Sprintf("Edge Weight: %.3f\n", resp.Weight))
	b.WriteString(fmt.Sprintf("Transfer Coefficient: %.3f\n", resp.TransferCoefficient))
	b.WriteString(fmt.Sprintf("Traversals: %d successful, %d difficult\n", resp.SuccessfulTraversals, resp.DifficultTraversals))

	return b.String(), nil
}

func formatHealthHuman(resp *HealthResponseCLI) (string, error) {
	var b strings.Builder

	b.WriteString("Graph Health\n")
	b.WriteString(strings.Repeat("=", 60) + "\n\n")
	b.WriteString(fmt.Sprintf("Overall Score: %.1f/100\n", resp.OverallScore))
	b.WriteString(fmt.Sprintf("Concepts: %d total, %d tracked\n\n", resp.TotalConcepts, resp.TrackedConcepts))

	b.WriteString("States:\n")
	for _, sc := range resp.StateCounts {
		b.WriteString(fmt.Sprintf("  %-12s %d\n", sc.State+":", sc.Count))
	}

	if len(resp.Recommendations) > 0 {
		b.WriteString("\nRecommendations:\n")
		for _, rec := range resp.Recommendations {
			b.WriteString(fmt.Sprintf("  ! %s\n", rec))
		}
	}

	return b.String(), nil
}

func formatStrugglingHuman(resp *StrugglingResponseCLI) (string, error) {
	var b strings.Builder

	b.WriteString("Struggling Concepts\n")
	b.WriteString(strings.Repeat("=", 60) + "\n\n")

	if len(resp.Concepts) == 0 {
		b.WriteString("No struggling or collapsed concepts.\n")
		return b.String(), nil
	}

	for i, c := range resp.Concepts {
		b.WriteString(fmt.Sprintf("%d. %s [%s]\n", i+1, c.ConceptID, c.State))
		b.WriteString(fmt.Sprintf("   Score: %.1f, Cascade Failures: %d\n", c.ComprehensionScore, c.CascadeFailures))
	}

	return b.String(), nil
}

func formatKeystonesHuman(resp *KeystonesResponseCLI) (string, error) {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Keystone Concepts (>= %d dependents)\n", resp.MinDependents))
	b.WriteString(strings.Repeat("=", 60) + "\n\n")

	if len(resp.Keystones) == 0 {
		b.WriteString("No keystone concepts found.\n")
		return b.String(), nil
	}

	for i, k := range resp.Keystones {
		b.WriteString(fmt.Sprintf("%d. %s: %d dependents\n", i+1, k.ConceptID, k.DependentCount))
	}

	return b.String(), nil
}

func formatCriticalPathHuman(resp *CriticalPathResponseCLI) (string, error) {
	var b strings.Builder

	b.WriteString("Critical Path\n")
	b.WriteString(strings.Repeat("=", 60) + "\n\n")

	if len(resp.Path) == 0 {
		b.WriteString("Graph has no concepts.\n")
		return b.String(), nil
	}

	b.WriteString(strings.Join(resp.Path, " -> ") + "\n")
	b.WriteString(fmt.Sprintf("\nLength: %d concepts\n", len(resp.Path)))

	return b.String(), nil
}
