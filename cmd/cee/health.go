package main

import (
	"sort"

	"github.com/spf13/cobra"

	"cee/internal/health"
)

var healthFormat string

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Summarize overall graph health for a learner",
	Long: `Summarize the learner's graph: state distribution, an overall score
weighted by comprehension state, and recommendations when the distribution
looks bad.

Examples:
  cee health -c go-101 -u alice
  cee health -c go-101 -u alice --format=human`,
	Run: runHealth,
}

func init() {
	healthCmd.Flags().StringVar(&healthFormat, "format", "json", "Output format (json, human)")
	rootCmd.AddCommand(healthCmd)
}

// StateCountCLI is one state bucket in the health summary
type StateCountCLI struct {
	State string `json:"state"`
	Count int    `json:"count"`
}

// HealthResponseCLI contains the graph health summary for CLI output
type HealthResponseCLI struct {
	TotalConcepts   int             `json:"totalConcepts"`
	TrackedConcepts int             `json:"trackedConcepts"`
	StateCounts     []StateCountCLI `json:"stateCounts"`
	OverallScore    float64         `json:"overallScore"`
	Recommendations []string        `json:"recommendations,omitempty"`
}

func runHealth(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	logger := newLogger(cfg)

	db := mustOpenStore(cfg, logger)
	defer db.Close()

	g := mustLoadGraph(db)

	report := health.Calculate(g)

	counts := make([]StateCountCLI, 0, len(report.StateCounts))
	for state, count := range report.StateCounts {
		counts = append(counts, StateCountCLI{State: string(state), Count: count})
	}
	sort.Slice(counts, func(i, j int) bool { return counts[i].State < counts[j].State })

	resp := &HealthResponseCLI{
		TotalConcepts:   report.TotalConcepts,
		TrackedConcepts: report.TrackedConcepts,
		StateCounts:     counts,
		OverallScore:    report.OverallScore,
		Recommendations: report.Recommendations,
	}
	printResponse(resp, OutputFormat(healthFormat))
}
