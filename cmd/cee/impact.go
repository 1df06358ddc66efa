package main

import (
	"github.com/spf13/cobra"

	"cee/internal/impact"
)

var (
	impactFormat   string
	impactMaxDepth int
)

var impactCmd = &cobra.Command{
	Use:   "impact <conceptId>",
	Short: "Project which downstream concepts a comprehension gap puts at risk",
	Long: `Walk forward over prerequisite edges from a concept with a
comprehension gap and estimate the score reduction propagating to each
dependent. The projection attenuates with distance and edge strength.

Examples:
  cee impact closures -c go-101 -u alice
  cee impact closures -c go-101 -u alice --max-depth=2
  cee impact closures -c go-101 -u alice --format=human`,
	Args: cobra.ExactArgs(1),
	Run:  runImpact,
}

func init() {
	impactCmd.Flags().StringVar(&impactFormat, "format", "json", "Output format (json, human)")
	impactCmd.Flags().IntVar(&impactMaxDepth, "max-depth", 0, "Traversal depth limit (0 = config default)")
	rootCmd.AddCommand(impactCmd)
}

// ImpactResponseCLI contains the forward projection for CLI output
type ImpactResponseCLI struct {
	SourceConceptID      string                   `json:"sourceConceptId"`
	SourceGap            float64                  `json:"sourceGap"`
	AffectedConcepts     []impact.AffectedConcept `json:"affectedConcepts"`
	CriticalPathAffected []string                 `json:"criticalPathAffected,omitempty"`
	TotalAtRisk          int                      `json:"totalAtRisk"`
}

func runImpact(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	logger := newLogger(cfg)

	db := mustOpenStore(cfg, logger)
	defer db.Close()

	g := mustLoadGraph(db)

	maxDepth := impactMaxDepth
	if maxDepth <= 0 {
		maxDepth = cfg.Query.MaxDepth
	}

	result := impact.Analyze(g, args[0], maxDepth)

	resp := &ImpactResponseCLI{
		SourceConceptID:      result.SourceConceptID,
		SourceGap:            result.SourceGap,
		AffectedConcepts:     result.AffectedConcepts,
		CriticalPathAffected: result.CriticalPathAffected,
		TotalAtRisk:          result.TotalAtRisk,
	}
	printResponse(resp, OutputFormat(impactFormat))

	logger.Debug("impact analysis completed",
		"source", args[0],
		"atRisk", result.TotalAtRisk)
}
