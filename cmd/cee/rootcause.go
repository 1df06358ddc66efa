package main

import (
	"github.com/spf13/cobra"

	"cee/internal/rootcause"
)

var (
	rootCauseFormat   string
	rootCauseMaxDepth int
)

var rootCauseCmd = &cobra.Command{
	Use:   "rootcause <conceptId>",
	Short: "Find the upstream concepts causing a downstream struggle",
	Long: `Walk backward over prerequisite edges from a struggling concept and
rank the problematic upstream concepts by how likely each is the true root
cause. Deeper, weaker prerequisites with cascade history score higher.

Examples:
  cee rootcause async-await -c go-101 -u alice
  cee rootcause async-await -c go-101 -u alice --max-depth=3
  cee rootcause async-await -c go-101 -u alice --format=human`,
	Args: cobra.ExactArgs(1),
	Run:  runRootCause,
}

func init() {
	rootCauseCmd.Flags().StringVar(&rootCauseFormat, "format", "json", "Output format (json, human)")
	rootCauseCmd.Flags().IntVar(&rootCauseMaxDepth, "max-depth", 0, "Traversal depth limit (0 = config default)")
	rootCmd.AddCommand(rootCauseCmd)
}

// RootCauseResponseCLI contains the diagnosis for CLI output
type RootCauseResponseCLI struct {
	TriggerConceptID string                `json:"triggerConceptId"`
	RootCauses       []rootcause.RootCause `json:"rootCauses"`
	CausationChain   []string              `json:"causationChain"`
}

func runRootCause(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	logger := newLogger(cfg)

	db := mustOpenStore(cfg, logger)
	defer db.Close()

	g := mustLoadGraph(db)

	maxDepth := rootCauseMaxDepth
	if maxDepth <= 0 {
		maxDepth = cfg.Query.MaxDepth
	}

	result := rootcause.Analyze(g, args[0], maxDepth)

	resp := &RootCauseResponseCLI{
		TriggerConceptID: result.TriggerConceptID,
		RootCauses:       result.RootCauses,
		CausationChain:   result.CausationChain,
	}
	printResponse(resp, OutputFormat(rootCauseFormat))

	logger.Debug("root cause analysis completed",
		"trigger", args[0],
		"causes", len(result.RootCauses))
}
