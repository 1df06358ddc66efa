package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cee/internal/adapt"
	"cee/internal/errors"
)

var (
	traverseFormat  string
	traverseOutcome string
)

var traverseCmd = &cobra.Command{
	Use:   "traverse <fromConceptId> <toConceptId>",
	Short: "Record a traversal outcome and adapt the edge",
	Long: `Record that a learner moved across a prerequisite edge and whether
the transition went well. Edge weight and transfer coefficient adapt once
enough traversals accumulate, and difficult traversals count as cascade
failures against the source concept.

Examples:
  cee traverse closures async-await -c go-101 -u alice --outcome=success
  cee traverse closures async-await -c go-101 -u alice --outcome=difficulty`,
	Args: cobra.ExactArgs(2),
	Run:  runTraverse,
}

func init() {
	traverseCmd.Flags().StringVar(&traverseFormat, "format", "json", "Output format (json, human)")
	traverseCmd.Flags().StringVar(&traverseOutcome, "outcome", "success", "Traversal outcome (success, difficulty)")
	rootCmd.AddCommand(traverseCmd)
}

// TraverseResponseCLI reports the adapted edge for CLI output
type TraverseResponseCLI struct {
	From                 string  `json:"from"`
	To                   string  `json:"to"`
	Outcome              string  `json:"outcome"`
	Weight               float64 `json:"weight"`
	TransferCoefficient  float64 `json:"transferCoefficient"`
	SuccessfulTraversals int     `json:"successfulTraversals"`
	DifficultTraversals  int     `json:"difficultTraversals"`
}

func runTraverse(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	logger := newLogger(cfg)
	from, to := args[0], args[1]

	var success bool
	switch traverseOutcome {
	case "success":
		success = true
	case "difficulty":
		success = false
	default:
		fmt.Fprintf(os.Stderr, "Error: --outcome must be success or difficulty, got %q\n", traverseOutcome)
		os.Exit(1)
	}

	db := mustOpenStore(cfg, logger)
	defer db.Close()

	g := mustLoadGraph(db)

	if !adapt.UpdateEdgeWeights(g, from, to, success) {
		fatal(errors.New(errors.EdgeNotFound,
			fmt.Sprintf("no edge %s -> %s", from, to), nil))
	}

	// A successful transition is also a transfer observation.
	if success {
		fromEnt, okFrom := g.Entanglement(from)
		toEnt, okTo := g.Entanglement(to)
		if okFrom && okTo {
			adapt.RecordTransferPattern(g, from, to, fromEnt.ComprehensionScore, toEnt.ComprehensionScore)
		}
	}

	mustSaveGraph(db, cfg, g)

	edge, _ := g.EdgeBetween(from, to)
	resp := &TraverseResponseCLI{
		From:                 from,
		To:                   to,
		Outcome:              traverseOutcome,
		Weight:               edge.Weight,
		TransferCoefficient:  edge.TransferCoefficient,
		SuccessfulTraversals: edge.SuccessfulTraversals,
		DifficultTraversals:  edge.DifficultTraversals,
	}
	printResponse(resp, OutputFormat(traverseFormat))

	logger.Debug("traversal recorded",
		"from", from,
		"to", to,
		"outcome", traverseOutcome)
}
