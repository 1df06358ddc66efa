package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cee/internal/errors"
	"cee/internal/graph"
	"cee/internal/repair"
	"cee/internal/rootcause"
)

var (
	repairFormat   string
	repairMaxDepth int
)

var repairCmd = &cobra.Command{
	Use:   "repair <conceptId>",
	Short: "Generate a remediation plan for a struggling concept",
	Long: `Diagnose a struggling concept and generate an ordered repair path:
root causes first, bridging review in the middle, the target concept last.
The path is registered as active on the graph until completed or dismissed.

Examples:
  cee repair async-await -c go-101 -u alice
  cee repair async-await -c go-101 -u alice --format=human
  cee repair complete 4f7c... -c go-101 -u alice
  cee repair dismiss 4f7c... -c go-101 -u alice`,
	Args: cobra.ExactArgs(1),
	Run:  runRepair,
}

var repairCompleteCmd = &cobra.Command{
	Use:   "complete <pathId>",
	Short: "Mark an active repair path as completed",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runRepairResolve(args[0], graph.RepairCompleted)
	},
}

var repairDismissCmd = &cobra.Command{
	Use:   "dismiss <pathId>",
	Short: "Dismiss an active repair path without completing it",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runRepairResolve(args[0], graph.RepairDismissed)
	},
}

func init() {
	repairCmd.Flags().StringVar(&repairFormat, "format", "json", "Output format (json, human)")
	repairCmd.Flags().IntVar(&repairMaxDepth, "max-depth", 0, "Diagnosis depth limit (0 = config default)")
	repairCmd.AddCommand(repairCompleteCmd)
	repairCmd.AddCommand(repairDismissCmd)
	rootCmd.AddCommand(repairCmd)
}

// RepairResponseCLI contains the generated repair path for CLI output
type RepairResponseCLI struct {
	ID                        string             `json:"id"`
	TargetConceptID           string             `json:"targetConceptId"`
	Steps                     []graph.RepairStep `json:"steps"`
	TotalEstimatedTimeMinutes int                `json:"totalEstimatedTimeMinutes"`
	ExpectedImprovement       float64            `json:"expectedImprovement"`
}

func runRepair(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	logger := newLogger(cfg)
	targetID := args[0]

	db := mustOpenStore(cfg, logger)
	defer db.Close()

	g := mustLoadGraph(db)

	if _, ok := g.Node(targetID); !ok {
		fatal(errors.New(errors.ConceptNotFound,
			fmt.Sprintf("concept %q not found in graph", targetID), nil))
	}

	maxDepth := repairMaxDepth
	if maxDepth <= 0 {
		maxDepth = cfg.Query.MaxDepth
	}

	diag := rootcause.Analyze(g, targetID, maxDepth)
	path := repair.Generate(g, targetID, diag)

	mustSaveGraph(db, cfg, g)

	resp := &RepairResponseCLI{
		ID:                        path.ID,
		TargetConceptID:           path.TargetConceptID,
		Steps:                     path.Steps,
		TotalEstimatedTimeMinutes: path.TotalEstimatedTimeMinutes,
		ExpectedImprovement:       path.ExpectedImprovement,
	}
	printResponse(resp, OutputFormat(repairFormat))

	logger.Debug("repair path generated",
		"target", targetID,
		"steps", len(path.Steps))
}

func runRepairResolve(pathID string, status graph.RepairPathStatus) {
	cfg := loadConfig()
	logger := newLogger(cfg)

	db := mustOpenStore(cfg, logger)
	defer db.Close()

	g := mustLoadGraph(db)

	var ok bool
	if status == graph.RepairCompleted {
		ok = repair.Complete(g, pathID)
	} else {
		ok = repair.Dismiss(g, pathID)
	}
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: no active repair path %q\n", pathID)
		os.Exit(1)
	}

	mustSaveGraph(db, cfg, g)
	fmt.Printf("Repair path %s marked %s\n", pathID, status)
}
