package main

import (
	"github.com/spf13/cobra"

	"cee/internal/health"
)

var criticalPathFormat string

var criticalPathCmd = &cobra.Command{
	Use:   "critical-path",
	Short: "Show the longest prerequisite chain through the course",
	Long: `Show the longest chain of prerequisite edges in the graph, starting
from a concept with no prerequisites. This is the learning spine: a gap
anywhere on it blocks the most downstream material.

Examples:
  cee critical-path -c go-101 -u alice
  cee critical-path -c go-101 -u alice --format=human`,
	Run: runCriticalPath,
}

func init() {
	criticalPathCmd.Flags().StringVar(&criticalPathFormat, "format", "json", "Output format (json, human)")
	rootCmd.AddCommand(criticalPathCmd)
}

// CriticalPathResponseCLI contains the critical path for CLI output
type CriticalPathResponseCLI struct {
	Path   []string `json:"path"`
	Length int      `json:"length"`
}

func runCriticalPath(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	logger := newLogger(cfg)

	db := mustOpenStore(cfg, logger)
	defer db.Close()

	g := mustLoadGraph(db)

	path := health.CriticalPath(g)
	resp := &CriticalPathResponseCLI{
		Path:   path,
		Length: len(path),
	}
	printResponse(resp, OutputFormat(criticalPathFormat))
}
