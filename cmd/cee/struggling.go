package main

import (
	"github.com/spf13/cobra"

	"cee/internal/health"
)

var strugglingFormat string

var strugglingCmd = &cobra.Command{
	Use:   "struggling",
	Short: "List collapsed and struggling concepts, worst first",
	Long: `List the learner's collapsed and struggling concepts ordered by how
badly they need attention: collapsed before struggling, more cascade
failures first.

Examples:
  cee struggling -c go-101 -u alice
  cee struggling -c go-101 -u alice --format=human`,
	Run: runStruggling,
}

func init() {
	strugglingCmd.Flags().StringVar(&strugglingFormat, "format", "json", "Output format (json, human)")
	rootCmd.AddCommand(strugglingCmd)
}

// StrugglingResponseCLI contains the struggling concepts list for CLI output
type StrugglingResponseCLI struct {
	Concepts   []health.StrugglingConcept `json:"concepts"`
	TotalCount int                        `json:"totalCount"`
}

func runStruggling(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	logger := newLogger(cfg)

	db := mustOpenStore(cfg, logger)
	defer db.Close()

	g := mustLoadGraph(db)

	concepts := health.Struggling(g)
	resp := &StrugglingResponseCLI{
		Concepts:   concepts,
		TotalCount: len(concepts),
	}
	printResponse(resp, OutputFormat(strugglingFormat))
}
