package main

import (
	"github.com/spf13/cobra"

	"cee/internal/health"
)

var (
	keystonesFormat        string
	keystonesMinDependents int
)

var keystonesCmd = &cobra.Command{
	Use:   "keystones",
	Short: "List concepts many others depend on",
	Long: `List keystone concepts: concepts whose dependent count meets the
threshold. A comprehension gap in a keystone puts a disproportionate share
of the course at risk.

Examples:
  cee keystones -c go-101 -u alice
  cee keystones -c go-101 -u alice --min-dependents=5`,
	Run: runKeystones,
}

func init() {
	keystonesCmd.Flags().StringVar(&keystonesFormat, "format", "json", "Output format (json, human)")
	keystonesCmd.Flags().IntVar(&keystonesMinDependents, "min-dependents", 0, "Dependent threshold (0 = config default)")
	rootCmd.AddCommand(keystonesCmd)
}

// KeystonesResponseCLI contains the keystones list for CLI output
type KeystonesResponseCLI struct {
	Keystones     []health.Keystone `json:"keystones"`
	MinDependents int               `json:"minDependents"`
}

func runKeystones(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	logger := newLogger(cfg)

	db := mustOpenStore(cfg, logger)
	defer db.Close()

	g := mustLoadGraph(db)

	minDeps := keystonesMinDependents
	if minDeps <= 0 {
		minDeps = cfg.Query.KeystoneMinDependents
	}

	resp := &KeystonesResponseCLI{
		Keystones:     health.Keystones(g, minDeps),
		MinDependents: minDeps,
	}
	printResponse(resp, OutputFormat(keystonesFormat))
}
