package main

import (
	"github.com/spf13/cobra"

	"cee/internal/version"
)

var (
	// Persistent flags shared by every subcommand.
	courseFlag string
	userFlag   string
	levelFlag  string
)

var rootCmd = &cobra.Command{
	Use:   "cee",
	Short: "cee - Concept Entanglement Engine",
	Long: `cee maintains a prerequisite graph over curriculum concepts joined with a
per-learner comprehension model. It turns behavior signals into mastery
estimates, diagnoses which upstream concept is causing a downstream struggle,
projects which concepts a gap puts at risk, and generates remediation plans.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.SetVersionTemplate("cee version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVarP(&courseFlag, "course", "c", "", "Course id (required for graph operations)")
	rootCmd.PersistentFlags().StringVarP(&userFlag, "user", "u", "", "Learner id the graph is scoped to")
	rootCmd.PersistentFlags().StringVar(&levelFlag, "log-level", "", "Log level: debug, info, warn, error")
}
