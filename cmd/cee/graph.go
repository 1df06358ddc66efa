package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"cee/internal/course"
	"cee/internal/output"
)

var (
	graphInitFormat   string
	graphImportFormat string
	graphExportOut    string
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Create, import, and export concept graphs",
}

var graphInitCmd = &cobra.Command{
	Use:   "init <course.yaml>",
	Short: "Build a learner-scoped graph from a course definition",
	Long: `Build a concept graph from a YAML course definition and persist it
for the given learner. Every concept starts in the unknown state with a
neutral comprehension score.

Examples:
  cee graph init course.yaml --course go-101 --user alice
  cee graph init course.yaml -c go-101 -u alice --format=human`,
	Args: cobra.ExactArgs(1),
	Run:  runGraphInit,
}

var graphImportCmd = &cobra.Command{
	Use:   "import <snapshot.json>",
	Short: "Import a previously exported graph snapshot",
	Long: `Import a graph snapshot produced by 'cee graph export'. The snapshot
replaces the stored graph for its (course, user) scope.

Examples:
  cee graph import snapshot.json
  cee graph import snapshot.json --format=human`,
	Args: cobra.ExactArgs(1),
	Run:  runGraphImport,
}

var graphExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the current graph as deterministic JSON",
	Long: `Export the stored graph for a learner as canonical JSON: sorted keys,
floats rounded to six decimals. Identical graphs always export identical
bytes, so exports diff cleanly.

Examples:
  cee graph export --course go-101 --user alice
  cee graph export -c go-101 -u alice --out snapshot.json`,
	Run: runGraphExport,
}

func init() {
	graphInitCmd.Flags().StringVar(&graphInitFormat, "format", "json", "Output format (json, human)")
	graphImportCmd.Flags().StringVar(&graphImportFormat, "format", "json", "Output format (json, human)")
	graphExportCmd.Flags().StringVar(&graphExportOut, "out", "", "Write snapshot to a file instead of stdout")
	graphCmd.AddCommand(graphInitCmd)
	graphCmd.AddCommand(graphImportCmd)
	graphCmd.AddCommand(graphExportCmd)
	rootCmd.AddCommand(graphCmd)
}

// GraphResponseCLI summarizes a graph mutation for CLI output
type GraphResponseCLI struct {
	CourseID     string `json:"courseId"`
	UserID       string `json:"userId"`
	ConceptCount int    `json:"conceptCount"`
	EdgeCount    int    `json:"edgeCount"`
	SnapshotID   string `json:"snapshotId,omitempty"`
}

func runGraphInit(cmd *cobra.Command, args []string) {
	start := time.Now()
	cfg := loadConfig()
	logger := newLogger(cfg)
	_, userID := mustScope()

	c, err := course.Load(args[0])
	if err != nil {
		fatal(err)
	}
	if courseFlag != c.ID {
		fmt.Fprintf(os.Stderr, "Error: course file defines %q but --course is %q\n", c.ID, courseFlag)
		os.Exit(1)
	}

	g := c.BuildGraph(userID)

	db := mustOpenStore(cfg, logger)
	defer db.Close()

	snapshotID, err := db.SaveGraph(g)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error saving graph: %v\n", err)
		os.Exit(1)
	}

	resp := &GraphResponseCLI{
		CourseID:     g.Metadata.CourseID,
		UserID:       g.Metadata.UserID,
		ConceptCount: len(g.Nodes),
		EdgeCount:    len(g.Edges),
		SnapshotID:   snapshotID,
	}
	printResponse(resp, OutputFormat(graphInitFormat))

	logger.Debug("graph init completed",
		"concepts", len(g.Nodes),
		"duration_ms", time.Since(start).Milliseconds())
}

func runGraphImport(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	logger := newLogger(cfg)

	data, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading snapshot: %v\n", err)
		os.Exit(1)
	}

	g, err := output.DecodeGraph(data)
	if err != nil {
		fatal(err)
	}

	db := mustOpenStore(cfg, logger)
	defer db.Close()

	snapshotID, err := db.SaveGraph(g)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error saving graph: %v\n", err)
		os.Exit(1)
	}

	resp := &GraphResponseCLI{
		CourseID:     g.Metadata.CourseID,
		UserID:       g.Metadata.UserID,
		ConceptCount: len(g.Nodes),
		EdgeCount:    len(g.Edges),
		SnapshotID:   snapshotID,
	}
	printResponse(resp, OutputFormat(graphImportFormat))
}

func runGraphExport(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	logger := newLogger(cfg)

	db := mustOpenStore(cfg, logger)
	defer db.Close()

	g := mustLoadGraph(db)

	data, err := output.EncodeGraph(g)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding graph: %v\n", err)
		os.Exit(1)
	}

	if graphExportOut != "" {
		if err := os.WriteFile(graphExportOut, data, 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing snapshot: %v\n", err)
			os.Exit(1)
		}
		return
	}
	fmt.Println(string(data))
}
