package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"cee/internal/config"
	ceeerrors "cee/internal/errors"
	"cee/internal/graph"
	"cee/internal/slogutil"
	"cee/internal/storage"
)

// fatal prints an error with any suggested fixes and exits.
func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	var coded *ceeerrors.Error
	if errors.As(err, &coded) {
		for _, fix := range coded.SuggestedFixes {
			fmt.Fprintf(os.Stderr, "  Suggested: %s\n", fix.Description)
			if fix.Command != "" {
				fmt.Fprintf(os.Stderr, "    $ %s\n", fix.Command)
			}
		}
	}
	os.Exit(1)
}

// loadConfig loads the host configuration from the working directory,
// falling back to defaults when no config file exists.
func loadConfig() *config.Config {
	wd, err := os.Getwd()
	if err != nil {
		return config.Default()
	}
	cfg, err := config.Load(wd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config, using defaults: %v\n", err)
		return config.Default()
	}
	return cfg
}

// newLogger builds the command logger from config, honoring the --log-level
// override. Logs go to stderr so stdout stays parseable.
func newLogger(cfg *config.Config) *slog.Logger {
	level := cfg.Logging.Level
	if levelFlag != "" {
		level = levelFlag
	}
	if cfg.Logging.Format == "json" {
		return slogutil.NewJSONLogger(os.Stderr, slogutil.LevelFromString(level))
	}
	return slogutil.NewLogger(os.Stderr, slogutil.LevelFromString(level))
}

// mustOpenStore opens the snapshot store under the configured data directory
// or exits.
func mustOpenStore(cfg *config.Config, logger *slog.Logger) *storage.DB {
	wd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	db, err := storage.Open(cfg.DataPath(wd), logger)
	if err != nil {
		fatal(ceeerrors.New(ceeerrors.StorageUnavailable, "cannot open snapshot store", err))
	}
	return db
}

// mustScope validates the --course/--user pair every graph-scoped command
// needs.
func mustScope() (courseID, userID string) {
	if courseFlag == "" {
		fmt.Fprintln(os.Stderr, "Error: --course is required")
		os.Exit(1)
	}
	if userFlag == "" {
		fmt.Fprintln(os.Stderr, "Error: --user is required")
		os.Exit(1)
	}
	return courseFlag, userFlag
}

// mustLoadGraph loads the latest snapshot for the flag scope or exits.
func mustLoadGraph(db *storage.DB) *graph.Graph {
	courseID, userID := mustScope()
	g, err := db.LoadGraph(courseID, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNoSnapshot) {
			fatal(ceeerrors.New(ceeerrors.GraphNotFound,
				fmt.Sprintf("no graph for course %q user %q", courseID, userID), nil))
		}
		fatal(err)
	}
	return g
}

// mustSaveGraph persists the graph and prunes old snapshots per config.
func mustSaveGraph(db *storage.DB, cfg *config.Config, g *graph.Graph) {
	if _, err := db.SaveGraph(g); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving graph: %v\n", err)
		os.Exit(1)
	}
	if _, err := db.PruneSnapshots(g.Metadata.CourseID, g.Metadata.UserID, cfg.Storage.SnapshotsKept); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: snapshot prune failed: %v\n", err)
	}
}
