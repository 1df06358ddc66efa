package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"cee/internal/errors"
	"cee/internal/graph"
	"cee/internal/scoring"
)

var (
	signalFormat string
	signalKind   string
	signalAt     string

	signalCorrect   int
	signalTotal     int
	signalAttempts  int
	signalTimeMs    int64
	signalRuns      int
	signalSuccesses int
	signalErrors    int
	signalMods      int
	signalPercent   float64
	signalRevisits  int
	signalRepeats   int
	signalRewinds   int
	signalBackward  bool
)

var signalCmd = &cobra.Command{
	Use:   "signal <conceptId>",
	Short: "Apply a behavior signal and rescore the concept",
	Long: `Record one learner interaction against a concept and recompute its
comprehension score, confidence, and state. The signal is journaled so the
graph can be rebuilt by replay.

Signal kinds and their flags:
  quiz          --correct --total --attempts --time-ms
  playground    --runs --successes --errors --modifications --time-ms
  sectionTime   --percent --revisits --time-ms
  errorPattern  --repeats
  video         --percent --rewinds
  navigation    --backward

Examples:
  cee signal closures -c go-101 -u alice --kind=quiz --correct=4 --total=5 --attempts=1 --time-ms=90000
  cee signal goroutines -c go-101 -u alice --kind=errorPattern --repeats=4
  cee signal channels -c go-101 -u alice --kind=navigation --backward`,
	Args: cobra.ExactArgs(1),
	Run:  runSignal,
}

func init() {
	signalCmd.Flags().StringVar(&signalFormat, "format", "json", "Output format (json, human)")
	signalCmd.Flags().StringVar(&signalKind, "kind", "", "Signal kind (quiz, playground, sectionTime, errorPattern, video, navigation)")
	signalCmd.Flags().StringVar(&signalAt, "at", "", "Signal timestamp (RFC3339, defaults to now)")
	signalCmd.Flags().IntVar(&signalCorrect, "correct", 0, "Quiz: correct answers")
	signalCmd.Flags().IntVar(&signalTotal, "total", 0, "Quiz: total questions")
	signalCmd.Flags().IntVar(&signalAttempts, "attempts", 1, "Quiz: attempts used")
	signalCmd.Flags().Int64Var(&signalTimeMs, "time-ms", 0, "Time spent in milliseconds")
	signalCmd.Flags().IntVar(&signalRuns, "runs", 0, "Playground: total runs")
	signalCmd.Flags().IntVar(&signalSuccesses, "successes", 0, "Playground: successful runs")
	signalCmd.Flags().IntVar(&signalErrors, "errors", 0, "Playground: error count")
	signalCmd.Flags().IntVar(&signalMods, "modifications", 0, "Playground: code modifications")
	signalCmd.Flags().Float64Var(&signalPercent, "percent", 0, "SectionTime/video: completion or watched percentage")
	signalCmd.Flags().IntVar(&signalRevisits, "revisits", 0, "SectionTime: revisit count")
	signalCmd.Flags().IntVar(&signalRepeats, "repeats", 0, "ErrorPattern: repeated error count")
	signalCmd.Flags().IntVar(&signalRewinds, "rewinds", 0, "Video: rewind count")
	signalCmd.Flags().BoolVar(&signalBackward, "backward", false, "Navigation: backward navigation")
	rootCmd.AddCommand(signalCmd)
}

// SignalResponseCLI reports the concept's state after a signal is applied
type SignalResponseCLI struct {
	ConceptID          string                  `json:"conceptId"`
	Kind               graph.SignalKind        `json:"kind"`
	State              graph.EntanglementState `json:"state"`
	ComprehensionScore float64                 `json:"comprehensionScore"`
	Confidence         float64                 `json:"confidence"`
	Attempts           int                     `json:"attempts"`
}

func runSignal(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	logger := newLogger(cfg)
	conceptID := args[0]

	sig, err := buildSignal()
	if err != nil {
		fatal(errors.New(errors.SignalInvalid, "cannot build signal", err))
	}

	db := mustOpenStore(cfg, logger)
	defer db.Close()

	g := mustLoadGraph(db)

	if !scoring.UpdateEntanglement(g, conceptID, sig) {
		fatal(errors.New(errors.ConceptNotFound,
			fmt.Sprintf("concept %q not found in graph", conceptID), nil))
	}

	if err := db.AppendSignal(g.Metadata.CourseID, g.Metadata.UserID, conceptID, sig); err != nil {
		fatal(err)
	}
	mustSaveGraph(db, cfg, g)

	ent, _ := g.Entanglement(conceptID)
	resp := &SignalResponseCLI{
		ConceptID:          conceptID,
		Kind:               sig.Kind,
		State:              ent.State,
		ComprehensionScore: ent.ComprehensionScore,
		Confidence:         ent.Confidence,
		Attempts:           ent.Attempts,
	}
	printResponse(resp, OutputFormat(signalFormat))

	logger.Debug("signal applied",
		"concept", conceptID,
		"kind", string(sig.Kind),
		"state", string(ent.State))
}

// buildSignal assembles a BehaviorSignal from the command flags.
func buildSignal() (graph.BehaviorSignal, error) {
	ts := time.Now().UTC()
	if signalAt != "" {
		parsed, err := time.Parse(time.RFC3339, signalAt)
		if err != nil {
			return graph.BehaviorSignal{}, fmt.Errorf("invalid --at timestamp: %w", err)
		}
		ts = parsed.UTC()
	}

	sig := graph.BehaviorSignal{Kind: graph.SignalKind(signalKind), Timestamp: ts}
	switch sig.Kind {
	case graph.SignalQuiz:
		if signalTotal <= 0 {
			return sig, fmt.Errorf("quiz signal requires --total > 0")
		}
		sig.Quiz = &graph.QuizSignal{
			CorrectAnswers: signalCorrect,
			TotalQuestions: signalTotal,
			AttemptsUsed:   signalAttempts,
			TimeSpentMs:    signalTimeMs,
		}
	case graph.SignalPlayground:
		sig.Playground = &graph.PlaygroundSignal{
			RunCount:           signalRuns,
			SuccessfulRuns:     signalSuccesses,
			ErrorCount:         signalErrors,
			ModificationsCount: signalMods,
			TimeSpentMs:        signalTimeMs,
		}
	case graph.SignalSectionTime:
		sig.SectionTime = &graph.SectionTimeSignal{
			CompletionPercentage: signalPercent,
			RevisitCount:         signalRevisits,
			TimeSpentMs:          signalTimeMs,
		}
	case graph.SignalErrorPattern:
		sig.ErrorPattern = &graph.ErrorPatternSignal{RepeatedCount: signalRepeats}
	case graph.SignalVideo:
		sig.Video = &graph.VideoSignal{
			WatchedPercentage: signalPercent,
			RewindCount:       signalRewinds,
		}
	case graph.SignalNavigation:
		sig.Navigation = &graph.NavigationSignal{IsBackward: signalBackward}
	default:
		return sig, fmt.Errorf("unknown signal kind %q", signalKind)
	}
	return sig, nil
}
