// Package scoring converts raw behavior signals into per-concept
// comprehension scores and derives the entanglement state from them.
package scoring

import (
	"math"
	"time"

	"cee/internal/graph"
)

// Comprehension is the output of scoring a signal history.
type Comprehension struct {
	Score      float64 `json:"score"`      // 0-100
	Confidence float64 `json:"confidence"` // 0-1
}

// Signal weights per kind. Quizzes are the strongest evidence, navigation the
// weakest.
const (
	weightQuiz          = 0.4
	weightPlayground    = 0.3
	weightPlaygroundNil = 0.1 // playground session with zero runs
	weightSectionTime   = 0.15
	weightErrorPattern  = 0.1
	weightVideo         = 0.1
	weightNavigation    = 0.05
)

// decayWindow is the age at which a signal's decay factor bottoms out.
const decayWindow = 7 * 24 * time.Hour

// decayFloor keeps old signals from vanishing entirely.
const decayFloor = 0.3

// Calculate scores a signal history. Signal ages are measured against ref so
// results are reproducible; pass the newest signal's timestamp for replayable
// scoring. With no signals the score falls back to 50 (no evidence either
// way) at zero confidence.
func Calculate(signals []graph.BehaviorSignal, ref time.Time) Comprehension {
	if len(signals) == 0 {
		return Comprehension{Score: 50, Confidence: 0}
	}

	var weightedSum, totalWeight float64
	for _, sig := range signals {
		score, weight, ok := signalScore(sig)
		if !ok {
			continue
		}
		d := decay(ref.Sub(sig.Timestamp))
		weightedSum += score * weight * d
		totalWeight += weight * d
	}

	c := Comprehension{Score: 50}
	if totalWeight > 0 {
		c.Score = clamp(weightedSum/totalWeight, 0, 100)
	}
	c.Confidence = math.Min(1, float64(len(signals))/10)
	return c
}

// signalScore maps one signal to a sub-score in [0,100] and its blend weight.
// Returns ok=false when the signal carries no payload for its kind.
func signalScore(sig graph.BehaviorSignal) (score, weight float64, ok bool) {
	switch sig.Kind {
	case graph.SignalQuiz:
		if sig.Quiz == nil {
			return 0, 0, false
		}
		q := sig.Quiz
		accuracy := 0.0
		if q.TotalQuestions > 0 {
			accuracy = float64(q.CorrectAnswers) / float64(q.TotalQuestions)
		}
		penalty := float64(q.AttemptsUsed-1) * 10
		return clamp(accuracy*100-penalty, 0, 100), weightQuiz, true

	case graph.SignalPlayground:
		if sig.Playground == nil {
			return 0, 0, false
		}
		p := sig.Playground
		if p.RunCount == 0 {
			// Opened the playground but never ran anything: neutral, weak.
			return 50, weightPlaygroundNil, true
		}
		successRate := float64(p.SuccessfulRuns) / float64(p.RunCount)
		errorRate := float64(p.ErrorCount) / float64(p.RunCount)
		return clamp(successRate*100-errorRate*20, 0, 100), weightPlayground, true

	case graph.SignalSectionTime:
		if sig.SectionTime == nil {
			return 0, 0, false
		}
		st := sig.SectionTime
		revisitPenalty := math.Max(0, float64(st.RevisitCount-2)) * 5
		return clamp(st.CompletionPercentage-revisitPenalty, 0, 100), weightSectionTime, true

	case graph.SignalErrorPattern:
		if sig.ErrorPattern == nil {
			return 0, 0, false
		}
		return clamp(100-float64(sig.ErrorPattern.RepeatedCount)*25, 0, 100), weightErrorPattern, true

	case graph.SignalVideo:
		if sig.Video == nil {
			return 0, 0, false
		}
		v := sig.Video
		rewindPenalty := math.Min(20, float64(v.RewindCount)*4)
		return clamp(v.WatchedPercentage-rewindPenalty, 0, 100), weightVideo, true

	case graph.SignalNavigation:
		if sig.Navigation == nil {
			return 0, 0, false
		}
		if sig.Navigation.IsBackward {
			return 50, weightNavigation, true
		}
		return 75, weightNavigation, true
	}
	return 0, 0, false
}

// decay down-weights older signals linearly over a week, never below the
// floor. Signals at or ahead of the reference time decay by nothing.
func decay(age time.Duration) float64 {
	if age <= 0 {
		return 1
	}
	frac := float64(age) / float64(decayWindow)
	return math.Max(decayFloor, 1-frac*0.7)
}

// StateFor derives an entanglement state from score, confidence, and cascade
// failures. Branches are evaluated strictly in priority order: insufficient
// confidence first, then the cascade-failure override, then score bands. This
// is the only place entanglement state is decided.
func StateFor(score, confidence float64, cascadeFailures int) graph.EntanglementState {
	switch {
	case confidence < 0.2:
		return graph.StateUnknown
	case cascadeFailures >= 3:
		return graph.StateCollapsed
	case score >= 85:
		return graph.StateMastered
	case score >= 70:
		return graph.StateStable
	case score >= 50:
		return graph.StateUnstable
	case score >= 30:
		return graph.StateStruggling
	default:
		return graph.StateCollapsed
	}
}

// UpdateEntanglement applies one signal to a concept: appends it to the
// bounded history, rescored over the trimmed window with the new signal's
// timestamp as the decay reference, and re-derives the state using the
// existing cascade-failure count (cascade counters move only via edge
// adaptation). Returns false without touching the graph when the concept has
// no entanglement entry.
func UpdateEntanglement(g *graph.Graph, conceptID string, sig graph.BehaviorSignal) bool {
	ent, ok := g.Entanglement(conceptID)
	if !ok {
		return false
	}

	ent.Signals = append(ent.Signals, sig)
	if len(ent.Signals) > graph.MaxSignals {
		ent.Signals = ent.Signals[len(ent.Signals)-graph.MaxSignals:]
	}

	c := Calculate(ent.Signals, sig.Timestamp)
	ent.ComprehensionScore = c.Score
	ent.Confidence = c.Confidence
	ent.Attempts++
	ent.TimeSpentMs += sig.TimeSpentMs()
	ent.LastInteraction = sig.Timestamp
	ent.State = StateFor(c.Score, c.Confidence, ent.CascadeFailures)

	g.Metadata.LastUpdated = sig.Timestamp
	return true
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
