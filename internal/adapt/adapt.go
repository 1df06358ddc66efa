// Package adapt adjusts edge strengths from observed traversal outcomes and
// records learning-transfer patterns between concept pairs.
package adapt

import (
	"cee/internal/graph"
)

// priorTransfer is the Bayesian prior for an edge's transfer coefficient.
const priorTransfer = 0.7

// warmupTraversals is the sample size below which outcomes are counted but do
// not yet move weight or transfer coefficient. Deliberate low-sample guard.
const warmupTraversals = 3

// UpdateEdgeWeights records a traversal outcome on the edge from one concept
// to a dependent and attributes the outcome to the source concept's cascade
// counters. Once the edge has at least warmupTraversals outcomes, the
// transfer coefficient is re-estimated as a prior/observation blend and the
// weight re-derived from it. Returns false (and changes nothing) if no edge
// connects the pair.
func UpdateEdgeWeights(g *graph.Graph, from, to string, success bool) bool {
	e, ok := g.EdgeBetween(from, to)
	if !ok {
		return false
	}

	if success {
		e.SuccessfulTraversals++
	} else {
		e.DifficultTraversals++
	}

	total := e.SuccessfulTraversals + e.DifficultTraversals
	if total >= warmupTraversals {
		priorWeight := float64(warmupTraversals) / float64(total+warmupTraversals)
		observedRate := float64(e.SuccessfulTraversals) / float64(total)
		e.TransferCoefficient = clamp01(priorTransfer*priorWeight + observedRate*(1-priorWeight))
		e.Weight = clamp01(0.3 + 0.7*e.TransferCoefficient)
	}

	if ent, ok := g.Entanglement(from); ok {
		if success {
			ent.CascadeSuccesses++
		} else {
			ent.CascadeFailures++
		}
	}
	return true
}

// RecordTransferPattern folds one observed (fromScore, toScore) pair into the
// running-average transfer rate for the concept pair, creating the pattern on
// first observation.
func RecordTransferPattern(g *graph.Graph, from, to string, fromScore, toScore float64) *graph.TransferPattern {
	observed := clamp01(toScore / maxf(fromScore, 1))

	for _, p := range g.TransferPatterns {
		if p.From == from && p.To == to {
			n := float64(p.SampleSize)
			p.TransferRate = clamp01((p.TransferRate*n + observed) / (n + 1))
			p.SampleSize++
			return p
		}
	}

	p := &graph.TransferPattern{From: from, To: to, TransferRate: observed, SampleSize: 1}
	g.TransferPatterns = append(g.TransferPatterns, p)
	return p
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
