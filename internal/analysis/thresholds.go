// Package analysis is the render-performance engine: pure computations
// that turn a commit sequence into statistics, rankings and suggestions,
// plus the one mutable accumulator for live telemetry.
package analysis

// Heuristic cutoffs used by the aggregation and suggestion passes. Kept
// as named constants so tests can target them directly.
const (
	// TopComponents caps both per-component rankings.
	TopComponents = 8
	// JankTableLimit caps the jank table at the N worst commits.
	JankTableLimit = 20

	// EffectHeavyBudgetShare marks a commit effect-heavy when its
	// effect (or passive effect) cost exceeds this share of the budget.
	EffectHeavyBudgetShare = 0.5
	// MeanHeavyBudgetShare triggers the fan-out suggestion when the
	// mean commit duration exceeds this share of the budget.
	MeanHeavyBudgetShare = 0.6

	// JankRateWarnPct triggers the render-audit suggestion.
	JankRateWarnPct = 20
	// LowFPSThreshold triggers the interaction-work suggestion.
	LowFPSThreshold = 50.0
	// StallWarnTotalMs triggers the debounce/offload suggestion.
	StallWarnTotalMs = 200.0

	// breakdownEpsilon guards the share division when a commit reports
	// zero cost in every bucket.
	breakdownEpsilon = 1e-4
)
