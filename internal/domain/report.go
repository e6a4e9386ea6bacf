package domain

// ComponentCount ranks a component by how many commits it contributed to.
type ComponentCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// ComponentTime ranks a component by accumulated commit duration.
type ComponentTime struct {
	Name    string  `json:"name"`
	TotalMs float64 `json:"totalMs"`
}

// AggregateStats is the derived statistics block for one commit
// sequence. It is recomputed fresh whenever the sequence or the budget
// changes; there is no incremental mutation.
type AggregateStats struct {
	TotalCommits int `json:"totalCommits"`
	JankyCommits int `json:"jankyCommits"`
	// JankRatePct is round(janky/total*100).
	JankRatePct int `json:"jankRatePct"`

	Worst      *Commit `json:"worst,omitempty"`
	WorstIndex int     `json:"worstIndex"`

	MeanMs   float64 `json:"meanMs"`
	MedianMs float64 `json:"medianMs"`
	P95Ms    float64 `json:"p95Ms"`

	TopByCount    []ComponentCount `json:"topByCount"`
	TopByDuration []ComponentTime  `json:"topByDuration"`

	// AnonymousRenders counts updater entries with a missing or empty
	// display name. They are excluded from the rankings above but still
	// matter for the naming suggestion.
	AnonymousRenders int `json:"anonymousRenders"`

	// Share of commits whose effect / passive-effect cost exceeded half
	// the frame budget, as rounded percentages.
	EffectHeavyPct  int `json:"effectHeavyPct"`
	PassiveHeavyPct int `json:"passiveHeavyPct"`

	MaxPassiveMs float64 `json:"maxPassiveMs"`

	// CommitsPerMinute is nil when the document's profiling window is
	// zero or negative.
	CommitsPerMinute *float64 `json:"commitsPerMinute,omitempty"`
}

// JankEntry is a commit that exceeded the frame budget, annotated with
// its zero-based position in the original unfiltered sequence. The
// index is display addressing only and survives the table's reordering.
type JankEntry struct {
	Index    int           `json:"index"`
	Priority PriorityClass `json:"priority"`
	Commit
}

// CommitBreakdown splits one commit's cost into render/effect/passive
// shares for detail expansion. Percentages may not sum to exactly 100
// due to rounding.
type CommitBreakdown struct {
	RenderMs   float64 `json:"renderMs"`
	EffectMs   float64 `json:"effectMs"`
	PassiveMs  float64 `json:"passiveMs"`
	RenderPct  float64 `json:"renderPct"`
	EffectPct  float64 `json:"effectPct"`
	PassivePct float64 `json:"passivePct"`
}

// Report is the full engine output surface for one session.
type Report struct {
	Stats       *AggregateStats    `json:"stats,omitempty"`
	Jank        []JankEntry        `json:"jank"`
	Suggestions []string           `json:"suggestions"`
	Live        LiveSessionMetrics `json:"live"`
	BudgetMs    float64            `json:"budgetMs"`
}
