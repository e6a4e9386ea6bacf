package analysis

import (
	"sort"

	"github.com/fullsnack-DEV/React-Native-Performance-Plugin/internal/domain"
)

// JankTable returns the commits exceeding the budget, worst first,
// capped at JankTableLimit. The sort is stable so ties retain their
// original relative order, and every entry keeps its zero-based index
// in the unfiltered sequence for display addressing.
func JankTable(commits []domain.Commit, budget domain.FrameBudget) []domain.JankEntry {
	var out []domain.JankEntry
	for i, c := range commits {
		if c.Duration > budget.Ms() {
			out = append(out, domain.JankEntry{
				Index:    i,
				Priority: domain.ClassifyPriority(c.Priority),
				Commit:   c,
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Duration > out[j].Duration
	})
	if len(out) > JankTableLimit {
		out = out[:JankTableLimit]
	}
	return out
}

// Breakdown splits a commit's duration into render/effect/passive cost
// with percentage shares. The epsilon keeps the division defined when
// all three buckets are zero; shares may not sum to exactly 100.
func Breakdown(c domain.Commit) domain.CommitBreakdown {
	effect := c.EffectMs()
	passive := c.PassiveMs()
	render := c.Duration - effect - passive
	if render < 0 {
		render = 0
	}
	total := render + effect + passive
	if total < breakdownEpsilon {
		total = breakdownEpsilon
	}
	return domain.CommitBreakdown{
		RenderMs:   render,
		EffectMs:   effect,
		PassiveMs:  passive,
		RenderPct:  render / total * 100,
		EffectPct:  effect / total * 100,
		PassivePct: passive / total * 100,
	}
}
