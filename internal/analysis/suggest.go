package analysis

import (
	"fmt"

	"github.com/fullsnack-DEV/React-Native-Performance-Plugin/internal/domain"
)

// Suggest evaluates the diagnostic rules over aggregated statistics and
// optional live-session metrics. Rules are independent, evaluated in a
// fixed priority order, and appended when triggered; the output order
// is part of the contract. When nothing triggers, exactly one healthy
// fallback message is returned.
func Suggest(stats *domain.AggregateStats, budget domain.FrameBudget, live *domain.LiveSessionMetrics) []string {
	if stats == nil {
		return nil
	}
	var out []string
	b := budget.Ms()

	if stats.JankRatePct > JankRateWarnPct {
		out = append(out, fmt.Sprintf(
			"%d%% of commits exceeded the %.1fms frame budget: audit frequently re-rendering components with the profiler's highlight-updates view.",
			stats.JankRatePct, b))
	}
	if stats.P95Ms > b {
		out = append(out, fmt.Sprintf(
			"p95 commit duration is %.1fms (budget %.1fms): split large updates with startTransition and defer non-urgent effects.",
			stats.P95Ms, b))
	}
	if stats.Worst != nil && stats.Worst.PassiveMs() > b*EffectHeavyBudgetShare {
		out = append(out, fmt.Sprintf(
			"The slowest commit spent %.1fms in passive effects: move data processing out of useEffect or schedule it off the critical path.",
			stats.Worst.PassiveMs()))
	}
	if stats.MeanMs > b*MeanHeavyBudgetShare {
		out = append(out, fmt.Sprintf(
			"Mean commit duration %.1fms is close to the frame budget: reduce setState fan-out and batch related state updates.",
			stats.MeanMs))
	}
	if anonymousRanksTop(stats) {
		out = append(out,
			"Anonymous components rank among the top re-renderers: give them display names so culprits can be attributed.")
	}
	if live != nil {
		if live.WorstFPS != nil && *live.WorstFPS < LowFPSThreshold {
			out = append(out, fmt.Sprintf(
				"Live FPS dropped to %.0f during the session: reduce JavaScript work during interactions.",
				*live.WorstFPS))
		}
		if live.StallTotalMs > StallWarnTotalMs {
			out = append(out, fmt.Sprintf(
				"The JS thread stalled for %.0fms in total: debounce rapid updates or offload heavy work to a background task.",
				live.StallTotalMs))
		}
	}
	if len(stats.TopByDuration) > 0 {
		top := stats.TopByDuration[0]
		out = append(out, fmt.Sprintf(
			"%q accounts for the most accumulated render time (%.1fms): wrap it in React.memo and memoize the props it receives.",
			top.Name, top.TotalMs))
	}

	if len(out) == 0 {
		out = append(out, "Render performance looks healthy: commits stay within the frame budget.")
	}
	return out
}

// anonymousRanksTop reports whether anonymous updaters would place in
// the top render-count ranking if they carried a name.
func anonymousRanksTop(stats *domain.AggregateStats) bool {
	if stats.AnonymousRenders == 0 {
		return false
	}
	if len(stats.TopByCount) < TopComponents {
		return true
	}
	return stats.AnonymousRenders >= stats.TopByCount[len(stats.TopByCount)-1].Count
}
