package analysis

import (
	"math"
	"sort"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/fullsnack-DEV/React-Native-Performance-Plugin/internal/domain"
)

// Aggregate computes the statistics block for a commit sequence against
// a frame budget. It returns nil for an empty sequence: no statistics
// are meaningful over zero commits, and callers must treat nil as "no
// data" rather than an error.
//
// Ranking ties are broken by insertion order of the first occurrence,
// which is why the per-component maps are explicitly ordered.
func Aggregate(commits []domain.Commit, budget domain.FrameBudget) *domain.AggregateStats {
	if len(commits) == 0 {
		return nil
	}

	stats := &domain.AggregateStats{TotalCommits: len(commits)}

	durations := make([]float64, 0, len(commits))
	byCount := orderedmap.New[string, int]()
	byDuration := orderedmap.New[string, float64]()

	effectHeavy := 0
	passiveHeavy := 0
	heavyCutoff := budget.Ms() * EffectHeavyBudgetShare

	for i := range commits {
		c := commits[i]
		durations = append(durations, c.Duration)

		if c.Duration > budget.Ms() {
			stats.JankyCommits++
		}
		if stats.Worst == nil || c.Duration > stats.Worst.Duration {
			stats.Worst = &commits[i]
			stats.WorstIndex = i
		}
		if c.EffectMs() > heavyCutoff {
			effectHeavy++
		}
		if c.PassiveMs() > heavyCutoff {
			passiveHeavy++
		}
		if c.PassiveMs() > stats.MaxPassiveMs {
			stats.MaxPassiveMs = c.PassiveMs()
		}

		for _, u := range c.Updaters {
			name := u.Name()
			if name == "" || name == domain.AnonymousName {
				stats.AnonymousRenders++
				continue
			}
			if n, ok := byCount.Get(name); ok {
				byCount.Set(name, n+1)
			} else {
				byCount.Set(name, 1)
			}
			if total, ok := byDuration.Get(name); ok {
				byDuration.Set(name, total+c.Duration)
			} else {
				byDuration.Set(name, c.Duration)
			}
		}
	}

	total := float64(stats.TotalCommits)
	stats.JankRatePct = int(math.Round(float64(stats.JankyCommits) / total * 100))
	stats.EffectHeavyPct = int(math.Round(float64(effectHeavy) / total * 100))
	stats.PassiveHeavyPct = int(math.Round(float64(passiveHeavy) / total * 100))

	// Second pass over a sorted copy; the per-commit order is never
	// mutated.
	sorted := make([]float64, len(durations))
	copy(sorted, durations)
	sort.Float64s(sorted)
	stats.MeanMs = mean(sorted)
	stats.MedianMs = medianSorted(sorted)
	stats.P95Ms = p95Sorted(sorted)

	stats.TopByCount = topCounts(byCount, TopComponents)
	stats.TopByDuration = topDurations(byDuration, TopComponents)

	return stats
}

// CommitsPerMinute derives the commit rate from the document's absolute
// profiling window, not the commit timestamps. It returns nil when the
// window is zero or negative.
func CommitsPerMinute(commitCount int, windowMs float64) *float64 {
	if windowMs <= 0 {
		return nil
	}
	rate := float64(commitCount) / windowMs * 60000
	return &rate
}

func mean(vals []float64) float64 {
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

// medianSorted expects ascending input; even-length sequences average
// the two middle elements.
func medianSorted(vals []float64) float64 {
	n := len(vals)
	if n%2 == 1 {
		return vals[n/2]
	}
	return (vals[n/2-1] + vals[n/2]) / 2
}

// p95Sorted uses the nearest-rank index floor(0.95*(n-1)).
func p95Sorted(vals []float64) float64 {
	idx := int(math.Floor(0.95 * float64(len(vals)-1)))
	return vals[idx]
}

func topCounts(m *orderedmap.OrderedMap[string, int], limit int) []domain.ComponentCount {
	items := make([]domain.ComponentCount, 0, m.Len())
	for pair := m.Oldest(); pair != nil; pair = pair.Next() {
		items = append(items, domain.ComponentCount{Name: pair.Key, Count: pair.Value})
	}
	// Stable sort keeps first-insertion order among equal values.
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Count > items[j].Count
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items
}

func topDurations(m *orderedmap.OrderedMap[string, float64], limit int) []domain.ComponentTime {
	items := make([]domain.ComponentTime, 0, m.Len())
	for pair := m.Oldest(); pair != nil; pair = pair.Next() {
		items = append(items, domain.ComponentTime{Name: pair.Key, TotalMs: pair.Value})
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].TotalMs > items[j].TotalMs
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items
}
