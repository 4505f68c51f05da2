// Package history provides pure aggregation functions over recorded quiz
// results. Nothing here touches storage; callers pass the entries in.
package history

import (
	"sort"

	"github.com/PeterK0/Quintry/internal/model"
)

// DefaultLimit caps the weakest/strongest rankings when the caller does
// not supply a limit.
const DefaultLimit = 10

// PortStats holds cumulative performance for one port display string.
type PortStats struct {
	Port     string  `json:"port"`
	Attempts int     `json:"attempts"`
	Correct  int     `json:"correct"`
	Accuracy float64 `json:"accuracy"`
}

// DifficultyStats summarizes entries recorded at one difficulty tier.
type DifficultyStats struct {
	Count       int     `json:"count"`
	AvgAccuracy float64 `json:"avgAccuracy"`
}

// Stats folds every per-port result across all history entries into
// attempt/correct counts, ordered by descending attempts. Ties keep the
// order ports were first seen in.
func Stats(entries []model.QuizHistoryEntry) []PortStats {
	idx := make(map[string]int)
	var stats []PortStats

	for _, e := range entries {
		for _, r := range e.Results {
			i, ok := idx[r.Port]
			if !ok {
				i = len(stats)
				idx[r.Port] = i
				stats = append(stats, PortStats{Port: r.Port})
			}
			stats[i].Attempts++
			if r.IsCorrect {
				stats[i].Correct++
			}
		}
	}
	for i := range stats {
		stats[i].Accuracy = float64(stats[i].Correct) / float64(stats[i].Attempts) * 100
	}
	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].Attempts > stats[j].Attempts
	})
	return stats
}

// Weakest returns up to limit ports with at least two attempts and
// accuracy under 80%, worst first. Ports at exactly 80% land in neither
// Weakest nor Strongest.
func Weakest(entries []model.QuizHistoryEntry, limit int) []PortStats {
	if limit <= 0 {
		limit = DefaultLimit
	}
	var out []PortStats
	for _, s := range Stats(entries) {
		if s.Attempts >= 2 && s.Accuracy < 80 {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Accuracy < out[j].Accuracy
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Strongest returns up to limit ports with at least two attempts and
// accuracy of 81% or better, best first.
func Strongest(entries []model.QuizHistoryEntry, limit int) []PortStats {
	if limit <= 0 {
		limit = DefaultLimit
	}
	var out []PortStats
	for _, s := range Stats(entries) {
		if s.Attempts >= 2 && s.Accuracy >= 81 {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Accuracy > out[j].Accuracy
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// AverageScore returns the arithmetic mean accuracy across all entries,
// 0 for empty history.
func AverageScore(entries []model.QuizHistoryEntry) float64 {
	if len(entries) == 0 {
		return 0
	}
	var total float64
	for _, e := range entries {
		total += e.Accuracy
	}
	return total / float64(len(entries))
}

// ByDifficulty buckets entries per difficulty tier. All three tiers are
// always present in the result, zero-valued when unplayed.
func ByDifficulty(entries []model.QuizHistoryEntry) map[model.Difficulty]DifficultyStats {
	totals := make(map[model.Difficulty]float64)
	counts := make(map[model.Difficulty]int)
	for _, e := range entries {
		totals[e.Difficulty] += e.Accuracy
		counts[e.Difficulty]++
	}

	out := make(map[model.Difficulty]DifficultyStats, 3)
	for _, d := range []model.Difficulty{model.DifficultyEasy, model.DifficultyNormal, model.DifficultyHard} {
		ds := DifficultyStats{Count: counts[d]}
		if ds.Count > 0 {
			ds.AvgAccuracy = totals[d] / float64(ds.Count)
		}
		out[d] = ds
	}
	return out
}
