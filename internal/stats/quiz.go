package stats

import (
	"math"

	"github.com/julianstephens/glowup/internal/models"
)

const defaultQuizCategory = "general"

type CategoryScore struct {
	Attempts     int     `json:"attempts"`
	AverageScore float64 `json:"averageScore"`
}

type QuizSummary struct {
	TotalAttempts int                      `json:"totalAttempts"`
	AverageScore  float64                  `json:"averageScore"`
	BestScore     float64                  `json:"bestScore"`
	LastAttempt   string                   `json:"lastAttempt,omitempty"`
	ByCategory    map[string]CategoryScore `json:"byCategory"`
}

// QuizStats summarizes quiz results. Averages are rounded to one decimal; LastAttempt is
// the date of the most recently recorded result.
func QuizStats(results []models.QuizResult) QuizSummary {
	summary := QuizSummary{ByCategory: map[string]CategoryScore{}}
	if len(results) == 0 {
		return summary
	}

	totals := map[string]float64{}
	total := 0.0
	summary.BestScore = results[0].Score
	for _, r := range results {
		total += r.Score
		if r.Score > summary.BestScore {
			summary.BestScore = r.Score
		}
		cat := r.Category
		if cat == "" {
			cat = defaultQuizCategory
		}
		c := summary.ByCategory[cat]
		c.Attempts++
		summary.ByCategory[cat] = c
		totals[cat] += r.Score
	}
	for cat, c := range summary.ByCategory {
		c.AverageScore = roundTo(totals[cat]/float64(c.Attempts), 1)
		summary.ByCategory[cat] = c
	}

	summary.TotalAttempts = len(results)
	summary.AverageScore = roundTo(total/float64(len(results)), 1)
	summary.LastAttempt = results[len(results)-1].Date
	return summary
}

func roundTo(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
