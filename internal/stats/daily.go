package stats

import (
	"math"
	"sort"

	"github.com/julianstephens/glowup/internal/clock"
	"github.com/julianstephens/glowup/internal/constants"
	"github.com/julianstephens/glowup/internal/models"
)

// DailyStatsFor computes the archived performance of date from the habits scheduled on its
// weekday and that date's completions.
func DailyStatsFor(date string, habits []models.Habit, completions []models.HabitCompletion) models.DailyStats {
	stats := models.DailyStats{Date: date}
	wd, ok := weekdayOf(date)
	if !ok {
		return stats
	}

	status := make(map[string]models.CompletionStatus)
	for _, c := range completions {
		if c.Date == date {
			status[c.HabitID] = c.Status
		}
	}

	for _, h := range habits {
		if !h.ScheduledOn(wd) {
			continue
		}
		stats.TotalHabits++
		stats.TotalPoints += h.Weight
		if status[h.ID] == models.StatusCompleted {
			stats.CompletedHabits++
			stats.EarnedPoints += h.Weight
		}
	}
	if stats.TotalHabits > 0 {
		stats.Percentage = int(math.Round(float64(stats.CompletedHabits) / float64(stats.TotalHabits) * 100))
	}
	return stats
}

// FileDailyStats inserts s into the chart for its own month, creating the chart if needed,
// and refreshes the chart's summary. It reports false when stats for that date already exist.
func FileDailyStats(charts []models.MonthlyChart, s models.DailyStats) ([]models.MonthlyChart, bool) {
	month := clock.Month(s.Date)
	idx := -1
	for i := range charts {
		if charts[i].Month == month {
			idx = i
			break
		}
	}
	if idx == -1 {
		charts = append(charts, models.MonthlyChart{Month: month, DailyStats: []models.DailyStats{}})
		idx = len(charts) - 1
	}
	chart := &charts[idx]
	if chart.Has(s.Date) {
		return charts, false
	}
	chart.DailyStats = append(chart.DailyStats, s)
	SummarizeChart(chart)
	sort.Slice(charts, func(i, j int) bool { return charts[i].Month < charts[j].Month })
	return charts, true
}

// SummarizeChart sorts a chart's stats by date and recomputes its derived fields
func SummarizeChart(chart *models.MonthlyChart) {
	sort.Slice(chart.DailyStats, func(i, j int) bool { return chart.DailyStats[i].Date < chart.DailyStats[j].Date })

	chart.TotalDays = len(chart.DailyStats)
	chart.CompletedDays = 0
	chart.AveragePerformance = 0
	chart.BestDay = ""
	chart.WorstDay = ""
	if chart.TotalDays == 0 {
		return
	}

	sum := 0
	best, worst := chart.DailyStats[0], chart.DailyStats[0]
	for _, s := range chart.DailyStats {
		sum += s.Percentage
		if s.Percentage >= constants.CompletedDayThreshold {
			chart.CompletedDays++
		}
		if s.Percentage > best.Percentage {
			best = s
		}
		if s.Percentage < worst.Percentage {
			worst = s
		}
	}
	chart.AveragePerformance = int(math.Round(float64(sum) / float64(chart.TotalDays)))
	chart.BestDay = best.Date
	chart.WorstDay = worst.Date
}
