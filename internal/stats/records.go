package stats

import (
	"math"

	"github.com/julianstephens/glowup/internal/constants"
	"github.com/julianstephens/glowup/internal/models"
)

type RecordsSummary struct {
	TotalFiles       int `json:"totalFiles"`
	DaysRegistered   int `json:"daysRegistered"`
	VisualMilestones int `json:"visualMilestones"`
	ProgressPercent  int `json:"progressPercent"`
}

// RecordsStats summarizes uploaded media
func RecordsStats(files []models.UploadedFile) RecordsSummary {
	days := make(map[string]struct{})
	summary := RecordsSummary{TotalFiles: len(files)}
	for _, f := range files {
		if len(f.UploadDate) >= 10 {
			days[f.UploadDate[:10]] = struct{}{}
		} else if f.UploadDate != "" {
			days[f.UploadDate] = struct{}{}
		}
		if f.Category == models.CategoryBeforeAfter || f.Category == models.CategorySpecialMilestone {
			summary.VisualMilestones++
		}
	}
	summary.DaysRegistered = len(days)
	pct := int(math.Round(float64(len(files)) / constants.RecordsProgressTarget * 100))
	summary.ProgressPercent = min(100, pct)
	return summary
}
