package stats

import (
	"testing"

	"github.com/julianstephens/glowup/internal/models"
)

var everyDay = []int{0, 1, 2, 3, 4, 5, 6}

func completion(habitID, date string, status models.CompletionStatus) models.HabitCompletion {
	return models.HabitCompletion{HabitID: habitID, Date: date, Status: status}
}

func TestHabitStreak(t *testing.T) {
	// 2024-03-13 is a Wednesday
	habit := models.Habit{Meta: models.Meta{ID: "h1"}, Name: "Read", Weight: 1, DaysOfWeek: everyDay}
	weekdays := models.Habit{Meta: models.Meta{ID: "h1"}, Name: "Read", Weight: 1, DaysOfWeek: []int{1, 2, 3, 4, 5}}

	tests := []struct {
		name        string
		habit       models.Habit
		completions []models.HabitCompletion
		wantStreak  int
		wantLast    string
	}{
		{
			name:       "no completions",
			habit:      habit,
			wantStreak: 0,
		},
		{
			name:  "three days ending today",
			habit: habit,
			completions: []models.HabitCompletion{
				completion("h1", "2024-03-11", models.StatusCompleted),
				completion("h1", "2024-03-12", models.StatusCompleted),
				completion("h1", "2024-03-13", models.StatusCompleted),
			},
			wantStreak: 3,
			wantLast:   "2024-03-13",
		},
		{
			name:  "today still open",
			habit: habit,
			completions: []models.HabitCompletion{
				completion("h1", "2024-03-11", models.StatusCompleted),
				completion("h1", "2024-03-12", models.StatusCompleted),
			},
			wantStreak: 2,
			wantLast:   "2024-03-12",
		},
		{
			name:  "justified day counts",
			habit: habit,
			completions: []models.HabitCompletion{
				completion("h1", "2024-03-12", models.StatusJustified),
				completion("h1", "2024-03-13", models.StatusCompleted),
			},
			wantStreak: 2,
			wantLast:   "2024-03-13",
		},
		{
			name:  "gap breaks streak",
			habit: habit,
			completions: []models.HabitCompletion{
				completion("h1", "2024-03-10", models.StatusCompleted),
				completion("h1", "2024-03-12", models.StatusCompleted),
				completion("h1", "2024-03-13", models.StatusCompleted),
			},
			wantStreak: 2,
			wantLast:   "2024-03-13",
		},
		{
			name:  "not completed today ends streak",
			habit: habit,
			completions: []models.HabitCompletion{
				completion("h1", "2024-03-12", models.StatusCompleted),
				completion("h1", "2024-03-13", models.StatusNotCompleted),
			},
			wantStreak: 0,
			wantLast:   "2024-03-12",
		},
		{
			name:  "weekend skipped",
			habit: weekdays,
			completions: []models.HabitCompletion{
				completion("h1", "2024-03-08", models.StatusCompleted),
				completion("h1", "2024-03-11", models.StatusCompleted),
				completion("h1", "2024-03-12", models.StatusCompleted),
				completion("h1", "2024-03-13", models.StatusCompleted),
			},
			wantStreak: 4,
			wantLast:   "2024-03-13",
		},
		{
			name:  "future and foreign completions ignored",
			habit: habit,
			completions: []models.HabitCompletion{
				completion("h1", "2024-03-13", models.StatusCompleted),
				completion("h1", "2024-03-14", models.StatusCompleted),
				completion("h2", "2024-03-12", models.StatusCompleted),
			},
			wantStreak: 1,
			wantLast:   "2024-03-13",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			streak, last := HabitStreak(tt.habit, tt.completions, "2024-03-13")
			if streak != tt.wantStreak {
				t.Errorf("streak = %d, want %d", streak, tt.wantStreak)
			}
			if last != tt.wantLast {
				t.Errorf("lastCompleted = %q, want %q", last, tt.wantLast)
			}
		})
	}
}

func TestViceStreak(t *testing.T) {
	var completions []models.ViceCompletion
	mark := func(date string, status models.ViceStatus) {
		completions = append(completions, models.ViceCompletion{ViceID: "v1", Date: date, Status: status})
	}

	mark("2024-03-01", models.ViceClean)
	if got := ViceStreak("v1", completions, "2024-03-01"); got != 1 {
		t.Fatalf("day 1: streak = %d, want 1", got)
	}
	mark("2024-03-02", models.ViceClean)
	if got := ViceStreak("v1", completions, "2024-03-02"); got != 2 {
		t.Fatalf("day 2: streak = %d, want 2", got)
	}
	mark("2024-03-03", models.ViceRelapse)
	if got := ViceStreak("v1", completions, "2024-03-03"); got != 0 {
		t.Fatalf("relapse: streak = %d, want 0", got)
	}

	completions = completions[:0]
	mark("2024-03-04", models.ViceClean)
	mark("2024-03-05", models.ViceClean)
	mark("2024-03-06", models.ViceClean)
	if got := ViceStreak("v1", completions, "2024-03-06"); got != 3 {
		t.Fatalf("recovered: streak = %d, want 3", got)
	}
	if got := ViceStreak("v1", completions, "2024-03-07"); got != 3 {
		t.Errorf("unmarked today: streak = %d, want 3", got)
	}
	if got := ViceStreak("v1", completions, "2024-03-09"); got != 0 {
		t.Errorf("after gap: streak = %d, want 0", got)
	}
	if got := ViceStreak("other", completions, "2024-03-06"); got != 0 {
		t.Errorf("other vice: streak = %d, want 0", got)
	}
}

func TestDailyStatsFor(t *testing.T) {
	habits := []models.Habit{
		{Meta: models.Meta{ID: "a"}, Name: "A", Weight: 3, DaysOfWeek: everyDay},
		{Meta: models.Meta{ID: "b"}, Name: "B", Weight: 1, DaysOfWeek: everyDay},
		{Meta: models.Meta{ID: "c"}, Name: "C", Weight: 2, DaysOfWeek: everyDay},
		{Meta: models.Meta{ID: "d"}, Name: "D", Weight: 2, DaysOfWeek: []int{0}}, // Sundays only
	}
	completions := []models.HabitCompletion{
		completion("a", "2024-03-13", models.StatusCompleted),
		completion("b", "2024-03-13", models.StatusJustified),
		completion("c", "2024-03-12", models.StatusCompleted),
	}

	got := DailyStatsFor("2024-03-13", habits, completions)
	want := models.DailyStats{
		Date:            "2024-03-13",
		TotalHabits:     3,
		CompletedHabits: 1,
		TotalPoints:     6,
		EarnedPoints:    3,
		Percentage:      33,
	}
	if got != want {
		t.Errorf("DailyStatsFor() = %+v, want %+v", got, want)
	}

	empty := DailyStatsFor("2024-03-13", nil, nil)
	if empty.Percentage != 0 || empty.TotalHabits != 0 {
		t.Errorf("DailyStatsFor(no habits) = %+v, want zero percentage", empty)
	}
}

func TestFileDailyStats(t *testing.T) {
	var charts []models.MonthlyChart
	var ok bool

	charts, ok = FileDailyStats(charts, models.DailyStats{Date: "2024-03-02", Percentage: 90})
	if !ok {
		t.Fatal("first filing rejected")
	}
	charts, _ = FileDailyStats(charts, models.DailyStats{Date: "2024-03-01", Percentage: 50})
	charts, _ = FileDailyStats(charts, models.DailyStats{Date: "2024-02-29", Percentage: 100})

	charts, ok = FileDailyStats(charts, models.DailyStats{Date: "2024-03-02", Percentage: 10})
	if ok {
		t.Error("duplicate date was filed")
	}

	if len(charts) != 2 || charts[0].Month != "2024-02" || charts[1].Month != "2024-03" {
		t.Fatalf("charts = %+v, want Feb then Mar", charts)
	}
	march := charts[1]
	if march.TotalDays != 2 || march.CompletedDays != 1 {
		t.Errorf("march days = %d/%d, want 2/1", march.CompletedDays, march.TotalDays)
	}
	if march.AveragePerformance != 70 {
		t.Errorf("average = %d, want 70", march.AveragePerformance)
	}
	if march.BestDay != "2024-03-02" || march.WorstDay != "2024-03-01" {
		t.Errorf("best/worst = %s/%s", march.BestDay, march.WorstDay)
	}
	if march.DailyStats[0].Date != "2024-03-01" || march.DailyStats[1].Percentage != 90 {
		t.Errorf("march stats not sorted or overwritten: %+v", march.DailyStats)
	}
}

func TestQuizStats(t *testing.T) {
	results := []models.QuizResult{
		{Date: "2024-03-01", Score: 8, Category: "math"},
		{Date: "2024-03-03", Score: 6, Category: "math"},
		{Date: "2024-03-02", Score: 9},
	}
	got := QuizStats(results)

	if got.TotalAttempts != 3 {
		t.Errorf("TotalAttempts = %d, want 3", got.TotalAttempts)
	}
	if got.AverageScore != 7.7 {
		t.Errorf("AverageScore = %v, want 7.7", got.AverageScore)
	}
	if got.BestScore != 9 {
		t.Errorf("BestScore = %v, want 9", got.BestScore)
	}
	if got.LastAttempt != "2024-03-02" {
		t.Errorf("LastAttempt = %q, want 2024-03-02", got.LastAttempt)
	}
	if c := got.ByCategory["math"]; c.Attempts != 2 || c.AverageScore != 7 {
		t.Errorf("math = %+v, want 2 attempts avg 7", c)
	}
	if c := got.ByCategory["general"]; c.Attempts != 1 || c.AverageScore != 9 {
		t.Errorf("general = %+v, want 1 attempt avg 9", c)
	}

	empty := QuizStats(nil)
	if empty.TotalAttempts != 0 || empty.ByCategory == nil {
		t.Errorf("QuizStats(nil) = %+v", empty)
	}
}

func TestRecordsStats(t *testing.T) {
	files := []models.UploadedFile{
		{UploadDate: "2024-03-01T10:00:00Z", Category: models.CategoryBeforeAfter},
		{UploadDate: "2024-03-01T18:00:00Z", Category: "progress"},
		{UploadDate: "2024-03-02T09:00:00Z", Category: models.CategorySpecialMilestone},
	}
	got := RecordsStats(files)
	want := RecordsSummary{TotalFiles: 3, DaysRegistered: 2, VisualMilestones: 2, ProgressPercent: 1}
	if got != want {
		t.Errorf("RecordsStats() = %+v, want %+v", got, want)
	}

	many := make([]models.UploadedFile, 400)
	if p := RecordsStats(many).ProgressPercent; p != 100 {
		t.Errorf("ProgressPercent = %d, want capped at 100", p)
	}
}

func TestFinance(t *testing.T) {
	entries := []models.FinancialEntry{
		{Type: models.EntryIncome, Amount: 1000, Category: "salary", Date: "2024-02-01"},
		{Type: models.EntryExpense, Amount: 200.25, Category: "food", Date: "2024-02-01"},
		{Type: models.EntryExpense, Amount: 50, Date: "2024-02-29"},
		{Type: models.EntryIncome, Amount: 999, Category: "salary", Date: "2024-03-01"},
	}

	t.Run("monthly summary", func(t *testing.T) {
		s := MonthlyFinance(entries, "2024-02")
		if s.Income != 1000 || s.Expenses != 250.25 || s.Profit != 749.75 {
			t.Errorf("summary = %+v", s)
		}
		if c := s.ByCategory["Uncategorized"]; c.Expenses != 50 || c.Net != -50 {
			t.Errorf("uncategorized = %+v", c)
		}
		if c := s.ByCategory["salary"]; c.Income != 1000 || c.Net != 1000 {
			t.Errorf("salary = %+v", c)
		}
	})

	t.Run("daily profit", func(t *testing.T) {
		profit := DailyProfit(entries, "2024-02")
		if len(profit) != 29 {
			t.Fatalf("len = %d, want 29", len(profit))
		}
		if profit[0] != 799.75 || profit[28] != -50 || profit[10] != 0 {
			t.Errorf("profit = %v", profit)
		}
	})

	t.Run("invalid month", func(t *testing.T) {
		if got := DailyBreakdown(entries, "nope"); got != nil {
			t.Errorf("DailyBreakdown(nope) = %v, want nil", got)
		}
	})
}
