package stats

import (
	"strings"
	"time"

	"github.com/julianstephens/glowup/internal/constants"
	"github.com/julianstephens/glowup/internal/models"
)

const uncategorized = "Uncategorized"

type CategoryTotals struct {
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
	Net      float64 `json:"net"`
}

type FinanceSummary struct {
	Month      string                    `json:"month"`
	Income     float64                   `json:"income"`
	Expenses   float64                   `json:"expenses"`
	Profit     float64                   `json:"profit"`
	ByCategory map[string]CategoryTotals `json:"byCategory"`
}

type DayTotals struct {
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
	Profit   float64 `json:"profit"`
}

func inMonth(date, month string) bool {
	return strings.HasPrefix(date, month+"-")
}

// MonthlyFinance totals the entries of month (YYYY-MM)
func MonthlyFinance(entries []models.FinancialEntry, month string) FinanceSummary {
	s := FinanceSummary{Month: month, ByCategory: map[string]CategoryTotals{}}
	for _, e := range entries {
		if !inMonth(e.Date, month) {
			continue
		}
		cat := e.Category
		if cat == "" {
			cat = uncategorized
		}
		c := s.ByCategory[cat]
		if e.Type == models.EntryIncome {
			s.Income += e.Amount
			c.Income += e.Amount
		} else {
			s.Expenses += e.Amount
			c.Expenses += e.Amount
		}
		c.Net = c.Income - c.Expenses
		s.ByCategory[cat] = c
	}
	s.Profit = s.Income - s.Expenses
	return s
}

// DailyBreakdown returns one entry per day of month; index 0 is the 1st.
func DailyBreakdown(entries []models.FinancialEntry, month string) []DayTotals {
	first, err := time.Parse(constants.MonthFormat, month)
	if err != nil {
		return nil
	}
	days := first.AddDate(0, 1, -1).Day()
	out := make([]DayTotals, days)
	for _, e := range entries {
		if !inMonth(e.Date, month) {
			continue
		}
		d, err := time.Parse(constants.DateFormat, e.Date)
		if err != nil {
			continue
		}
		t := &out[d.Day()-1]
		if e.Type == models.EntryIncome {
			t.Income += e.Amount
		} else {
			t.Expenses += e.Amount
		}
		t.Profit = roundTo(t.Income-t.Expenses, 2)
	}
	return out
}

// DailyProfit returns the per-day profit series of month, rounded to cents
func DailyProfit(entries []models.FinancialEntry, month string) []float64 {
	breakdown := DailyBreakdown(entries, month)
	out := make([]float64, len(breakdown))
	for i, d := range breakdown {
		out[i] = d.Profit
	}
	return out
}
