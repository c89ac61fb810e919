package store

import (
	"github.com/julianstephens/glowup/internal/models"
	"github.com/julianstephens/glowup/internal/stats"
)

func finances(d *models.Document) *[]models.FinancialEntry { return &d.Finances }

func (s *Store) GetFinancialEntries() []models.FinancialEntry { return list(s, finances) }

func (s *Store) AddFinancialEntry(e models.FinancialEntry) (models.FinancialEntry, error) {
	return add(s, "financialEntry", finances, e)
}

func (s *Store) UpdateFinancialEntry(id string, patch func(*models.FinancialEntry)) (bool, error) {
	return update(s, "financialEntry", finances, id, patch)
}

func (s *Store) DeleteFinancialEntry(id string) (bool, error) {
	return remove(s, "financialEntry", finances, id)
}

func (s *Store) MonthlyFinance(month string) stats.FinanceSummary {
	return stats.MonthlyFinance(s.GetFinancialEntries(), month)
}

func (s *Store) DailyProfit(month string) []float64 {
	return stats.DailyProfit(s.GetFinancialEntries(), month)
}

func (s *Store) DailyBreakdown(month string) []stats.DayTotals {
	return stats.DailyBreakdown(s.GetFinancialEntries(), month)
}
