package models

import apperr "github.com/julianstephens/glowup/internal/errors"

type EntryType string

const (
	EntryIncome  EntryType = "income"
	EntryExpense EntryType = "expense"
)

type FinancialEntry struct {
	Meta
	Type     EntryType `json:"type"`
	Amount   float64   `json:"amount"` // positive value
	Category string    `json:"category"`
	Date     string    `json:"date"`
	Notes    string    `json:"notes,omitempty"`
}

func (f *FinancialEntry) Validate() error {
	if f.Type != EntryIncome && f.Type != EntryExpense {
		return apperr.Invalid("financial entry", "type", "must be income or expense")
	}
	if f.Amount < 0 {
		return apperr.Invalid("financial entry", "amount", "cannot be negative")
	}
	if !validDate(f.Date) {
		return apperr.Invalid("financial entry", "date", "must be YYYY-MM-DD")
	}
	return nil
}
