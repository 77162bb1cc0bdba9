package models

import (
	"github.com/shopspring/decimal"
)

// Transaction represents a confirmed financial transaction.
type Transaction struct {
	ID          string          `json:"id"`
	Date        string          `json:"date"` // YYYY-MM-DD
	Description string          `json:"description"`
	Category    Category        `json:"category"`
	Amount      decimal.Decimal `json:"amount"` // negative = outflow
}

// ParsedTransaction is a candidate extracted from OCR text, pending review.
type ParsedTransaction struct {
	Date        string          `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Category    Category        `json:"category"`
}

// Confirm turns the candidate into a Transaction with the given id.
func (p ParsedTransaction) Confirm(id string) Transaction {
	return Transaction{
		ID:          id,
		Date:        p.Date,
		Description: p.Description,
		Category:    p.Category,
		Amount:      p.Amount,
	}
}
