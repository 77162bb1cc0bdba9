package models

import (
	"github.com/shopspring/decimal"
)

// CategoryTotal is the sum of confirmed amounts for one category.
type CategoryTotal struct {
	Category Category        `json:"category"`
	Total    decimal.Decimal `json:"total"`
	Count    int             `json:"count"`
}

// Summary aggregates confirmed transactions.
type Summary struct {
	Categories []CategoryTotal `json:"categories"`
	Inflow     decimal.Decimal `json:"inflow"`
	Outflow    decimal.Decimal `json:"outflow"`
	Balance    decimal.Decimal `json:"balance"`
}

// GetExpenses sums the amounts of transactions, optionally filtered by category.
func GetExpenses(transactions []Transaction, category Category) decimal.Decimal {
	total := decimal.Zero
	for _, t := range transactions {
		if category != "" && t.Category != category {
			continue
		}
		total = total.Add(t.Amount)
	}
	return total
}

// Summarize totals transactions per category. The closed set is always
// listed in order; free-text categories follow in first-seen order.
func Summarize(transactions []Transaction) Summary {
	s := Summary{
		Inflow:  decimal.Zero,
		Outflow: decimal.Zero,
	}

	index := make(map[Category]int)
	for _, c := range AllCategories {
		index[c] = len(s.Categories)
		s.Categories = append(s.Categories, CategoryTotal{Category: c, Total: decimal.Zero})
	}

	for _, t := range transactions {
		i, ok := index[t.Category]
		if !ok {
			i = len(s.Categories)
			index[t.Category] = i
			s.Categories = append(s.Categories, CategoryTotal{Category: t.Category, Total: decimal.Zero})
		}
		s.Categories[i].Total = s.Categories[i].Total.Add(t.Amount)
		s.Categories[i].Count++

		if t.Amount.IsPositive() {
			s.Inflow = s.Inflow.Add(t.Amount)
		} else {
			s.Outflow = s.Outflow.Add(t.Amount)
		}
	}

	s.Balance = s.Inflow.Add(s.Outflow)
	return s
}
