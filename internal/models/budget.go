package models

import (
	"github.com/shopspring/decimal"
)

// BudgetItem represents a single planned line in a budget section.
type BudgetItem struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// BudgetPlan represents the monthly budget planner.
type BudgetPlan struct {
	Income     []BudgetItem `json:"income"`
	Essentials []BudgetItem `json:"essentials"`
	Variable   []BudgetItem `json:"variable"`
	Savings    []BudgetItem `json:"savings"`
}

// BudgetTotals holds the planner's computed figures.
type BudgetTotals struct {
	Income     decimal.Decimal `json:"income"`
	Essentials decimal.Decimal `json:"essentials"`
	Variable   decimal.Decimal `json:"variable"`
	Savings    decimal.Decimal `json:"savings"`
	Expenses   decimal.Decimal `json:"expenses"`
	Balance    decimal.Decimal `json:"balance"`
}

// DefaultBudgetPlan returns an empty plan with the standard line names.
func DefaultBudgetPlan() BudgetPlan {
	return BudgetPlan{
		Income:     []BudgetItem{{Name: "Salary"}, {Name: "Other Income"}},
		Essentials: []BudgetItem{{Name: "Rent"}, {Name: "Utilities"}, {Name: "Groceries"}},
		Variable:   []BudgetItem{{Name: "Eating Out"}, {Name: "Entertainment"}},
		Savings:    []BudgetItem{{Name: "Savings Account"}, {Name: "Investments"}},
	}
}

// Totals calculates section totals. Expenses cover essentials, variable and
// savings; balance is income minus expenses.
func (b *BudgetPlan) Totals() BudgetTotals {
	t := BudgetTotals{
		Income:     sumItems(b.Income),
		Essentials: sumItems(b.Essentials),
		Variable:   sumItems(b.Variable),
		Savings:    sumItems(b.Savings),
	}
	t.Expenses = t.Essentials.Add(t.Variable).Add(t.Savings)
	t.Balance = t.Income.Sub(t.Expenses)
	return t
}

// Clone returns a deep copy of the plan.
func (b BudgetPlan) Clone() BudgetPlan {
	return BudgetPlan{
		Income:     append([]BudgetItem(nil), b.Income...),
		Essentials: append([]BudgetItem(nil), b.Essentials...),
		Variable:   append([]BudgetItem(nil), b.Variable...),
		Savings:    append([]BudgetItem(nil), b.Savings...),
	}
}

func sumItems(items []BudgetItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Amount)
	}
	return total
}
