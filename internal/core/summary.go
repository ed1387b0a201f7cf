package core

import (
	"sort"
	"time"
)

// CategoryAmount represents an amount aggregated by category.
type CategoryAmount struct {
	Category Category `json:"category"`
	Amount   Money    `json:"amount"`
}

// BudgetUsage compares a budget limit with what was spent in its category.
type BudgetUsage struct {
	Budget    Budget `json:"budget"`
	Spent     Money  `json:"spent"`
	Remaining Money  `json:"remaining"`
	Exceeded  bool   `json:"exceeded"`
}

// RangeOverview is a compact summary of the expenses inside a date range.
type RangeOverview struct {
	Range      DateRange        `json:"range"`
	Count      int              `json:"count"`
	Total      Money            `json:"total"`
	ByCategory []CategoryAmount `json:"byCategory"`
	Budgets    []BudgetUsage    `json:"budgets"`
}

// BudgetAlert is raised when spending in a budget's current window goes over its limit.
type BudgetAlert struct {
	Category  Category  `json:"category"`
	Period    Period    `json:"period"`
	Window    DateRange `json:"window"`
	Limit     Money     `json:"limit"`
	Spent     Money     `json:"spent"`
	ExpenseID string    `json:"expenseId"`
	RaisedAt  time.Time `json:"raisedAt"`
}

// FilterByRange keeps the expenses dated inside r, preserving order.
func FilterByRange(expenses []Expense, r DateRange) []Expense {
	out := make([]Expense, 0, len(expenses))
	for _, e := range expenses {
		if r.Contains(e.Date) {
			out = append(out, e)
		}
	}
	return out
}

// Total sums the amounts of expenses.
func Total(expenses []Expense) Money {
	var total Money
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}
	return total
}

// SpentIn sums the expenses of category c dated inside r.
func SpentIn(expenses []Expense, c Category, r DateRange) Money {
	var spent Money
	for _, e := range expenses {
		if e.Category == c && r.Contains(e.Date) {
			spent = spent.Add(e.Amount)
		}
	}
	return spent
}

// Summarize builds the overview of expenses in r. Budget usage is measured
// against spending inside r.
func Summarize(expenses []Expense, budgets []Budget, r DateRange) RangeOverview {
	filtered := FilterByRange(expenses, r)
	ov := RangeOverview{
		Range:      r,
		Count:      len(filtered),
		Total:      Total(filtered),
		ByCategory: []CategoryAmount{},
		Budgets:    []BudgetUsage{},
	}

	sums := make(map[Category]Money)
	for _, e := range filtered {
		sums[e.Category] = sums[e.Category].Add(e.Amount)
	}
	for c, amt := range sums {
		ov.ByCategory = append(ov.ByCategory, CategoryAmount{Category: c, Amount: amt})
	}
	sort.Slice(ov.ByCategory, func(i, j int) bool {
		if ov.ByCategory[i].Amount.Cents != ov.ByCategory[j].Amount.Cents {
			return ov.ByCategory[i].Amount.Cents > ov.ByCategory[j].Amount.Cents
		}
		return ov.ByCategory[i].Category < ov.ByCategory[j].Category
	})

	for _, b := range budgets {
		spent := sums[b.Category]
		ov.Budgets = append(ov.Budgets, BudgetUsage{
			Budget:    b,
			Spent:     spent,
			Remaining: b.Amount.Sub(spent),
			Exceeded:  spent.Cents > b.Amount.Cents,
		})
	}
	return ov
}
