package expenses

import "expensetracker/internal/core"

// State is everything the expense store holds. Only Expenses and Budgets are
// persisted.
type State struct {
	Expenses  []core.Expense `json:"expenses"`
	Budgets   []core.Budget  `json:"budgets"`
	DateRange core.DateRange `json:"dateRange"`
	Error     string         `json:"error,omitempty"`
}

type collection int

const (
	noCollection collection = iota
	expensesCollection
	budgetsCollection
)

// action is the closed set of expense store mutations. collection names the
// persisted collection the action touches.
type action interface {
	collection() collection
}

type (
	setExpenses   struct{ expenses []core.Expense }
	addExpense    struct{ expense core.Expense }
	updateExpense struct{ expense core.Expense }
	deleteExpense struct{ id string }
	setBudgets    struct{ budgets []core.Budget }
	addBudget     struct{ budget core.Budget }
	updateBudget  struct{ budget core.Budget }
	deleteBudget  struct{ category core.Category }
	setDateRange  struct{ r core.DateRange }
	setError      struct{ message string }
)

func (setExpenses) collection() collection   { return expensesCollection }
func (addExpense) collection() collection    { return expensesCollection }
func (updateExpense) collection() collection { return expensesCollection }
func (deleteExpense) collection() collection { return expensesCollection }
func (setBudgets) collection() collection    { return budgetsCollection }
func (addBudget) collection() collection     { return budgetsCollection }
func (updateBudget) collection() collection  { return budgetsCollection }
func (deleteBudget) collection() collection  { return budgetsCollection }
func (setDateRange) collection() collection  { return noCollection }
func (setError) collection() collection      { return noCollection }

// reduce returns the state after a. Slices of s are never written to; every
// change produces a fresh slice.
func reduce(s State, a action) State {
	switch a := a.(type) {
	case setExpenses:
		s.Expenses = append([]core.Expense{}, a.expenses...)
	case addExpense:
		s.Expenses = append(append(make([]core.Expense, 0, len(s.Expenses)+1), s.Expenses...), a.expense)
	case updateExpense:
		next := make([]core.Expense, len(s.Expenses))
		for i, e := range s.Expenses {
			if e.ID == a.expense.ID {
				e = a.expense
			}
			next[i] = e
		}
		s.Expenses = next
	case deleteExpense:
		next := make([]core.Expense, 0, len(s.Expenses))
		for _, e := range s.Expenses {
			if e.ID != a.id {
				next = append(next, e)
			}
		}
		s.Expenses = next
	case setBudgets:
		s.Budgets = append([]core.Budget{}, a.budgets...)
	case addBudget:
		s.Budgets = upsertBudget(s.Budgets, a.budget, true)
	case updateBudget:
		s.Budgets = upsertBudget(s.Budgets, a.budget, false)
	case deleteBudget:
		next := make([]core.Budget, 0, len(s.Budgets))
		for _, b := range s.Budgets {
			if b.Category != a.category {
				next = append(next, b)
			}
		}
		s.Budgets = next
	case setDateRange:
		s.DateRange = a.r
	case setError:
		s.Error = a.message
	}
	return s
}

// upsertBudget replaces the budget of b's category. When none exists b is
// appended only if insert is set.
func upsertBudget(budgets []core.Budget, b core.Budget, insert bool) []core.Budget {
	next := make([]core.Budget, 0, len(budgets)+1)
	found := false
	for _, existing := range budgets {
		if existing.Category == b.Category {
			if !found {
				next = append(next, b)
				found = true
			}
			continue
		}
		next = append(next, existing)
	}
	if !found && insert {
		next = append(next, b)
	}
	return next
}

func (s State) clone() State {
	s.Expenses = append([]core.Expense{}, s.Expenses...)
	s.Budgets = append([]core.Budget{}, s.Budgets...)
	return s
}
