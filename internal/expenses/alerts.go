package expenses

import (
	"context"

	"expensetracker/internal/core"
	"expensetracker/internal/log"
)

// budgetAlerts reports the budget of e's category if spending in the budget
// window containing e's date is over the limit. Callers hold s.mu.
func (s *Store) budgetAlerts(e core.Expense) []core.BudgetAlert {
	if s.notifier == nil {
		return nil
	}
	b, ok := s.budgetLocked(e.Category)
	if !ok {
		return nil
	}
	window := core.PeriodWindow(b.Period, e.Date)
	spent := core.SpentIn(s.state.Expenses, b.Category, window)
	if spent.Cents <= b.Amount.Cents {
		return nil
	}
	return []core.BudgetAlert{{
		Category:  b.Category,
		Period:    b.Period,
		Window:    window,
		Limit:     b.Amount,
		Spent:     spent,
		ExpenseID: e.ID,
		RaisedAt:  s.now().UTC(),
	}}
}

// notify delivers alerts outside the store lock. Failures are logged only.
func (s *Store) notify(ctx context.Context, alerts []core.BudgetAlert) {
	for _, a := range alerts {
		fields := log.NewFields().
			WithOperation(log.OpPublish).
			WithBudget(a.Category.String(), a.Limit.Cents, string(a.Period))
		if err := s.notifier.NotifyBudgetExceeded(ctx, a); err != nil {
			s.logger.WarnContext(ctx, "Budget alert not delivered", fields.WithError(err).ToSlice()...)
			continue
		}
		s.logger.InfoContext(ctx, "Budget exceeded", fields.ToSlice()...)
	}
}
