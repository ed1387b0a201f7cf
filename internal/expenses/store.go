// Package expenses holds the expense list, the budgets and the active date
// range filter.
package expenses

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"expensetracker/internal/core"
	"expensetracker/internal/log"
	"expensetracker/internal/storage"
)

// ErrMsgLoad is set on the store when persisted data cannot be read.
const ErrMsgLoad = "Failed to load data"

// Notifier receives budget alerts raised by expense mutations.
type Notifier interface {
	NotifyBudgetExceeded(ctx context.Context, alert core.BudgetAlert) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, alert core.BudgetAlert) error

func (f NotifierFunc) NotifyBudgetExceeded(ctx context.Context, alert core.BudgetAlert) error {
	return f(ctx, alert)
}

type Store struct {
	mu       sync.Mutex
	state    State
	storage  storage.Storage
	logger   *log.Logger
	newID    func() string
	now      func() time.Time
	notifier Notifier
}

type Option func(*Store)

func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l.WithComponent(log.ComponentExpense)
		}
	}
}

func WithIDGenerator(f func() string) Option {
	return func(s *Store) {
		if f != nil {
			s.newID = f
		}
	}
}

// WithClock sets the clock used for the default date range and alert timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

func WithNotifier(n Notifier) Option {
	return func(s *Store) {
		s.notifier = n
	}
}

// New builds the store and loads persisted expenses and budgets. A failed load
// leaves both collections empty and sets State().Error; the store stays usable.
func New(ctx context.Context, st storage.Storage, opts ...Option) *Store {
	s := &Store{
		storage: st,
		logger:  log.Discard(),
		newID:   uuid.NewString,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.state = State{
		Expenses:  []core.Expense{},
		Budgets:   []core.Budget{},
		DateRange: core.DefaultDateRange(s.now()),
	}
	s.load(ctx)
	return s
}

func (s *Store) load(ctx context.Context) {
	var (
		expenses []core.Expense
		budgets  []core.Budget
	)
	_, err := storage.Load(ctx, s.storage, storage.KeyExpenses, &expenses)
	if err == nil {
		_, err = storage.Load(ctx, s.storage, storage.KeyBudgets, &budgets)
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to load persisted data", log.NewFields().
			WithOperation(log.OpLoad).WithError(err).ToSlice()...)
		s.state = reduce(s.state, setError{message: ErrMsgLoad})
		return
	}

	s.state = reduce(s.state, setExpenses{expenses: expenses})
	s.state = reduce(s.state, setBudgets{budgets: budgets})
	s.logger.InfoContext(ctx, "Loaded persisted data", "expenses", len(expenses), "budgets", len(budgets))
}

// apply runs a through the reducer and writes the collection it touched.
// The in-memory state is updated even when the write fails. Callers hold s.mu.
func (s *Store) apply(ctx context.Context, a action) error {
	s.state = reduce(s.state, a)

	var err error
	switch a.collection() {
	case expensesCollection:
		err = storage.Save(ctx, s.storage, storage.KeyExpenses, s.state.Expenses)
	case budgetsCollection:
		err = storage.Save(ctx, s.storage, storage.KeyBudgets, s.state.Budgets)
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to persist state", log.NewFields().
			WithOperation(log.OpPersist).WithError(err).ToSlice()...)
		return fmt.Errorf("persist: %w", err)
	}
	return nil
}

func (s *Store) indexOfExpense(id string) int {
	for i, e := range s.state.Expenses {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// AddExpense assigns a fresh id to draft and appends it. The returned expense
// is the stored one.
func (s *Store) AddExpense(ctx context.Context, draft core.Expense) (core.Expense, error) {
	draft.ID = ""
	if err := draft.Validate(); err != nil {
		return core.Expense{}, err
	}

	s.mu.Lock()
	id := s.newID()
	for s.indexOfExpense(id) >= 0 {
		id = s.newID()
	}
	draft.ID = id

	err := s.apply(ctx, addExpense{expense: draft})
	alerts := s.budgetAlerts(draft)
	s.mu.Unlock()

	if err == nil {
		s.logger.InfoContext(ctx, "Expense added", log.NewFields().
			WithOperation(log.OpCreate).
			WithExpense(draft.ID, draft.Description, draft.Amount.Cents, draft.Category.String()).ToSlice()...)
	}
	s.notify(ctx, alerts)
	return draft, err
}

// UpdateExpense replaces the expense with e's id. An unknown id changes nothing.
func (s *Store) UpdateExpense(ctx context.Context, e core.Expense) error {
	if err := e.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	if s.indexOfExpense(e.ID) < 0 {
		s.mu.Unlock()
		return nil
	}
	err := s.apply(ctx, updateExpense{expense: e})
	alerts := s.budgetAlerts(e)
	s.mu.Unlock()

	if err == nil {
		s.logger.InfoContext(ctx, "Expense updated", log.NewFields().
			WithOperation(log.OpUpdate).
			WithExpense(e.ID, e.Description, e.Amount.Cents, e.Category.String()).ToSlice()...)
	}
	s.notify(ctx, alerts)
	return err
}

// DeleteExpense removes the expense with id. An unknown id changes nothing.
func (s *Store) DeleteExpense(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOfExpense(id) < 0 {
		return nil
	}
	if err := s.apply(ctx, deleteExpense{id: id}); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Expense deleted", log.FieldOperation, log.OpDelete, log.FieldExpenseID, id)
	return nil
}

func normalizeBudget(b core.Budget) (core.Budget, error) {
	if b.Period == "" {
		b.Period = core.Monthly
	}
	return b, b.Validate()
}

// AddBudget sets the budget for b's category, replacing any existing one.
// An empty period means monthly.
func (s *Store) AddBudget(ctx context.Context, b core.Budget) error {
	b, err := normalizeBudget(b)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.apply(ctx, addBudget{budget: b}); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Budget set", log.NewFields().
		WithOperation(log.OpCreate).
		WithBudget(b.Category.String(), b.Amount.Cents, string(b.Period)).ToSlice()...)
	return nil
}

// UpdateBudget replaces the budget of b's category. A category without a
// budget changes nothing.
func (s *Store) UpdateBudget(ctx context.Context, b core.Budget) error {
	b, err := normalizeBudget(b)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.budgetLocked(b.Category); !ok {
		return nil
	}
	if err := s.apply(ctx, updateBudget{budget: b}); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Budget updated", log.NewFields().
		WithOperation(log.OpUpdate).
		WithBudget(b.Category.String(), b.Amount.Cents, string(b.Period)).ToSlice()...)
	return nil
}

func (s *Store) DeleteBudget(ctx context.Context, c core.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.budgetLocked(c); !ok {
		return nil
	}
	if err := s.apply(ctx, deleteBudget{category: c}); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Budget deleted", log.FieldOperation, log.OpDelete, log.FieldCategory, c.String())
	return nil
}

// SetDateRange replaces the active filter. A start after the end is accepted
// and simply matches nothing.
func (s *Store) SetDateRange(r core.DateRange) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = reduce(s.state, setDateRange{r: r})
}

// ClearError resets the load error.
func (s *Store) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = reduce(s.state, setError{})
}

// State returns a copy of the store state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// FilteredExpenses returns the expenses inside the active date range.
func (s *Store) FilteredExpenses() []core.Expense {
	s.mu.Lock()
	defer s.mu.Unlock()
	return core.FilterByRange(s.state.Expenses, s.state.DateRange)
}

// Overview summarizes the active date range.
func (s *Store) Overview() core.RangeOverview {
	s.mu.Lock()
	defer s.mu.Unlock()
	return core.Summarize(s.state.Expenses, s.state.Budgets, s.state.DateRange)
}

func (s *Store) Expense(id string) (core.Expense, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOfExpense(id); i >= 0 {
		return s.state.Expenses[i], true
	}
	return core.Expense{}, false
}

func (s *Store) Budget(c core.Category) (core.Budget, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.budgetLocked(c)
}

func (s *Store) budgetLocked(c core.Category) (core.Budget, bool) {
	for _, b := range s.state.Budgets {
		if b.Category == c {
			return b, true
		}
	}
	return core.Budget{}, false
}
