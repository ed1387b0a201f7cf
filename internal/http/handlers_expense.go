package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"expensetracker/internal/core"
	"expensetracker/internal/expenses"
	"expensetracker/internal/log"
)

type expenseListResponse struct {
	Expenses  []core.Expense `json:"expenses"`
	DateRange core.DateRange `json:"dateRange"`
	Total     core.Money     `json:"total"`
}

// handleListExpenses returns the expenses inside the active date range.
func handleListExpenses(w http.ResponseWriter, r *http.Request) {
	store := expenses.MustFromContext(r.Context())
	st := store.State()
	filtered := core.FilterByRange(st.Expenses, st.DateRange)
	NewResponse().JSON(expenseListResponse{
		Expenses:  filtered,
		DateRange: st.DateRange,
		Total:     core.Total(filtered),
	}).Write(w)
}

func handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := bindJSON(w, r, &req); err != nil {
		writeError(w, r, log.OpCreate, err)
		return
	}
	draft, err := req.toExpense("")
	if err != nil {
		writeError(w, r, log.OpCreate, err)
		return
	}

	created, err := expenses.MustFromContext(r.Context()).AddExpense(r.Context(), draft)
	if err != nil {
		writeError(w, r, log.OpCreate, err)
		return
	}
	NewResponse().
		Status(http.StatusCreated).
		TriggerExpense(EventExpenseCreated, created).
		JSON(created).
		Write(w)
}

func handleGetExpense(w http.ResponseWriter, r *http.Request) {
	e, ok := expenses.MustFromContext(r.Context()).Expense(chi.URLParam(r, "id"))
	if !ok {
		NotFoundError("expense not found").Write(w)
		return
	}
	NewResponse().JSON(e).Write(w)
}

func handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	store := expenses.MustFromContext(r.Context())
	if _, ok := store.Expense(id); !ok {
		NotFoundError("expense not found").Write(w)
		return
	}

	var req expenseRequest
	if err := bindJSON(w, r, &req); err != nil {
		writeError(w, r, log.OpUpdate, err)
		return
	}
	e, err := req.toExpense(id)
	if err != nil {
		writeError(w, r, log.OpUpdate, err)
		return
	}
	if err := store.UpdateExpense(r.Context(), e); err != nil {
		writeError(w, r, log.OpUpdate, err)
		return
	}
	NewResponse().TriggerExpense(EventExpenseUpdated, e).JSON(e).Write(w)
}

func handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	store := expenses.MustFromContext(r.Context())
	e, ok := store.Expense(id)
	if !ok {
		NotFoundError("expense not found").Write(w)
		return
	}
	if err := store.DeleteExpense(r.Context(), id); err != nil {
		writeError(w, r, log.OpDelete, err)
		return
	}
	NewResponse().
		Status(http.StatusNoContent).
		TriggerExpense(EventExpenseDeleted, e).
		Write(w)
}
