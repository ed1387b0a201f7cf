package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"expensetracker/internal/core"
	"expensetracker/internal/expenses"
	"expensetracker/internal/log"
)

func handleListBudgets(w http.ResponseWriter, r *http.Request) {
	NewResponse().JSON(expenses.MustFromContext(r.Context()).State().Budgets).Write(w)
}

// handleSetBudget creates or replaces the budget of a category.
func handleSetBudget(w http.ResponseWriter, r *http.Request) {
	var req budgetRequest
	if err := bindJSON(w, r, &req); err != nil {
		writeError(w, r, log.OpCreate, err)
		return
	}
	saveBudget(w, r, req, http.StatusCreated, false)
}

func handleUpdateBudget(w http.ResponseWriter, r *http.Request) {
	c, ok := budgetFromPath(w, r)
	if !ok {
		return
	}

	var req budgetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, log.OpUpdate, err)
		return
	}
	req.Category = c.String()
	if err := validateStruct(req); err != nil {
		writeError(w, r, log.OpUpdate, err)
		return
	}
	saveBudget(w, r, req, http.StatusOK, true)
}

func handleGetBudget(w http.ResponseWriter, r *http.Request) {
	c, ok := budgetFromPath(w, r)
	if !ok {
		return
	}
	b, _ := expenses.MustFromContext(r.Context()).Budget(c)
	NewResponse().JSON(b).Write(w)
}

func handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	c, ok := budgetFromPath(w, r)
	if !ok {
		return
	}
	if err := expenses.MustFromContext(r.Context()).DeleteBudget(r.Context(), c); err != nil {
		writeError(w, r, log.OpDelete, err)
		return
	}
	NewResponse().
		Status(http.StatusNoContent).
		TriggerBudget(EventBudgetDeleted, c).
		Write(w)
}

// budgetFromPath resolves {category} to an existing budget's category and
// writes a 404 when there is none.
func budgetFromPath(w http.ResponseWriter, r *http.Request) (core.Category, bool) {
	c, err := core.ParseCategory(chi.URLParam(r, "category"))
	if err != nil {
		NotFoundError("unknown category").Write(w)
		return "", false
	}
	if _, ok := expenses.MustFromContext(r.Context()).Budget(c); !ok {
		NotFoundError("no budget for category").Write(w)
		return "", false
	}
	return c, true
}

func saveBudget(w http.ResponseWriter, r *http.Request, req budgetRequest, status int, update bool) {
	b, err := req.toBudget()
	if err != nil {
		writeError(w, r, log.OpUpdate, err)
		return
	}

	store := expenses.MustFromContext(r.Context())
	if update {
		err = store.UpdateBudget(r.Context(), b)
	} else {
		err = store.AddBudget(r.Context(), b)
	}
	if err != nil {
		writeError(w, r, log.OpUpdate, err)
		return
	}

	saved, _ := store.Budget(b.Category)
	NewResponse().
		Status(status).
		TriggerBudget(EventBudgetUpdated, b.Category).
		JSON(saved).
		Write(w)
}
