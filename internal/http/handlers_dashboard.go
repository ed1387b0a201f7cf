package http

import (
	"net/http"

	"expensetracker/internal/expenses"
	"expensetracker/internal/log"
)

func handleGetDateRange(w http.ResponseWriter, r *http.Request) {
	NewResponse().JSON(expenses.MustFromContext(r.Context()).State().DateRange).Write(w)
}

// handleSetDateRange replaces the active filter. A start after the end is
// accepted and simply matches nothing.
func handleSetDateRange(w http.ResponseWriter, r *http.Request) {
	var req dateRangeRequest
	if err := bindJSON(w, r, &req); err != nil {
		writeError(w, r, log.OpUpdate, err)
		return
	}
	dr, err := req.toDateRange()
	if err != nil {
		writeError(w, r, log.OpUpdate, err)
		return
	}

	expenses.MustFromContext(r.Context()).SetDateRange(dr)
	NewResponse().TriggerDateRange(dr).JSON(dr).Write(w)
}

// handleOverview summarizes the active range: totals per category and how
// each budget compares with what was spent.
func handleOverview(w http.ResponseWriter, r *http.Request) {
	NewResponse().JSON(expenses.MustFromContext(r.Context()).Overview()).Write(w)
}
