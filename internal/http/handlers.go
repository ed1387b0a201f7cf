package http

import (
	"errors"
	"net/http"

	"expensetracker/internal/app"
	"expensetracker/internal/auth"
	"expensetracker/internal/core"
	"expensetracker/internal/expenses"
	"expensetracker/internal/log"
)

func handleHealth(w http.ResponseWriter, r *http.Request) {
	NewResponse().JSON(map[string]string{"status": "ok"}).Write(w)
}

func handleReady(a *app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := a.Ready(r.Context()); err != nil {
			log.FromContext(r.Context()).WarnContext(r.Context(), "Storage not ready", log.FieldError, err.Error())
			ServiceUnavailableError("storage unavailable").Write(w)
			return
		}
		NewResponse().JSON(map[string]string{"status": "ready"}).Write(w)
	}
}

// requireSession rejects requests made without a logged-in user.
func requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !auth.MustFromContext(r.Context()).IsAuthenticated() {
			UnauthorizedError("authentication required").Write(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func isValidationErr(err error) bool {
	for _, target := range []error{
		core.ErrInvalidAmount,
		core.ErrInvalidCategory,
		core.ErrInvalidDate,
		core.ErrInvalidPeriod,
		core.ErrEmptyDescription,
		core.ErrDescriptionTooLong,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// writeError maps decode, validation and store errors onto a status code.
func writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	var verr *ValidationError
	switch {
	case errors.Is(err, errInvalidJSON):
		BadRequestError(err.Error()).Write(w)
	case errors.As(err, &verr):
		ValidationFailed(verr).Write(w)
	case isValidationErr(err):
		UnprocessableEntityError(err.Error()).Write(w)
	default:
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Request failed",
			log.FieldOperation, op, log.FieldError, err.Error())
		InternalServerError("failed to save changes").Write(w)
	}
}

// handleState returns the whole expense store: expenses, budgets, range and error.
func handleState(w http.ResponseWriter, r *http.Request) {
	NewResponse().JSON(expenses.MustFromContext(r.Context()).State()).Write(w)
}

func handleClearLoadError(w http.ResponseWriter, r *http.Request) {
	store := expenses.MustFromContext(r.Context())
	store.ClearError()
	NewResponse().JSON(store.State()).Write(w)
}
