package http

import (
	"encoding/json"
	"net/http"

	"expensetracker/internal/core"
)

// Event names sent in the HX-Trigger header so a front end can refresh the
// affected views.
const (
	EventExpenseCreated   = "expense:created"
	EventExpenseUpdated   = "expense:updated"
	EventExpenseDeleted   = "expense:deleted"
	EventBudgetUpdated    = "budget:updated"
	EventBudgetDeleted    = "budget:deleted"
	EventDateRangeChanged = "date-range:changed"
	EventSessionChanged   = "session:changed"
	EventOverviewRefresh  = "overview:refresh"
)

// ResponseBuilder provides a fluent API for building JSON responses with
// HX-Trigger events.
type ResponseBuilder struct {
	triggers   map[string]any
	statusCode int
	body       any
	headers    map[string]string
}

// NewResponse creates a new response builder with default 200 status.
func NewResponse() *ResponseBuilder {
	return &ResponseBuilder{
		triggers:   make(map[string]any),
		statusCode: http.StatusOK,
		headers:    make(map[string]string),
	}
}

func (b *ResponseBuilder) Status(code int) *ResponseBuilder {
	b.statusCode = code
	return b
}

// Trigger adds a named event with optional data to the HX-Trigger header.
func (b *ResponseBuilder) Trigger(name string, data any) *ResponseBuilder {
	if data == nil {
		data = struct{}{}
	}
	b.triggers[name] = data
	return b
}

// TriggerExpense adds event for e along with an overview refresh.
func (b *ResponseBuilder) TriggerExpense(event string, e core.Expense) *ResponseBuilder {
	return b.Trigger(event, map[string]string{"id": e.ID, "date": e.Date.String()}).
		Trigger(EventOverviewRefresh, nil)
}

func (b *ResponseBuilder) TriggerBudget(event string, c core.Category) *ResponseBuilder {
	return b.Trigger(event, map[string]string{"category": c.String()}).
		Trigger(EventOverviewRefresh, nil)
}

func (b *ResponseBuilder) TriggerDateRange(r core.DateRange) *ResponseBuilder {
	return b.Trigger(EventDateRangeChanged, r).Trigger(EventOverviewRefresh, nil)
}

func (b *ResponseBuilder) TriggerSession(authenticated bool) *ResponseBuilder {
	return b.Trigger(EventSessionChanged, map[string]bool{"isAuthenticated": authenticated})
}

func (b *ResponseBuilder) Header(name, value string) *ResponseBuilder {
	b.headers[name] = value
	return b
}

// JSON sets the value encoded as the response body.
func (b *ResponseBuilder) JSON(v any) *ResponseBuilder {
	b.body = v
	return b
}

// Write sends the built response to the http.ResponseWriter.
func (b *ResponseBuilder) Write(w http.ResponseWriter) {
	for name, value := range b.headers {
		w.Header().Set(name, value)
	}

	if len(b.triggers) > 0 {
		if triggerJSON, err := json.Marshal(b.triggers); err == nil {
			w.Header().Set("HX-Trigger", string(triggerJSON))
		}
	}

	if b.body == nil {
		w.WriteHeader(b.statusCode)
		return
	}

	payload, err := json.Marshal(b.body)
	if err != nil {
		http.Error(w, `{"error":"failed to encode response"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(b.statusCode)
	_, _ = w.Write(append(payload, '\n'))
}

type errorBody struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// ErrorResponse creates a JSON {"error": message} response.
func ErrorResponse(statusCode int, message string) *ResponseBuilder {
	return NewResponse().Status(statusCode).JSON(errorBody{Error: message})
}

func BadRequestError(message string) *ResponseBuilder {
	return ErrorResponse(http.StatusBadRequest, message)
}

func UnauthorizedError(message string) *ResponseBuilder {
	return ErrorResponse(http.StatusUnauthorized, message)
}

func NotFoundError(message string) *ResponseBuilder {
	return ErrorResponse(http.StatusNotFound, message)
}

func ConflictError(message string) *ResponseBuilder {
	return ErrorResponse(http.StatusConflict, message)
}

// ValidationFailed creates a 422 response listing every invalid field.
func ValidationFailed(err *ValidationError) *ResponseBuilder {
	return NewResponse().
		Status(http.StatusUnprocessableEntity).
		JSON(errorBody{Error: err.Error(), Fields: err.Fields})
}

// UnprocessableEntityError creates a 422 response without field details.
func UnprocessableEntityError(message string) *ResponseBuilder {
	return ErrorResponse(http.StatusUnprocessableEntity, message)
}

func TooManyRequestsError(message string) *ResponseBuilder {
	return ErrorResponse(http.StatusTooManyRequests, message)
}

func InternalServerError(message string) *ResponseBuilder {
	return ErrorResponse(http.StatusInternalServerError, message)
}

func ServiceUnavailableError(message string) *ResponseBuilder {
	return ErrorResponse(http.StatusServiceUnavailable, message)
}
