package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"expensetracker/internal/core"
)

func TestResponseBuilder_JSON(t *testing.T) {
	w := httptest.NewRecorder()

	NewResponse().
		Status(http.StatusCreated).
		Header("X-Test", "1").
		JSON(map[string]int{"n": 1}).
		Write(w)

	if w.Code != http.StatusCreated {
		t.Errorf("Status code = %d, want %d", w.Code, http.StatusCreated)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("Content-Type = %q", ct)
	}
	if w.Header().Get("X-Test") != "1" {
		t.Error("custom header not set")
	}
	if strings.TrimSpace(w.Body.String()) != `{"n":1}` {
		t.Errorf("Body = %q", w.Body.String())
	}
}

func TestResponseBuilder_NoBody(t *testing.T) {
	w := httptest.NewRecorder()
	NewResponse().Status(http.StatusNoContent).Write(w)

	if w.Code != http.StatusNoContent || w.Body.Len() != 0 {
		t.Fatalf("code=%d body=%q", w.Code, w.Body.String())
	}
	if w.Header().Get("HX-Trigger") != "" {
		t.Fatal("HX-Trigger set without triggers")
	}
}

func TestResponseBuilder_Triggers(t *testing.T) {
	w := httptest.NewRecorder()
	e := core.Expense{ID: "e1", Date: core.NewDate(2024, 1, 15)}

	NewResponse().
		TriggerExpense(EventExpenseCreated, e).
		TriggerBudget(EventBudgetUpdated, core.CategoryFood).
		TriggerSession(true).
		Write(w)

	var triggers map[string]json.RawMessage
	if err := json.Unmarshal([]byte(w.Header().Get("HX-Trigger")), &triggers); err != nil {
		t.Fatalf("HX-Trigger is not JSON: %v", err)
	}
	want := map[string]string{
		EventExpenseCreated:  `{"date":"2024-01-15","id":"e1"}`,
		EventBudgetUpdated:   `{"category":"food"}`,
		EventSessionChanged:  `{"isAuthenticated":true}`,
		EventOverviewRefresh: `{}`,
	}
	for name, body := range want {
		if got := string(triggers[name]); got != body {
			t.Errorf("trigger %s = %s, want %s", name, got, body)
		}
	}
}

func TestErrorResponses(t *testing.T) {
	tests := []struct {
		builder *ResponseBuilder
		code    int
	}{
		{BadRequestError("bad"), http.StatusBadRequest},
		{UnauthorizedError("who"), http.StatusUnauthorized},
		{NotFoundError("gone"), http.StatusNotFound},
		{ConflictError("dup"), http.StatusConflict},
		{UnprocessableEntityError("nope"), http.StatusUnprocessableEntity},
		{TooManyRequestsError("slow"), http.StatusTooManyRequests},
		{InternalServerError("boom"), http.StatusInternalServerError},
		{ServiceUnavailableError("down"), http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		tt.builder.Write(w)
		if w.Code != tt.code {
			t.Errorf("code = %d, want %d", w.Code, tt.code)
		}
		var body errorBody
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil || body.Error == "" {
			t.Errorf("body = %q (%v)", w.Body.String(), err)
		}
	}
}

func TestValidationFailedListsFields(t *testing.T) {
	w := httptest.NewRecorder()
	ValidationFailed(&ValidationError{Fields: map[string]string{"amount": "amount is required"}}).Write(w)

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("code = %d", w.Code)
	}
	var body errorBody
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Fields["amount"] != "amount is required" {
		t.Fatalf("fields = %v", body.Fields)
	}
}
