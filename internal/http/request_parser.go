// Package http exposes the stores over a small JSON API.
//
// This file decodes request bodies into request types and validates them with
// go-playground/validator before they are turned into domain values.
package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"expensetracker/internal/core"
)

const maxBodyBytes = 1 << 20

var errInvalidJSON = errors.New("invalid JSON body")

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		_, err := core.ParseCategory(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("period", func(fl validator.FieldLevel) bool {
		_, err := core.ParsePeriod(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		_, err := core.ParseDate(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("amount", func(fl validator.FieldLevel) bool {
		_, err := core.ParseDecimalToCents(fl.Field().String())
		return err == nil
	})
	return v
}

// ValidationError lists the offending fields by their JSON name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	msgs := make([]string, 0, len(names))
	for _, name := range names {
		msgs = append(msgs, e.Fields[name])
	}
	return "invalid input: " + strings.Join(msgs, "; ")
}

func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fieldErrorToString(fe)
	}
	return &ValidationError{Fields: fields}
}

func fieldErrorToString(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", e.Field())
	case "notblank":
		return fmt.Sprintf("%s must not be blank", e.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", e.Field())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", e.Field(), e.Param())
	case "category":
		return fmt.Sprintf("%s must be one of the known categories", e.Field())
	case "period":
		return fmt.Sprintf("%s must be weekly, monthly or yearly", e.Field())
	case "isodate":
		return fmt.Sprintf("%s must be a date in YYYY-MM-DD format", e.Field())
	case "amount":
		return fmt.Sprintf("%s must be a positive amount", e.Field())
	default:
		return fmt.Sprintf("%s is invalid", e.Field())
	}
}

// decodeJSON reads a single JSON value from r's body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(body)
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", errInvalidJSON, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return fmt.Errorf("%w: trailing data", errInvalidJSON)
	}
	return nil
}

// bindJSON decodes into dst and validates it.
func bindJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	if err := decodeJSON(w, r, dst); err != nil {
		return err
	}
	return validateStruct(dst)
}

// sanitizeInput drops control characters other than tab and newlines, then trims.
func sanitizeInput(s string) string {
	s = strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' && r != '\n' && r != '\r' {
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}

type registerRequest struct {
	Name     string `json:"name" validate:"notblank,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login credentials are matched verbatim, so only presence is checked here.
type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type expenseRequest struct {
	Description string      `json:"description" validate:"notblank,max=200"`
	Amount      json.Number `json:"amount" validate:"required,amount"`
	Category    string      `json:"category" validate:"required,category"`
	Date        string      `json:"date" validate:"required,isodate"`
}

func (req expenseRequest) toExpense(id string) (core.Expense, error) {
	cents, err := core.ParseDecimalToCents(req.Amount.String())
	if err != nil {
		return core.Expense{}, err
	}
	category, err := core.ParseCategory(req.Category)
	if err != nil {
		return core.Expense{}, err
	}
	date, err := core.ParseDate(req.Date)
	if err != nil {
		return core.Expense{}, err
	}
	return core.Expense{
		ID:          id,
		Description: sanitizeInput(req.Description),
		Amount:      core.Money{Cents: cents},
		Category:    category,
		Date:        date,
	}, nil
}

type budgetRequest struct {
	Category string      `json:"category" validate:"required,category"`
	Amount   json.Number `json:"amount" validate:"required,amount"`
	Period   string      `json:"period" validate:"omitempty,period"`
}

func (req budgetRequest) toBudget() (core.Budget, error) {
	cents, err := core.ParseDecimalToCents(req.Amount.String())
	if err != nil {
		return core.Budget{}, err
	}
	category, err := core.ParseCategory(req.Category)
	if err != nil {
		return core.Budget{}, err
	}
	period, err := core.ParsePeriod(req.Period)
	if err != nil {
		return core.Budget{}, err
	}
	return core.Budget{Category: category, Amount: core.Money{Cents: cents}, Period: period}, nil
}

type dateRangeRequest struct {
	StartDate string `json:"startDate" validate:"required,isodate"`
	EndDate   string `json:"endDate" validate:"required,isodate"`
}

func (req dateRangeRequest) toDateRange() (core.DateRange, error) {
	start, err := core.ParseDate(req.StartDate)
	if err != nil {
		return core.DateRange{}, err
	}
	end, err := core.ParseDate(req.EndDate)
	if err != nil {
		return core.DateRange{}, err
	}
	return core.DateRange{StartDate: start, EndDate: end}, nil
}
