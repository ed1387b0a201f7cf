package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const dateLayout = "2006-01-02"

// MaxDescriptionLen is the longest description accepted, in characters.
const MaxDescriptionLen = 200

const (
	CategoryFood           Category = "food"
	CategoryTransportation Category = "transportation"
	CategoryHousing        Category = "housing"
	CategoryUtilities      Category = "utilities"
	CategoryEntertainment  Category = "entertainment"
	CategoryHealthcare     Category = "healthcare"
	CategoryShopping       Category = "shopping"
	CategoryEducation      Category = "education"
	CategoryPersonal       Category = "personal"
	CategoryOther          Category = "other"
)

const (
	Weekly  Period = "weekly"
	Monthly Period = "monthly"
	Yearly  Period = "yearly"
)

type (
	// Category is one of the fixed expense categories.
	Category string

	// Period is the window a budget limit applies to.
	Period string

	Date struct {
		time.Time
	}

	User struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	Expense struct {
		ID          string   `json:"id"`
		Description string   `json:"description"`
		Amount      Money    `json:"amount"`
		Category    Category `json:"category"`
		Date        Date     `json:"date"`
	}

	// Budget is keyed by Category: at most one budget exists per category.
	Budget struct {
		Category Category `json:"category"`
		Amount   Money    `json:"amount"`
		Period   Period   `json:"period"`
	}

	// DateRange is an inclusive [StartDate, EndDate] window.
	DateRange struct {
		StartDate Date `json:"startDate"`
		EndDate   Date `json:"endDate"`
	}
)

var (
	ErrInvalidDate        = errors.New("invalid date")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrEmptyDescription   = errors.New("empty description")
	ErrDescriptionTooLong = errors.New("description too long")
	ErrInvalidCategory    = errors.New("invalid category")
	ErrInvalidPeriod      = errors.New("invalid budget period")
)

// Categories lists every valid category in display order.
var Categories = []Category{
	CategoryFood,
	CategoryTransportation,
	CategoryHousing,
	CategoryUtilities,
	CategoryEntertainment,
	CategoryHealthcare,
	CategoryShopping,
	CategoryEducation,
	CategoryPersonal,
	CategoryOther,
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

func (c Category) String() string {
	return string(c)
}

// ParseCategory normalizes case and surrounding whitespace before matching.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
	}
	return c, nil
}

func (p Period) Valid() bool {
	switch p {
	case Weekly, Monthly, Yearly:
		return true
	default:
		return false
	}
}

// ParsePeriod returns Monthly for an empty string.
func ParsePeriod(s string) (Period, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Monthly, nil
	}
	p := Period(s)
	if !p.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidPeriod, s)
	}
	return p, nil
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar date in t's location.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// ParseDate parses an ISO YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

// String returns the ISO form. ISO dates order correctly as strings.
func (d Date) String() string {
	return d.Format(dateLayout)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return fmt.Errorf("%w: date cannot be zero", ErrInvalidDate)
	}
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`""`), nil
	}
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	// Stored dates may carry a time part (e.g. 2024-01-15T00:00:00.000Z).
	if len(s) > len(dateLayout) {
		s = s[:len(dateLayout)]
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Public returns a copy of the user without the password.
func (u User) Public() User {
	u.Password = ""
	return u
}

func (e Expense) Validate() error {
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(e.Description)) == 0 {
		return ErrEmptyDescription
	}
	if n := utf8.RuneCountInString(e.Description); n > MaxDescriptionLen {
		return fmt.Errorf("%w: %d characters, max %d", ErrDescriptionTooLong, n, MaxDescriptionLen)
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if !e.Category.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, e.Category)
	}
	return nil
}

func (b Budget) Validate() error {
	if !b.Category.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, b.Category)
	}
	if err := b.Amount.Validate(); err != nil {
		return err
	}
	if !b.Period.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidPeriod, b.Period)
	}
	return nil
}

// DefaultDateRange spans the first day of now's month through now.
func DefaultDateRange(now time.Time) DateRange {
	return DateRange{
		StartDate: NewDate(now.Year(), int(now.Month()), 1),
		EndDate:   DateOf(now),
	}
}

// Contains reports whether d falls inside the inclusive range. The comparison
// is done on ISO strings; a range whose start is after its end contains nothing.
func (r DateRange) Contains(d Date) bool {
	s := d.String()
	return s >= r.StartDate.String() && s <= r.EndDate.String()
}

// PeriodWindow returns the budget window of kind p that contains ref.
// Weeks start on Monday.
func PeriodWindow(p Period, ref Date) DateRange {
	y, m, d := ref.Date()
	switch p {
	case Weekly:
		offset := (int(ref.Weekday()) + 6) % 7
		start := NewDate(y, int(m), d-offset)
		return DateRange{StartDate: start, EndDate: Date{Time: start.AddDate(0, 0, 6)}}
	case Yearly:
		return DateRange{StartDate: NewDate(y, 1, 1), EndDate: NewDate(y, 12, 31)}
	default:
		start := NewDate(y, int(m), 1)
		return DateRange{StartDate: start, EndDate: Date{Time: start.AddDate(0, 1, -1)}}
	}
}
