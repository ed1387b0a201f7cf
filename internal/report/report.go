// Package report renders the expenses of a date range as CSV or PDF.
// Nothing here touches the stores; callers pass snapshots in.
package report

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"expensetracker/internal/core"
)

const (
	PDFFilename = "expense-report.pdf"
	CSVFilename = "expense-report.csv"

	ContentTypePDF = "application/pdf"
	ContentTypeCSV = "text/csv; charset=utf-8"

	DefaultTitle = "Expense Report"
)

// Report is the data both renderers draw from.
type Report struct {
	Title string
	// User is printed in the PDF header when set.
	User  *core.User
	Range core.DateRange
	Rows  []core.Expense
	Total core.Money
}

// Build selects the expenses inside r and totals them. user may be nil.
func Build(expenses []core.Expense, r core.DateRange, user *core.User) Report {
	rows := FilterByRange(expenses, r)
	rep := Report{
		Title: DefaultTitle,
		Range: r,
		Rows:  rows,
		Total: core.Total(rows),
	}
	if user != nil {
		u := user.Public()
		rep.User = &u
	}
	return rep
}

// FilterByRange keeps expenses whose ISO date lies in the inclusive range.
// A range whose start is after its end yields nothing.
func FilterByRange(expenses []core.Expense, r core.DateRange) []core.Expense {
	return core.FilterByRange(expenses, r)
}

// FormatUSD renders m as $X.XX.
func FormatUSD(m core.Money) string {
	if m.Cents < 0 {
		return "-$" + core.Money{Cents: -m.Cents}.String()
	}
	return "$" + m.String()
}

// FormatDate renders d as MM/DD/YYYY.
func FormatDate(d core.Date) string {
	return d.Format("01/02/2006")
}

// Capitalize upper-cases the first letter of s.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func periodLine(r core.DateRange) string {
	return "Period: " + FormatDate(r.StartDate) + " - " + FormatDate(r.EndDate)
}

func title(rep Report) string {
	if t := strings.TrimSpace(rep.Title); t != "" {
		return t
	}
	return DefaultTitle
}
