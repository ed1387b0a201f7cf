package report

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"expensetracker/internal/core"
)

func januaryExpenses() []core.Expense {
	return []core.Expense{
		{ID: "1", Date: core.NewDate(2024, 1, 1), Description: "Groceries", Category: core.CategoryFood, Amount: core.Money{Cents: 4250}},
		{ID: "2", Date: core.NewDate(2024, 1, 15), Description: "Train, return", Category: core.CategoryTransportation, Amount: core.Money{Cents: 1200}},
		{ID: "3", Date: core.NewDate(2024, 2, 1), Description: "Rent", Category: core.CategoryHousing, Amount: core.Money{Cents: 90000}},
	}
}

var january = core.DateRange{StartDate: core.NewDate(2024, 1, 1), EndDate: core.NewDate(2024, 1, 31)}

func TestBuildFiltersJanuary(t *testing.T) {
	rep := Build(januaryExpenses(), january, nil)
	if len(rep.Rows) != 2 || rep.Rows[0].ID != "1" || rep.Rows[1].ID != "2" {
		t.Fatalf("rows = %+v", rep.Rows)
	}
	if rep.Total.Cents != 5450 {
		t.Fatalf("total = %d", rep.Total.Cents)
	}
	if rep.Title != "Expense Report" || rep.User != nil {
		t.Fatalf("unexpected header %+v", rep)
	}
}

func TestBuildDropsPassword(t *testing.T) {
	u := &core.User{ID: "1", Name: "Alice", Email: "alice@x.com", Password: "pw123"}
	rep := Build(nil, january, u)
	if rep.User == nil || rep.User.Password != "" || rep.User.Name != "Alice" {
		t.Fatalf("user = %+v", rep.User)
	}
	if u.Password != "pw123" {
		t.Fatal("caller's user was modified")
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, Build(januaryExpenses(), january, nil)); err != nil {
		t.Fatal(err)
	}
	want := "Date,Description,Category,Amount\n" +
		"2024-01-01,Groceries,food,42.50\n" +
		"2024-01-15,\"Train, return\",transportation,12.00\n" +
		",,Total,54.50\n"
	if buf.String() != want {
		t.Fatalf("csv mismatch:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestWriteCSVQuotesAreEscaped(t *testing.T) {
	rep := Report{Rows: []core.Expense{{
		Date: core.NewDate(2024, 1, 2), Description: `He said "hi"` + "\nthen left", Category: core.CategoryOther, Amount: core.Money{Cents: 1},
	}}, Total: core.Money{Cents: 1}}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, rep); err != nil {
		t.Fatal(err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid csv: %v", err)
	}
	if len(records) != 3 || records[1][1] != "He said \"hi\"\nthen left" {
		t.Fatalf("records = %q", records)
	}
}

func TestWriteCSVEmptyRange(t *testing.T) {
	inverted := core.DateRange{StartDate: january.EndDate, EndDate: january.StartDate}
	var buf bytes.Buffer
	if err := WriteCSV(&buf, Build(januaryExpenses(), inverted, nil)); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "Date,Description,Category,Amount\n,,Total,0.00\n" {
		t.Fatalf("got %q", buf.String())
	}
}

func TestWritePDF(t *testing.T) {
	u := &core.User{Name: "Zoë", Email: "zoe@x.com"}
	exps := januaryExpenses()
	exps[0].Description = "Café au lait " + strings.Repeat("very long description ", 10)
	for i := 0; i < 60; i++ {
		exps = append(exps, core.Expense{Date: core.NewDate(2024, 1, 10), Description: "filler", Category: core.CategoryOther, Amount: core.Money{Cents: 100}})
	}

	var buf bytes.Buffer
	if err := WritePDF(&buf, Build(exps, january, u)); err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Fatalf("not a pdf: %q", buf.Bytes()[:16])
	}
}

func TestFormatting(t *testing.T) {
	if got := FormatUSD(core.Money{Cents: 123456}); got != "$1234.56" {
		t.Errorf("FormatUSD = %q", got)
	}
	if got := FormatUSD(core.Money{Cents: -50}); got != "-$0.50" {
		t.Errorf("FormatUSD negative = %q", got)
	}
	if got := FormatDate(core.NewDate(2024, 3, 7)); got != "03/07/2024" {
		t.Errorf("FormatDate = %q", got)
	}
	if got := periodLine(january); got != "Period: 01/01/2024 - 01/31/2024" {
		t.Errorf("periodLine = %q", got)
	}
	for in, want := range map[string]string{"food": "Food", "": "", "éclair": "Éclair"} {
		if got := Capitalize(in); got != want {
			t.Errorf("Capitalize(%q) = %q", in, got)
		}
	}
}
