package core

import "testing"

func TestFilterByRangeJanuary(t *testing.T) {
	expenses := []Expense{
		{ID: "a", Date: NewDate(2024, 1, 1), Amount: Money{Cents: 1000}, Category: CategoryFood},
		{ID: "b", Date: NewDate(2024, 1, 15), Amount: Money{Cents: 2550}, Category: CategoryHousing},
		{ID: "c", Date: NewDate(2024, 2, 1), Amount: Money{Cents: 999}, Category: CategoryFood},
	}
	r := DateRange{StartDate: NewDate(2024, 1, 1), EndDate: NewDate(2024, 1, 31)}

	got := FilterByRange(expenses, r)
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "b" {
		t.Fatalf("unexpected filter result: %+v", got)
	}
	if total := Total(got); total.Cents != 3550 {
		t.Fatalf("total = %d, want 3550", total.Cents)
	}
}

func TestSummarize(t *testing.T) {
	expenses := []Expense{
		{ID: "a", Date: NewDate(2024, 1, 2), Amount: Money{Cents: 1000}, Category: CategoryFood},
		{ID: "b", Date: NewDate(2024, 1, 3), Amount: Money{Cents: 5000}, Category: CategoryHousing},
		{ID: "c", Date: NewDate(2024, 1, 4), Amount: Money{Cents: 1500}, Category: CategoryFood},
		{ID: "d", Date: NewDate(2024, 3, 1), Amount: Money{Cents: 9999}, Category: CategoryFood},
	}
	budgets := []Budget{
		{Category: CategoryFood, Amount: Money{Cents: 2000}, Period: Monthly},
		{Category: CategoryHousing, Amount: Money{Cents: 6000}, Period: Monthly},
		{Category: CategoryEducation, Amount: Money{Cents: 100}, Period: Monthly},
	}
	r := DateRange{StartDate: NewDate(2024, 1, 1), EndDate: NewDate(2024, 1, 31)}

	ov := Summarize(expenses, budgets, r)
	if ov.Count != 3 || ov.Total.Cents != 7500 {
		t.Fatalf("count=%d total=%d", ov.Count, ov.Total.Cents)
	}
	if len(ov.ByCategory) != 2 || ov.ByCategory[0].Category != CategoryHousing {
		t.Fatalf("by category should be sorted by amount desc: %+v", ov.ByCategory)
	}
	if len(ov.Budgets) != 3 {
		t.Fatalf("expected 3 budget usages, got %d", len(ov.Budgets))
	}
	food := ov.Budgets[0]
	if food.Spent.Cents != 2500 || !food.Exceeded || food.Remaining.Cents != -500 {
		t.Fatalf("unexpected food usage: %+v", food)
	}
	if ov.Budgets[1].Exceeded || ov.Budgets[2].Spent.Cents != 0 {
		t.Fatalf("unexpected usages: %+v", ov.Budgets)
	}
}

func TestSpentIn(t *testing.T) {
	expenses := []Expense{
		{Date: NewDate(2024, 1, 15), Amount: Money{Cents: 100}, Category: CategoryFood},
		{Date: NewDate(2024, 1, 16), Amount: Money{Cents: 200}, Category: CategoryFood},
		{Date: NewDate(2024, 1, 22), Amount: Money{Cents: 400}, Category: CategoryFood},
		{Date: NewDate(2024, 1, 16), Amount: Money{Cents: 800}, Category: CategoryOther},
	}
	week := PeriodWindow(Weekly, NewDate(2024, 1, 17))
	if got := SpentIn(expenses, CategoryFood, week); got.Cents != 300 {
		t.Fatalf("SpentIn = %d, want 300", got.Cents)
	}
}
