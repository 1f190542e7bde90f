package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

// scenario from the stats view: two January records and one in February.
func scenario() []Transaction {
	return []Transaction{
		{ID: "1", Type: Income, Amount: "1000", Category: "salary", Date: NewDate(2024, 1, 5)},
		{ID: "2", Type: Expense, Amount: "300", Category: "groceries", Date: NewDate(2024, 1, 10)},
		{ID: "3", Type: Income, Amount: "500", Category: "gift", Date: NewDate(2024, 2, 1)},
	}
}

func TestBalance(t *testing.T) {
	if !Balance(nil).IsZero() {
		t.Fatalf("empty list must balance to zero")
	}

	records := scenario()
	want := decimal.NewFromInt(1200)
	if got := Balance(records); !got.Equal(want) {
		t.Fatalf("expected %s, got %s", want, got)
	}

	// order independence
	reversed := []Transaction{records[2], records[1], records[0]}
	if got := Balance(reversed); !got.Equal(want) {
		t.Fatalf("balance depends on list order: %s", got)
	}
}

func TestBalanceMalformedAmount(t *testing.T) {
	records := append(scenario(), Transaction{
		ID: "bad", Type: Expense, Amount: "not-a-number", Category: "other", Date: NewDate(2024, 1, 2),
	})
	if got := Balance(records); !got.Equal(decimal.NewFromInt(1200)) {
		t.Fatalf("malformed amount corrupted the balance: %s", got)
	}
}

func TestCurrentMonth(t *testing.T) {
	today := NewDate(2024, 1, 20)
	got := CurrentMonth(scenario(), today)
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	for _, tx := range got {
		if !tx.Date.SameMonth(today) {
			t.Fatalf("record %s outside the current month", tx.ID)
		}
	}
	// newest first
	if got[0].ID != "2" || got[1].ID != "1" {
		t.Fatalf("expected newest first, got %s, %s", got[0].ID, got[1].ID)
	}
	// idempotent on an already-correct list
	again := CurrentMonth(got, today)
	if len(again) != len(got) || again[0].ID != got[0].ID || again[1].ID != got[1].ID {
		t.Fatalf("filtering a filtered list changed it")
	}
}

func TestFilterByType(t *testing.T) {
	records := scenario()
	if got := (Filter{Type: "income"}).Apply(records); len(got) != 2 {
		t.Fatalf("expected 2 income records, got %d", len(got))
	}
	if got := (Filter{Type: "expense"}).Apply(records); len(got) != 1 {
		t.Fatalf("expected 1 expense record, got %d", len(got))
	}
	if got := (Filter{Type: FilterAll}).Apply(records); len(got) != 3 {
		t.Fatalf("expected all 3 records, got %d", len(got))
	}
}

func TestFilterSearch(t *testing.T) {
	records := []Transaction{
		{ID: "1", Type: Expense, Amount: "100", Category: "groceries", Desc: "Weekly shop", Date: NewDate(2024, 3, 1)},
		{ID: "2", Type: Expense, Amount: "50", Category: "cafe", Desc: "", Date: NewDate(2024, 3, 2)},
	}
	labels := map[string]string{"groceries": "Продукты", "cafe": "Кафе"}
	label := func(key string) string { return labels[key] }

	// description, case-insensitive
	if got := (Filter{Search: "WEEKLY"}).Apply(records); len(got) != 1 || got[0].ID != "1" {
		t.Fatalf("description search failed: %+v", got)
	}
	// raw category key
	if got := (Filter{Search: "cafe"}).Apply(records); len(got) != 1 || got[0].ID != "2" {
		t.Fatalf("category key search failed: %+v", got)
	}
	// translated label: the record must be findable by what the user sees
	if got := (Filter{Search: "продукты", Label: label}).Apply(records); len(got) != 1 || got[0].ID != "1" {
		t.Fatalf("translated label search failed: %+v", got)
	}
	// no match
	if got := (Filter{Search: "zzz", Label: label}).Apply(records); len(got) != 0 {
		t.Fatalf("expected no match, got %+v", got)
	}
}

func TestGroupByMonth(t *testing.T) {
	records := scenario()
	buckets := GroupByMonth(records)
	if len(buckets) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(buckets))
	}
	// newest month first
	if buckets[0].Year != 2024 || buckets[0].Month != 2 {
		t.Fatalf("expected February first, got %d-%d", buckets[0].Year, buckets[0].Month)
	}
	jan := buckets[1]
	if !jan.IncomeSum.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("january income sum: %s", jan.IncomeSum)
	}
	if !jan.ExpenseSum.Equal(decimal.NewFromInt(300)) {
		t.Fatalf("january expense sum: %s", jan.ExpenseSum)
	}
	// records within a bucket are newest first
	if jan.Transactions[0].ID != "2" || jan.Transactions[1].ID != "1" {
		t.Fatalf("bucket order wrong: %+v", jan.Transactions)
	}
}

func TestMonthlySeries(t *testing.T) {
	series := MonthlySeries(scenario(), 2024, Income)
	want := [12]int64{1000, 500, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}
	total := decimal.Zero
	for i, v := range series {
		if !v.Equal(decimal.NewFromInt(want[i])) {
			t.Fatalf("month %d: expected %d, got %s", i, want[i], v)
		}
		total = total.Add(v)
	}
	if !total.Equal(decimal.NewFromInt(1500)) {
		t.Fatalf("series total: %s", total)
	}

	// an off-year yields all zeros
	for i, v := range MonthlySeries(scenario(), 2023, Income) {
		if !v.IsZero() {
			t.Fatalf("month %d of empty year is %s", i, v)
		}
	}
}

func TestCategoryBreakdown(t *testing.T) {
	stats := CategoryBreakdown(scenario(), 2024, 1, Expense)
	if len(stats) != 1 {
		t.Fatalf("expected 1 category, got %d", len(stats))
	}
	if stats[0].Category != "groceries" || !stats[0].Sum.Equal(decimal.NewFromInt(300)) || stats[0].Count != 1 {
		t.Fatalf("unexpected breakdown: %+v", stats[0])
	}
}

func TestCategoryBreakdownSortedAndConsistent(t *testing.T) {
	records := []Transaction{
		{ID: "1", Type: Expense, Amount: "100", Category: "cafe", Date: NewDate(2024, 5, 1)},
		{ID: "2", Type: Expense, Amount: "400", Category: "rent", Date: NewDate(2024, 5, 2)},
		{ID: "3", Type: Expense, Amount: "50", Category: "cafe", Date: NewDate(2024, 5, 3)},
		{ID: "4", Type: Expense, Amount: "200", Category: "groceries", Date: NewDate(2024, 5, 4)},
	}
	stats := CategoryBreakdown(records, 2024, 5, Expense)
	if len(stats) != 3 {
		t.Fatalf("expected 3 categories, got %d", len(stats))
	}
	for i := 1; i < len(stats); i++ {
		if stats[i].Sum.GreaterThan(stats[i-1].Sum) {
			t.Fatalf("breakdown not sorted descending: %+v", stats)
		}
	}

	// sum of entries equals the matching series slot
	total := decimal.Zero
	for _, s := range stats {
		total = total.Add(s.Sum)
	}
	series := MonthlySeries(records, 2024, Expense)
	if !total.Equal(series[4]) {
		t.Fatalf("breakdown total %s != series slot %s", total, series[4])
	}
}

func TestMaxSum(t *testing.T) {
	if !MaxSum(nil).Equal(decimal.NewFromInt(1)) {
		t.Fatalf("empty breakdown must floor at 1")
	}
	stats := []CategoryStat{{Sum: decimal.NewFromInt(300)}, {Sum: decimal.NewFromInt(20)}}
	if !MaxSum(stats).Equal(decimal.NewFromInt(300)) {
		t.Fatalf("unexpected max")
	}
}
