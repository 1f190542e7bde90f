package core

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// FilterAll selects both transaction types in a Filter.
const FilterAll = "all"

type (
	// Labeler resolves a category key to its display label in the active
	// language. Search must match what the user sees, not just the raw key.
	Labeler func(categoryKey string) string

	// Filter narrows the full history for the operations view.
	Filter struct {
		Type   string // "all", "income" or "expense"
		Search string
		Label  Labeler
	}

	// MonthBucket groups the transactions of one (year, month), newest
	// first, with per-type sums for the bucket header.
	MonthBucket struct {
		Year         int
		Month        int // 1-12
		IncomeSum    decimal.Decimal
		ExpenseSum   decimal.Decimal
		Transactions []Transaction
	}

	// CategoryStat is one row of a category breakdown.
	CategoryStat struct {
		Category string
		Sum      decimal.Decimal
		Count    int
	}
)

// Balance computes the all-time net total: income minus expense over the
// entire history. Amounts that fail to parse contribute zero.
func Balance(records []Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range records {
		amt := amountOrZero(tx.Amount)
		if tx.Type == Income {
			total = total.Add(amt)
		} else {
			total = total.Sub(amt)
		}
	}
	return total
}

// CurrentMonth returns the transactions falling in the same (year, month)
// as today, newest first. Insertion order breaks date ties.
func CurrentMonth(records []Transaction, today Date) []Transaction {
	var out []Transaction
	for _, tx := range records {
		if tx.Date.SameMonth(today) {
			out = append(out, tx)
		}
	}
	sortByDateDesc(out)
	return out
}

// Matches reports whether tx passes the filter.
func (f Filter) Matches(tx Transaction) bool {
	switch f.Type {
	case "", FilterAll:
	default:
		if string(tx.Type) != f.Type {
			return false
		}
	}
	q := strings.ToLower(strings.TrimSpace(f.Search))
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(tx.Desc), q) {
		return true
	}
	if strings.Contains(strings.ToLower(tx.Category), q) {
		return true
	}
	if f.Label != nil {
		if label := f.Label(tx.Category); label != "" &&
			strings.Contains(strings.ToLower(label), q) {
			return true
		}
	}
	return false
}

// Apply keeps the records matching the filter, preserving order.
func (f Filter) Apply(records []Transaction) []Transaction {
	var out []Transaction
	for _, tx := range records {
		if f.Matches(tx) {
			out = append(out, tx)
		}
	}
	return out
}

// GroupByMonth buckets records by (year, month), newest month first.
func GroupByMonth(records []Transaction) []MonthBucket {
	type key struct{ year, month int }
	index := make(map[key]int)
	var buckets []MonthBucket

	for _, tx := range records {
		k := key{tx.Date.Year(), tx.Date.Month()}
		i, ok := index[k]
		if !ok {
			i = len(buckets)
			index[k] = i
			buckets = append(buckets, MonthBucket{
				Year:       k.year,
				Month:      k.month,
				IncomeSum:  decimal.Zero,
				ExpenseSum: decimal.Zero,
			})
		}
		b := &buckets[i]
		b.Transactions = append(b.Transactions, tx)
		amt := amountOrZero(tx.Amount)
		if tx.Type == Income {
			b.IncomeSum = b.IncomeSum.Add(amt)
		} else {
			b.ExpenseSum = b.ExpenseSum.Add(amt)
		}
	}

	sort.SliceStable(buckets, func(i, j int) bool {
		if buckets[i].Year != buckets[j].Year {
			return buckets[i].Year > buckets[j].Year
		}
		return buckets[i].Month > buckets[j].Month
	})
	for i := range buckets {
		sortByDateDesc(buckets[i].Transactions)
	}
	return buckets
}

// MonthlySeries returns twelve sums for the given year and type, one per
// calendar month (index 0 = January). Empty months yield zero.
func MonthlySeries(records []Transaction, year int, typ TxType) [12]decimal.Decimal {
	var series [12]decimal.Decimal
	for i := range series {
		series[i] = decimal.Zero
	}
	for _, tx := range records {
		if tx.Type != typ || tx.Date.Year() != year {
			continue
		}
		m := tx.Date.Month() - 1
		series[m] = series[m].Add(amountOrZero(tx.Amount))
	}
	return series
}

// CategoryBreakdown groups the records of one (year, month, type) by
// category, sorted by sum descending. Month is 1-12.
func CategoryBreakdown(records []Transaction, year, month int, typ TxType) []CategoryStat {
	index := make(map[string]int)
	var stats []CategoryStat

	for _, tx := range records {
		if tx.Type != typ || tx.Date.Year() != year || tx.Date.Month() != month {
			continue
		}
		i, ok := index[tx.Category]
		if !ok {
			i = len(stats)
			index[tx.Category] = i
			stats = append(stats, CategoryStat{Category: tx.Category, Sum: decimal.Zero})
		}
		stats[i].Sum = stats[i].Sum.Add(amountOrZero(tx.Amount))
		stats[i].Count++
	}

	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].Sum.GreaterThan(stats[j].Sum)
	})
	return stats
}

// MaxSum returns the largest sum in the breakdown, floored at one so that
// proportional bar widths never divide by zero.
func MaxSum(stats []CategoryStat) decimal.Decimal {
	max := decimal.NewFromInt(1)
	for _, s := range stats {
		if s.Sum.GreaterThan(max) {
			max = s.Sum
		}
	}
	return max
}

func sortByDateDesc(txs []Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].Date.After(txs[j].Date.Time)
	})
}
