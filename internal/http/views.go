package http

import (
	"fmt"

	"github.com/shopspring/decimal"

	"moneta/internal/core"
	"moneta/internal/i18n"
)

// View payloads for the three screens. Amounts travel as strings: the
// client shows them, it never computes with them.

type txView struct {
	ID            string `json:"id"`
	Type          string `json:"type"`
	Amount        string `json:"amount"`
	Category      string `json:"category"`
	CategoryLabel string `json:"category_label"`
	Desc          string `json:"desc"`
	Date          string `json:"date"`
}

type homeView struct {
	Balance      string   `json:"balance"`
	Currency     string   `json:"currency"`
	Year         int      `json:"year"`
	Month        int      `json:"month"`
	MonthName    string   `json:"month_name"`
	Transactions []txView `json:"transactions"`
}

type monthView struct {
	Year         int      `json:"year"`
	Month        int      `json:"month"`
	MonthName    string   `json:"month_name"`
	IncomeSum    string   `json:"income_sum"`
	ExpenseSum   string   `json:"expense_sum"`
	Transactions []txView `json:"transactions"`
}

type operationsView struct {
	Type   string      `json:"type"`
	Query  string      `json:"q"`
	Months []monthView `json:"months"`
}

type seriesPoint struct {
	Month     int    `json:"month"`
	MonthName string `json:"month_name"`
	Sum       string `json:"sum"`
}

type categoryRow struct {
	Category string `json:"category"`
	Label    string `json:"label"`
	Sum      string `json:"sum"`
	Count    int    `json:"count"`
	Width    int    `json:"width"` // bar width, percent of the largest sum
}

type statsView struct {
	Year       int           `json:"year"`
	Month      int           `json:"month"`
	MonthName  string        `json:"month_name"`
	Type       string        `json:"type"`
	Series     []seriesPoint `json:"series"`
	Categories []categoryRow `json:"categories"`
}

func viewTx(tx core.Transaction, lang i18n.Lang) txView {
	return txView{
		ID:            tx.ID,
		Type:          string(tx.Type),
		Amount:        tx.Amount,
		Category:      tx.Category,
		CategoryLabel: i18n.CategoryLabel(lang, tx.Category),
		Desc:          tx.Desc,
		Date:          tx.Date.String(),
	}
}

func viewTxs(txs []core.Transaction, lang i18n.Lang) []txView {
	out := make([]txView, 0, len(txs))
	for _, tx := range txs {
		out = append(out, viewTx(tx, lang))
	}
	return out
}

func buildHome(records []core.Transaction, today core.Date, currency string, lang i18n.Lang) homeView {
	return homeView{
		Balance:      core.Balance(records).String(),
		Currency:     currency,
		Year:         today.Year(),
		Month:        today.Month(),
		MonthName:    i18n.MonthName(lang, today.Month()),
		Transactions: viewTxs(core.CurrentMonth(records, today), lang),
	}
}

func buildOperations(records []core.Transaction, typ, query string, lang i18n.Lang) operationsView {
	f := core.Filter{
		Type:   typ,
		Search: query,
		Label:  func(key string) string { return i18n.CategoryLabel(lang, key) },
	}
	buckets := core.GroupByMonth(f.Apply(records))

	months := make([]monthView, 0, len(buckets))
	for _, b := range buckets {
		months = append(months, monthView{
			Year:         b.Year,
			Month:        b.Month,
			MonthName:    i18n.MonthName(lang, b.Month),
			IncomeSum:    b.IncomeSum.String(),
			ExpenseSum:   b.ExpenseSum.String(),
			Transactions: viewTxs(b.Transactions, lang),
		})
	}
	return operationsView{Type: typ, Query: query, Months: months}
}

func buildStats(records []core.Transaction, year, month int, typ core.TxType, lang i18n.Lang) statsView {
	series := core.MonthlySeries(records, year, typ)
	points := make([]seriesPoint, 0, len(series))
	for i, sum := range series {
		points = append(points, seriesPoint{
			Month:     i + 1,
			MonthName: i18n.MonthName(lang, i+1),
			Sum:       sum.String(),
		})
	}

	stats := core.CategoryBreakdown(records, year, month, typ)
	max := core.MaxSum(stats)
	rows := make([]categoryRow, 0, len(stats))
	for _, st := range stats {
		rows = append(rows, categoryRow{
			Category: st.Category,
			Label:    i18n.CategoryLabel(lang, st.Category),
			Sum:      st.Sum.String(),
			Count:    st.Count,
			Width:    barWidth(st.Sum, max),
		})
	}

	return statsView{
		Year:       year,
		Month:      month,
		MonthName:  i18n.MonthName(lang, month),
		Type:       string(typ),
		Series:     points,
		Categories: rows,
	}
}

// barWidth scales a sum to a 0-100 percent of the largest one. Non-zero
// rows always get at least 2 so tiny slices stay visible.
func barWidth(sum, max decimal.Decimal) int {
	if sum.LessThanOrEqual(decimal.Zero) {
		return 0
	}
	w := int(sum.Mul(decimal.NewFromInt(100)).Div(max).IntPart())
	if w < 2 {
		w = 2
	}
	if w > 100 {
		w = 100
	}
	return w
}

// Derived-view cache keys. Every key starts with the ledger revision, so
// a mutation implicitly invalidates everything without explicit deletes.

func homeKey(rev uint64, today core.Date, lang i18n.Lang) string {
	return fmt.Sprintf("home:%d:%s:%s", rev, today, lang)
}

func operationsKey(rev uint64, typ, query string, lang i18n.Lang) string {
	return fmt.Sprintf("ops:%d:%s:%s:%s", rev, typ, query, lang)
}

func statsKey(rev uint64, year, month int, typ core.TxType, lang i18n.Lang) string {
	return fmt.Sprintf("stats:%d:%d:%d:%s:%s", rev, year, month, typ, lang)
}
