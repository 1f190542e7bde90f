package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  TxType = "income"
	Expense TxType = "expense"
)

type (
	// TxType tags a transaction as money coming in or going out.
	TxType string

	// Date is a calendar day; time-of-day carries no meaning.
	Date struct {
		time.Time
	}

	// Transaction is the single domain entity. Amount keeps the text the
	// user entered; arithmetic always goes through ParseAmount so that a
	// malformed value contributes zero instead of corrupting a sum.
	Transaction struct {
		ID       string `json:"id"`
		Type     TxType `json:"type"`
		Amount   string `json:"amount"`
		Category string `json:"category"`
		Desc     string `json:"desc"`
		Date     Date   `json:"date"`
	}

	// Patch carries the fields an edit may change. Type and ID are never
	// touched by an update.
	Patch struct {
		Amount   string
		Category string
		Desc     string
		Date     Date
	}
)

var (
	ErrInvalidType     = errors.New("invalid transaction type")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrEmptyCategory   = errors.New("empty category")
	ErrUnknownCategory = errors.New("unknown category for type")
	ErrInvalidDate     = errors.New("invalid date")
	ErrNotFound        = errors.New("transaction not found")
)

// IncomeCategories and ExpenseCategories are the fixed, disjoint tag sets.
// The keys double as i18n lookup keys (category_<key>).
var (
	IncomeCategories = []string{
		"salary",
		"freelance",
		"scholarship",
		"sidejob",
		"dividends",
		"debt_return",
		"sale",
		"cashback",
		"gift",
		"deposit",
		"other",
	}

	ExpenseCategories = []string{
		"groceries",
		"cafe",
		"transport",
		"rent",
		"utilities",
		"communication",
		"entertainment",
		"gifts",
		"debts",
		"clothes",
		"barbershop",
		"health",
		"education",
		"shopping",
		"travel",
		"credit",
		"insurance",
		"other",
	}
)

// DateLayout is the persisted textual form. ISO-8601 day precision keeps
// round-trips stable across app versions.
const DateLayout = "2006-01-02"

func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates an instant to its calendar day.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// Year returns the calendar year.
func (d Date) Year() int {
	return d.Time.Year()
}

// Month returns the calendar month, 1-12.
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Day returns the day of the month.
func (d Date) Day() int {
	return d.Time.Day()
}

// SameMonth reports whether both dates fall in the same (year, month).
func (d Date) SameMonth(o Date) bool {
	return d.Time.Year() == o.Time.Year() && d.Time.Month() == o.Time.Month()
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

// MarshalJSON encodes the date as "YYYY-MM-DD".
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(DateLayout) + `"`), nil
}

// UnmarshalJSON accepts "YYYY-MM-DD" and, for records written by older
// versions, full RFC 3339 timestamps.
func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		d.Time = t
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return ErrInvalidDate
	}
	d.Time = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return nil
}

func (t TxType) Valid() bool {
	return t == Income || t == Expense
}

// Categories returns the tag set for this transaction type.
func (t TxType) Categories() []string {
	switch t {
	case Income:
		return IncomeCategories
	case Expense:
		return ExpenseCategories
	default:
		return nil
	}
}

// HasCategory reports whether key belongs to this type's tag set.
func (t TxType) HasCategory(key string) bool {
	for _, c := range t.Categories() {
		if c == key {
			return true
		}
	}
	return false
}

// Validate enforces the construction invariants: a known type, a positive
// parseable amount, a category from the matching set and a real date.
// Description may be empty.
func (tx Transaction) Validate() error {
	if !tx.Type.Valid() {
		return ErrInvalidType
	}
	amt, err := ParseAmount(tx.Amount)
	if err != nil {
		return err
	}
	if !amt.IsPositive() {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(tx.Category) == "" {
		return ErrEmptyCategory
	}
	if !tx.Type.HasCategory(tx.Category) {
		return ErrUnknownCategory
	}
	return tx.Date.Validate()
}
