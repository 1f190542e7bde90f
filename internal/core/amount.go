// Package core holds the domain model of the ledger: the transaction
// record, its validation rules and the pure aggregation functions every
// view is derived from.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts the textual amount of a transaction to a decimal.
// It accepts both dot (12.34) and comma (12,34) separators. Signed input
// is rejected: the transaction type carries the sign.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return decimal.Zero, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if d.IsNegative() {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// amountOrZero is the aggregation-side guard: a stored amount that no
// longer parses contributes nothing rather than faulting a whole view.
func amountOrZero(s string) decimal.Decimal {
	d, err := ParseAmount(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
