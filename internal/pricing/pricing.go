// Package pricing holds the single authoritative line calculation. Record
// entry, invoice rendering and report display all price through Calculate so
// a saved result can never disagree with what was shown or printed.
package pricing

import (
	"strings"

	"github.com/shopspring/decimal"
)

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// Calculate prices one line from its raw weight, deduction and price inputs.
// Weight or price that fails to parse yields 0; a missing or invalid
// deduction means no deduction. The net weight is weight*(1-deduction/100)
// and the monetary result is rounded to the nearest integer, halves away
// from zero.
func Calculate(weight, deduction, price string) int64 {
	w, ok := parse(weight)
	if !ok {
		return 0
	}
	p, ok := parse(price)
	if !ok {
		return 0
	}
	d, ok := parse(deduction)
	if !ok {
		d = decimal.Zero
	}

	net := w.Mul(one.Sub(d.Div(hundred)))
	return net.Mul(p).Round(0).IntPart()
}

// Number parses a raw numeric field the way Calculate does, for persisting
// the parsed weight/deduction/price next to the computed result. Blank or
// invalid input becomes 0.
func Number(raw string) float64 {
	d, ok := parse(raw)
	if !ok {
		return 0
	}
	f, _ := d.Float64()
	return f
}

func parse(raw string) (decimal.Decimal, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
