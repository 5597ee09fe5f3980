// Package record turns the operator's raw entry rows into a persistable
// expense record.
package record

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/amcjunkshop/scrapledger/internal/domain/models"
	"github.com/amcjunkshop/scrapledger/internal/pricing"
)

// Blank reports whether a line carries nothing worth persisting: no material
// name and no positive weight/price pair. Template rows the operator never
// filled in are blank.
func Blank(l models.LineItem) bool {
	if strings.TrimSpace(l.Material) != "" {
		return false
	}
	return !(pricing.Number(l.Weight) > 0 && pricing.Number(l.Price) > 0)
}

// Details maps the non-blank lines to persisted details, pricing each one
// through the shared calculator.
func Details(lines []models.LineItem) []models.RecordDetail {
	var details []models.RecordDetail
	for _, l := range lines {
		if Blank(l) {
			continue
		}
		details = append(details, models.RecordDetail{
			Material:  l.Material,
			Weight:    pricing.Number(l.Weight),
			Deduction: pricing.Number(l.Deduction),
			Price:     pricing.Number(l.Price),
			Result:    pricing.Calculate(l.Weight, l.Deduction, l.Price),
		})
	}
	return details
}

// GrandTotal prices every line, blank ones included, for the live display and
// the zero-total save gate.
func GrandTotal(lines []models.LineItem) int64 {
	var total int64
	for _, l := range lines {
		total += pricing.Calculate(l.Weight, l.Deduction, l.Price)
	}
	return total
}

// Build assembles the non-blank lines into a record. The amount is re-summed
// from the stored details so the two can never drift apart. The id and
// timestamp come from the creation instant; the date is the caller's session
// day, which may lag the instant across midnight.
func Build(lines []models.LineItem, date, company string, now time.Time) models.ExpenseRecord {
	details := Details(lines)

	var total int64
	for _, d := range details {
		total += d.Result
	}

	items := make([]string, len(details))
	for i, d := range details {
		name := d.Material
		if name == "" {
			name = "Item"
		}
		items[i] = fmt.Sprintf("%s: %skg @ %s", name, formatNumber(d.Weight), formatNumber(d.Price))
	}
	description := fmt.Sprintf("%s - %d items. %s", company, len(details), strings.Join(items, ", "))

	ms := now.UnixMilli()
	return models.ExpenseRecord{
		ID:          strconv.FormatInt(ms, 10),
		Amount:      total,
		Category:    models.CategoryOther,
		Description: description,
		Date:        date,
		Timestamp:   ms,
		Details:     details,
	}
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
