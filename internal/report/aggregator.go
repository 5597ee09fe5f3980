// Package report flattens saved records into filterable, sortable rows and
// materializes them for display and export. Everything here is a pure
// recomputation over the snapshot handed in; no state survives between calls.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/amcjunkshop/scrapledger/internal/domain/models"
)

// PageSize is the fixed number of report rows per page.
const PageSize = 12

// Row is one flattened, independently addressable line item. A legacy record
// without details becomes a single synthetic row keyed by the record id
// alone, with the description standing in for the material.
type Row struct {
	ID        string  `json:"id"`
	RecordID  string  `json:"recordId"`
	Date      string  `json:"date"`
	Material  string  `json:"material"`
	Weight    float64 `json:"weight"`
	Deduction float64 `json:"deduction"`
	Price     float64 `json:"price"`
	Result    int64   `json:"result"`
	Timestamp int64   `json:"timestamp"`
}

// Flatten produces one row per detail, preserving record and detail order.
func Flatten(records []models.ExpenseRecord) []Row {
	rows := make([]Row, 0, len(records))
	for _, rec := range records {
		if len(rec.Details) == 0 {
			rows = append(rows, Row{
				ID:        rec.ID,
				RecordID:  rec.ID,
				Date:      rec.Date,
				Material:  rec.Description,
				Result:    rec.Amount,
				Timestamp: rec.Timestamp,
			})
			continue
		}
		for i, d := range rec.Details {
			rows = append(rows, Row{
				ID:        fmt.Sprintf("%s-%d", rec.ID, i),
				RecordID:  rec.ID,
				Date:      rec.Date,
				Material:  d.Material,
				Weight:    d.Weight,
				Deduction: d.Deduction,
				Price:     d.Price,
				Result:    d.Result,
				Timestamp: rec.Timestamp,
			})
		}
	}
	return rows
}

// Filter holds the three AND-combined report predicates. Empty criteria pass
// everything. Dates compare as ISO calendar strings, inclusive on both ends;
// the material match is a case-insensitive substring.
type Filter struct {
	DateStart string
	DateEnd   string
	Material  string
}

// Match reports whether the row satisfies every set predicate.
func (f Filter) Match(r Row) bool {
	if f.DateStart != "" && r.Date < f.DateStart {
		return false
	}
	if f.DateEnd != "" && r.Date > f.DateEnd {
		return false
	}
	if f.Material != "" && !strings.Contains(strings.ToLower(r.Material), strings.ToLower(f.Material)) {
		return false
	}
	return true
}

// Apply returns the rows passing the filter, preserving input order.
func Apply(rows []Row, f Filter) []Row {
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

// SortKey names a sortable report column.
type SortKey string

const (
	SortDate      SortKey = "date"
	SortMaterial  SortKey = "material"
	SortWeight    SortKey = "weight"
	SortDeduction SortKey = "deduction"
	SortPrice     SortKey = "price"
	SortResult    SortKey = "result"
	SortTimestamp SortKey = "timestamp"
)

// ParseSortKey maps a query string to a sort key, falling back to the
// timestamp ordering for anything unrecognized.
func ParseSortKey(s string) SortKey {
	switch SortKey(s) {
	case SortDate, SortMaterial, SortWeight, SortDeduction, SortPrice, SortResult, SortTimestamp:
		return SortKey(s)
	default:
		return SortTimestamp
	}
}

// SortState is the selected column plus direction.
type SortState struct {
	Key       SortKey `json:"key"`
	Ascending bool    `json:"ascending"`
}

// DefaultSort is newest-first, the order records were entered.
func DefaultSort() SortState {
	return SortState{Key: SortTimestamp, Ascending: false}
}

// Toggle returns the state after the operator clicks a column header: the
// same column flips direction, a different column starts descending.
func (s SortState) Toggle(key SortKey) SortState {
	return SortState{Key: key, Ascending: s.Key == key && !s.Ascending}
}

// Sort orders rows by the selected column. The sort is stable in both
// directions: rows with equal keys keep their relative input order.
func Sort(rows []Row, s SortState) []Row {
	out := make([]Row, len(rows))
	copy(out, rows)
	sort.SliceStable(out, func(i, j int) bool {
		if s.Ascending {
			return less(out[i], out[j], s.Key)
		}
		return less(out[j], out[i], s.Key)
	})
	return out
}

func less(a, b Row, key SortKey) bool {
	switch key {
	case SortDate:
		return a.Date < b.Date
	case SortMaterial:
		return a.Material < b.Material
	case SortWeight:
		return a.Weight < b.Weight
	case SortDeduction:
		return a.Deduction < b.Deduction
	case SortPrice:
		return a.Price < b.Price
	case SortResult:
		return a.Result < b.Result
	default:
		return a.Timestamp < b.Timestamp
	}
}

// Total sums the monetary result over a row set. It depends on the filter,
// never on the sort or the page.
func Total(rows []Row) int64 {
	var total int64
	for _, r := range rows {
		total += r.Result
	}
	return total
}

// Page is one pagination window over the filtered and sorted rows.
type Page struct {
	Rows       []Row `json:"rows"`
	Number     int   `json:"page"`
	TotalPages int   `json:"totalPages"`
	TotalRows  int   `json:"totalRows"`
}

// Paginate slices rows into the requested 1-indexed page, clamping the page
// number into the valid range. An empty set yields a single empty page.
func Paginate(rows []Row, page int) Page {
	totalPages := (len(rows) + PageSize - 1) / PageSize
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * PageSize
	if start > len(rows) {
		start = len(rows)
	}
	end := start + PageSize
	if end > len(rows) {
		end = len(rows)
	}

	return Page{
		Rows:       rows[start:end],
		Number:     page,
		TotalPages: totalPages,
		TotalRows:  len(rows),
	}
}
