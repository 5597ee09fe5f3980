// Package reporting answers report queries and export requests as pure
// recomputations over the latest record snapshot.
package reporting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/amcjunkshop/scrapledger/internal/domain/models"
	"github.com/amcjunkshop/scrapledger/internal/report"
	"github.com/amcjunkshop/scrapledger/pkg/clients/anthropic"
)

// ErrAdviceDisabled is returned when no AI provider is configured.
var ErrAdviceDisabled = errors.New("spending advice is not configured")

// SnapshotSource supplies the current record collection. The records service
// implements it from its store subscription.
type SnapshotSource interface {
	Snapshot() []models.ExpenseRecord
}

// Query describes one report request.
type Query struct {
	Filter report.Filter
	Sort   report.SortState
	Page   int
}

// Result is one answered report request.
type Result struct {
	Page        report.Page      `json:"page"`
	Sort        report.SortState `json:"sort"`
	TotalAmount int64            `json:"totalAmount"`
}

// Service exposes report queries, exports and summaries.
type Service struct {
	source SnapshotSource
	ai     anthropic.Client // nil when no API key is configured
	logger *zap.Logger
}

// NewService wires a reporting service instance. ai may be nil.
func NewService(source SnapshotSource, ai anthropic.Client, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{source: source, ai: ai, logger: logger}
}

// Run flattens, filters, sorts and paginates the current snapshot. The total
// covers the whole filtered set, not just the returned page.
func (s *Service) Run(q Query) Result {
	rows := s.rows(q.Filter, q.Sort)
	return Result{
		Page:        report.Paginate(rows, q.Page),
		Sort:        q.Sort,
		TotalAmount: report.Total(rows),
	}
}

// ExportCSV materializes the full filtered and sorted set plus a suggested
// filename carrying today's date.
func (s *Service) ExportCSV(f report.Filter, sort report.SortState, now time.Time) ([]byte, string) {
	rows := s.rows(f, sort)
	return report.CSV(rows), report.Filename("csv", now)
}

// ExportXLSX is the spreadsheet flavor of ExportCSV.
func (s *Service) ExportXLSX(f report.Filter, sort report.SortState, now time.Time) ([]byte, string, error) {
	rows := s.rows(f, sort)
	data, err := report.XLSX(rows)
	if err != nil {
		return nil, "", fmt.Errorf("building workbook: %w", err)
	}
	return data, report.Filename("xlsx", now), nil
}

// DailySummary aggregates one calendar day's records.
func (s *Service) DailySummary(day string, now time.Time) models.DailySummary {
	rows := report.Apply(report.Flatten(s.source.Snapshot()), report.Filter{DateStart: day, DateEnd: day})

	recordIDs := make(map[string]struct{})
	materialTotals := make(map[string]int64)
	for _, r := range rows {
		recordIDs[r.RecordID] = struct{}{}
		materialTotals[r.Material] += r.Result
	}

	var topMaterial string
	var topAmount int64
	for material, amount := range materialTotals {
		if amount > topAmount || (amount == topAmount && material < topMaterial) {
			topMaterial = material
			topAmount = amount
		}
	}

	return models.DailySummary{
		Date:        day,
		Records:     len(recordIDs),
		LineItems:   len(rows),
		TotalAmount: report.Total(rows),
		TopMaterial: topMaterial,
		CreatedAt:   now,
	}
}

// Advice asks the AI provider for a short spending summary in the requested
// language.
func (s *Service) Advice(ctx context.Context, lang string) (string, error) {
	if s.ai == nil {
		return "", ErrAdviceDisabled
	}

	advice, err := s.ai.AnalyzeSpending(ctx, s.source.Snapshot(), lang)
	if err != nil {
		return "", fmt.Errorf("analyzing spending: %w", err)
	}
	return advice, nil
}

// SuggestCategory asks the AI provider to tag a free-form description,
// used when re-filing legacy records that predate itemized details.
func (s *Service) SuggestCategory(ctx context.Context, description string) (models.Category, error) {
	if s.ai == nil {
		return "", ErrAdviceDisabled
	}

	cat, err := s.ai.SuggestCategory(ctx, description)
	if err != nil {
		return "", fmt.Errorf("suggesting category: %w", err)
	}
	return cat, nil
}

func (s *Service) rows(f report.Filter, sort report.SortState) []report.Row {
	return report.Sort(report.Apply(report.Flatten(s.source.Snapshot()), f), sort)
}
