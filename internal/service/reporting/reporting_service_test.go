package reporting

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/amcjunkshop/scrapledger/internal/domain/models"
	"github.com/amcjunkshop/scrapledger/internal/report"
)

type staticSource []models.ExpenseRecord

func (s staticSource) Snapshot() []models.ExpenseRecord { return s }

func testRecords() staticSource {
	return staticSource{
		{
			ID: "1001", Amount: 1030, Date: "2026-08-29", Timestamp: 1001,
			Details: []models.RecordDetail{
				{Material: "copper", Weight: 100, Deduction: 2, Price: 10, Result: 980},
				{Material: "aluminum", Weight: 10, Price: 5, Result: 50},
			},
		},
		{
			ID: "1002", Amount: 200, Date: "2026-08-29", Timestamp: 1002,
			Details: []models.RecordDetail{
				{Material: "iron", Weight: 40, Price: 5, Result: 200},
			},
		},
		{ID: "0900", Amount: 75, Description: "old batch", Date: "2026-07-20", Timestamp: 900},
	}
}

func TestRun(t *testing.T) {
	svc := NewService(testRecords(), nil, zap.NewNop())

	res := svc.Run(Query{Sort: report.DefaultSort(), Page: 1})
	assert.Equal(t, 4, res.Page.TotalRows)
	assert.Equal(t, int64(1305), res.TotalAmount)
	assert.Equal(t, "iron", res.Page.Rows[0].Material, "newest record first by default")

	filtered := svc.Run(Query{
		Filter: report.Filter{Material: "copper"},
		Sort:   report.DefaultSort(),
		Page:   1,
	})
	assert.Equal(t, 1, filtered.Page.TotalRows)
	assert.Equal(t, int64(980), filtered.TotalAmount, "total follows the filter")
}

func TestExportCSV(t *testing.T) {
	svc := NewService(testRecords(), nil, zap.NewNop())
	now := time.Date(2026, 8, 29, 18, 0, 0, 0, time.UTC)

	data, name := svc.ExportCSV(report.Filter{DateStart: "2026-08-01"}, report.DefaultSort(), now)
	assert.Equal(t, "scrap_report_2026-08-29.csv", name)
	assert.Contains(t, string(data), "copper")
	assert.NotContains(t, string(data), "old batch", "export honors the filter")
}

func TestExportXLSX(t *testing.T) {
	svc := NewService(testRecords(), nil, zap.NewNop())
	now := time.Date(2026, 8, 29, 18, 0, 0, 0, time.UTC)

	data, name, err := svc.ExportXLSX(report.Filter{}, report.DefaultSort(), now)
	require.NoError(t, err)
	assert.Equal(t, "scrap_report_2026-08-29.xlsx", name)
	assert.NotEmpty(t, data)
}

func TestDailySummary(t *testing.T) {
	svc := NewService(testRecords(), nil, zap.NewNop())
	now := time.Date(2026, 8, 29, 21, 0, 0, 0, time.UTC)

	summary := svc.DailySummary("2026-08-29", now)
	assert.Equal(t, "2026-08-29", summary.Date)
	assert.Equal(t, 2, summary.Records)
	assert.Equal(t, 3, summary.LineItems)
	assert.Equal(t, int64(1230), summary.TotalAmount)
	assert.Equal(t, "copper", summary.TopMaterial)
	assert.Equal(t, now, summary.CreatedAt)

	empty := svc.DailySummary("2030-01-01", now)
	assert.Zero(t, empty.Records)
	assert.Zero(t, empty.TotalAmount)
}

func TestAdvice_Disabled(t *testing.T) {
	svc := NewService(testRecords(), nil, zap.NewNop())

	_, err := svc.Advice(context.Background(), "en")
	assert.ErrorIs(t, err, ErrAdviceDisabled)
}

type fakeAI struct {
	cat    models.Category
	advice string
	err    error
}

func (f fakeAI) SuggestCategory(context.Context, string) (models.Category, error) {
	return f.cat, f.err
}

func (f fakeAI) AnalyzeSpending(context.Context, []models.ExpenseRecord, string) (string, error) {
	return f.advice, f.err
}

func TestSuggestCategory(t *testing.T) {
	svc := NewService(testRecords(), fakeAI{cat: models.CategoryFood}, zap.NewNop())

	cat, err := svc.SuggestCategory(context.Background(), "lunch at the market")
	require.NoError(t, err)
	assert.Equal(t, models.CategoryFood, cat)
}

func TestSuggestCategory_Disabled(t *testing.T) {
	svc := NewService(testRecords(), nil, zap.NewNop())

	_, err := svc.SuggestCategory(context.Background(), "old scrap batch")
	assert.ErrorIs(t, err, ErrAdviceDisabled)
}
