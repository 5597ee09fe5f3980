package record

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amcjunkshop/scrapledger/internal/domain/models"
)

func line(material, weight, deduction, price string) models.LineItem {
	return models.LineItem{Material: material, Weight: weight, Deduction: deduction, Price: price}
}

func TestBlank(t *testing.T) {
	tests := []struct {
		name string
		item models.LineItem
		want bool
	}{
		{"empty row", line("", "", "", ""), true},
		{"material only", line("copper", "", "", ""), false},
		{"whitespace material", line("  ", "", "", ""), true},
		{"weight and price without material", line("", "10", "", "5"), false},
		{"weight without price", line("", "10", "", ""), true},
		{"price without weight", line("", "", "", "5"), true},
		{"zero weight with price", line("", "0", "", "5"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Blank(tt.item))
		})
	}
}

func TestDetails_ExcludesBlankLines(t *testing.T) {
	details := Details([]models.LineItem{
		line("copper", "100", "2", "10"),
		line("", "", "", ""),
		line("", "10", "", "5"),
		line("", "0", "", "5"),
	})
	require.Len(t, details, 2)
	assert.Equal(t, "copper", details[0].Material)
	assert.Equal(t, int64(980), details[0].Result)
	assert.Equal(t, "", details[1].Material)
	assert.Equal(t, int64(50), details[1].Result)
}

func TestBuild(t *testing.T) {
	now := time.Date(2026, 8, 29, 14, 30, 0, 0, time.UTC)
	rec := Build([]models.LineItem{
		line("copper", "100", "2", "10"),
		line("", "", "", ""),
		line("aluminum", "12.5", "", "3.2"),
	}, "2026-08-29", "AMC Junk Shop", now)

	assert.Equal(t, strconv.FormatInt(now.UnixMilli(), 10), rec.ID)
	assert.Equal(t, now.UnixMilli(), rec.Timestamp)
	assert.Equal(t, "2026-08-29", rec.Date)
	assert.Equal(t, models.CategoryOther, rec.Category)
	require.Len(t, rec.Details, 2)

	var sum int64
	for _, d := range rec.Details {
		sum += d.Result
	}
	assert.Equal(t, sum, rec.Amount, "amount must equal the sum of detail results")

	assert.Equal(t, "AMC Junk Shop - 2 items. copper: 100kg @ 10, aluminum: 12.5kg @ 3.2", rec.Description)
}

func TestBuild_MaterialLessLineUsesItemPlaceholder(t *testing.T) {
	now := time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC)
	rec := Build([]models.LineItem{line("", "10", "", "5")}, "2026-08-29", "AMC Junk Shop", now)

	require.Len(t, rec.Details, 1)
	assert.Equal(t, "AMC Junk Shop - 1 items. Item: 10kg @ 5", rec.Description)
	assert.Equal(t, int64(50), rec.Amount)
}

func TestGrandTotal(t *testing.T) {
	total := GrandTotal([]models.LineItem{
		line("copper", "100", "2", "10"),
		line("", "", "", ""),
		line("", "10", "", "5"),
	})
	assert.Equal(t, int64(1030), total)

	assert.Equal(t, int64(0), GrandTotal(nil))
}
