package invoice

import (
	"math/rand"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amcjunkshop/scrapledger/internal/domain/models"
	"github.com/amcjunkshop/scrapledger/internal/pricing"
)

func TestNewNumber(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	n := NewNumber(r)
	assert.Regexp(t, `^SI No\. \d{6}$`, n)

	// Same seed, same number.
	assert.Equal(t, n, NewNumber(rand.New(rand.NewSource(1))))
}

func TestRender(t *testing.T) {
	out := Render(Params{
		Company: "AMC Junk Shop",
		Date:    "2026-08-29",
		Time:    "14:05",
		Number:  "SI No. 012345",
		Lines: []models.LineItem{
			{Material: "copper", Weight: "100", Deduction: "2", Price: "10"},
			{}, // blank template row, must not print
			{Weight: "10", Price: "5"},
		},
	})

	assert.Contains(t, out, "AMC Junk Shop")
	assert.Contains(t, out, "PROOF COPY")
	assert.Contains(t, out, "SI No. 012345")
	assert.Contains(t, out, "2026-08-29 14:05")
	assert.Contains(t, out, "copper")
	assert.Contains(t, out, "Item", "material-less line prints the placeholder")
	assert.Contains(t, out, "980", "line amount comes from the shared calculator")
	assert.Contains(t, out, "$1030")

	// Two priced lines, each a name row plus a figures row.
	require.Equal(t, 2, strings.Count(out, "%)"))
}

func TestRender_CentersMultibyteCompanyName(t *testing.T) {
	out := Render(Params{
		Company: "Bakalan ng Bakal 収集所",
		Date:    "2026-08-29",
		Time:    "09:00",
		Number:  "SI No. 000001",
	})

	line := strings.SplitN(out, "\n", 2)[0]
	name := strings.TrimLeft(line, " ")
	pad := len(line) - len(name)
	assert.Equal(t, (width-utf8.RuneCountInString(name))/2, pad, "padding counts runes, not bytes")
}

func TestRender_AmountsMatchCalculator(t *testing.T) {
	lines := []models.LineItem{{Material: "brass", Weight: "10", Deduction: "0", Price: "10.05"}}
	out := Render(Params{Company: "AMC", Date: "2026-08-29", Time: "09:00", Number: "SI No. 000001", Lines: lines})

	want := pricing.Calculate("10", "0", "10.05")
	assert.Equal(t, int64(101), want)
	assert.Contains(t, out, "101")
}
