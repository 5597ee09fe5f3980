// Package invoice renders the printable proof-copy receipt for the rows
// currently on the entry page.
package invoice

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/amcjunkshop/scrapledger/internal/domain/models"
	"github.com/amcjunkshop/scrapledger/internal/pricing"
	"github.com/amcjunkshop/scrapledger/internal/record"
)

const width = 32

// Params describes one receipt.
type Params struct {
	Company string
	Date    string // YYYY-MM-DD
	Time    string // HH:MM, 24h
	Number  string // see NewNumber
	Lines   []models.LineItem
}

// NewNumber draws a six-digit invoice number from the provided source.
func NewNumber(r *rand.Rand) string {
	return fmt.Sprintf("SI No. %06d", r.Intn(1000000))
}

// Render produces the receipt text. Only non-blank lines appear, and every
// amount goes through the shared calculator, so the printed copy can never
// disagree with the record that gets saved from the same rows.
func Render(p Params) string {
	var b strings.Builder

	writeCentered(&b, p.Company)
	writeCentered(&b, "PROOF COPY")
	writeCentered(&b, p.Number)
	b.WriteString(p.Date + " " + p.Time + "\n")
	b.WriteString(strings.Repeat("-", width) + "\n")
	fmt.Fprintf(&b, "%-12s%5s%6s%9s\n", "ITEM", "QTY", "PRICE", "AMT")

	var total int64
	for _, l := range p.Lines {
		if record.Blank(l) {
			continue
		}
		name := strings.TrimSpace(l.Material)
		if name == "" {
			name = "Item"
		}
		amount := pricing.Calculate(l.Weight, l.Deduction, l.Price)
		total += amount

		b.WriteString(name + "\n")
		fmt.Fprintf(&b, "%-12s%5s%6s%9s\n",
			"  ("+formatNumber(pricing.Number(l.Deduction))+"%)",
			formatNumber(pricing.Number(l.Weight)),
			formatNumber(pricing.Number(l.Price)),
			strconv.FormatInt(amount, 10))
	}

	b.WriteString(strings.Repeat("=", width) + "\n")
	fmt.Fprintf(&b, "%-12s%20s\n", "TOTAL", "$"+strconv.FormatInt(total, 10))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("_", width) + "\n")
	writeCentered(&b, "Signature")
	writeCentered(&b, "** Thank you for your business **")
	return b.String()
}

func writeCentered(b *strings.Builder, s string) {
	pad := (width - utf8.RuneCountInString(s)) / 2
	if pad > 0 {
		b.WriteString(strings.Repeat(" ", pad))
	}
	b.WriteString(s)
	b.WriteByte('\n')
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
