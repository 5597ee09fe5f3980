package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Export always covers the full filtered and sorted set, never a single page.
const exportHeader = "Date,Material,Weight,Deduction,Price,Result"

const utf8BOM = "\ufeff"

// CSV materializes rows as comma-separated text. The material column is
// always double-quoted with embedded quotes doubled, and the payload starts
// with a UTF-8 byte-order mark so spreadsheets pick up the encoding.
func CSV(rows []Row) []byte {
	var b strings.Builder
	b.WriteString(utf8BOM)
	b.WriteString(exportHeader)
	b.WriteByte('\n')
	for _, r := range rows {
		b.WriteString(r.Date)
		b.WriteString(`,"`)
		b.WriteString(strings.ReplaceAll(r.Material, `"`, `""`))
		b.WriteString(`",`)
		b.WriteString(formatFloat(r.Weight))
		b.WriteByte(',')
		b.WriteString(formatFloat(r.Deduction))
		b.WriteByte(',')
		b.WriteString(formatFloat(r.Price))
		b.WriteByte(',')
		b.WriteString(strconv.FormatInt(r.Result, 10))
		b.WriteByte('\n')
	}
	return []byte(b.String())
}

// XLSX materializes the same row set as a spreadsheet with a trailing total.
func XLSX(rows []Row) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	const sheet = "Report"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("naming sheet: %w", err)
	}

	header := []interface{}{"Date", "Material", "Weight", "Deduction", "Price", "Result"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("writing header: %w", err)
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []interface{}{r.Date, r.Material, r.Weight, r.Deduction, r.Price, r.Result}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}

	totalCell, err := excelize.CoordinatesToCellName(1, len(rows)+2)
	if err != nil {
		return nil, err
	}
	totalRow := []interface{}{"Total", "", "", "", "", Total(rows)}
	if err := f.SetSheetRow(sheet, totalCell, &totalRow); err != nil {
		return nil, fmt.Errorf("writing total row: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serializing workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// Filename suggests an export name carrying the current date.
func Filename(ext string, now time.Time) string {
	return fmt.Sprintf("scrap_report_%s.%s", now.Format("2006-01-02"), ext)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
