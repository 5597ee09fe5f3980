package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestCSV(t *testing.T) {
	rows := []Row{
		{Date: "2026-08-01", Material: "Copper", Weight: 100, Deduction: 2, Price: 10, Result: 980},
		{Date: "2026-08-02", Material: `mixed "junk"`, Weight: 12.5, Price: 3.2, Result: 40},
	}

	out := CSV(rows)
	require.True(t, bytes.HasPrefix(out, []byte("\ufeff")), "export starts with a UTF-8 BOM")

	lines := strings.Split(strings.TrimSuffix(strings.TrimPrefix(string(out), "\ufeff"), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Date,Material,Weight,Deduction,Price,Result", lines[0])
	assert.Equal(t, `2026-08-01,"Copper",100,2,10,980`, lines[1])
	assert.Equal(t, `2026-08-02,"mixed ""junk""",12.5,0,3.2,40`, lines[2])
}

func TestCSV_EmptySet(t *testing.T) {
	out := CSV(nil)
	assert.Equal(t, "\ufeffDate,Material,Weight,Deduction,Price,Result\n", string(out))
}

func TestXLSX(t *testing.T) {
	rows := []Row{
		{Date: "2026-08-01", Material: "Copper", Weight: 100, Deduction: 2, Price: 10, Result: 980},
		{Date: "2026-08-02", Material: "iron", Weight: 40, Price: 5, Result: 200},
	}

	out, err := XLSX(rows)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	got, err := f.GetCellValue("Report", "B2")
	require.NoError(t, err)
	assert.Equal(t, "Copper", got)

	total, err := f.GetCellValue("Report", "F4")
	require.NoError(t, err)
	assert.Equal(t, "1180", total)
}

func TestFilename(t *testing.T) {
	now := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "scrap_report_2026-08-29.csv", Filename("csv", now))
	assert.Equal(t, "scrap_report_2026-08-29.xlsx", Filename("xlsx", now))
}
