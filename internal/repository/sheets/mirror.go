package sheets

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/amcjunkshop/scrapledger/internal/config"
	"github.com/amcjunkshop/scrapledger/internal/domain/models"
)

const mirrorRange = "Records!A:H"

// Mirror appends saved records to a spreadsheet as an off-site copy of the
// ledger. Appends are best effort; a failed mirror never fails the save.
type Mirror interface {
	AppendRecord(ctx context.Context, rec models.ExpenseRecord) error
}

// SheetMirror implements Mirror using the official Google Sheets API.
type SheetMirror struct {
	service       *sheetsapi.Service
	spreadsheetID string
	logger        *zap.Logger
}

// NewMirror builds a Google Sheets backed mirror instance.
func NewMirror(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (Mirror, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &SheetMirror{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger,
	}, nil
}

// AppendRecord writes one row per line item; a legacy record without details
// becomes a single row carrying its description and amount.
func (m *SheetMirror) AppendRecord(ctx context.Context, rec models.ExpenseRecord) error {
	var values [][]interface{}
	if len(rec.Details) == 0 {
		values = append(values, []interface{}{rec.Date, rec.ID, rec.Description, "", "", "", rec.Amount, rec.Timestamp})
	}
	for _, d := range rec.Details {
		values = append(values, []interface{}{rec.Date, rec.ID, d.Material, d.Weight, d.Deduction, d.Price, d.Result, rec.Timestamp})
	}

	payload := &sheetsapi.ValueRange{Values: values}

	call := m.service.Spreadsheets.Values.Append(m.spreadsheetID, mirrorRange, payload).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append record %s into range %s: %w", rec.ID, mirrorRange, err)
	}

	m.logger.Debug("record mirrored to sheet", zap.String("record_id", rec.ID), zap.Int("rows", len(values)))
	return nil
}
