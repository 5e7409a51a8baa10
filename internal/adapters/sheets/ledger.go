// Package sheets appends playlist ledger rows to a Google Sheet.
package sheets

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/ewilliams-labs/lineup/internal/core/ports"
)

const defaultRange = "Sheet1!A1"

// Ledger implements the playlist log port on a spreadsheet.
type Ledger struct {
	svc     *sheets.Service
	sheetID string
	rng     string
}

var _ ports.PlaylistLog = (*Ledger)(nil)

// NewLedger builds the Sheets service once. Pass option.WithCredentialsFile
// for a service account.
func NewLedger(ctx context.Context, sheetID, rng string, opts ...option.ClientOption) (*Ledger, error) {
	if sheetID == "" {
		return nil, fmt.Errorf("sheets: sheet id is required")
	}
	if rng == "" {
		rng = defaultRange
	}

	opts = append([]option.ClientOption{option.WithScopes(sheets.SpreadsheetsScope)}, opts...)
	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("sheets: create service: %w", err)
	}
	return &Ledger{svc: svc, sheetID: sheetID, rng: rng}, nil
}

// AppendRow adds fields as a new row after the last row of the table.
func (l *Ledger) AppendRow(ctx context.Context, fields []string) error {
	row := make([]any, len(fields))
	for i, f := range fields {
		row[i] = f
	}

	_, err := l.svc.Spreadsheets.Values.
		Append(l.sheetID, l.rng, &sheets.ValueRange{Values: [][]any{row}}).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("sheets: append row: %w", err)
	}
	return nil
}
