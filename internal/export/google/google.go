// Package google exports a snapshot of all jars to a Google Sheets
// spreadsheet, as an off-device backup of the local data files.
package google

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"jarify/internal/core"
)

type Exporter struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

// New creates an exporter backed by a service account credentials file.
func New(ctx context.Context, spreadsheetID, sheetName, credentialsFile string) (*Exporter, error) {
	if spreadsheetID == "" {
		return nil, errors.New("missing spreadsheet ID")
	}
	if sheetName == "" {
		return nil, errors.New("missing sheet name")
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsFile(credentialsFile),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Exporter{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}, nil
}

// Export replaces the sheet contents with the current snapshot of all jars.
func (e *Exporter) Export(ctx context.Context, jars []core.Jar, now time.Time) error {
	clearReq := e.svc.Spreadsheets.Values.Clear(e.spreadsheetID, e.sheetName, &gsheet.ClearValuesRequest{})
	if _, err := clearReq.Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear sheet: %w", err)
	}

	values := &gsheet.ValueRange{Values: snapshotRows(jars, now)}
	updateReq := e.svc.Spreadsheets.Values.Update(e.spreadsheetID, e.sheetName+"!A1", values)
	updateReq.ValueInputOption("RAW")
	if _, err := updateReq.Context(ctx).Do(); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}

	return nil
}

// snapshotRows renders one header row plus one row per jar. Amounts are
// exported as decimal strings so the sheet stays human-readable.
func snapshotRows(jars []core.Jar, now time.Time) [][]any {
	rows := [][]any{
		{"Exported", now.Format(time.RFC3339)},
		{"ID", "Name", "Target", "Saved", "Withdrawn", "Progress %", "Streak", "Records"},
	}
	for _, jar := range jars {
		rows = append(rows, []any{
			strconv.FormatInt(jar.ID, 10),
			jar.Name,
			formatUnits(jar.Target),
			formatUnits(jar.Saved),
			formatUnits(jar.Withdrawn),
			strconv.FormatFloat(jar.Progress(), 'f', 1, 64),
			strconv.Itoa(jar.Streak),
			strconv.Itoa(len(jar.Records)),
		})
	}
	return rows
}

func formatUnits(m core.Money) string {
	return strconv.FormatFloat(m.Units(), 'f', 2, 64)
}
