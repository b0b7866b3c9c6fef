package sheets

import (
	"context"
	"fmt"

	"google.golang.org/api/sheets/v4"
)

const valueInputRaw = "RAW"

// APITransport talks to the Google Sheets v4 REST API.
type APITransport struct {
	values        *sheets.SpreadsheetsValuesService
	spreadsheetID string
}

func NewAPITransport(srv *sheets.Service, spreadsheetID string) *APITransport {
	return &APITransport{values: srv.Spreadsheets.Values, spreadsheetID: spreadsheetID}
}

func (t *APITransport) Get(ctx context.Context, rng string) ([][]string, error) {
	resp, err := t.values.Get(t.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("sheets get %s: %w", rng, err)
	}
	return toStrings(resp.Values), nil
}

func (t *APITransport) Append(ctx context.Context, rng string, row []any) error {
	vr := &sheets.ValueRange{Values: [][]interface{}{row}}
	_, err := t.values.Append(t.spreadsheetID, rng, vr).
		ValueInputOption(valueInputRaw).
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("sheets append %s: %w", rng, err)
	}
	return nil
}

func (t *APITransport) Update(ctx context.Context, rng string, rows [][]any) error {
	_, err := t.values.Update(t.spreadsheetID, rng, &sheets.ValueRange{Values: rows}).
		ValueInputOption(valueInputRaw).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("sheets update %s: %w", rng, err)
	}
	return nil
}

func (t *APITransport) Clear(ctx context.Context, rng string) error {
	if _, err := t.values.Clear(t.spreadsheetID, rng, &sheets.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return fmt.Errorf("sheets clear %s: %w", rng, err)
	}
	return nil
}
