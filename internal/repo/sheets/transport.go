// Package sheets stores users, events and posts in a Google spreadsheet, one
// sheet per entity and one row per record. Rows are reached through the
// Sheets API, or through an Apps Script web app when the API is disabled for
// the project.
package sheets

import (
	"context"
	"fmt"
)

// Transport reads and writes A1-notation ranges of one spreadsheet.
type Transport interface {
	// Get returns the rows of rng. Trailing empty cells and rows may be omitted.
	Get(ctx context.Context, rng string) ([][]string, error)
	// Append adds row after the last non-empty row of rng.
	Append(ctx context.Context, rng string, row []any) error
	// Update overwrites rng with rows.
	Update(ctx context.Context, rng string, rows [][]any) error
	// Clear empties the cells of rng.
	Clear(ctx context.Context, rng string) error
}

func cellString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		// JSON numbers; keep integers free of a trailing .0
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%g", t)
	default:
		return fmt.Sprint(t)
	}
}

func toStrings(rows [][]any) [][]string {
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = make([]string, len(row))
		for j, v := range row {
			out[i][j] = cellString(v)
		}
	}
	return out
}
