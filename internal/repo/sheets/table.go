package sheets

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/colinruark1/ocean-cleaning/internal/repo"
)

// table maps one sheet to fixed columns. Row 1 holds the header.
type table struct {
	tr     Transport
	sheet  string
	header []string
}

// record is one data row and its 1-based sheet row number.
type record struct {
	row   int
	cells []string
}

func (r record) col(i int) string { return r.cells[i] }

func (r record) intCol(i int) int {
	n, err := strconv.Atoi(strings.TrimSpace(r.cells[i]))
	if err != nil {
		return 0
	}
	return n
}

func (r record) timeCol(i int) time.Time {
	t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(r.cells[i]))
	if err != nil {
		return time.Time{}
	}
	return t
}

func newTable(tr Transport, sheet string, header []string) *table {
	return &table{tr: tr, sheet: sheet, header: header}
}

func (t *table) name() string {
	if strings.IndexFunc(t.sheet, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '_')
	}) < 0 {
		return t.sheet
	}
	return "'" + strings.ReplaceAll(t.sheet, "'", "''") + "'"
}

func (t *table) lastColumn() string { return columnLetter(len(t.header) - 1) }

func (t *table) fullRange() string {
	return fmt.Sprintf("%s!A:%s", t.name(), t.lastColumn())
}

func (t *table) rowRange(row int) string {
	return fmt.Sprintf("%s!A%d:%s%d", t.name(), row, t.lastColumn(), row)
}

func (t *table) cellRange(row, col int) string {
	return fmt.Sprintf("%s!%s%d", t.name(), columnLetter(col), row)
}

// ensureHeader writes the header into row 1 of an empty sheet.
func (t *table) ensureHeader(ctx context.Context) error {
	rows, err := t.tr.Get(ctx, t.rowRange(1))
	if err != nil {
		return err
	}
	if len(rows) > 0 && len(rows[0]) > 0 && rows[0][0] != "" {
		return nil
	}
	hdr := make([]any, len(t.header))
	for i, h := range t.header {
		hdr[i] = h
	}
	return t.tr.Update(ctx, t.rowRange(1), [][]any{hdr})
}

// records returns all data rows, skipping the header and blank rows.
func (t *table) records(ctx context.Context) ([]record, error) {
	rows, err := t.tr.Get(ctx, t.fullRange())
	if err != nil {
		return nil, err
	}
	out := make([]record, 0, len(rows))
	for i, cells := range rows {
		if len(cells) == 0 || strings.TrimSpace(cells[0]) == "" {
			continue
		}
		if i == 0 && cells[0] == t.header[0] {
			continue
		}
		padded := make([]string, len(t.header))
		copy(padded, cells)
		out = append(out, record{row: i + 1, cells: padded})
	}
	return out, nil
}

// find returns the first record matching fn, or repo.ErrNotFound.
func (t *table) find(ctx context.Context, fn func(record) bool) (record, error) {
	recs, err := t.records(ctx)
	if err != nil {
		return record{}, err
	}
	for _, r := range recs {
		if fn(r) {
			return r, nil
		}
	}
	return record{}, repo.ErrNotFound
}

func (t *table) byID(ctx context.Context, id string) (record, error) {
	return t.find(ctx, func(r record) bool { return r.col(0) == id })
}

func (t *table) append(ctx context.Context, cells []any) error {
	return t.tr.Append(ctx, t.fullRange(), cells)
}

func (t *table) updateCell(ctx context.Context, row, col int, v any) error {
	return t.tr.Update(ctx, t.cellRange(row, col), [][]any{{v}})
}

func (t *table) updateRow(ctx context.Context, row int, cells []any) error {
	return t.tr.Update(ctx, t.rowRange(row), [][]any{cells})
}

func (t *table) clearRow(ctx context.Context, row int) error {
	return t.tr.Clear(ctx, t.rowRange(row))
}

// columnLetter returns the A1 column name of zero-based index i.
func columnLetter(i int) string {
	s := ""
	for i >= 0 {
		s = string(rune('A'+i%26)) + s
		i = i/26 - 1
	}
	return s
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
