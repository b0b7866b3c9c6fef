package sheets

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
)

// memTransport is an in-memory spreadsheet understanding the A1 ranges the tables use.
type memTransport struct {
	mu     sync.Mutex
	sheets map[string][][]string
	calls  []string
	err    error
}

func newMemTransport() *memTransport {
	return &memTransport{sheets: map[string][][]string{}}
}

var cellRef = regexp.MustCompile(`^([A-Z]+)(\d*)$`)

type a1 struct {
	sheet      string
	col1, col2 int
	row1, row2 int // 0 means unbounded
}

func parseRange(rng string) (a1, error) {
	name, cells, ok := strings.Cut(rng, "!")
	if !ok {
		return a1{}, fmt.Errorf("bad range %q", rng)
	}
	name = strings.Trim(name, "'")
	from, to, found := strings.Cut(cells, ":")
	if !found {
		to = from
	}
	c1, r1, err := parseCell(from)
	if err != nil {
		return a1{}, err
	}
	c2, r2, err := parseCell(to)
	if err != nil {
		return a1{}, err
	}
	return a1{sheet: name, col1: c1, col2: c2, row1: r1, row2: r2}, nil
}

func parseCell(s string) (col, row int, err error) {
	m := cellRef.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, fmt.Errorf("bad cell %q", s)
	}
	for _, r := range m[1] {
		col = col*26 + int(r-'A'+1)
	}
	if m[2] != "" {
		row, _ = strconv.Atoi(m[2])
	}
	return col - 1, row, nil
}

func (m *memTransport) record(op, rng string) error {
	m.calls = append(m.calls, op+" "+rng)
	return m.err
}

func (m *memTransport) Get(_ context.Context, rng string) ([][]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("get", rng); err != nil {
		return nil, err
	}
	r, err := parseRange(rng)
	if err != nil {
		return nil, err
	}
	rows := m.sheets[r.sheet]
	first, last := 1, len(rows)
	if r.row1 > 0 {
		first = r.row1
	}
	if r.row2 > 0 && r.row2 < last {
		last = r.row2
	}
	var out [][]string
	for i := first; i <= last; i++ {
		row := rows[i-1]
		var cells []string
		for c := r.col1; c <= r.col2 && c < len(row); c++ {
			cells = append(cells, row[c])
		}
		for len(cells) > 0 && cells[len(cells)-1] == "" {
			cells = cells[:len(cells)-1]
		}
		out = append(out, cells)
	}
	return out, nil
}

func (m *memTransport) Append(_ context.Context, rng string, row []any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("append", rng); err != nil {
		return err
	}
	r, err := parseRange(rng)
	if err != nil {
		return err
	}
	cells := make([]string, len(row))
	for i, v := range row {
		cells[i] = cellString(v)
	}
	m.sheets[r.sheet] = append(m.sheets[r.sheet], cells)
	return nil
}

func (m *memTransport) Update(_ context.Context, rng string, rows [][]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("update", rng); err != nil {
		return err
	}
	r, err := parseRange(rng)
	if err != nil {
		return err
	}
	for i, row := range rows {
		for j, v := range row {
			m.set(r.sheet, r.row1+i, r.col1+j, cellString(v))
		}
	}
	return nil
}

func (m *memTransport) Clear(_ context.Context, rng string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("clear", rng); err != nil {
		return err
	}
	r, err := parseRange(rng)
	if err != nil {
		return err
	}
	for row := r.row1; row <= r.row2 && row <= len(m.sheets[r.sheet]); row++ {
		for col := r.col1; col <= r.col2; col++ {
			m.set(r.sheet, row, col, "")
		}
	}
	return nil
}

func (m *memTransport) set(sheet string, row, col int, v string) {
	rows := m.sheets[sheet]
	for len(rows) < row {
		rows = append(rows, nil)
	}
	for len(rows[row-1]) <= col {
		rows[row-1] = append(rows[row-1], "")
	}
	rows[row-1][col] = v
	m.sheets[sheet] = rows
}
