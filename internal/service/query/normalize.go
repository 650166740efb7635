package query

import (
	"fmt"

	"chinook-demo/internal/domain"
)

// Normalize converts a raw result into the canonical tabular shape.
//
// Columns follow the first row's column order and every value is coerced
// to text, NULL becoming domain.NullMarker. A row whose columns differ from
// the first row's (by count, name, or order) or whose value count does not
// match its columns is a shape mismatch and fails the whole result.
func Normalize(raw *domain.RawQueryResult) (*domain.TabularResult, error) {
	if raw.Len() == 0 {
		return domain.EmptyTabularResult(), nil
	}

	first := raw.Rows[0]
	columns := make([]string, len(first.Columns))
	copy(columns, first.Columns)

	rows := make([][]string, 0, len(raw.Rows))
	for i, row := range raw.Rows {
		if !sameColumns(columns, row.Columns) {
			return nil, fmt.Errorf("row %d: columns %v do not match %v", i, row.Columns, columns)
		}
		if len(row.Values) != len(columns) {
			return nil, fmt.Errorf("row %d: %d values for %d columns", i, len(row.Values), len(columns))
		}

		cells := make([]string, len(row.Values))
		for j, v := range row.Values {
			cells[j] = v.String()
		}
		rows = append(rows, cells)
	}

	return &domain.TabularResult{Columns: columns, Rows: rows, RowCount: len(rows)}, nil
}

func sameColumns(want, got []string) bool {
	if len(want) != len(got) {
		return false
	}
	for i := range want {
		if want[i] != got[i] {
			return false
		}
	}
	return true
}
