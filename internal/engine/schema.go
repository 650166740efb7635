package engine

import (
	"context"
	"fmt"
	"strings"

	"chinook-demo/internal/ddl"
	"chinook-demo/internal/domain"
)

type querier interface {
	Query(ctx context.Context, sqlQuery string) (*domain.RawQueryResult, error)
}

// maxSampleValueLen truncates long sample values so table descriptions stay
// small enough for a model prompt.
const maxSampleValueLen = 100

// describe renders a table description: the CREATE statement followed by a
// comment block with up to sampleRows tab-separated example rows.
func describe(ctx context.Context, q querier, table, createSQL string, sampleRows int) (string, error) {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(createSQL))
	if sampleRows <= 0 {
		return b.String(), nil
	}

	stmt, err := ddl.SampleRows(table, sampleRows)
	if err != nil {
		return "", err
	}
	sample, err := q.Query(ctx, stmt)
	if err != nil {
		return "", fmt.Errorf("sample %s: %w", table, err)
	}

	fmt.Fprintf(&b, "\n\n/*\n%d rows from %s table:\n", sampleRows, table)
	if sample.Len() > 0 {
		b.WriteString(strings.Join(sample.Rows[0].Columns, "\t"))
		b.WriteByte('\n')
		for _, row := range sample.Rows {
			cells := make([]string, len(row.Values))
			for i, v := range row.Values {
				cells[i] = truncate(v.String(), maxSampleValueLen)
			}
			b.WriteString(strings.Join(cells, "\t"))
			b.WriteByte('\n')
		}
	}
	b.WriteString("*/")
	return b.String(), nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
