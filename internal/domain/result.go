package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// NullMarker is the literal a NULL value is coerced to. It keeps an absent
// value distinguishable from empty text.
const NullMarker = "NULL"

// ValueKind enumerates the value types a raw query result may carry.
type ValueKind int

const (
	KindNull ValueKind = iota
	KindInteger
	KindReal
	KindText
)

func (k ValueKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindInteger:
		return "integer"
	case KindReal:
		return "real"
	case KindText:
		return "text"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Value is one decoded cell of a raw query result.
type Value struct {
	Kind ValueKind
	Int  int64
	Real float64
	Text string
}

// NullValue returns the NULL value.
func NullValue() Value { return Value{Kind: KindNull} }

// IntValue returns an integer value.
func IntValue(v int64) Value { return Value{Kind: KindInteger, Int: v} }

// RealValue returns a real value.
func RealValue(v float64) Value { return Value{Kind: KindReal, Real: v} }

// TextValue returns a text value.
func TextValue(v string) Value { return Value{Kind: KindText, Text: v} }

// String coerces the value to its display form.
func (v Value) String() string {
	switch v.Kind {
	case KindInteger:
		return strconv.FormatInt(v.Int, 10)
	case KindReal:
		return formatReal(v.Real)
	case KindText:
		return v.Text
	default:
		return NullMarker
	}
}

// formatReal renders the shortest representation that still reads as a real
// number, so 1 becomes "1.0" and 0.99 stays "0.99". Magnitudes in
// [1e-4, 1e16) are written positionally; the rest use an exponent.
func formatReal(f float64) string {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	format := byte('g')
	if abs := math.Abs(f); abs == 0 || (abs >= 1e-4 && abs < 1e16) {
		format = 'f'
	}
	s := strconv.FormatFloat(f, format, -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// RawRow is one row of a raw result: an ordered column-name to value mapping.
type RawRow struct {
	Columns []string
	Values  []Value
}

// RawQueryResult is the as-returned output of running a query.
type RawQueryResult struct {
	Rows []RawRow
}

// Len returns the number of rows.
func (r *RawQueryResult) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Rows)
}

// String returns the unprocessed textual form of the result, one mapping per
// row. It is the last-resort display when a table cannot be rendered.
func (r *RawQueryResult) String() string {
	if r == nil {
		return "[]"
	}
	var b strings.Builder
	b.WriteByte('[')
	for i, row := range r.Rows {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('{')
		for j := range row.Values {
			if j > 0 {
				b.WriteString(", ")
			}
			name := ""
			if j < len(row.Columns) {
				name = row.Columns[j]
			}
			b.WriteString(strconv.Quote(name))
			b.WriteString(": ")
			if row.Values[j].Kind == KindText {
				b.WriteString(strconv.Quote(row.Values[j].Text))
			} else {
				b.WriteString(row.Values[j].String())
			}
		}
		b.WriteByte('}')
	}
	b.WriteByte(']')
	return b.String()
}

// TabularResult is the canonical, fully string-coerced shape served to every
// presentation path.
type TabularResult struct {
	Columns  []string   `json:"columns"`
	Rows     [][]string `json:"rows"`
	RowCount int        `json:"row_count"`
}

// EmptyTabularResult returns the result for a query that produced no rows.
func EmptyTabularResult() *TabularResult {
	return &TabularResult{Columns: []string{}, Rows: [][]string{}, RowCount: 0}
}
