// Package engine adapts SQL drivers to the service's query capability: it
// runs SQL against the dataset and decodes driver values into typed results.
package engine

import (
	"database/sql"
	"fmt"
	"math"
	"strconv"
	"time"

	"chinook-demo/internal/domain"
)

// decodeRows drains rows into a RawQueryResult. Column metadata is always
// requested from the driver so every row carries its column names.
func decodeRows(rows *sql.Rows) (*domain.RawQueryResult, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	result := &domain.RawQueryResult{}
	for rows.Next() {
		scanned := make([]interface{}, len(columns))
		ptrs := make([]interface{}, len(columns))
		for i := range scanned {
			ptrs[i] = &scanned[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}

		values := make([]domain.Value, len(columns))
		for i, v := range scanned {
			decoded, err := decodeValue(v)
			if err != nil {
				return nil, fmt.Errorf("column %q: %w", columns[i], err)
			}
			values[i] = decoded
		}
		result.Rows = append(result.Rows, domain.RawRow{Columns: columns, Values: values})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return result, nil
}

// decodeValue maps one driver value onto the closed set of value kinds.
// Unknown types fail instead of being stringified blindly.
func decodeValue(v interface{}) (domain.Value, error) {
	switch x := v.(type) {
	case nil:
		return domain.NullValue(), nil
	case int64:
		return domain.IntValue(x), nil
	case int:
		return domain.IntValue(int64(x)), nil
	case int8:
		return domain.IntValue(int64(x)), nil
	case int16:
		return domain.IntValue(int64(x)), nil
	case int32:
		return domain.IntValue(int64(x)), nil
	case uint8:
		return domain.IntValue(int64(x)), nil
	case uint16:
		return domain.IntValue(int64(x)), nil
	case uint32:
		return domain.IntValue(int64(x)), nil
	case uint64:
		if x > math.MaxInt64 {
			return domain.TextValue(strconv.FormatUint(x, 10)), nil
		}
		return domain.IntValue(int64(x)), nil
	case float64:
		return domain.RealValue(x), nil
	case float32:
		return domain.RealValue(float64(x)), nil
	case bool:
		return domain.TextValue(strconv.FormatBool(x)), nil
	case string:
		return domain.TextValue(x), nil
	case []byte:
		return domain.TextValue(string(x)), nil
	case time.Time:
		return domain.TextValue(x.Format(time.RFC3339Nano)), nil
	case fmt.Stringer:
		return domain.TextValue(x.String()), nil
	default:
		return domain.Value{}, fmt.Errorf("unsupported value type %T", v)
	}
}
