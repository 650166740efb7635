package engine

import (
	"math"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chinook-demo/internal/domain"
)

func TestDecodeValue(t *testing.T) {
	t.Parallel()

	ts := time.Date(2009, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		in   interface{}
		want domain.Value
	}{
		{name: "nil", in: nil, want: domain.NullValue()},
		{name: "int64", in: int64(42), want: domain.IntValue(42)},
		{name: "int32", in: int32(-7), want: domain.IntValue(-7)},
		{name: "uint8", in: uint8(255), want: domain.IntValue(255)},
		{name: "uint64_small", in: uint64(10), want: domain.IntValue(10)},
		{name: "uint64_overflow", in: uint64(math.MaxUint64), want: domain.TextValue("18446744073709551615")},
		{name: "float64", in: 0.99, want: domain.RealValue(0.99)},
		{name: "float32", in: float32(1.5), want: domain.RealValue(1.5)},
		{name: "bool", in: true, want: domain.TextValue("true")},
		{name: "string", in: "AC/DC", want: domain.TextValue("AC/DC")},
		{name: "bytes", in: []byte("Accept"), want: domain.TextValue("Accept")},
		{name: "time", in: ts, want: domain.TextValue("2009-01-01T00:00:00Z")},
		{name: "stringer", in: big.NewInt(12345), want: domain.TextValue("12345")},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := decodeValue(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDecodeValue_UnsupportedFailsClosed(t *testing.T) {
	t.Parallel()

	for _, in := range []interface{}{
		[]interface{}{1, 2},
		map[string]interface{}{"a": 1},
		struct{ X int }{1},
	} {
		_, err := decodeValue(in)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported value type")
	}
}
