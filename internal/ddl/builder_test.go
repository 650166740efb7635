package ddl

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateIdentifier(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{name: "simple", input: "dataset"},
		{name: "underscore_prefix", input: "_chinook"},
		{name: "max_length", input: strings.Repeat("a", 128)},
		{name: "empty", input: "", wantErr: "name is required"},
		{name: "too_long", input: strings.Repeat("a", 129), wantErr: "at most 128 characters"},
		{name: "starts_with_digit", input: "1db", wantErr: "must match"},
		{name: "sql_injection", input: "x; DROP TABLE", wantErr: "must match"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateIdentifier(tt.input)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestQuoting(t *testing.T) {
	assert.Equal(t, `"Artist"`, QuoteIdentifier("Artist"))
	assert.Equal(t, `"my""table"`, QuoteIdentifier(`my"table`))
	assert.Equal(t, `'/tmp/chinook.db'`, QuoteLiteral("/tmp/chinook.db"))
	assert.Equal(t, `'it''s'`, QuoteLiteral("it's"))
}

func TestAttachSQLite(t *testing.T) {
	tests := []struct {
		name     string
		alias    string
		path     string
		readOnly bool
		want     string
		wantErr  string
	}{
		{
			name:     "read_only",
			alias:    "chinook",
			path:     "chinook.db",
			readOnly: true,
			want:     `ATTACH IF NOT EXISTS 'chinook.db' AS "chinook" (TYPE sqlite, READ_ONLY)`,
		},
		{
			name:  "read_write_with_quote_in_path",
			alias: "chinook",
			path:  "/data/o'brien.db",
			want:  `ATTACH IF NOT EXISTS '/data/o''brien.db' AS "chinook" (TYPE sqlite)`,
		},
		{name: "bad_alias", alias: "a-b", path: "x.db", wantErr: "invalid catalog name"},
		{name: "empty_path", alias: "chinook", wantErr: "dataset path is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AttachSQLite(tt.alias, tt.path, tt.readOnly)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUseCatalogAndExtension(t *testing.T) {
	stmt, err := UseCatalog("chinook")
	require.NoError(t, err)
	assert.Equal(t, `USE "chinook"`, stmt)

	stmt, err = LoadExtension("sqlite")
	require.NoError(t, err)
	assert.Equal(t, "INSTALL sqlite; LOAD sqlite;", stmt)

	_, err = LoadExtension("sqlite; DROP")
	require.Error(t, err)
}

func TestSampleRows(t *testing.T) {
	stmt, err := SampleRows("Invoice Line", 3)
	require.NoError(t, err)
	assert.Equal(t, `SELECT * FROM "Invoice Line" LIMIT 3`, stmt)

	_, err = SampleRows("", 3)
	require.Error(t, err)
	_, err = SampleRows("Artist", -1)
	require.Error(t, err)
}
