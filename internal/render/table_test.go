package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chinook-demo/internal/domain"
)

func TestPrintTable_Basic(t *testing.T) {
	var buf bytes.Buffer
	PrintTable(&buf, []string{"ArtistId", "Name"}, [][]string{{"1", "AC/DC"}, {"2", "Accept"}})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3, "expected header + 2 data rows")
	assert.Equal(t, "ARTISTID  NAME", lines[0])
	assert.Equal(t, "1         AC/DC", lines[1])
	assert.Equal(t, "2         Accept", lines[2])
}

func TestPrintTable_EmptyColumns(t *testing.T) {
	var buf bytes.Buffer
	PrintTable(&buf, []string{}, [][]string{{"a"}})
	assert.Empty(t, buf.String(), "empty columns should produce no output")
}

func TestPrintTable_EmptyRows(t *testing.T) {
	var buf bytes.Buffer
	PrintTable(&buf, []string{"id", "value"}, nil)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 1, "only the header line should be present")
	assert.Equal(t, "ID  VALUE", lines[0])
}

func TestPrintTable_MultibyteWidths(t *testing.T) {
	var buf bytes.Buffer
	PrintTable(&buf, []string{"Name", "n"}, [][]string{{"Motörhead", "1"}, {"AC/DC", "2"}})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "NAME       N", lines[0])
	assert.Equal(t, "Motörhead  1", lines[1])
	assert.Equal(t, "AC/DC      2", lines[2])
}

func TestPrintJSON_TabularResult(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintJSON(&buf, domain.EmptyTabularResult()))

	var parsed map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &parsed))
	assert.Equal(t, []interface{}{}, parsed["columns"])
	assert.Equal(t, []interface{}{}, parsed["rows"])
	assert.Contains(t, buf.String(), "\n  ", "output is indented")
}

func TestPrintJSON_NilInput(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintJSON(&buf, nil))
	assert.Equal(t, "null\n", buf.String())
}
