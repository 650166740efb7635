package ui

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"strings"

	gomponents "maragu.dev/gomponents"
)

const sqlEditorMaxRows = 200
const sqlEditorCSVMaxRows = 5000

const defaultSQL = "SELECT * FROM Artist LIMIT 10;"

func (h *Handler) SQLEditorPage(w http.ResponseWriter, r *http.Request) {
	sqlText := strings.TrimSpace(r.URL.Query().Get("sql"))
	if sqlText == "" {
		sqlText = defaultSQL
	}
	h.renderSQLEditor(w, r, sqlEditorView{SQL: sqlText})
}

func (h *Handler) SQLEditorRun(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRenderBadRequest(w, r) {
		return
	}

	sqlText := strings.TrimSpace(r.Form.Get("sql"))
	result, err := h.runQuery(r.Context(), sqlText)
	if err != nil {
		h.renderSQLEditor(w, r, sqlEditorView{SQL: sqlText, RunError: err.Error()})
		return
	}
	h.renderSQLEditor(w, r, sqlEditorView{SQL: sqlText, Result: result})
}

func (h *Handler) SQLEditorDownloadCSV(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRenderBadRequest(w, r) {
		return
	}

	sqlText := strings.TrimSpace(r.Form.Get("sql"))
	result, err := h.runQuery(r.Context(), sqlText)
	if err != nil {
		h.renderSQLEditor(w, r, sqlEditorView{SQL: sqlText, RunError: err.Error()})
		return
	}

	rows := result.Rows
	if len(rows) > sqlEditorCSVMaxRows {
		rows = rows[:sqlEditorCSVMaxRows]
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.Write(result.Columns); err != nil {
		renderHTML(w, http.StatusInternalServerError, errorPage("Export Failed", "Failed writing CSV header."))
		return
	}
	if err := writer.WriteAll(rows); err != nil {
		renderHTML(w, http.StatusInternalServerError, errorPage("Export Failed", "Failed writing CSV rows."))
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="query-results.csv"`)
	if len(result.Rows) > sqlEditorCSVMaxRows {
		w.Header().Set("X-Results-Truncated", "true")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (h *Handler) renderSQLEditor(w http.ResponseWriter, r *http.Request, v sqlEditorView) {
	v.Tables = h.tableNames(r.Context())
	renderHTML(w, http.StatusOK, sqlEditorPage(v, func() gomponents.Node { return csrfField(r) }))
}
