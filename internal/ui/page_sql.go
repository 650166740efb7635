package ui

import (
	"fmt"
	"net/url"
	"strings"

	"chinook-demo/internal/domain"
	"chinook-demo/internal/render"

	. "maragu.dev/gomponents"
	data "maragu.dev/gomponents-datastar"
	. "maragu.dev/gomponents/html"
)

// sqlEditorView is everything the SQL editor page shows.
type sqlEditorView struct {
	SQL      string
	Tables   []string
	Result   *domain.TabularResult
	RunError string
}

func sqlEditorPage(v sqlEditorView, csrfField func() Node) Node {
	return appPage(
		"SQL Editor",
		"sql",
		v.Tables,
		Div(
			Class(cardClass()),
			Form(
				Method("post"),
				Action("/ui/sql/run"),
				csrfField(),
				Label(For("sql"), Text("SQL")),
				Textarea(ID("sql"), Name("sql"), Required(), Text(v.SQL)),
				Div(
					Class("button-row"),
					Button(Type("submit"), Class(primaryButtonClass()), Text("Run query")),
					Button(Type("submit"), Class(secondaryButtonClass()), FormAction("/ui/sql/download.csv"), Text("Download CSV")),
				),
			),
			P(Class(mutedClass()), Text("Snippets")),
			snippetLinks(v.Tables),
		),
		sqlResultNode(v),
	)
}

func sqlResultNode(v sqlEditorView) Node {
	switch {
	case v.RunError != "":
		return Div(
			Class(cardClass("card-error")),
			H2(Text("Query Error")),
			Pre(Text(v.RunError)),
		)
	case v.Result == nil:
		return P(Class(mutedClass()), Text("Run a query to see results."))
	case v.Result.RowCount == 0:
		return Div(Class(cardClass()), P(Class("notice"), Text(render.NoResultsNotice)))
	}

	res := v.Result
	headerCols := make([]Node, 0, len(res.Columns))
	for _, c := range res.Columns {
		headerCols = append(headerCols, Th(Text(c)))
	}

	displayRows := res.Rows
	truncated := false
	if len(displayRows) > sqlEditorMaxRows {
		displayRows = displayRows[:sqlEditorMaxRows]
		truncated = true
	}

	rows := make([]Node, 0, len(displayRows))
	for _, row := range displayRows {
		cells := make([]Node, 0, len(row))
		for _, cell := range row {
			cells = append(cells, Td(Text(cell)))
		}
		rows = append(rows, Tr(data.Show(containsExpr(strings.Join(row, " "))), Group(cells)))
	}

	meta := fmt.Sprintf("%d row(s)", res.RowCount)
	if truncated {
		meta = fmt.Sprintf("%d row(s), showing first %d", res.RowCount, sqlEditorMaxRows)
	}

	return Div(
		Class(cardClass("table-wrap")),
		data.Signals(map[string]any{"q": ""}),
		H2(Text("Results")),
		P(Class(mutedClass()), Text(meta)),
		quickFilterInput("Filter rows"),
		Table(
			THead(Tr(Group(headerCols))),
			TBody(Group(rows)),
		),
	)
}

func snippetLinks(tables []string) Node {
	first := "Artist"
	if len(tables) > 0 {
		first = tables[0]
	}
	snippets := []struct {
		Label string
		SQL   string
	}{
		{Label: "Sample rows", SQL: fmt.Sprintf("SELECT * FROM %s LIMIT 10;", first)},
		{Label: "Row count", SQL: fmt.Sprintf("SELECT COUNT(*) AS n FROM %s;", first)},
		{Label: "Albums per artist", SQL: "SELECT ar.Name, COUNT(al.AlbumId) AS albums\nFROM Artist ar\nLEFT JOIN Album al ON al.ArtistId = ar.ArtistId\nGROUP BY ar.Name\nORDER BY albums DESC\nLIMIT 10;"},
	}

	links := make([]Node, 0, len(snippets))
	for _, s := range snippets {
		links = append(links, A(Href("/ui?sql="+url.QueryEscape(s.SQL)), Text(s.Label)))
	}
	return Div(Class("snippet-list"), Group(links))
}
