package ui

import (
	. "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

type askView struct {
	Question string
	Answer   string
	Error    string
	Tables   []string
}

func askPage(v askView, csrfField func() Node) Node {
	var result Node
	switch {
	case v.Error != "":
		result = Div(Class(cardClass("card-error")), H2(Text("Agent Error")), Pre(Text(v.Error)))
	case v.Answer != "":
		result = Div(Class(cardClass()), H2(Text("Answer")), Div(Class("answer"), Text(v.Answer)))
	default:
		result = P(Class(mutedClass()), Text("Ask a question about artists, albums, tracks or genres."))
	}

	return appPage(
		"Ask AI",
		"ask",
		v.Tables,
		Div(
			Class(cardClass()),
			Form(
				Method("post"),
				Action("/ui/ask"),
				csrfField(),
				Label(For("question"), Text("Question")),
				Textarea(ID("question"), Name("question"), Required(), Placeholder("Which artist has the most albums?"), Text(v.Question)),
				Div(
					Class("button-row"),
					Button(Type("submit"), Class(primaryButtonClass()), Text("Ask")),
				),
			),
		),
		result,
	)
}
