package ui

import (
	"net/http"
	"strings"

	gomponents "maragu.dev/gomponents"
)

func (h *Handler) AskPage(w http.ResponseWriter, r *http.Request) {
	h.renderAsk(w, r, askView{})
}

func (h *Handler) AskSubmit(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRenderBadRequest(w, r) {
		return
	}

	question := r.Form.Get("question")
	if strings.TrimSpace(question) == "" {
		h.renderAsk(w, r, askView{Error: "question is required"})
		return
	}

	answer, err := h.Asker.Ask(r.Context(), question)
	if err != nil {
		h.logger().Warn("ask failed", "error", err)
		h.renderAsk(w, r, askView{Question: question, Error: err.Error()})
		return
	}
	h.renderAsk(w, r, askView{Question: question, Answer: answer})
}

func (h *Handler) renderAsk(w http.ResponseWriter, r *http.Request, v askView) {
	v.Tables = h.tableNames(r.Context())
	renderHTML(w, http.StatusOK, askPage(v, func() gomponents.Node { return csrfField(r) }))
}
