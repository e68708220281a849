package web

import "net/http"

// aiChat handles POST /ai_chat.
func (h *Handler) aiChat(w http.ResponseWriter, r *http.Request) {
	var body chatBody
	if !h.decodeJSON(w, r, &body) {
		return
	}
	res, err := h.svc.Chat(r.Context(), body.Query)
	if err != nil {
		h.writeServiceError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, ok(envelope{"response": res.Response, "source": res.Source}))
}
