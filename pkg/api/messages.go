package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"councild/pkg/httputil"
)

// readMessages handles GET /api/messages?conversation_id=&since=: up to
// 200 messages strictly after `since` in ascending order.
func (a *API) readMessages(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())
	convID := r.URL.Query().Get("conversation_id")
	if convID == "" {
		httputil.JSONError(w, http.StatusBadRequest, "missing conversation_id")
		return
	}
	var since int64
	if s := r.URL.Query().Get("since"); s != "" {
		if v, err := strconv.ParseInt(s, 10, 64); err == nil && v >= 0 {
			since = v
		}
	}
	msgs, err := a.log.Read(claims, convID, since)
	if err != nil {
		httputil.WriteErr(w, r, err)
		return
	}
	_ = httputil.JSONWrite(w, http.StatusOK, msgs)
}

// appendMessage handles POST /api/messages.
func (a *API) appendMessage(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())
	var body struct {
		ConversationID string `json:"conversation_id"`
		Content        string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httputil.JSONError(w, http.StatusBadRequest, "invalid json")
		return
	}
	msgID, err := a.log.Append(claims, body.ConversationID, body.Content)
	if err != nil {
		httputil.WriteErr(w, r, err)
		return
	}
	_ = httputil.JSONWrite(w, http.StatusOK, struct {
		MessageID string `json:"message_id"`
	}{MessageID: msgID})
}
