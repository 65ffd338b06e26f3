package api

import (
	"encoding/json"
	"net/http"

	"councild/pkg/httputil"
)

// listConversations handles GET /api/conversations?room_id=: the
// caller's conversations in its own room. Asking for any other room is a
// 401, the same as presenting no token at all.
func (a *API) listConversations(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())
	if r.URL.Query().Get("room_id") != claims.RoomID {
		httputil.JSONError(w, http.StatusUnauthorized, "room mismatch")
		return
	}
	out, err := a.dir.List(claims)
	if err != nil {
		httputil.WriteErr(w, r, err)
		return
	}
	_ = httputil.JSONWrite(w, http.StatusOK, out)
}

// createConversation handles POST /api/conversations. Creation is
// idempotent: the derived id is returned whether the conversation is new
// or already exists.
func (a *API) createConversation(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())
	var body struct {
		RoomID       string   `json:"room_id"`
		Participants []string `json:"participants"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httputil.JSONError(w, http.StatusBadRequest, "invalid json")
		return
	}
	convID, err := a.dir.Create(claims, body.RoomID, body.Participants)
	if err != nil {
		httputil.WriteErr(w, r, err)
		return
	}
	_ = httputil.JSONWrite(w, http.StatusOK, struct {
		ConversationID string `json:"conversation_id"`
	}{ConversationID: convID})
}
