package api

import (
	"encoding/json"
	"net/http"

	"councild/pkg/httputil"
)

// claimSeat handles POST /api/auth: claim a (room, country) seat and
// return its bearer token. A seat can be claimed once, ever.
func (a *API) claimSeat(w http.ResponseWriter, r *http.Request) {
	var body struct {
		RoomID  string `json:"room_id"`
		Country string `json:"country"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httputil.JSONError(w, http.StatusBadRequest, "invalid json")
		return
	}
	tok, err := a.seats.Claim(body.RoomID, body.Country)
	if err != nil {
		httputil.WriteErr(w, r, err)
		return
	}
	_ = httputil.JSONWrite(w, http.StatusOK, struct {
		AccessToken string `json:"access_token"`
	}{AccessToken: tok})
}
