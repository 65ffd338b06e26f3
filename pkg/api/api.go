// Package api wires the HTTP surface: routing, CORS, bearer-token
// authentication, rate limiting and the endpoint handlers. Everything in
// here is a thin shell over the seat registry, conversation directory and
// message log.
package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"councild/pkg/convo"
	"councild/pkg/msglog"
	"councild/pkg/seats"
)

// API bundles the domain components the handlers dispatch into.
type API struct {
	secret string
	seats  *seats.Registry
	dir    *convo.Directory
	log    *msglog.Log
}

// New builds the API over the given components.
func New(secret string, reg *seats.Registry, dir *convo.Directory, log *msglog.Log) *API {
	return &API{secret: secret, seats: reg, dir: dir, log: log}
}

// Router returns the mux router with all /api endpoints registered.
// Bearer-protected routes go through requireClaims; every response,
// including preflight, carries permissive CORS headers via the cors
// middleware applied by the caller.
func (a *API) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/api/health", a.health).Methods(http.MethodGet)
	r.HandleFunc("/api/auth", a.claimSeat).Methods(http.MethodPost)

	r.Handle("/api/conversations", a.requireClaims(a.listConversations)).Methods(http.MethodGet)
	r.Handle("/api/conversations", a.requireClaims(a.createConversation)).Methods(http.MethodPost)
	r.Handle("/api/messages", a.requireClaims(a.readMessages)).Methods(http.MethodGet)
	r.Handle("/api/messages", a.requireClaims(a.appendMessage)).Methods(http.MethodPost)

	return r
}

func (a *API) health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
