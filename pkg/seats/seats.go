// Package seats enforces at-most-one token issuance per (room, country)
// seat, using the key-value store as a claim ledger.
package seats

import (
	"councild/pkg/apperr"
	"councild/pkg/country"
	"councild/pkg/logger"
	"councild/pkg/store"
	"councild/pkg/token"
)

// Registry issues seat tokens against a claim ledger in the KV store.
type Registry struct {
	kv     store.KV
	secret string
}

// NewRegistry builds a Registry over the given store and signing secret.
func NewRegistry(kv store.KV, secret string) *Registry {
	return &Registry{kv: kv, secret: secret}
}

// Claim claims the (room, country) seat and returns its bearer token.
// The store has no atomic check-and-set, so two concurrent first-time
// claims for the same seat can both observe "unclaimed" and both succeed.
// That narrow race is accepted; contention on a single seat is expected
// to be near zero. The claim marker is committed before the token is
// issued, which keeps the window as small as the store allows. There is
// no un-claim: a seat, once taken, is taken for the life of the room.
func (reg *Registry) Claim(roomID, cty string) (string, error) {
	if !country.Valid(cty) {
		return "", apperr.BadRequest("invalid country")
	}
	if !token.ValidRoomID(roomID) {
		return "", apperr.BadRequest("invalid room_id")
	}

	key := store.SeatKey(roomID, cty)
	_, taken, err := reg.kv.Get(key)
	if err != nil {
		return "", apperr.Internal("seat lookup failed", err)
	}
	if taken {
		logger.Info("seat_claim_conflict", "room", roomID, "country", cty)
		return "", apperr.Conflict("seat already taken")
	}

	// Marker first, token second. If the response is lost after this
	// write the seat is consumed with no token delivered; accepted
	// trade-off, claims cannot be rotated.
	if err := reg.kv.Put(key, "true"); err != nil {
		return "", apperr.Internal("seat claim write failed", err)
	}
	tok, err := token.Issue(reg.secret, roomID, cty)
	if err != nil {
		return "", err
	}
	logger.Info("seat_claimed", "room", roomID, "country", cty)
	return tok, nil
}
