// Package token issues and verifies the stateless bearer tokens that bind
// a caller to one (room, country) seat. A token is three fields joined by
// '|': room id, country, and a hex HMAC-SHA256 digest over
// "room:country". There is no expiry and no revocation; a token stays
// valid for the lifetime of the signing secret.
package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"

	"councild/pkg/apperr"
	"councild/pkg/country"
	"councild/pkg/models"
)

const (
	delim     = "|"
	maxRoomID = 64
)

// ErrInvalid is what every verification failure collapses into. Parse
// errors, unknown countries and digest mismatches are deliberately not
// distinguished for callers.
var ErrInvalid = apperr.Unauthorized("invalid token")

func digestHex(secret, roomID, cty string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(roomID + ":" + cty))
	return hex.EncodeToString(mac.Sum(nil))
}

// ValidRoomID reports whether roomID is non-empty and at most 64 bytes.
func ValidRoomID(roomID string) bool {
	return roomID != "" && len(roomID) <= maxRoomID
}

// Issue builds a signed bearer token for the given seat.
func Issue(secret, roomID, cty string) (string, error) {
	if !country.Valid(cty) {
		return "", apperr.BadRequest("invalid country")
	}
	if !ValidRoomID(roomID) {
		return "", apperr.BadRequest("invalid room_id")
	}
	return roomID + delim + cty + delim + digestHex(secret, roomID, cty), nil
}

// Verify parses and checks a token, returning the claims it carries.
// The token is split from the right so a room id containing '|' still
// parses. The digest comparison is constant-time.
func Verify(secret, tok string) (models.Claims, error) {
	last := strings.LastIndex(tok, delim)
	if last < 0 {
		return models.Claims{}, ErrInvalid
	}
	digest := tok[last+1:]
	rest := tok[:last]
	mid := strings.LastIndex(rest, delim)
	if mid < 0 {
		return models.Claims{}, ErrInvalid
	}
	cty := rest[mid+1:]
	roomID := rest[:mid]

	if !country.Valid(cty) {
		return models.Claims{}, ErrInvalid
	}
	want := digestHex(secret, roomID, cty)
	if !hmac.Equal([]byte(want), []byte(digest)) {
		return models.Claims{}, ErrInvalid
	}
	return models.Claims{RoomID: roomID, Country: cty}, nil
}

// FromRequest extracts and verifies the bearer token on r.
func FromRequest(secret string, r *http.Request) (models.Claims, error) {
	auth := r.Header.Get("Authorization")
	tok, ok := strings.CutPrefix(auth, "Bearer ")
	if !ok {
		return models.Claims{}, ErrInvalid
	}
	return Verify(secret, tok)
}
