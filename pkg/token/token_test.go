package token

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"councild/pkg/country"
)

const secret = "test-secret"

func TestIssueVerifyRoundTrip(t *testing.T) {
	for _, cty := range country.All() {
		tok, err := Issue(secret, "room-1", string(cty))
		require.NoError(t, err)
		claims, err := Verify(secret, tok)
		require.NoError(t, err)
		assert.Equal(t, "room-1", claims.RoomID)
		assert.Equal(t, string(cty), claims.Country)
	}
}

func TestIssueRejectsBadInput(t *testing.T) {
	_, err := Issue(secret, "room-1", "prussia")
	assert.Error(t, err)

	_, err = Issue(secret, "", "france")
	assert.Error(t, err)

	long := make([]byte, 65)
	for i := range long {
		long[i] = 'a'
	}
	_, err = Issue(secret, string(long), "france")
	assert.Error(t, err)

	// 64 bytes is the inclusive maximum
	_, err = Issue(secret, string(long[:64]), "france")
	assert.NoError(t, err)
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	tok, err := Issue(secret, "R1", "austria")
	require.NoError(t, err)

	// Flipping any single character anywhere in the token must fail
	// verification.
	for i := 0; i < len(tok); i++ {
		b := []byte(tok)
		if b[i] == 'x' {
			b[i] = 'y'
		} else {
			b[i] = 'x'
		}
		_, err := Verify(secret, string(b))
		assert.Error(t, err, "tampered at index %d", i)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	tok, err := Issue(secret, "R1", "france")
	require.NoError(t, err)
	_, err = Verify("another-secret", tok)
	assert.Error(t, err)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	for _, tok := range []string{"", "nodolimiters", "one|field", "a|b|c|d"} {
		_, err := Verify(secret, tok)
		assert.Error(t, err, "token %q", tok)
	}
}

func TestRoomIDMayContainDelimiter(t *testing.T) {
	tok, err := Issue(secret, "room|with|pipes", "russia")
	require.NoError(t, err)
	claims, err := Verify(secret, tok)
	require.NoError(t, err)
	assert.Equal(t, "room|with|pipes", claims.RoomID)
	assert.Equal(t, "russia", claims.Country)
}

func TestFromRequest(t *testing.T) {
	tok, err := Issue(secret, "R1", "turkey")
	require.NoError(t, err)

	r, _ := http.NewRequest(http.MethodGet, "/api/messages", nil)
	_, err = FromRequest(secret, r)
	assert.Error(t, err, "missing header")

	r.Header.Set("Authorization", tok)
	_, err = FromRequest(secret, r)
	assert.Error(t, err, "missing Bearer prefix")

	r.Header.Set("Authorization", "Bearer "+tok)
	claims, err := FromRequest(secret, r)
	require.NoError(t, err)
	assert.Equal(t, "R1", claims.RoomID)
}
