package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"councild/pkg/convo"
	"councild/pkg/models"
	"councild/pkg/msglog"
	"councild/pkg/seats"
	"councild/pkg/store"
)

const testSecret = "test-secret"

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	kv, err := store.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = kv.Close() })

	dir := convo.NewDirectory(kv)
	a := New(testSecret, seats.NewRegistry(kv, testSecret), dir, msglog.New(kv, dir))
	srv := httptest.NewServer(CORS(a.Router()))
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, srv *httptest.Server, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, srv.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

func claim(t *testing.T, srv *httptest.Server, room, country string) string {
	t.Helper()
	resp, body := doJSON(t, srv, http.MethodPost, "/api/auth", "",
		map[string]string{"room_id": room, "country": country})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	tok, _ := body["access_token"].(string)
	require.NotEmpty(t, tok)
	return tok
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	resp, err := srv.Client().Get(srv.URL + "/api/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// Two seats in a room negotiate over a shared conversation end to end.
func TestNegotiationFlow(t *testing.T) {
	srv := newTestServer(t)

	austria := claim(t, srv, "R1", "austria")

	resp, body := doJSON(t, srv, http.MethodPost, "/api/conversations", austria,
		map[string]any{"room_id": "R1", "participants": []string{"austria", "germany"}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	convID, _ := body["conversation_id"].(string)
	require.NotEmpty(t, convID)

	germany := claim(t, srv, "R1", "germany")

	resp, body = doJSON(t, srv, http.MethodPost, "/api/messages", germany,
		map[string]string{"conversation_id": convID, "content": "Hello"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, body["message_id"])

	req, err := http.NewRequest(http.MethodGet,
		srv.URL+"/api/messages?conversation_id="+convID+"&since=0", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+austria)
	r, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer r.Body.Close()
	require.Equal(t, http.StatusOK, r.StatusCode)

	var msgs []models.Message
	require.NoError(t, json.NewDecoder(r.Body).Decode(&msgs))
	require.Len(t, msgs, 1)
	assert.Equal(t, "germany", msgs[0].SenderCountry)
	assert.Equal(t, "Hello", msgs[0].Content)
	assert.Equal(t, convID, msgs[0].ConversationID)
	assert.Positive(t, msgs[0].Timestamp)
}

func TestAuthEndpoint(t *testing.T) {
	srv := newTestServer(t)

	// duplicate claim
	claim(t, srv, "R1", "france")
	resp, _ := doJSON(t, srv, http.MethodPost, "/api/auth", "",
		map[string]string{"room_id": "R1", "country": "france"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// unknown country
	resp, _ = doJSON(t, srv, http.MethodPost, "/api/auth", "",
		map[string]string{"room_id": "R1", "country": "prussia"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// malformed body
	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/auth", bytes.NewBufferString("{"))
	require.NoError(t, err)
	r, err := srv.Client().Do(req)
	require.NoError(t, err)
	r.Body.Close()
	assert.Equal(t, http.StatusBadRequest, r.StatusCode)
}

func TestBearerRequired(t *testing.T) {
	srv := newTestServer(t)

	for _, tc := range []struct {
		method, path string
	}{
		{http.MethodGet, "/api/conversations?room_id=R1"},
		{http.MethodPost, "/api/conversations"},
		{http.MethodGet, "/api/messages?conversation_id=abc"},
		{http.MethodPost, "/api/messages"},
	} {
		resp, _ := doJSON(t, srv, tc.method, tc.path, "", map[string]string{})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "%s %s", tc.method, tc.path)

		resp, _ = doJSON(t, srv, tc.method, tc.path, "R1|austria|deadbeef", map[string]string{})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "forged token %s %s", tc.method, tc.path)
	}
}

func TestConversationEndpoints(t *testing.T) {
	srv := newTestServer(t)
	austria := claim(t, srv, "R1", "austria")

	// listing another room with a valid token is a 401
	resp, _ := doJSON(t, srv, http.MethodGet, "/api/conversations?room_id=R2", austria, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// creating without including yourself is a 403
	resp, _ = doJSON(t, srv, http.MethodPost, "/api/conversations", austria,
		map[string]any{"room_id": "R1", "participants": []string{"germany", "italy"}})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// invalid participant set is a 400
	resp, _ = doJSON(t, srv, http.MethodPost, "/api/conversations", austria,
		map[string]any{"room_id": "R1", "participants": []string{"austria"}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// create twice, same id both times; the list holds it once
	resp, body := doJSON(t, srv, http.MethodPost, "/api/conversations", austria,
		map[string]any{"room_id": "R1", "participants": []string{"austria", "germany"}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	first := body["conversation_id"]

	resp, body = doJSON(t, srv, http.MethodPost, "/api/conversations", austria,
		map[string]any{"room_id": "R1", "participants": []string{"germany", "austria"}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, first, body["conversation_id"])

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/conversations?room_id=R1", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+austria)
	r, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer r.Body.Close()
	require.Equal(t, http.StatusOK, r.StatusCode)

	var list []models.ConversationSummary
	require.NoError(t, json.NewDecoder(r.Body).Decode(&list))
	require.Len(t, list, 1)
	assert.Equal(t, first, list[0].ConversationID)
	assert.Equal(t, []string{"austria", "germany"}, list[0].Participants)
}

func TestMessageEndpointErrors(t *testing.T) {
	srv := newTestServer(t)
	austria := claim(t, srv, "R1", "austria")

	resp, body := doJSON(t, srv, http.MethodPost, "/api/conversations", austria,
		map[string]any{"room_id": "R1", "participants": []string{"austria", "germany"}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	convID, _ := body["conversation_id"].(string)

	// missing conversation_id
	resp, _ = doJSON(t, srv, http.MethodGet, "/api/messages", austria, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// unknown conversation
	resp, _ = doJSON(t, srv, http.MethodPost, "/api/messages", austria,
		map[string]string{"conversation_id": "ffffffffffffffffffffffffffffffff", "content": "hi"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// non-participant seat
	italy := claim(t, srv, "R1", "italy")
	resp, _ = doJSON(t, srv, http.MethodPost, "/api/messages", italy,
		map[string]string{"conversation_id": convID, "content": "hi"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// oversized content
	resp, _ = doJSON(t, srv, http.MethodPost, "/api/messages", austria,
		map[string]string{"conversation_id": convID, "content": string(make([]byte, msglog.MaxContentBytes+1))})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCORSHeaders(t *testing.T) {
	srv := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/conversations", nil)
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), "POST")
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Headers"), "Authorization")

	// regular responses carry the headers too
	r, err := srv.Client().Get(srv.URL + "/api/health")
	require.NoError(t, err)
	r.Body.Close()
	assert.Equal(t, "*", r.Header.Get("Access-Control-Allow-Origin"))
}

func TestRateLimitMiddleware(t *testing.T) {
	limited := httptest.NewServer(RateLimit(1, 2)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))
	defer limited.Close()

	var last int
	for i := 0; i < 5; i++ {
		req, err := http.NewRequest(http.MethodGet, limited.URL+"/", nil)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer same-client")
		resp, err := limited.Client().Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		last = resp.StatusCode
	}
	assert.Equal(t, http.StatusTooManyRequests, last)

	// a different client key has its own bucket
	req, err := http.NewRequest(http.MethodGet, limited.URL+"/", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer other-client")
	resp, err := limited.Client().Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestErrorResponsesAreJSON(t *testing.T) {
	srv := newTestServer(t)
	resp, body := doJSON(t, srv, http.MethodPost, "/api/auth", "",
		map[string]string{"room_id": "R1", "country": "prussia"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "application/json")
	msg, ok := body["error"].(string)
	require.True(t, ok, "error body: %v", body)
	assert.NotEmpty(t, msg)
}
