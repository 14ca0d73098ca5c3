package app

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"classpick/internal/config"
	"classpick/internal/model"
)

type backend struct {
	t       *testing.T
	handler http.Handler
}

func newBackend(t *testing.T) *backend {
	t.Helper()

	h, err := NewHandler(&config.MockAPIConfig{
		JWTSecret:      "app-test-secret",
		TokenTTL:       time.Hour,
		RequestTimeout: 5 * time.Second,
		CORSOrigins:    []string{"*"},
	})
	require.NoError(t, err)

	return &backend{t: t, handler: h}
}

func (b *backend) do(method string, path string, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	b.t.Helper()

	var payload bytes.Buffer
	if body != nil {
		require.NoError(b.t, json.NewEncoder(&payload).Encode(body))
	}

	req := httptest.NewRequest(method, path, &payload)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	b.handler.ServeHTTP(rec, req)

	var decoded map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &decoded)
	return rec, decoded
}

func (b *backend) register(username string) string {
	b.t.Helper()

	rec, body := b.do(http.MethodPost, "/auth/register", "", model.RegisterRequest{
		Username: username,
		Email:    username + "@school.fr",
		Password: "pw-" + username,
		Class:    "Ing 2",
	})
	require.Equal(b.t, http.StatusCreated, rec.Code, rec.Body.String())

	token, _ := body["access_token"].(string)
	require.NotEmpty(b.t, token)
	return token
}

func TestHealth(t *testing.T) {
	t.Parallel()

	rec, _ := newBackend(t).do(http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthFlow(t *testing.T) {
	t.Parallel()

	b := newBackend(t)
	token := b.register("alice")

	rec, body := b.do(http.MethodPost, "/auth/register", "", model.RegisterRequest{
		Username: "ALICE", Email: "other@school.fr", Password: "x",
	})
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, "Email or username already in use", body["message"])

	rec, body = b.do(http.MethodPost, "/auth/register", "", model.RegisterRequest{Username: "bob"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotEmpty(t, body["message"])

	rec, _ = b.do(http.MethodPost, "/auth/login", "", model.LoginRequest{Email: "alice@school.fr", Password: "nope"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, body = b.do(http.MethodPost, "/auth/login", "", model.LoginRequest{Email: "alice@school.fr", Password: "pw-alice"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, body["access_token"])

	rec, body = b.do(http.MethodGet, "/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "alice", body["user"].(map[string]any)["username"])

	rec, _ = b.do(http.MethodGet, "/me", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = b.do(http.MethodGet, "/me", "not-a-jwt", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCandidacyAndCampaigns(t *testing.T) {
	t.Parallel()

	b := newBackend(t)
	alice := b.register("alice")

	rec, body := b.do(http.MethodPost, "/campaigns", alice, model.CreateCampaignRequest{Title: "t", Description: "d"})
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, "Only candidates can publish a campaign", body["message"])

	rec, body = b.do(http.MethodPost, "/apply-delegate", alice, struct{}{})
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, "You are now a candidate", body["message"])

	rec, _ = b.do(http.MethodPost, "/", alice, struct{}{})
	require.Equal(t, http.StatusConflict, rec.Code)

	rec, _ = b.do(http.MethodGet, "/campaigns/alice", alice, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = b.do(http.MethodPost, "/campaigns", alice, model.CreateCampaignRequest{Title: "Vote Alice", Content: "Plus de pauses"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, _ = b.do(http.MethodPost, "/campaigns", alice, model.CreateCampaignRequest{Title: "Again", Description: "again"})
	require.Equal(t, http.StatusConflict, rec.Code)

	rec, body = b.do(http.MethodGet, "/campaigns/alice", alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	campaign := body["campaign"].(map[string]any)
	require.Equal(t, "Vote Alice", campaign["title"])
	require.Equal(t, "Plus de pauses", campaign["description"])

	rec, body = b.do(http.MethodGet, "/campaigns", alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, body["campaigns"], 1)
}

func TestVoting(t *testing.T) {
	t.Parallel()

	b := newBackend(t)
	alice := b.register("alice")
	bob := b.register("bob")
	carol := b.register("carol")

	for _, token := range []string{alice, bob} {
		rec, _ := b.do(http.MethodPost, "/apply-delegate", token, struct{}{})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec, _ := b.do(http.MethodPost, "/votes", carol, model.CastVoteRequest{Username: "carol"})
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec, body := b.do(http.MethodPost, "/votes", carol, model.CastVoteRequest{Username: " bob "})
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, "Vote recorded for bob", body["message"])

	rec, body = b.do(http.MethodPost, "/votes", carol, model.CastVoteRequest{Username: "alice"})
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, "You have already voted", body["message"])

	rec, _ = b.do(http.MethodGet, "/votes", carol, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp model.VotesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	tally := resp.Votes
	require.Len(t, tally, 2)
	require.Equal(t, "bob", tally[0].Candidate.Username)
	require.Equal(t, 1, tally[0].Count)
	require.Equal(t, "alice", tally[1].Candidate.Username)
	require.Equal(t, 0, tally[1].Count)
}
