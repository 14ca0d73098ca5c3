package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"classpick/internal/model"
	"classpick/pkg/apierror"
)

func TestCandidateCampaignNotFoundIsNil(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/campaigns/bob%20smith", r.URL.EscapedPath())
		writeJSON(w, http.StatusNotFound, model.ErrorResponse{Message: "campaign not found"})
	})

	campaign, err := client.CandidateCampaign(context.Background(), "tok", "bob smith")
	require.NoError(t, err)
	require.Nil(t, campaign)
}

func TestCandidateCampaignServerErrorSurfaces(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	campaign, err := client.CandidateCampaign(context.Background(), "tok", "alice")
	require.ErrorIs(t, err, apierror.ErrAPI)
	require.Equal(t, http.StatusInternalServerError, apierror.StatusOf(err))
	require.Nil(t, campaign)
}

func TestCandidateCampaignFound(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"campaign": map[string]any{"id": "c1", "title": "Hello", "content": "Vote for me"},
		})
	})

	campaign, err := client.CandidateCampaign(context.Background(), "tok", "alice")
	require.NoError(t, err)
	require.NotNil(t, campaign)
	require.Equal(t, "Vote for me", campaign.Description)
}

func TestCreateCampaignSendsBothBodyFields(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/campaigns", r.URL.Path)

		var req model.CreateCampaignRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "Title", req.Title)
		require.Equal(t, "Body", req.Description)
		require.Equal(t, "Body", req.Content)

		writeJSON(w, http.StatusCreated, model.CampaignResponse{Campaign: &model.Campaign{ID: "c1", Title: req.Title, Description: req.Description}})
	})

	campaign, err := client.CreateCampaign(context.Background(), "tok", " Title ", "Body")
	require.NoError(t, err)
	require.Equal(t, model.ID("c1"), campaign.ID)
}

func TestCreateCampaignValidation(t *testing.T) {
	t.Parallel()

	client, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})

	_, err := client.CreateCampaign(context.Background(), "tok", "", " ")
	require.ErrorIs(t, err, apierror.ErrValidation)
	require.Equal(t, "Please fill in: title, description.", apierror.Display(err))
	require.Zero(t, calls.Load())
}
