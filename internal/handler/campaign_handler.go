package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"classpick/internal/middleware"
	"classpick/internal/model"
	"classpick/internal/service"
)

type CampaignHandler struct {
	service *service.ElectionService
}

func NewCampaignHandler(service *service.ElectionService) *CampaignHandler {
	return &CampaignHandler{service: service}
}

func (h *CampaignHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, model.CampaignsResponse{Campaigns: h.service.ListCampaigns(r.Context())})
}

func (h *CampaignHandler) ByCandidate(w http.ResponseWriter, r *http.Request) {
	campaign, err := h.service.CandidateCampaign(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.CampaignResponse{Campaign: &campaign})
}

func (h *CampaignHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthorized)
		return
	}

	var payload model.CreateCampaignRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	campaign, err := h.service.CreateCampaign(r.Context(), claims.UserID, payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, model.CampaignResponse{Campaign: &campaign})
}
