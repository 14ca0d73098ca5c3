package handler

import (
	"net/http"
	"strings"

	"classpick/internal/middleware"
	"classpick/internal/model"
	"classpick/internal/service"
)

type VoteHandler struct {
	service *service.ElectionService
}

func NewVoteHandler(service *service.ElectionService) *VoteHandler {
	return &VoteHandler{service: service}
}

func (h *VoteHandler) Cast(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthorized)
		return
	}

	var payload model.CastVoteRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	if err := h.service.CastVote(r.Context(), claims.UserID, payload.Username); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, model.MessageResponse{Message: "Vote recorded for " + strings.TrimSpace(payload.Username)})
}

func (h *VoteHandler) Tally(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, model.VotesResponse{Votes: h.service.Tally(r.Context())})
}
