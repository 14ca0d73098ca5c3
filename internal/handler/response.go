package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"classpick/internal/model"
	"classpick/pkg/apierror"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError maps domain errors to a status and a {"message": ...} body.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "Unexpected server error"

	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatus != 0 {
		status = apiErr.HTTPStatus
		message = apiErr.Message
	} else if errors.Is(err, model.ErrInvalidCredentials) {
		status = http.StatusUnauthorized
		message = "Invalid credentials"
	} else if errors.Is(err, model.ErrUnauthorized) {
		status = http.StatusUnauthorized
		message = "Authentication required"
	} else if errors.Is(err, model.ErrUserAlreadyExists) {
		status = http.StatusConflict
		message = "Email or username already in use"
	} else if errors.Is(err, model.ErrUserNotFound) {
		status = http.StatusNotFound
		message = "User not found"
	} else if errors.Is(err, model.ErrAlreadyCandidate) {
		status = http.StatusConflict
		message = "You are already a candidate"
	} else if errors.Is(err, model.ErrNotCandidate) {
		status = http.StatusForbidden
		message = "Only candidates can publish a campaign"
	} else if errors.Is(err, model.ErrCandidateNotFound) {
		status = http.StatusNotFound
		message = "Candidate not found"
	} else if errors.Is(err, model.ErrCampaignNotFound) {
		status = http.StatusNotFound
		message = "Campaign not found"
	} else if errors.Is(err, model.ErrCampaignExists) {
		status = http.StatusConflict
		message = "You have already published a campaign"
	} else if errors.Is(err, model.ErrAlreadyVoted) {
		status = http.StatusConflict
		message = "You have already voted"
	} else if errors.Is(err, model.ErrInvalidInput) {
		status = http.StatusBadRequest
		message = "Invalid input"
	} else {
		slog.Error("unhandled error in writeError", "error", err.Error())
	}

	writeJSON(w, status, model.ErrorResponse{Message: message})
}

func decodeJSON(r *http.Request, into any) error {
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(into); err != nil {
		return apierror.New(apierror.KindValidation, "invalid JSON body", "", http.StatusBadRequest)
	}
	return nil
}
