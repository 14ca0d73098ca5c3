package model

import "errors"

var (
	// User related errors
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Candidacy related errors
	ErrAlreadyCandidate  = errors.New("already a candidate")
	ErrNotCandidate      = errors.New("not a candidate")
	ErrCandidateNotFound = errors.New("candidate not found")

	// Campaign related errors
	ErrCampaignNotFound = errors.New("campaign not found")
	ErrCampaignExists   = errors.New("campaign already published")

	// Vote related errors
	ErrAlreadyVoted = errors.New("already voted")

	// Permission/Access related errors
	ErrUnauthorized = errors.New("unauthorized")

	// Generic errors
	ErrInvalidInput = errors.New("invalid input")
)
