package model

import "time"

// Account is a user as the development backend stores it.
type Account struct {
	ID           string
	Username     string
	Email        string
	Class        string
	PasswordHash string
	Candidate    bool
	Voted        bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Public strips the password hash.
func (a Account) Public() User {
	return User{
		ID:        ID(a.ID),
		Username:  a.Username,
		Email:     a.Email,
		Class:     a.Class,
		Candidate: a.Candidate,
		Voted:     a.Voted,
	}
}

// Ref is how campaigns and tallies refer to a candidate.
func (a Account) Ref() CandidateRef {
	return CandidateRef{ID: ID(a.ID), Username: a.Username, Class: a.Class}
}

// AuthClaims is what the backend's auth middleware puts in the request context.
type AuthClaims struct {
	UserID   string `json:"sub"`
	Username string `json:"username"`
	TokenID  string `json:"jti"`
}
