package model

import "time"

type User struct {
	ID        ID     `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Class     string `json:"class"`
	Candidate bool   `json:"candidate"`
	Voted     bool   `json:"voted"`
}

// TokenClaims is the decoded payload of a session token. It is advisory: it gates what the
// client shows, the server decides what the user may do.
type TokenClaims struct {
	UserID    string
	Username  string
	Email     string
	Class     string
	Candidate bool
	Voted     bool
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Expired reports whether the token is past its expiry at now. Tokens without exp never expire here.
func (c TokenClaims) Expired(now time.Time) bool {
	if c.ExpiresAt.IsZero() {
		return false
	}

	return !now.Before(c.ExpiresAt)
}

// Classes offered at sign-up.
var Classes = []string{"Prépa 1", "Prépa 2", "Ing 1", "Ing 2", "Ing 3"}
