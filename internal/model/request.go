package model

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username"`
	Class    string `json:"class"`
}

// CreateCampaignRequest carries the description twice: some backends read content.
type CreateCampaignRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content,omitempty"`
}

type CastVoteRequest struct {
	Username string `json:"username"`
}
