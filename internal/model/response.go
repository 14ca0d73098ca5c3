package model

type AuthResponse struct {
	AccessToken string `json:"access_token"`
}

type MeResponse struct {
	User *User `json:"user"`
}

type ApplyResponse struct {
	Message string `json:"message"`
	User    *User  `json:"user,omitempty"`
}

type CampaignsResponse struct {
	Campaigns []Campaign `json:"campaigns"`
}

type CampaignResponse struct {
	Campaign *Campaign `json:"campaign"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type VotesResponse struct {
	Votes []VoteTallyEntry `json:"votes"`
}

// ErrorResponse is what the server sends with a non-2xx status. Some handlers use error instead of message.
type ErrorResponse struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Text returns whichever of the two fields the server filled in.
func (r ErrorResponse) Text() string {
	if r.Message != "" {
		return r.Message
	}

	return r.Error
}
