package screen

import (
	"context"

	"classpick/internal/model"
)

// Route names a screen the UI can navigate to.
type Route string

const (
	RouteLogin   Route = "login"
	RouteSignup  Route = "signup"
	RouteHome    Route = "home"
	RouteFeed    Route = "feed"
	RouteProfile Route = "profile"
	RouteResults Route = "results"
)

type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notification is the payload of event.TypeNotification.
type Notification struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// Navigation is the payload of event.TypeNavigation.
type Navigation struct {
	To Route `json:"to"`
}

// StateChange is the payload of event.TypeStateChanged.
type StateChange struct {
	From State `json:"from"`
	To   State `json:"to"`
}

// Session is the slice of the process-wide session the screens need.
type Session interface {
	SignIn(token string) (model.TokenClaims, error)
	SignOut() error
	Current() (string, model.TokenClaims, error)
}

// API is the set of backend calls the screens make. *gateway.Client implements it.
type API interface {
	Register(ctx context.Context, req model.RegisterRequest) (string, error)
	Login(ctx context.Context, email string, password string) (string, error)
	Me(ctx context.Context, token string) (*model.User, error)
	ApplyDelegate(ctx context.Context, token string) (model.ApplyResponse, error)
	ListCampaigns(ctx context.Context, token string) ([]model.Campaign, error)
	CandidateCampaign(ctx context.Context, token string, username string) (*model.Campaign, error)
	CreateCampaign(ctx context.Context, token string, title string, description string) (*model.Campaign, error)
	CastVote(ctx context.Context, token string, username string) (string, error)
	Votes(ctx context.Context, token string) ([]model.VoteTallyEntry, error)
}
