package screen

import (
	"context"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"classpick/internal/event"
	"classpick/internal/model"
	"classpick/pkg/apierror"
)

const (
	defaultTitleWords = 6
	maxTitleRunes     = 60
)

type Profile struct {
	*base
	api API

	claims   model.TokenClaims
	campaign *model.Campaign
}

func NewProfile(api API, session Session, bus event.Bus) *Profile {
	return &Profile{base: newBase(RouteProfile, bus, session, StateLoading), api: api}
}

// Mount reads the username from the session and fetches that candidate's campaign, if any.
func (s *Profile) Mount(ctx context.Context) error {
	return s.run(ctx, TriggerLoad, func(ctx context.Context) (func(), error) {
		token, claims, err := s.session.Current()
		if err != nil {
			return nil, err
		}

		var campaign *model.Campaign
		if claims.Username != "" {
			campaign, err = s.api.CandidateCampaign(ctx, token, claims.Username)
			if err != nil {
				return nil, err
			}
		}

		return func() {
			s.claims = claims
			s.campaign = campaign
		}, nil
	})
}

func (s *Profile) Refresh(ctx context.Context) error {
	return s.Mount(ctx)
}

// Post publishes the candidate's campaign. An empty title is derived from the description.
func (s *Profile) Post(ctx context.Context, title string, description string) error {
	return s.run(ctx, TriggerSubmit, func(ctx context.Context) (func(), error) {
		description = strings.TrimSpace(description)
		if description == "" {
			return nil, apierror.Validation("description")
		}

		title = strings.TrimSpace(title)
		if title == "" {
			title = DefaultTitle(description)
		}

		token, claims, err := s.session.Current()
		if err != nil {
			return nil, err
		}

		campaign, err := s.api.CreateCampaign(ctx, token, title, description)
		if err != nil {
			return nil, err
		}
		if campaign == nil {
			campaign = &model.Campaign{
				Title:       title,
				Description: description,
				Candidate:   model.CandidateRef{ID: model.ID(claims.UserID), Username: claims.Username, Class: claims.Class},
				CreatedAt:   time.Now(),
			}
		}

		return func() {
			s.campaign = campaign
			s.publish(event.TypeCampaignCreated, campaign)
			s.notify(LevelSuccess, "Campaign published.")
		}, nil
	})
}

// Logout ends the session and returns to Login. The local session is gone even if storage fails.
func (s *Profile) Logout() error {
	err := s.session.SignOut()
	if err != nil {
		slog.Error("failed to clear session", "screen", s.name, "error", err)
	}

	s.mu.Lock()
	s.claims = model.TokenClaims{}
	s.campaign = nil
	s.mu.Unlock()

	s.publish(event.TypeSignedOut, nil)
	s.navigate(RouteLogin)
	if err != nil {
		s.notify(LevelError, apierror.Display(err))
		return err
	}

	s.notify(LevelInfo, "Signed out.")
	return nil
}

func (s *Profile) Username() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.claims.Username
}

// IsCandidate reports the advisory candidate claim; it only decides whether the post form is shown.
func (s *Profile) IsCandidate() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.claims.Candidate
}

func (s *Profile) Claims() model.TokenClaims {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.claims
}

// Campaign returns the published campaign, or nil when there is none yet.
func (s *Profile) Campaign() *model.Campaign {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.campaign
}

// DefaultTitle is the first few words of description, cut to a readable length.
func DefaultTitle(description string) string {
	words := strings.Fields(description)
	if len(words) > defaultTitleWords {
		words = words[:defaultTitleWords]
	}

	title := strings.Join(words, " ")
	if utf8.RuneCountInString(title) <= maxTitleRunes {
		return title
	}

	runes := []rune(title)
	return strings.TrimSpace(string(runes[:maxTitleRunes-1])) + "…"
}
