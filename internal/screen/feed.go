package screen

import (
	"context"
	"strings"

	"classpick/internal/event"
	"classpick/internal/model"
)

type Feed struct {
	*base
	api API

	campaigns []model.Campaign
}

func NewFeed(api API, session Session, bus event.Bus) *Feed {
	return &Feed{base: newBase(RouteFeed, bus, session, StateLoading), api: api}
}

func (s *Feed) Mount(ctx context.Context) error {
	return s.run(ctx, TriggerLoad, func(ctx context.Context) (func(), error) {
		token, err := s.currentToken()
		if err != nil {
			return nil, err
		}

		campaigns, err := s.api.ListCampaigns(ctx, token)
		if err != nil {
			return nil, err
		}

		return func() {
			s.campaigns = campaigns
		}, nil
	})
}

func (s *Feed) Refresh(ctx context.Context) error {
	return s.Mount(ctx)
}

// Vote casts the user's vote for the candidate named username. The server decides whether the user
// may still vote.
func (s *Feed) Vote(ctx context.Context, username string) error {
	return s.run(ctx, TriggerSubmit, func(ctx context.Context) (func(), error) {
		token, err := s.currentToken()
		if err != nil {
			return nil, err
		}

		username = strings.TrimSpace(username)
		msg, err := s.api.CastVote(ctx, token, username)
		if err != nil {
			return nil, err
		}

		return func() {
			if msg == "" {
				msg = "Your vote has been recorded."
			}
			s.publish(event.TypeVoteCast, username)
			s.notify(LevelSuccess, msg)
		}, nil
	})
}

func (s *Feed) Campaigns() []model.Campaign {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]model.Campaign(nil), s.campaigns...)
}

// Voted reports the advisory voted claim of the current session.
func (s *Feed) Voted() bool {
	_, claims, err := s.session.Current()
	return err == nil && claims.Voted
}
