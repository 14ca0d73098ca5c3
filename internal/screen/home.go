package screen

import (
	"context"

	"classpick/internal/event"
	"classpick/internal/model"
	"classpick/pkg/apierror"
)

type Home struct {
	*base
	api API

	user        *model.User
	isCandidate bool
}

func NewHome(api API, session Session, bus event.Bus) *Home {
	return &Home{base: newBase(RouteHome, bus, session, StateLoading), api: api}
}

// Mount fetches the current user. Without a session the screen is simply not a candidate.
func (s *Home) Mount(ctx context.Context) error {
	return s.run(ctx, TriggerLoad, func(ctx context.Context) (func(), error) {
		token, err := s.currentToken()
		if apierror.KindOf(err) == apierror.KindUnauthenticated {
			return func() {
				s.user = nil
				s.isCandidate = false
			}, nil
		}
		if err != nil {
			return nil, err
		}

		user, err := s.api.Me(ctx, token)
		if err != nil {
			return nil, err
		}

		return func() {
			s.user = user
			s.isCandidate = user != nil && user.Candidate
		}, nil
	})
}

func (s *Home) Refresh(ctx context.Context) error {
	return s.Mount(ctx)
}

// Apply registers the user as a candidate.
func (s *Home) Apply(ctx context.Context) error {
	return s.run(ctx, TriggerSubmit, func(ctx context.Context) (func(), error) {
		token, err := s.currentToken()
		if err != nil {
			return nil, err
		}

		resp, err := s.api.ApplyDelegate(ctx, token)
		if err != nil {
			return nil, err
		}

		return func() {
			s.isCandidate = true
			if resp.User != nil {
				s.user = resp.User
			}

			msg := resp.Message
			if msg == "" {
				msg = "You are now a candidate."
			}
			s.publish(event.TypeCandidateApplied, resp.User)
			s.notify(LevelSuccess, msg)
		}, nil
	})
}

// Navigate follows one of the Home shortcuts. Profile is only offered to candidates.
func (s *Home) Navigate(to Route) bool {
	switch to {
	case RouteFeed, RouteResults:
	case RouteProfile:
		if !s.IsCandidate() {
			return false
		}
	default:
		return false
	}

	s.navigate(to)
	return true
}

func (s *Home) IsCandidate() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.isCandidate
}

// User returns the last fetched user, or nil.
func (s *Home) User() *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.user
}
