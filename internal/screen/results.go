package screen

import (
	"context"

	"classpick/internal/event"
	"classpick/internal/tally"
)

type Results struct {
	*base
	api API

	summary tally.Summary
}

func NewResults(api API, session Session, bus event.Bus) *Results {
	return &Results{base: newBase(RouteResults, bus, session, StateLoading), api: api}
}

func (s *Results) Mount(ctx context.Context) error {
	return s.run(ctx, TriggerLoad, func(ctx context.Context) (func(), error) {
		token, err := s.currentToken()
		if err != nil {
			return nil, err
		}

		votes, err := s.api.Votes(ctx, token)
		if err != nil {
			return nil, err
		}

		summary := tally.Summarize(votes)
		return func() {
			s.summary = summary
		}, nil
	})
}

func (s *Results) Refresh(ctx context.Context) error {
	return s.Mount(ctx)
}

func (s *Results) Summary() tally.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.summary
}
