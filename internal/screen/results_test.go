package screen

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"classpick/internal/model"
)

func entry(username string, count int) model.VoteTallyEntry {
	return model.VoteTallyEntry{Candidate: model.CandidateRef{Username: username}, Count: count}
}

func TestResultsMountSummarises(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	token := f.signIn(t, "ines", false)
	f.api.On("Votes", mock.Anything, token).Return([]model.VoteTallyEntry{entry("A", 3), entry("B", 1)}, nil)

	screen := NewResults(f.api, f.session, f.bus)
	require.NoError(t, screen.Mount(context.Background()))

	summary := screen.Summary()
	require.Equal(t, 4, summary.Total)
	leader, ok := summary.Leader()
	require.True(t, ok)
	require.Equal(t, "A", leader.Entry.Candidate.Username)
	require.InDelta(t, 75.0, leader.Percent(), 1e-9)
}

func TestResultsPanicBecomesNotification(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.signIn(t, "ines", false)
	f.api.On("Votes", mock.Anything, mock.Anything).Run(func(mock.Arguments) { panic("boom") })

	screen := NewResults(f.api, f.session, f.bus)
	require.NotPanics(t, func() {
		require.Error(t, screen.Mount(context.Background()))
	})
	require.Equal(t, StateError, screen.State())
	require.Equal(t, []Notification{{Level: LevelError, Message: "An unknown error occurred."}}, f.notifications())
}

func TestResultsWithoutSessionGoesToLogin(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	screen := NewResults(f.api, f.session, f.bus)

	require.Error(t, screen.Mount(context.Background()))
	require.Equal(t, []Route{RouteLogin}, f.navigations())
	require.Equal(t, "Please sign in to continue.", f.notifications()[0].Message)
}
