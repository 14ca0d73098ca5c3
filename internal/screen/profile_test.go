package screen

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"classpick/internal/event"
	"classpick/internal/model"
	"classpick/pkg/apierror"
)

func TestProfileWithoutCampaign(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	token := f.signIn(t, "ines", true)
	f.api.On("CandidateCampaign", mock.Anything, token, "ines").Return(nil, nil)

	screen := NewProfile(f.api, f.session, f.bus)
	require.NoError(t, screen.Mount(context.Background()))
	require.Equal(t, StateReady, screen.State())
	require.Equal(t, "ines", screen.Username())
	require.True(t, screen.IsCandidate())
	require.Nil(t, screen.Campaign())
	require.Empty(t, f.notifications())
}

func TestProfileServerErrorNotifies(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.signIn(t, "ines", true)
	f.api.On("CandidateCampaign", mock.Anything, mock.Anything, "ines").
		Return(nil, apierror.API(http.StatusInternalServerError, ""))

	screen := NewProfile(f.api, f.session, f.bus)
	require.Error(t, screen.Mount(context.Background()))
	require.Equal(t, StateError, screen.State())
	require.Equal(t, []Notification{{Level: LevelError, Message: "Request failed: Internal Server Error."}}, f.notifications())
}

func TestProfilePostDefaultsTitle(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	token := f.signIn(t, "ines", true)
	description := "More vegetarian options and a yearly sports day between classes"
	title := "More vegetarian options and a yearly"
	created := &model.Campaign{ID: "c1", Title: title, Description: description}

	f.api.On("CandidateCampaign", mock.Anything, token, "ines").Return(nil, nil)
	f.api.On("CreateCampaign", mock.Anything, token, title, description).Return(created, nil).Once()

	screen := NewProfile(f.api, f.session, f.bus)
	require.NoError(t, screen.Mount(context.Background()))
	require.NoError(t, screen.Post(context.Background(), "  ", description))

	require.Equal(t, created, screen.Campaign())
	require.Len(t, f.bus.OfType(event.TypeCampaignCreated), 1)
	require.Equal(t, LevelSuccess, f.notifications()[0].Level)
	f.api.AssertExpectations(t)
}

func TestProfilePostRequiresDescription(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.signIn(t, "ines", true)
	f.api.On("CandidateCampaign", mock.Anything, mock.Anything, "ines").Return(nil, nil)

	screen := NewProfile(f.api, f.session, f.bus)
	require.NoError(t, screen.Mount(context.Background()))

	err := screen.Post(context.Background(), "Title", " ")
	require.ErrorIs(t, err, apierror.ErrValidation)
	require.Equal(t, "Please fill in: description.", f.notifications()[0].Message)
	f.api.AssertNotCalled(t, "CreateCampaign", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestProfilePostWithoutCampaignInResponse(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.signIn(t, "ines", true)
	f.api.On("CandidateCampaign", mock.Anything, mock.Anything, "ines").Return(nil, nil)
	f.api.On("CreateCampaign", mock.Anything, mock.Anything, "Hello", "World").Return(nil, nil)

	screen := NewProfile(f.api, f.session, f.bus)
	require.NoError(t, screen.Mount(context.Background()))
	require.NoError(t, screen.Post(context.Background(), "Hello", "World"))

	campaign := screen.Campaign()
	require.NotNil(t, campaign)
	require.Equal(t, "ines", campaign.Candidate.Username)
	require.Equal(t, "World", campaign.Description)
}

func TestProfileLogout(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.signIn(t, "ines", true)

	screen := NewProfile(f.api, f.session, f.bus)
	require.NoError(t, screen.Logout())
	require.False(t, f.session.Authenticated())
	require.Equal(t, []Route{RouteLogin}, f.navigations())
	require.Len(t, f.bus.OfType(event.TypeSignedOut), 1)
}

func TestDefaultTitle(t *testing.T) {
	t.Parallel()

	require.Equal(t, "Short pitch", DefaultTitle("  Short   pitch "))
	require.Equal(t, "one two three four five six", DefaultTitle("one two three four five six seven"))

	long := DefaultTitle(strings.Repeat("a", 80))
	require.Equal(t, 60, len([]rune(long)))
	require.True(t, strings.HasSuffix(long, "…"))
}
