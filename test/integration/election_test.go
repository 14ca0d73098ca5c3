//go:build integration

package integration

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"classpick/internal/event"
	"classpick/internal/gateway"
	"classpick/internal/screen"
	"classpick/pkg/apierror"
)

func TestElectionEndToEnd(t *testing.T) {
	server := newServer(t)

	alice := newDevice(t, server)
	alice.signup(t, "alice")
	alice.apply(t)

	bob := newDevice(t, server)
	bob.signup(t, "bob")
	bob.apply(t)

	profile := screen.NewProfile(alice.api, alice.session, alice.events)
	require.NoError(t, profile.Mount(t.Context()))
	require.Nil(t, profile.Campaign())
	require.NoError(t, profile.Post(t.Context(), "", "Une cafétéria ouverte le samedi et des casiers pour tous"))
	require.Equal(t, "Une cafétéria ouverte le samedi et", profile.Campaign().Title)

	profile = screen.NewProfile(alice.api, alice.session, alice.events)
	require.NoError(t, profile.Mount(t.Context()))
	require.NotNil(t, profile.Campaign())
	require.Equal(t, "alice", profile.Campaign().Candidate.Username)

	carol := newDevice(t, server)
	carol.signup(t, "carol")

	feed := screen.NewFeed(carol.api, carol.session, carol.events)
	require.NoError(t, feed.Mount(t.Context()))
	require.Equal(t, []string{"alice"}, usernames(feed.Campaigns()))

	require.NoError(t, feed.Vote(t.Context(), "alice"))
	require.Equal(t, screen.Notification{Level: screen.LevelSuccess, Message: "Vote recorded for alice"}, carol.lastNotification(t))
	require.Len(t, carol.events.OfType(event.TypeVoteCast), 1)

	err := feed.Vote(t.Context(), "bob")
	require.Equal(t, http.StatusConflict, apierror.StatusOf(err))
	require.Equal(t, "You have already voted", carol.lastNotification(t).Message)
	require.Equal(t, screen.StateReady, feed.State())

	bobFeed := screen.NewFeed(bob.api, bob.session, bob.events)
	require.NoError(t, bobFeed.Mount(t.Context()))
	require.NoError(t, bobFeed.Vote(t.Context(), "alice"))

	results := screen.NewResults(carol.api, carol.session, carol.events)
	require.NoError(t, results.Mount(t.Context()))

	summary := results.Summary()
	require.Equal(t, 2, summary.Total)
	leader, ok := summary.Leader()
	require.True(t, ok)
	require.Equal(t, "alice", leader.Entry.Candidate.Username)
	require.InDelta(t, 1.0, leader.Share, 1e-9)
	require.Len(t, summary.Rows, 2)
	require.Equal(t, "bob", summary.Rows[1].Entry.Candidate.Username)
}

func TestLoginRestoresAcrossDevices(t *testing.T) {
	server := newServer(t)

	first := newDevice(t, server)
	first.signup(t, "dana")

	second := newDevice(t, server)
	login := screen.NewLogin(second.api, second.session, second.events)

	err := login.Submit(t.Context(), screen.LoginForm{Email: "dana@school.fr", Password: "wrong"})
	require.Equal(t, http.StatusUnauthorized, apierror.StatusOf(err))
	require.Equal(t, "Invalid credentials", second.lastNotification(t).Message)
	require.False(t, second.session.Authenticated())

	require.NoError(t, login.Submit(t.Context(), screen.LoginForm{Email: " dana@school.fr ", Password: "pw-dana"}))
	require.Equal(t, []screen.Route{screen.RouteHome}, second.navigations())

	claims, ok := second.session.Claims()
	require.True(t, ok)
	require.Equal(t, "dana", claims.Username)
	require.Equal(t, "Ing 2", claims.Class)
}

func TestExpiredSessionSignsOut(t *testing.T) {
	server := newServer(t)

	d := newDevice(t, server)
	d.signup(t, "erin")
	d.now = d.now.Add(2 * time.Hour)

	results := screen.NewResults(d.api, d.session, d.events)
	err := results.Mount(t.Context())
	require.Equal(t, apierror.KindSessionExpired, apierror.KindOf(err))
	require.Equal(t, screen.StateError, results.State())
	require.Contains(t, d.navigations(), screen.RouteLogin)
	require.Len(t, d.events.OfType(event.TypeSignedOut), 1)

	_, ok := d.session.Claims()
	require.False(t, ok)
}

func TestApplyAtRootPath(t *testing.T) {
	server := newServer(t)

	d := newDevice(t, server, gateway.WithApplyPath("/"))
	d.signup(t, "fred")
	d.apply(t)

	home := screen.NewHome(d.api, d.session, d.events)
	require.NoError(t, home.Mount(t.Context()))
	require.True(t, home.User().Candidate)
	require.Equal(t, http.StatusConflict, apierror.StatusOf(home.Apply(t.Context())))
}

func TestServerUnreachable(t *testing.T) {
	server := newServer(t)
	d := newDevice(t, server)
	d.signup(t, "gina")
	server.Close()

	feed := screen.NewFeed(d.api, d.session, d.events)
	err := feed.Mount(t.Context())
	require.Equal(t, apierror.KindNetwork, apierror.KindOf(err))
	require.Equal(t, apierror.Display(err), d.lastNotification(t).Message)
	require.True(t, d.session.Authenticated())
}
