//go:build integration

package integration

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"classpick/internal/config"
	"classpick/internal/event"
	"classpick/internal/gateway"
	"classpick/internal/handler"
	"classpick/internal/middleware"
	"classpick/internal/model"
	"classpick/internal/repository"
	"classpick/internal/router"
	"classpick/internal/screen"
	"classpick/internal/service"
	"classpick/internal/session"
	"classpick/internal/storage"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()

	users := repository.NewUserRepository()
	authService, err := service.NewAuthService("test-secret", time.Hour, users)
	require.NoError(t, err)
	electionService := service.NewElectionService(users, repository.NewCampaignRepository(), repository.NewVoteRepository())

	cfg := &config.MockAPIConfig{
		ServerPort:       "3000",
		RequestTimeout:   10 * time.Second,
		JWTSecret:        "test-secret",
		TokenTTL:         time.Hour,
		CORSOrigins:      []string{"*"},
		RateLimitRPM:     1000,
		AuthRateLimitRPM: 1000,
		LogLevel:         "info",
	}

	server := httptest.NewServer(router.New(cfg, middleware.NewAuthMiddleware(authService), router.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		Campaign: handler.NewCampaignHandler(electionService),
		Vote:     handler.NewVoteHandler(electionService),
	}))
	t.Cleanup(server.Close)

	return server
}

// device is one installation of the client: its own secure storage, session and event stream.
type device struct {
	api     *gateway.Client
	session *session.Session
	events  *event.Recorder
	now     time.Time
}

func newDevice(t *testing.T, server *httptest.Server, opts ...gateway.Option) *device {
	t.Helper()

	backend, err := storage.New(t.TempDir())
	require.NoError(t, err)

	d := &device{events: &event.Recorder{}, now: time.Now()}
	d.session = session.New(session.NewStore(backend), session.WithClock(func() time.Time { return d.now }))
	require.NoError(t, d.session.Init())

	opts = append([]gateway.Option{gateway.WithHTTPClient(gateway.NewHTTPClient(5*time.Second, 6000))}, opts...)
	d.api = gateway.New(server.URL, opts...)

	return d
}

func (d *device) signup(t *testing.T, username string) {
	t.Helper()

	err := screen.NewSignup(d.api, d.session, d.events).Submit(t.Context(), screen.SignupForm{
		Username: username,
		Email:    username + "@school.fr",
		Password: "pw-" + username,
		Class:    "Ing 2",
	})
	require.NoError(t, err)
	require.True(t, d.session.Authenticated())
}

func (d *device) apply(t *testing.T) {
	t.Helper()

	home := screen.NewHome(d.api, d.session, d.events)
	require.NoError(t, home.Mount(t.Context()))
	require.NoError(t, home.Apply(t.Context()))
	require.True(t, home.IsCandidate())
}

func (d *device) lastNotification(t *testing.T) screen.Notification {
	t.Helper()

	notes := d.events.OfType(event.TypeNotification)
	require.NotEmpty(t, notes)
	return notes[len(notes)-1].Payload.(screen.Notification)
}

func (d *device) navigations() []screen.Route {
	var out []screen.Route
	for _, e := range d.events.OfType(event.TypeNavigation) {
		out = append(out, e.Payload.(screen.Navigation).To)
	}
	return out
}

func usernames(campaigns []model.Campaign) []string {
	out := make([]string, 0, len(campaigns))
	for _, c := range campaigns {
		out = append(out, c.Candidate.Username)
	}
	return out
}
