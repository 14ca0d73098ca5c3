package screen

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"classpick/internal/event"
	"classpick/internal/model"
	"classpick/internal/session"
	"classpick/internal/storage"
)

type mockAPI struct {
	mock.Mock
}

func (m *mockAPI) Register(ctx context.Context, req model.RegisterRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *mockAPI) Login(ctx context.Context, email string, password string) (string, error) {
	args := m.Called(ctx, email, password)
	return args.String(0), args.Error(1)
}

func (m *mockAPI) Me(ctx context.Context, token string) (*model.User, error) {
	args := m.Called(ctx, token)
	user, _ := args.Get(0).(*model.User)
	return user, args.Error(1)
}

func (m *mockAPI) ApplyDelegate(ctx context.Context, token string) (model.ApplyResponse, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(model.ApplyResponse), args.Error(1)
}

func (m *mockAPI) ListCampaigns(ctx context.Context, token string) ([]model.Campaign, error) {
	args := m.Called(ctx, token)
	campaigns, _ := args.Get(0).([]model.Campaign)
	return campaigns, args.Error(1)
}

func (m *mockAPI) CandidateCampaign(ctx context.Context, token string, username string) (*model.Campaign, error) {
	args := m.Called(ctx, token, username)
	campaign, _ := args.Get(0).(*model.Campaign)
	return campaign, args.Error(1)
}

func (m *mockAPI) CreateCampaign(ctx context.Context, token string, title string, description string) (*model.Campaign, error) {
	args := m.Called(ctx, token, title, description)
	campaign, _ := args.Get(0).(*model.Campaign)
	return campaign, args.Error(1)
}

func (m *mockAPI) CastVote(ctx context.Context, token string, username string) (string, error) {
	args := m.Called(ctx, token, username)
	return args.String(0), args.Error(1)
}

func (m *mockAPI) Votes(ctx context.Context, token string) ([]model.VoteTallyEntry, error) {
	args := m.Called(ctx, token)
	votes, _ := args.Get(0).([]model.VoteTallyEntry)
	return votes, args.Error(1)
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type fixture struct {
	api     *mockAPI
	session *session.Session
	bus     *event.Recorder
	clock   *testClock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	backend, err := storage.New(t.TempDir())
	require.NoError(t, err)

	clock := &testClock{now: time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)}
	return &fixture{
		api:     &mockAPI{},
		session: session.New(session.NewStore(backend), session.WithClock(clock.Now)),
		bus:     &event.Recorder{},
		clock:   clock,
	}
}

func (f *fixture) token(t *testing.T, username string, candidate bool) string {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":       "id-" + username,
		"username":  username,
		"email":     username + "@school.fr",
		"class":     "Ing 2",
		"candidate": candidate,
		"voted":     false,
		"iat":       f.clock.Now().Unix(),
		"exp":       f.clock.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("screen-test"))
	require.NoError(t, err)
	return token
}

// signIn starts the fixture signed in as username and returns the token.
func (f *fixture) signIn(t *testing.T, username string, candidate bool) string {
	t.Helper()

	token := f.token(t, username, candidate)
	_, err := f.session.SignIn(token)
	require.NoError(t, err)
	return token
}

func (f *fixture) notifications() []Notification {
	var out []Notification
	for _, e := range f.bus.OfType(event.TypeNotification) {
		out = append(out, e.Payload.(Notification))
	}
	return out
}

func (f *fixture) navigations() []Route {
	var out []Route
	for _, e := range f.bus.OfType(event.TypeNavigation) {
		out = append(out, e.Payload.(Navigation).To)
	}
	return out
}
