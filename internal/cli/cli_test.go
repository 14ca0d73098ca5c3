package cli

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"classpick/internal/app"
	"classpick/internal/config"
	"classpick/internal/gateway"
	"classpick/internal/session"
	"classpick/internal/storage"
	"classpick/internal/view"
	"classpick/pkg/apierror"
)

type harness struct {
	server   *httptest.Server
	stateDir string
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	h, err := app.NewHandler(&config.MockAPIConfig{
		JWTSecret:      "cli-test-secret",
		TokenTTL:       time.Hour,
		RequestTimeout: 5 * time.Second,
		CORSOrigins:    []string{"*"},
	})
	require.NoError(t, err)

	server := httptest.NewServer(h)
	t.Cleanup(server.Close)

	return &harness{server: server, stateDir: t.TempDir()}
}

// run executes one command the way a fresh process would: the session is reloaded from disk.
func (h *harness) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	backend, err := storage.New(h.stateDir)
	require.NoError(t, err)

	sess := session.New(session.NewStore(backend))
	require.NoError(t, sess.Init())

	var out bytes.Buffer
	c := NewWithDeps(gateway.New(h.server.URL), sess, view.New(&out, "fr"), strings.NewReader(stdin), &out)

	err = c.Run(context.Background(), args)
	return out.String(), err
}

func (h *harness) mustRun(t *testing.T, args ...string) string {
	t.Helper()

	out, err := h.run(t, "", args...)
	require.NoError(t, err, out)
	return out
}

func TestElectionRoundTrip(t *testing.T) {
	t.Parallel()

	h := newHarness(t)

	out := h.mustRun(t, "signup", "-username", "Jean Dupont", "-email", "jean@school.fr", "-password", "secret", "-class", "Ing 2")
	require.Contains(t, out, "→ home")

	out = h.mustRun(t, "apply")
	require.Contains(t, out, "✓ You are now a candidate")
	require.Contains(t, out, "Status: candidate")

	out, err := h.run(t, "Élisez-moi pour une cafétéria ouverte le samedi matin", "post")
	require.NoError(t, err, out)
	require.Contains(t, out, "✓ Campaign published.")
	require.Contains(t, out, "Élisez-moi pour une cafétéria ouverte le")

	out = h.mustRun(t, "feed")
	require.Contains(t, out, "[J.D]  Jean Dupont · Ing 2")
	require.Contains(t, out, "vote: classpick vote Jean Dupont")

	h.mustRun(t, "logout")
	h.mustRun(t, "signup", "-username", "marie", "-email", "marie@school.fr", "-password", "secret", "-class", "Ing 1")

	out = h.mustRun(t, "vote", "Jean Dupont")
	require.Contains(t, out, "✓ Vote recorded for Jean Dupont")

	out, err = h.run(t, "", "vote", "Jean Dupont")
	require.Equal(t, apierror.KindAPI, apierror.KindOf(err))
	require.Equal(t, http.StatusConflict, apierror.StatusOf(err))
	require.Contains(t, out, "✗ You have already voted")

	out = h.mustRun(t, "results")
	require.Contains(t, out, "1 votes")
	require.Contains(t, out, "Leader: Jean Dupont")
	require.Contains(t, out, "100,0%")
}

func TestLoginPersistsSession(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.mustRun(t, "signup", "-username", "paul", "-email", "paul@school.fr", "-password", "pw", "-class", "Prépa 1")
	h.mustRun(t, "logout")

	out := h.mustRun(t, "whoami")
	require.Contains(t, out, "Not signed in.")

	out, err := h.run(t, "", "login", "-email", "paul@school.fr", "-password", "wrong")
	require.Error(t, err)
	require.Contains(t, out, "✗ Invalid credentials")

	h.mustRun(t, "login", "-email", "paul@school.fr", "-password", "pw")

	out = h.mustRun(t, "whoami")
	require.Contains(t, out, "paul (paul@school.fr), class Prépa 1, candidate: no, voted: no")
}

func TestLoginPromptsForMissingFields(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.mustRun(t, "signup", "-username", "lea", "-email", "lea@school.fr", "-password", "pw", "-class", "Ing 3")
	h.mustRun(t, "logout")

	out, err := h.run(t, "lea@school.fr\npw\n", "login")
	require.NoError(t, err, out)
	require.Contains(t, out, "Email: ")
	require.Contains(t, out, "→ home")
}

func TestSignedOutCommandsGoToLogin(t *testing.T) {
	t.Parallel()

	h := newHarness(t)

	for _, cmd := range []string{"feed", "results", "profile"} {
		out, err := h.run(t, "", cmd)
		require.Equal(t, apierror.KindUnauthenticated, apierror.KindOf(err), cmd)
		require.Contains(t, out, "→ login", cmd)
		require.Contains(t, out, "Please sign in to continue.", cmd)
	}
}

func TestValidationNeverReachesServer(t *testing.T) {
	t.Parallel()

	h := newHarness(t)

	out, err := h.run(t, "", "login", "-email", "someone@school.fr", "-password", " ")
	require.Equal(t, apierror.KindValidation, apierror.KindOf(err))
	require.Contains(t, out, "✗ Please fill in: password.")

	out, err = h.run(t, "\n", "login", "-email", "someone@school.fr")
	require.Equal(t, apierror.KindValidation, apierror.KindOf(err))
	require.Contains(t, out, "Password: ")
	require.Contains(t, out, "Please fill in: password.")
}

func TestPostRequiresCandidacy(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.mustRun(t, "signup", "-username", "tom", "-email", "tom@school.fr", "-password", "pw", "-class", "Ing 1")

	out, err := h.run(t, "", "post", "-description", "hello")
	require.Equal(t, http.StatusForbidden, apierror.StatusOf(err))
	require.Contains(t, out, "✗ Only candidates can publish a campaign")
}

func TestUsage(t *testing.T) {
	t.Parallel()

	h := newHarness(t)

	out, err := h.run(t, "")
	require.ErrorIs(t, err, ErrUsage)
	require.Contains(t, out, "usage: classpick")

	_, err = h.run(t, "", "dance")
	require.ErrorIs(t, err, ErrUsage)

	_, err = h.run(t, "", "vote")
	require.ErrorIs(t, err, ErrUsage)

	out = h.mustRun(t, "classes")
	require.Equal(t, "Prépa 1\nPrépa 2\nIng 1\nIng 2\nIng 3\n", out)
}

func TestCorruptedSessionStartsSignedOut(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.mustRun(t, "signup", "-username", "nina", "-email", "nina@school.fr", "-password", "pw", "-class", "Ing 2")

	path := filepath.Join(h.stateDir, "token.sealed")
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	raw[len(raw)-1] ^= 0xff
	require.NoError(t, os.WriteFile(path, raw, 0o600))

	var out bytes.Buffer
	c, err := New(&config.Config{
		APIBaseURL: h.server.URL,
		StateDir:   h.stateDir,
		ApplyPath:  "/apply-delegate",
		Locale:     "fr",
		NoColor:    true,
	}, strings.NewReader(""), &out)
	require.NoError(t, err)
	require.Contains(t, out.String(), "• Your session is invalid. Please sign in again.")

	require.NoError(t, c.Run(context.Background(), []string{"whoami"}))
	require.Contains(t, out.String(), "Not signed in.")

	_, err = os.Stat(path)
	require.ErrorIs(t, err, os.ErrNotExist)

	h.mustRun(t, "login", "-email", "nina@school.fr", "-password", "pw")
	require.Contains(t, h.mustRun(t, "whoami"), "nina (nina@school.fr)")
}
