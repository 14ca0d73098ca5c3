package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"classpick/internal/storage"
)

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func userToken(t *testing.T, username string, expiresAt time.Time) string {
	t.Helper()

	return signToken(t, jwt.MapClaims{
		"sub":       "user-" + username,
		"username":  username,
		"email":     username + "@example.com",
		"class":     "Ing 1",
		"candidate": false,
		"voted":     false,
		"iat":       expiresAt.Add(-time.Hour).Unix(),
		"exp":       expiresAt.Unix(),
	})
}

func newFileStore(t *testing.T) (*Store, *storage.Storage) {
	t.Helper()

	backend, err := storage.New(t.TempDir())
	require.NoError(t, err)
	return NewStore(backend), backend
}
