package session

import (
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"classpick/internal/storage"
	"classpick/pkg/apierror"
)

const tokenKey = "token"

// SecureStorage is the at-rest encrypted key/value primitive the session is persisted in.
type SecureStorage interface {
	Put(key string, value []byte) error
	Get(key string) ([]byte, bool, error)
	Delete(key string) error
}

type persistedToken struct {
	AccessToken string `json:"access_token"`
}

// Store keeps at most one token in secure storage, always in the {"access_token": ...} shape.
type Store struct {
	backend SecureStorage
}

func NewStore(backend SecureStorage) *Store {
	return &Store{backend: backend}
}

func (s *Store) Save(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return apierror.Validation("token")
	}

	data, err := json.Marshal(persistedToken{AccessToken: token})
	if err != nil {
		return apierror.Storage("encode", err)
	}

	if err := s.backend.Put(tokenKey, data); err != nil {
		return apierror.Storage("save", err)
	}

	return nil
}

// Load returns the stored token. Tokens written as a bare string by older builds are
// returned as-is and rewritten in the canonical shape. A sealed value that no longer opens is
// reported as a malformed token.
func (s *Store) Load() (string, bool, error) {
	raw, found, err := s.backend.Get(tokenKey)
	if errors.Is(err, storage.ErrCorrupted) {
		return "", false, apierror.MalformedToken(err)
	}
	if err != nil {
		return "", false, apierror.Storage("load", err)
	}
	if !found {
		return "", false, nil
	}

	text := strings.TrimSpace(string(raw))
	if text == "" {
		return "", false, nil
	}

	switch text[0] {
	case '{':
		var persisted persistedToken
		if err := json.Unmarshal([]byte(text), &persisted); err != nil {
			return "", false, apierror.MalformedToken(err)
		}
		token := strings.TrimSpace(persisted.AccessToken)
		if token == "" {
			return "", false, nil
		}
		return token, true, nil
	case '"':
		var legacy string
		if err := json.Unmarshal([]byte(text), &legacy); err != nil {
			return "", false, apierror.MalformedToken(err)
		}
		text = strings.TrimSpace(legacy)
		if text == "" {
			return "", false, nil
		}
	}

	if err := s.Save(text); err != nil {
		slog.Warn("could not migrate legacy session token", "error", err)
	} else {
		slog.Debug("migrated legacy session token")
	}

	return text, true, nil
}

// Clear removes the stored token; clearing an empty store succeeds.
func (s *Store) Clear() error {
	if err := s.backend.Delete(tokenKey); err != nil {
		return apierror.Storage("clear", err)
	}

	return nil
}
