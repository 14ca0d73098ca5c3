package storage

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode"
)

const (
	maxKeyLength  = 128
	sealedFileExt = ".sealed"
)

var ErrInvalidKey = errors.New("invalid storage key")

// KeyValidator maps storage keys to files directly under the root directory.
type KeyValidator struct {
	rootAbs string
}

func NewKeyValidator(root string) (*KeyValidator, error) {
	if strings.TrimSpace(root) == "" {
		return nil, fmt.Errorf("storage root cannot be empty")
	}

	rootAbs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve storage root: %w", err)
	}

	return &KeyValidator{rootAbs: rootAbs}, nil
}

func (v *KeyValidator) RootAbs() string {
	return v.rootAbs
}

func (v *KeyValidator) ResolveKey(key string) (string, error) {
	if key == "" || strings.TrimSpace(key) != key {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}

	if len(key) > maxKeyLength {
		return "", fmt.Errorf("%w: longer than %d bytes", ErrInvalidKey, maxKeyLength)
	}

	if hasControlCharacters(key) {
		return "", fmt.Errorf("%w: contains control characters", ErrInvalidKey)
	}

	// Dot-prefixed names are reserved for the device key.
	if strings.HasPrefix(key, ".") || strings.ContainsAny(key, `/\:`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}

	resolved := filepath.Join(v.rootAbs, key+sealedFileExt)
	if filepath.Dir(resolved) != v.rootAbs || !isWithinRoot(v.rootAbs, resolved) {
		return "", fmt.Errorf("%w: %q escapes storage root", ErrInvalidKey, key)
	}

	return resolved, nil
}

func hasControlCharacters(value string) bool {
	for _, char := range value {
		if unicode.IsControl(char) {
			return true
		}
	}

	return false
}

func isWithinRoot(rootAbs string, candidateAbs string) bool {
	if candidateAbs == rootAbs {
		return true
	}

	rootWithSeparator := rootAbs + string(filepath.Separator)
	return strings.HasPrefix(candidateAbs, rootWithSeparator)
}
