package storage

import (
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

const (
	deviceKeyFile = ".device.key"
	deviceKeySize = 32
	keyInfoPrefix = "classpick/storage/"
)

var ErrCorrupted = errors.New("stored value failed authentication")

// Storage is a small encrypted key/value store: one sealed file per key under root, each sealed
// with XChaCha20-Poly1305 under a subkey derived from the device key and the key name.
type Storage struct {
	validator *KeyValidator
	deviceKey []byte
	mu        sync.Mutex
}

func New(root string) (*Storage, error) {
	validator, err := NewKeyValidator(root)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(validator.RootAbs(), 0o700); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}

	deviceKey, err := loadOrCreateDeviceKey(filepath.Join(validator.RootAbs(), deviceKeyFile))
	if err != nil {
		return nil, err
	}

	return &Storage{validator: validator, deviceKey: deviceKey}, nil
}

func (s *Storage) RootAbs() string {
	return s.validator.RootAbs()
}

func (s *Storage) Put(key string, value []byte) error {
	resolved, err := s.validator.ResolveKey(key)
	if err != nil {
		return err
	}

	aead, err := s.aeadFor(key)
	if err != nil {
		return err
	}

	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(value)+aead.Overhead())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return fmt.Errorf("generate nonce: %w", err)
	}
	sealed := aead.Seal(nonce, nonce, value, []byte(key))

	s.mu.Lock()
	defer s.mu.Unlock()

	return writeFileAtomic(resolved, sealed)
}

// Get returns the value stored under key; found is false when nothing is stored.
func (s *Storage) Get(key string) ([]byte, bool, error) {
	resolved, err := s.validator.ResolveKey(key)
	if err != nil {
		return nil, false, err
	}

	s.mu.Lock()
	sealed, err := os.ReadFile(resolved)
	s.mu.Unlock()
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read %q: %w", key, err)
	}

	aead, err := s.aeadFor(key)
	if err != nil {
		return nil, false, err
	}

	if len(sealed) < aead.NonceSize()+aead.Overhead() {
		return nil, false, fmt.Errorf("%w: %q is truncated", ErrCorrupted, key)
	}

	nonce, ciphertext := sealed[:aead.NonceSize()], sealed[aead.NonceSize():]
	value, err := aead.Open(nil, nonce, ciphertext, []byte(key))
	if err != nil {
		return nil, false, fmt.Errorf("%w: %q", ErrCorrupted, key)
	}

	return value, true, nil
}

// Delete removes key. Deleting a missing key succeeds.
func (s *Storage) Delete(key string) error {
	resolved, err := s.validator.ResolveKey(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(resolved); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %q: %w", key, err)
	}

	return nil
}

func (s *Storage) aeadFor(key string) (cipher.AEAD, error) {
	subkey := make([]byte, chacha20poly1305.KeySize)
	reader := hkdf.New(sha256.New, s.deviceKey, nil, []byte(keyInfoPrefix+key))
	if _, err := io.ReadFull(reader, subkey); err != nil {
		return nil, fmt.Errorf("derive key for %q: %w", key, err)
	}

	aead, err := chacha20poly1305.NewX(subkey)
	if err != nil {
		return nil, fmt.Errorf("init cipher: %w", err)
	}

	return aead, nil
}

func loadOrCreateDeviceKey(path string) ([]byte, error) {
	key, err := os.ReadFile(path)
	if err == nil {
		if len(key) != deviceKeySize {
			return nil, fmt.Errorf("device key %s has %d bytes, want %d", path, len(key), deviceKeySize)
		}
		return key, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read device key: %w", err)
	}

	key = make([]byte, deviceKeySize)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, fmt.Errorf("generate device key: %w", err)
	}

	if err := writeFileAtomic(path, key); err != nil {
		return nil, fmt.Errorf("write device key: %w", err)
	}

	return key, nil
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("rename into place: %w", err)
	}

	return nil
}
