package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/zalando/go-keyring"
)

const (
	keyringService = "aha-mcp"
	keyringUser    = "api-token"
)

// TokenStore persists the Aha! API token outside the config file.
type TokenStore interface {
	Get() (string, error)
	Set(token string) error
	Delete() error
}

// ErrNoToken is returned by Get when nothing has been stored.
var ErrNoToken = errors.New("no API token stored")

// KeyringStore keeps the token in the system keyring, falling back to a
// 0600 file next to the config on headless systems.
type KeyringStore struct {
	mu              sync.Mutex
	fallbackChecked bool
	fallbackMode    bool
	fallbackPath    string
}

// NewKeyringStore returns a store using ~/.aha-mcp/.token as fallback.
func NewKeyringStore() *KeyringStore {
	path := ""
	if home, err := os.UserHomeDir(); err == nil {
		path = filepath.Join(home, configDir, ".token")
	}
	return &KeyringStore{fallbackPath: path}
}

// checkKeyringAvailable tests if the system keyring is available
func (s *KeyringStore) checkKeyringAvailable() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fallbackChecked {
		return !s.fallbackMode
	}

	testKey := "aha-mcp-keyring-test"
	if err := keyring.Set(keyringService, testKey, "test"); err != nil {
		s.fallbackMode = true
		s.fallbackChecked = true
		return false
	}
	_ = keyring.Delete(keyringService, testKey)
	s.fallbackChecked = true
	return true
}

func (s *KeyringStore) Get() (string, error) {
	if s.checkKeyringAvailable() {
		tok, err := keyring.Get(keyringService, keyringUser)
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNoToken
		}
		return tok, err
	}

	if s.fallbackPath == "" {
		return "", ErrNoToken
	}
	data, err := os.ReadFile(s.fallbackPath)
	if errors.Is(err, os.ErrNotExist) {
		return "", ErrNoToken
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func (s *KeyringStore) Set(token string) error {
	if s.checkKeyringAvailable() {
		if err := keyring.Set(keyringService, keyringUser, token); err != nil {
			return fmt.Errorf("failed to store token in keyring: %w", err)
		}
		return nil
	}

	if s.fallbackPath == "" {
		return errors.New("no keyring and no home directory for token fallback")
	}
	if err := os.MkdirAll(filepath.Dir(s.fallbackPath), 0o700); err != nil {
		return err
	}
	return os.WriteFile(s.fallbackPath, []byte(token), 0o600)
}

func (s *KeyringStore) Delete() error {
	if s.checkKeyringAvailable() {
		err := keyring.Delete(keyringService, keyringUser)
		if errors.Is(err, keyring.ErrNotFound) {
			return nil
		}
		return err
	}
	if s.fallbackPath == "" {
		return nil
	}
	err := os.Remove(s.fallbackPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// Backend names where the token lives, for display.
func (s *KeyringStore) Backend() string {
	if s.checkKeyringAvailable() {
		return "system keyring"
	}
	return s.fallbackPath
}
