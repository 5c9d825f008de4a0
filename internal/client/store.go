package client

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"tastebook/api/internal/security"
)

// TokenStore is the client-side mirror of the cookie pair: navigation
// code reads expiry and attaches bearer headers from here without a
// network round trip.
type TokenStore interface {
	Load() (security.TokenPair, error)
	Save(pair security.TokenPair) error
	Clear() error
}

// FileStore persists the pair as a JSON file.
type FileStore struct {
	path string
	mu   sync.Mutex
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

type storedTokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func (s *FileStore) Load() (security.TokenPair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return security.TokenPair{}, nil
		}
		return security.TokenPair{}, fmt.Errorf("read token store: %w", err)
	}

	var stored storedTokens
	if err := json.Unmarshal(data, &stored); err != nil {
		return security.TokenPair{}, fmt.Errorf("decode token store: %w", err)
	}
	return security.TokenPair{
		AccessToken:  stored.AccessToken,
		RefreshToken: stored.RefreshToken,
	}, nil
}

func (s *FileStore) Save(pair security.TokenPair) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(storedTokens{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write token store: %w", err)
	}
	return nil
}

func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// MemoryStore keeps the pair in process memory.
type MemoryStore struct {
	mu   sync.Mutex
	pair security.TokenPair
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load() (security.TokenPair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pair, nil
}

func (s *MemoryStore) Save(pair security.TokenPair) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pair = pair
	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pair = security.TokenPair{}
	return nil
}
