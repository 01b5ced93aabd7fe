package api

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// TokenStore holds the bearer token for the current user. It is read on
// every request and written only by login, logout and 401 handling.
type TokenStore interface {
	Token() string
	SetToken(token string) error
	Clear()
}

type tokenStoreKey struct{}

// WithTokenStore returns a context whose requests authenticate from ts.
func WithTokenStore(ctx context.Context, ts TokenStore) context.Context {
	return context.WithValue(ctx, tokenStoreKey{}, ts)
}

// TokenStoreFrom returns the store carried by ctx, or nil.
func TokenStoreFrom(ctx context.Context) TokenStore {
	ts, _ := ctx.Value(tokenStoreKey{}).(TokenStore)
	return ts
}

// MemoryTokenStore keeps the token in memory.
type MemoryTokenStore struct {
	mu      sync.RWMutex
	token   string
	cleared bool
}

// NewMemoryTokenStore returns a store seeded with token.
func NewMemoryTokenStore(token string) *MemoryTokenStore {
	return &MemoryTokenStore{token: token}
}

func (s *MemoryTokenStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *MemoryTokenStore) SetToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.cleared = false
	return nil
}

func (s *MemoryTokenStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.cleared = true
}

// Cleared reports whether Clear was called since the last SetToken.
func (s *MemoryTokenStore) Cleared() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cleared
}

// FileTokenStore persists the token in a file readable only by the owner.
type FileTokenStore struct {
	path string
	mu   sync.Mutex
}

func NewFileTokenStore(path string) *FileTokenStore {
	return &FileTokenStore{path: path}
}

func (s *FileTokenStore) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := os.ReadFile(s.path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(b))
}

func (s *FileTokenStore) SetToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(token), 0o600); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

func (s *FileTokenStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		_ = os.WriteFile(s.path, nil, 0o600)
	}
}
