// Package storage provides a flat key-value store backed by a single JSON
// file, mirroring the browser localStorage namespace the desktop app uses.
// Every mutation writes the whole file back; the store is single-writer.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Well-known keys. The ai4edu_ prefix is kept from the desktop app so a
// migrated storage file stays readable.
const (
	KeyConversations  = "ai4edu_conversations"
	KeyAPIKey         = "ai4edu_api_key"
	KeyAPIModel       = "ai4edu_api_model"
	KeyAPIBaseURL     = "ai4edu_api_base"
	KeyTemperature    = "ai4edu_api_temperature"
	KeyMaxTokens      = "ai4edu_api_max_tokens"
	KeyTopP           = "ai4edu_api_top_p"
	KeyTeacherProfile = "ai4edu_teacher_profile_v1"
	KeyTheme          = "ai4edu_theme"
	KeyInitialized    = "ai4edu_initialized"
)

const storageFilename = "storage.json"

// Store holds the persisted key-value namespace.
type Store struct {
	mu     sync.Mutex
	path   string
	values map[string]json.RawMessage
}

// DefaultPath returns the storage file path under the user's home directory.
func DefaultPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".ai4edu_cli", storageFilename)
	}
	return filepath.Join(homeDir, ".ai4edu_cli", storageFilename)
}

// Open loads the store from path, creating the directory if needed.
// A missing file yields an empty store.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}

	s := &Store{
		path:   path,
		values: make(map[string]json.RawMessage),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("read storage: %w", err)
	}

	if err := json.Unmarshal(data, &s.values); err != nil {
		return nil, fmt.Errorf("parse storage: %w", err)
	}

	return s, nil
}

// Get unmarshals the value stored under key into v. The second return is
// false when the key is absent.
func (s *Store) Get(key string, v any) (bool, error) {
	s.mu.Lock()
	raw, ok := s.values[key]
	s.mu.Unlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return true, fmt.Errorf("parse value for %q: %w", key, err)
	}
	return true, nil
}

// GetString returns the string stored under key, or "" when absent or
// not a string.
func (s *Store) GetString(key string) string {
	var v string
	if ok, err := s.Get(key, &v); !ok || err != nil {
		return ""
	}
	return v
}

// Has reports whether key is present.
func (s *Store) Has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.values[key]
	return ok
}

// Set stores v under key and writes the file through.
func (s *Store) Set(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal value for %q: %w", key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = raw
	return s.flushLocked()
}

// Delete removes key and writes the file through. Deleting an absent key
// is a no-op.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.values[key]; !ok {
		return nil
	}
	delete(s.values, key)
	return s.flushLocked()
}

func (s *Store) flushLocked() error {
	data, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal storage: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("write storage: %w", err)
	}
	return nil
}
