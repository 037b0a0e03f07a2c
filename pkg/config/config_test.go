package config

import (
	"errors"
	"path/filepath"
	"testing"

	"ai4edu_cli/pkg/storage"
)

func newTestStore(t *testing.T) *storage.Store {
	t.Helper()
	s, err := storage.Open(filepath.Join(t.TempDir(), "storage.json"))
	if err != nil {
		t.Fatalf("storage.Open() failed: %v", err)
	}
	return s
}

func TestResolve_FirstRunProvisioning(t *testing.T) {
	store := newTestStore(t)

	cfg, err := Resolve(store)
	if err != nil {
		t.Fatalf("Resolve() failed: %v", err)
	}

	if cfg.APIKey != DefaultAPIKey {
		t.Errorf("APIKey = %q, want bundled default", cfg.APIKey)
	}
	if cfg.Model != DefaultModel {
		t.Errorf("Model = %q, want %q", cfg.Model, DefaultModel)
	}

	// The defaults must have been written through to storage.
	if got := store.GetString(storage.KeyAPIKey); got != DefaultAPIKey {
		t.Errorf("stored api key = %q, want bundled default", got)
	}
	if got := store.GetString(storage.KeyAPIModel); got != DefaultModel {
		t.Errorf("stored model = %q, want %q", got, DefaultModel)
	}
}

func TestResolve_Idempotent(t *testing.T) {
	store := newTestStore(t)

	if _, err := Resolve(store); err != nil {
		t.Fatalf("first Resolve() failed: %v", err)
	}
	if err := store.Set(storage.KeyAPIKey, "sk-user"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	cfg, err := Resolve(store)
	if err != nil {
		t.Fatalf("second Resolve() failed: %v", err)
	}
	if cfg.APIKey != "sk-user" {
		t.Errorf("APIKey = %q, want user key to survive re-resolution", cfg.APIKey)
	}
}

func TestResolve_BlankKey(t *testing.T) {
	store := newTestStore(t)
	// A key that exists but is blank cannot be provisioned over.
	if err := store.Set(storage.KeyAPIKey, "   "); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	_, err := Resolve(store)
	if !errors.Is(err, ErrNoAPIKey) {
		t.Errorf("Resolve() error = %v, want ErrNoAPIKey", err)
	}
}

func TestResolve_Overrides(t *testing.T) {
	store := newTestStore(t)
	if err := store.Set(storage.KeyAPIKey, "sk-user"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	if err := store.Set(storage.KeyAPIBaseURL, "https://example.com/v1/"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	if err := store.Set(storage.KeyTemperature, 0.2); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	if err := store.Set(storage.KeyMaxTokens, 1024); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	cfg, err := Resolve(store)
	if err != nil {
		t.Fatalf("Resolve() failed: %v", err)
	}
	if cfg.BaseURL != "https://example.com/v1" {
		t.Errorf("BaseURL = %q, want trailing slash trimmed", cfg.BaseURL)
	}
	if cfg.Temperature != 0.2 {
		t.Errorf("Temperature = %v, want 0.2", cfg.Temperature)
	}
	if cfg.MaxTokens != 1024 {
		t.Errorf("MaxTokens = %d, want 1024", cfg.MaxTokens)
	}
	if cfg.TopP != DefaultTopP {
		t.Errorf("TopP = %v, want default", cfg.TopP)
	}
}
