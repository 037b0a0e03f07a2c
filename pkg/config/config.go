// Package config resolves the API configuration from persisted storage,
// provisioning the bundled default key/model pair on first use.
package config

import (
	"errors"
	"log/slog"
	"strings"

	"ai4edu_cli/pkg/storage"
)

const (
	// DefaultBaseURL points at the SiliconFlow OpenAI-compatible endpoint.
	DefaultBaseURL = "https://api.siliconflow.cn/v1"
	// DefaultModel is the bundled model id used until the user picks one.
	DefaultModel = "Pro/moonshotai/Kimi-K2.5"
	// DefaultAPIKey is the shared key written into storage on first run so
	// the app works out of the box. Replaced the moment the user sets
	// their own key in settings.
	DefaultAPIKey = "sk-lqduodenmjylybzcjmquritedcnaojyjnbjmjatvtehqyuzo"

	DefaultTemperature = 0.7
	DefaultMaxTokens   = 4096
	DefaultTopP        = 0.7
)

// ErrNoAPIKey is returned when no API key can be resolved even after
// first-run provisioning.
var ErrNoAPIKey = errors.New("api key is not configured")

// Config holds the resolved API settings for one request. It is read from
// storage at call time, never cached across calls.
type Config struct {
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float64
	MaxTokens   int
	TopP        float64
}

// Resolve reads the configuration from the store. When no API key has ever
// been persisted, the bundled default key/model pair is written into the
// store first (first-run auto-provisioning); the step is idempotent.
func Resolve(store *storage.Store) (*Config, error) {
	if !store.Has(storage.KeyAPIKey) {
		if err := store.Set(storage.KeyAPIKey, DefaultAPIKey); err != nil {
			return nil, err
		}
		if err := store.Set(storage.KeyAPIModel, DefaultModel); err != nil {
			return nil, err
		}
		slog.Info("api_config_provisioned", "model", DefaultModel)
	}

	apiKey := strings.TrimSpace(store.GetString(storage.KeyAPIKey))
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}

	cfg := &Config{
		APIKey:      apiKey,
		Model:       DefaultModel,
		BaseURL:     DefaultBaseURL,
		Temperature: DefaultTemperature,
		MaxTokens:   DefaultMaxTokens,
		TopP:        DefaultTopP,
	}

	if model := strings.TrimSpace(store.GetString(storage.KeyAPIModel)); model != "" {
		cfg.Model = model
	}
	if baseURL := strings.TrimSpace(store.GetString(storage.KeyAPIBaseURL)); baseURL != "" {
		cfg.BaseURL = strings.TrimSuffix(baseURL, "/")
	}

	var temperature float64
	if ok, err := store.Get(storage.KeyTemperature, &temperature); ok && err == nil {
		cfg.Temperature = temperature
	}
	var maxTokens int
	if ok, err := store.Get(storage.KeyMaxTokens, &maxTokens); ok && err == nil && maxTokens > 0 {
		cfg.MaxTokens = maxTokens
	}
	var topP float64
	if ok, err := store.Get(storage.KeyTopP, &topP); ok && err == nil {
		cfg.TopP = topP
	}

	return cfg, nil
}
