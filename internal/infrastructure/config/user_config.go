package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
)

// maxRecentEstimates bounds UserConfig.RecentEstimateIDs
const maxRecentEstimates = 5

// UserConfig is the analyst's preferences, kept in ~/.voyage-estimator/config.json
type UserConfig struct {
	// Currency used for analyses when the cargo does not name one
	DefaultCurrency string `json:"default_currency,omitempty"`

	// Estimate the CLI acts on when no id is given
	LastEstimateID string `json:"last_estimate_id,omitempty"`

	// Most recently saved first
	RecentEstimateIDs []string `json:"recent_estimate_ids,omitempty"`
}

// UserConfigHandler reads and writes one user preferences file
type UserConfigHandler struct {
	configPath string
}

// NewUserConfigHandler creates a handler for the file under the home directory
func NewUserConfigHandler() (*UserConfigHandler, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	return NewUserConfigHandlerAt(filepath.Join(homeDir, ".voyage-estimator", "config.json"))
}

// NewUserConfigHandlerAt creates a handler for an explicit file path
func NewUserConfigHandlerAt(configPath string) (*UserConfigHandler, error) {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}
	return &UserConfigHandler{configPath: configPath}, nil
}

// Load reads the preferences; a missing file is an empty config
func (h *UserConfigHandler) Load() (*UserConfig, error) {
	data, err := os.ReadFile(h.configPath)
	if errors.Is(err, os.ErrNotExist) {
		return &UserConfig{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read user config: %w", err)
	}

	var cfg UserConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse user config %s: %w", h.configPath, err)
	}
	return &cfg, nil
}

// Save replaces the file atomically, so a concurrent reader never sees a
// half-written config
func (h *UserConfigHandler) Save(cfg *UserConfig) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal user config: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(h.configPath), ".config-*.json")
	if err != nil {
		return fmt.Errorf("failed to write user config: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write user config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write user config: %w", err)
	}
	if err := os.Rename(tmp.Name(), h.configPath); err != nil {
		return fmt.Errorf("failed to replace user config: %w", err)
	}
	return nil
}

// Update loads the preferences, applies change and saves the result
func (h *UserConfigHandler) Update(change func(cfg *UserConfig)) error {
	cfg, err := h.Load()
	if err != nil {
		return err
	}
	change(cfg)
	return h.Save(cfg)
}

// SetDefaultCurrency stores the default analysis currency
func (h *UserConfigHandler) SetDefaultCurrency(currency string) error {
	return h.Update(func(cfg *UserConfig) {
		cfg.DefaultCurrency = currency
	})
}

// SetLastEstimate makes id the CLI's default estimate and moves it to the
// front of the recent list
func (h *UserConfigHandler) SetLastEstimate(id string) error {
	return h.Update(func(cfg *UserConfig) {
		cfg.LastEstimateID = id
		recent := slices.DeleteFunc(cfg.RecentEstimateIDs, func(existing string) bool { return existing == id })
		recent = append([]string{id}, recent...)
		if len(recent) > maxRecentEstimates {
			recent = recent[:maxRecentEstimates]
		}
		cfg.RecentEstimateIDs = recent
	})
}

// GetConfigPath returns the path to the user config file
func (h *UserConfigHandler) GetConfigPath() string {
	return h.configPath
}
