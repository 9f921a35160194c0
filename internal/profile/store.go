// Package profile persists login-form conveniences (last username, last
// API URL) under the user's config directory. This is not session
// persistence; losing the file just means retyping a username.
package profile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Profile is what the client remembers between runs.
type Profile struct {
	LastUsername string `json:"last_username"`
	APIURL       string `json:"api_url,omitempty"`
}

// Store manages the profile file.
type Store struct {
	filePath string
	Profile  Profile
}

// NewStore opens (or prepares) the profile store under
// ~/.config/netbank/profile.json, loading any existing profile.
func NewStore() (*Store, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, ".config", "netbank")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	store := &Store{filePath: filepath.Join(configDir, "profile.json")}
	if _, err := os.Stat(store.filePath); err == nil {
		if err := store.Load(); err != nil {
			return nil, err
		}
	}
	return store, nil
}

// Load reads the profile from disk.
func (s *Store) Load() error {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return fmt.Errorf("failed to read profile file: %w", err)
	}
	if err := json.Unmarshal(data, &s.Profile); err != nil {
		return fmt.Errorf("failed to parse profile: %w", err)
	}
	return nil
}

// Save writes the profile to disk.
func (s *Store) Save() error {
	data, err := json.MarshalIndent(s.Profile, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}
	if err := os.WriteFile(s.filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write profile file: %w", err)
	}
	return nil
}
