package directory

import (
	"encoding/json"
	"fmt"
	"os"

	"callpilot/models"
)

// Directory provides read-only access to the provider pool. A fresh snapshot
// is loaded on every call.
type Directory interface {
	Providers() ([]models.Provider, error)
	Preferences() models.UserPreferences
}

// FileDirectory loads providers and user preferences from JSON files.
type FileDirectory struct {
	ProvidersPath   string
	PreferencesPath string
}

func NewFileDirectory(providersPath, preferencesPath string) *FileDirectory {
	return &FileDirectory{
		ProvidersPath:   providersPath,
		PreferencesPath: preferencesPath,
	}
}

// Providers parses the providers file. A file holding something other than a
// list yields an empty pool; a missing or malformed file is an error.
func (d *FileDirectory) Providers() ([]models.Provider, error) {
	data, err := os.ReadFile(d.ProvidersPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read provider directory: %w", err)
	}

	var providers []models.Provider
	if err := json.Unmarshal(data, &providers); err != nil {
		// Tolerate a non-list document the same way a missing pool is
		// tolerated downstream: empty, not fatal.
		var anything any
		if json.Unmarshal(data, &anything) == nil {
			return []models.Provider{}, nil
		}
		return nil, fmt.Errorf("provider directory is invalid JSON: %w", err)
	}
	return providers, nil
}

// Preferences loads the user preferences file, falling back to defaults when
// the file is missing or unreadable. File values override defaults.
func (d *FileDirectory) Preferences() models.UserPreferences {
	prefs := models.DefaultUserPreferences()
	data, err := os.ReadFile(d.PreferencesPath)
	if err != nil {
		return prefs
	}
	if err := json.Unmarshal(data, &prefs); err != nil {
		return models.DefaultUserPreferences()
	}
	if prefs.PreferredTime == "" {
		prefs.PreferredTime = models.DefaultUserPreferences().PreferredTime
	}
	return prefs
}
