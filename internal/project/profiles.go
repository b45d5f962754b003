package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/piwi3910/WallTopo/internal/model"
)

// DefaultProfilesPath returns the default file path for the wall profile
// catalog, ~/.walltopo/profiles.json.
func DefaultProfilesPath() string {
	return filepath.Join(DefaultConfigDir(), "profiles.json")
}

// SaveProfiles saves a profile catalog to a JSON file.
func SaveProfiles(path string, catalog model.ProfileCatalog) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	if catalog.Profiles == nil {
		catalog.Profiles = []model.WallProfile{}
	}

	data, err := json.MarshalIndent(catalog, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadProfiles loads a profile catalog from a JSON file.
// Returns the default catalog if the file does not exist.
func LoadProfiles(path string) (model.ProfileCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.DefaultProfileCatalog(), nil
		}
		return model.ProfileCatalog{}, err
	}

	var catalog model.ProfileCatalog
	if err := json.Unmarshal(data, &catalog); err != nil {
		return model.ProfileCatalog{}, err
	}
	if catalog.Profiles == nil {
		catalog.Profiles = []model.WallProfile{}
	}
	if err := checkProfiles(catalog); err != nil {
		return model.ProfileCatalog{}, err
	}
	return catalog, nil
}

// checkProfiles rejects profiles that cannot give a wall its thickness.
func checkProfiles(catalog model.ProfileCatalog) error {
	for _, p := range catalog.Profiles {
		if p.Thickness <= 0 {
			return fmt.Errorf("profile %q has no thickness", p.ID)
		}
	}
	return nil
}

// ExportProfile exports a single profile to a JSON file (for sharing).
func ExportProfile(path string, profile model.WallProfile) error {
	data, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ImportProfile imports a single profile from a JSON file.
func ImportProfile(path string) (model.WallProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.WallProfile{}, err
	}

	var profile model.WallProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return model.WallProfile{}, err
	}

	if profile.Name == "" {
		return model.WallProfile{}, errors.New("imported profile has no name")
	}
	if profile.Thickness <= 0 {
		return model.WallProfile{}, errors.New("imported profile has no thickness")
	}
	if profile.ID == "" {
		profile.ID = model.NewWallProfile(profile.Name, profile.Thickness, profile.Material).ID
	}
	return profile, nil
}
