package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/piwi3910/WallTopo/internal/model"
)

// BackupVersion is written into every backup bundle. Bundles with a
// different major version are refused on import.
const BackupVersion = "1.0.0"

// ErrBackupVersion is returned for bundles without a readable version.
var ErrBackupVersion = errors.New("unsupported backup version")

// BackupData bundles everything a user keeps outside individual plans.
type BackupData struct {
	Version   string               `json:"version"`
	CreatedAt string               `json:"created_at"`
	Config    model.AppConfig      `json:"config"`
	Profiles  model.ProfileCatalog `json:"profiles"`
	Templates model.TemplateStore  `json:"templates"`
}

// ExportAllData writes config, profile catalog and layout templates to one
// JSON file.
func ExportAllData(exportPath string, config model.AppConfig, profiles model.ProfileCatalog, templates model.TemplateStore) error {
	data, err := json.MarshalIndent(BackupData{
		Version:   BackupVersion,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Config:    config,
		Profiles:  profiles,
		Templates: templates,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal backup data: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(exportPath), 0755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}
	if err := os.WriteFile(exportPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write backup file: %w", err)
	}
	return nil
}

// ImportAllData reads a bundle written by ExportAllData. Each section is
// checked the way its own loader checks it; sections missing from the file
// come back as defaults. Applying the result is up to the caller.
func ImportAllData(importPath string) (BackupData, error) {
	data, err := os.ReadFile(importPath)
	if err != nil {
		return BackupData{}, fmt.Errorf("failed to read backup file: %w", err)
	}
	backup := BackupData{Config: model.DefaultAppConfig()}
	if err := json.Unmarshal(data, &backup); err != nil {
		return BackupData{}, fmt.Errorf("failed to parse backup file: %w", err)
	}
	if major(backup.Version) != major(BackupVersion) {
		return BackupData{}, fmt.Errorf("%w %q", ErrBackupVersion, backup.Version)
	}

	if _, err := model.ParseTrimType(backup.Config.DefaultTrim); err != nil {
		return BackupData{}, fmt.Errorf("backup config: %w", err)
	}
	backup.Config.Normalize()

	if backup.Profiles.Profiles == nil {
		backup.Profiles = model.DefaultProfileCatalog()
	}
	if err := checkProfiles(backup.Profiles); err != nil {
		return BackupData{}, fmt.Errorf("backup profiles: %w", err)
	}

	if backup.Templates.Templates == nil {
		backup.Templates.Templates = []model.LayoutTemplate{}
	}
	if err := checkTemplates(&backup.Templates); err != nil {
		return BackupData{}, fmt.Errorf("backup templates: %w", err)
	}
	return backup, nil
}

// major returns the leading component of a dotted version, or "" if empty.
func major(version string) string {
	v, _, _ := strings.Cut(strings.TrimPrefix(strings.TrimSpace(version), "v"), ".")
	return v
}
