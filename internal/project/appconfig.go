package project

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/piwi3910/WallTopo/internal/model"
)

// DefaultConfigDir returns the default directory for application configuration.
// On all platforms this is ~/.walltopo/
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".walltopo")
}

// DefaultConfigPath returns the default path for the application config file.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.json")
}

// SaveAppConfig persists an AppConfig to the given path. The format follows
// the extension: .toml, .yaml/.yml, anything else is JSON.
// It creates any missing parent directories automatically.
func SaveAppConfig(path string, config model.AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	var data []byte
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(config); err != nil {
			return fmt.Errorf("encode TOML: %w", err)
		}
		data = buf.Bytes()
	case ".yaml", ".yml":
		out, err := yaml.Marshal(config)
		if err != nil {
			return fmt.Errorf("encode YAML: %w", err)
		}
		data = out
	default:
		out, err := json.MarshalIndent(config, "", "  ")
		if err != nil {
			return fmt.Errorf("encode JSON: %w", err)
		}
		data = out
	}
	return os.WriteFile(path, data, 0644)
}

// LoadAppConfig reads an AppConfig from the given path, picking the decoder
// by extension. Keys missing from the file keep their defaults, and invalid
// tolerances are reset by Normalize.
// If the file does not exist, it returns DefaultAppConfig with no error.
func LoadAppConfig(path string) (model.AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.DefaultAppConfig(), nil
		}
		return model.AppConfig{}, fmt.Errorf("read config: %w", err)
	}

	config := model.DefaultAppConfig()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), &config); err != nil {
			return model.AppConfig{}, fmt.Errorf("decode TOML: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &config); err != nil {
			return model.AppConfig{}, fmt.Errorf("decode YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &config); err != nil {
			return model.AppConfig{}, fmt.Errorf("decode JSON: %w", err)
		}
	}

	if _, err := model.ParseTrimType(config.DefaultTrim); err != nil {
		return model.AppConfig{}, fmt.Errorf("config %s: %w", path, err)
	}
	config.Normalize()
	return config, nil
}
