/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package config loads the user-editable YAML configuration.
// Precedence: defaults < config.yaml < .env file < process environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned (wrapped) when config.yaml does not match the schema.
var ErrInvalidConfig = errors.New("invalid config")

type GeneralConfig struct {
	TelemetryOptIn bool   `yaml:"telemetry_opt_in"`
	Theme          string `yaml:"theme"` // "system" | "light" | "dark"
}

type WindowConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

type MediaConfig struct {
	FetchTimeoutMs int    `yaml:"fetch_timeout_ms"`
	MaxImageBytes  int64  `yaml:"max_image_bytes"`
	CacheEnabled   bool   `yaml:"cache_enabled"`
	CachePath      string `yaml:"cache_path"`
	CacheMaxBytes  int64  `yaml:"cache_max_bytes"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

// AppConfig is persisted to config.yaml in the user config directory.
// config_version: bump when the structure changes in a backward-incompatible way.
type AppConfig struct {
	ConfigVersion int           `yaml:"config_version"`
	General       GeneralConfig `yaml:"general"`
	Window        WindowConfig  `yaml:"window"`
	Media         MediaConfig   `yaml:"media"`
	Logging       LoggingConfig `yaml:"logging"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		General:       GeneralConfig{TelemetryOptIn: false, Theme: "system"},
		Window:        WindowConfig{Width: 1200, Height: 800},
		Media: MediaConfig{
			FetchTimeoutMs: 15000,
			MaxImageBytes:  32 * 1024 * 1024,
			CacheEnabled:   true,
			CacheMaxBytes:  256 * 1024 * 1024,
		},
		Logging: LoggingConfig{Level: "info", Format: "console"},
	}
}

// Env var names used as overrides.
const (
	EnvConfigPath     = "ACV_CONFIG"
	EnvTelemetryOptIn = "ACV_TELEMETRY_OPT_IN"
	EnvTheme          = "ACV_THEME"
	EnvFetchTimeoutMs = "ACV_MEDIA_FETCH_TIMEOUT_MS"
	EnvCacheEnabled   = "ACV_MEDIA_CACHE"
	EnvCachePath      = "ACV_MEDIA_CACHE_PATH"
	EnvCacheMaxBytes  = "ACV_MEDIA_CACHE_MAX_BYTES"
	EnvLogLevel       = "ACV_LOG_LEVEL"
	EnvLogFormat      = "ACV_LOG_FORMAT"
	EnvLogSource      = "ACV_LOG_SOURCE"
	EnvLogFile        = "ACV_LOG_FILE"
)

const schemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "config_version": {"type": "integer", "minimum": 1},
    "general": {
      "type": "object",
      "properties": {
        "telemetry_opt_in": {"type": "boolean"},
        "theme": {"enum": ["system", "light", "dark"]}
      }
    },
    "window": {
      "type": "object",
      "properties": {
        "width": {"type": "integer", "minimum": 320},
        "height": {"type": "integer", "minimum": 240}
      }
    },
    "media": {
      "type": "object",
      "properties": {
        "fetch_timeout_ms": {"type": "integer", "minimum": 0},
        "max_image_bytes": {"type": "integer", "minimum": 0},
        "cache_enabled": {"type": "boolean"},
        "cache_path": {"type": "string"},
        "cache_max_bytes": {"type": "integer", "minimum": 0}
      }
    },
    "logging": {
      "type": "object",
      "properties": {
        "level": {"enum": ["debug", "info", "warn", "warning", "error"]},
        "format": {"enum": ["console", "json"]},
        "source": {"type": "boolean"},
        "file": {"type": "string"}
      }
    }
  }
}`

var schemaLoader = gojsonschema.NewStringLoader(schemaJSON)

// ConfigDir returns the per-user configuration directory of the app.
func ConfigDir() (string, error) {
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" {
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "AssetCanvas")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "AssetCanvas")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			base = filepath.Join(xdg, "assetcanvas")
		} else {
			base = filepath.Join(os.Getenv("HOME"), ".config", "assetcanvas")
		}
	}
	if base == "" || base == "AssetCanvas" || base == "assetcanvas" {
		return "", errors.New("cannot resolve config directory")
	}
	return base, nil
}

// ConfigPath returns the config file path; ACV_CONFIG wins when set.
func ConfigPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(EnvConfigPath)); p != "" {
		return p, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// DefaultCachePath is where the media cache lives unless configured otherwise.
func DefaultCachePath() string {
	dir, err := os.UserCacheDir()
	if err != nil || dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "assetcanvas", "media.sqlite")
}

// LoadDotEnv loads KEY=VALUE pairs from the given files into the process
// environment. Missing files are skipped; variables already set are kept.
func LoadDotEnv(paths ...string) error {
	var existing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("load dotenv: %w", err)
	}
	return nil
}

// Load reads the user config file (if present), applies defaults, and merges environment overrides.
// A file that fails schema validation is ignored; the returned error wraps ErrInvalidConfig
// while the returned config still carries defaults plus env overrides.
func Load() (AppConfig, error) {
	path, err := ConfigPath()
	if err != nil {
		cfg := Defaults()
		applyEnvOverrides(&cfg)
		return cfg, err
	}
	return LoadFrom(path)
}

// LoadFrom is Load with an explicit file path.
func LoadFrom(path string) (AppConfig, error) {
	cfg := Defaults()
	var loadErr error
	if data, err := os.ReadFile(path); err == nil {
		fileCfg, perr := parse(data)
		if perr != nil {
			loadErr = fmt.Errorf("%s: %w", path, perr)
		} else {
			mergeInto(&cfg, &fileCfg)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		loadErr = fmt.Errorf("read config: %w", err)
	}
	applyEnvOverrides(&cfg)
	return cfg, loadErr
}

// parse decodes YAML, validates it against the schema, then decodes into AppConfig.
func parse(data []byte) (AppConfig, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return AppConfig{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if len(doc) > 0 {
		res, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewGoLoader(doc))
		if err != nil {
			return AppConfig{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
		if !res.Valid() {
			msgs := make([]string, 0, len(res.Errors()))
			for _, e := range res.Errors() {
				msgs = append(msgs, e.String())
			}
			return AppConfig{}, fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
		}
	}
	// start from defaults so absent keys (notably booleans) keep their default
	out := Defaults()
	if err := yaml.Unmarshal(data, &out); err != nil {
		return AppConfig{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return out, nil
}

// Save writes the config YAML to path, creating parent directories.
func Save(path string, cfg AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	if src.General.Theme != "" {
		dst.General.Theme = src.General.Theme
	}
	dst.General.TelemetryOptIn = src.General.TelemetryOptIn
	if src.Window.Width > 0 {
		dst.Window.Width = src.Window.Width
	}
	if src.Window.Height > 0 {
		dst.Window.Height = src.Window.Height
	}
	if src.Media.FetchTimeoutMs > 0 {
		dst.Media.FetchTimeoutMs = src.Media.FetchTimeoutMs
	}
	if src.Media.MaxImageBytes > 0 {
		dst.Media.MaxImageBytes = src.Media.MaxImageBytes
	}
	dst.Media.CacheEnabled = src.Media.CacheEnabled
	if p := strings.TrimSpace(src.Media.CachePath); p != "" {
		dst.Media.CachePath = p
	}
	if src.Media.CacheMaxBytes > 0 {
		dst.Media.CacheMaxBytes = src.Media.CacheMaxBytes
	}
	if v := strings.TrimSpace(src.Logging.Level); v != "" {
		dst.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(src.Logging.Format); v != "" {
		dst.Logging.Format = strings.ToLower(v)
	}
	dst.Logging.Source = src.Logging.Source
	if v := strings.TrimSpace(src.Logging.File); v != "" {
		dst.Logging.File = v
	}
}

func applyEnvOverrides(cfg *AppConfig) {
	if v, ok := envBool(EnvTelemetryOptIn); ok {
		cfg.General.TelemetryOptIn = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvTheme)); v != "" {
		cfg.General.Theme = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvFetchTimeoutMs)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Media.FetchTimeoutMs = n
		}
	}
	if v, ok := envBool(EnvCacheEnabled); ok {
		cfg.Media.CacheEnabled = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvCachePath)); v != "" {
		cfg.Media.CachePath = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvCacheMaxBytes)); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			cfg.Media.CacheMaxBytes = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v, ok := envBool(EnvLogSource); ok {
		cfg.Logging.Source = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

func envBool(key string) (bool, bool) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return false, false
	}
	lv := strings.ToLower(v)
	return lv == "1" || lv == "true" || lv == "on" || lv == "yes", true
}

// EffectiveCachePath returns the configured cache path or the default one.
func (m MediaConfig) EffectiveCachePath() string {
	if p := strings.TrimSpace(m.CachePath); p != "" {
		return p
	}
	return DefaultCachePath()
}
