// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/plates/internal/util"
)

// CurrentVersion is written to new config files.
const CurrentVersion = "1"

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete plates configuration.
type Config struct {
	Version string `toml:"version" json:"version"`

	// OfflineMode blocks every remote request. Weather, search and online
	// speech fall back to their offline behaviour.
	OfflineMode bool `toml:"offline_mode" json:"offline_mode"`

	Location   LocationConfig   `toml:"location" json:"location"`
	Weather    WeatherConfig    `toml:"weather" json:"weather"`
	Search     SearchConfig     `toml:"search" json:"search"`
	Assistant  AssistantConfig  `toml:"assistant" json:"assistant"`
	Speech     SpeechConfig     `toml:"speech" json:"speech"`
	Gesture    GestureConfig    `toml:"gesture" json:"gesture"`
	Onboarding OnboardingConfig `toml:"onboarding" json:"onboarding"`
	Polling    PollingConfig    `toml:"polling" json:"polling"`
	UI         UIConfig         `toml:"ui" json:"ui"`
	Log        LogConfig        `toml:"log" json:"log"`
	Storage    StorageConfig    `toml:"storage" json:"storage"`
}

// LocationConfig is the position used for weather.
type LocationConfig struct {
	Latitude  float64 `toml:"latitude" json:"latitude"`
	Longitude float64 `toml:"longitude" json:"longitude"`
	// Name is only displayed.
	Name string `toml:"name" json:"name"`
}

// Known reports whether coordinates are configured. (0, 0) counts as unset.
func (l LocationConfig) Known() bool {
	return l.Latitude != 0 || l.Longitude != 0
}

// WeatherConfig configures the OpenWeather client.
type WeatherConfig struct {
	APIKey string `toml:"api_key" json:"api_key"`
	// Units is "imperial", "metric" or "standard".
	Units   string `toml:"units" json:"units"`
	BaseURL string `toml:"base_url" json:"base_url"`
	// MinIntervalSecs spaces API requests; 0 disables limiting.
	MinIntervalSecs int `toml:"min_interval_secs" json:"min_interval_secs"`
}

// SearchConfig configures Google Custom Search.
type SearchConfig struct {
	APIKey   string `toml:"api_key" json:"api_key"`
	EngineID string `toml:"engine_id" json:"engine_id"`
	BaseURL  string `toml:"base_url" json:"base_url"`
}

// AssistantConfig configures text generation and history.
type AssistantConfig struct {
	GeminiAPIKey string `toml:"gemini_api_key" json:"gemini_api_key"`
	Model        string `toml:"model" json:"model"`
	SystemPrompt string `toml:"system_prompt" json:"system_prompt"`
	// HistoryLimit is how many exchanges are kept in the database.
	HistoryLimit int `toml:"history_limit" json:"history_limit"`
}

// SpeechConfig configures recording and transcription.
type SpeechConfig struct {
	// Mode is "auto", "online" or "offline".
	Mode string `toml:"mode" json:"mode"`
	// RecorderCommand captures audio; "{file}" is the output path.
	RecorderCommand string `toml:"recorder_command" json:"recorder_command"`
	// LocalCommand transcribes offline and prints the transcript.
	LocalCommand   string `toml:"local_command" json:"local_command"`
	OpenAIAPIKey   string `toml:"openai_api_key" json:"openai_api_key"`
	KeepRecordings bool   `toml:"keep_recordings" json:"keep_recordings"`
	ProbeURL       string `toml:"probe_url" json:"probe_url"`
}

// GestureConfig configures press classification.
type GestureConfig struct {
	LongPressMs int `toml:"long_press_ms" json:"long_press_ms"`
}

// LongPress returns the long-press threshold.
func (g GestureConfig) LongPress() time.Duration {
	return time.Duration(g.LongPressMs) * time.Millisecond
}

// OnboardingConfig configures the first-run tutorial.
type OnboardingConfig struct {
	// StepsFile replaces the built-in steps with a YAML document.
	StepsFile      string  `toml:"steps_file" json:"steps_file"`
	SwipeThreshold float64 `toml:"swipe_threshold" json:"swipe_threshold"`
	// CellHeight is how many swipe units one terminal row counts for.
	CellHeight float64 `toml:"cell_height" json:"cell_height"`
}

// PollingConfig sets provider cadences.
type PollingConfig struct {
	TimeSecs    int `toml:"time_secs" json:"time_secs"`
	WeatherSecs int `toml:"weather_secs" json:"weather_secs"`
	BatterySecs int `toml:"battery_secs" json:"battery_secs"`
}

// Time returns the clock cadence.
func (p PollingConfig) Time() time.Duration { return time.Duration(p.TimeSecs) * time.Second }

// Weather returns the weather cadence.
func (p PollingConfig) Weather() time.Duration { return time.Duration(p.WeatherSecs) * time.Second }

// Battery returns the battery cadence.
func (p PollingConfig) Battery() time.Duration { return time.Duration(p.BatterySecs) * time.Second }

// UIConfig contains UI preferences.
type UIConfig struct {
	// Theme is "auto", "dark" or "light".
	Theme   string `toml:"theme" json:"theme"`
	Clock24 bool   `toml:"clock_24h" json:"clock_24h"`
	// Mouse enables pointer gestures.
	Mouse bool `toml:"mouse" json:"mouse"`
}

// LogConfig configures the log file.
type LogConfig struct {
	Level string `toml:"level" json:"level"`
	// File defaults to ~/.plates/plates.log.
	File string `toml:"file" json:"file"`
}

// StorageConfig locates the state database.
type StorageConfig struct {
	// Path defaults to ~/.plates/plates.db.
	Path string `toml:"path" json:"path"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Version: CurrentVersion,
		Weather: WeatherConfig{
			Units:           "imperial",
			BaseURL:         "https://api.openweathermap.org/data/2.5",
			MinIntervalSecs: 30,
		},
		Search: SearchConfig{
			BaseURL: "https://www.googleapis.com/customsearch/v1",
		},
		Assistant: AssistantConfig{
			Model:        "gemini-2.0-flash",
			HistoryLimit: 200,
		},
		Speech: SpeechConfig{
			Mode:            "auto",
			RecorderCommand: "arecord -q -f cd -t wav {file}",
			ProbeURL:        "https://clients3.google.com/generate_204",
		},
		Gesture: GestureConfig{
			LongPressMs: 500,
		},
		Onboarding: OnboardingConfig{
			SwipeThreshold: 50,
			CellHeight:     16,
		},
		Polling: PollingConfig{
			TimeSecs:    1,
			WeatherSecs: 600,
			BatterySecs: 30,
		},
		UI: UIConfig{
			Theme: "auto",
			Mouse: true,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the plates configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".plates"), nil
}

// ConfigPath returns the path to the TOML config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0700)
}

// LogPath returns the configured log file or the default location.
func (c *Config) LogPath() (string, error) {
	if c.Log.File != "" {
		return c.Log.File, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "plates.log"), nil
}

// DatabasePath returns the configured database or the default location.
func (c *Config) DatabasePath() (string, error) {
	if c.Storage.Path != "" {
		return c.Storage.Path, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "plates.db"), nil
}

// ensureSecurePermissions tightens a config file to 0600; it holds API keys.
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if mode := info.Mode().Perm(); mode != 0600 {
		if err := os.Chmod(path, 0600); err != nil {
			return fmt.Errorf("failed to fix insecure permissions (was %o): %w", mode, err)
		}
	}
	return nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load reads ~/.plates/config.toml, falling back to defaults when it does
// not exist. Environment overrides are applied last.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	if _, statErr := os.Stat(path); errors.Is(statErr, os.ErrNotExist) {
		cfg := Default()
		cfg.ApplyEnvOverrides()
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid config: %w", err)
		}
		return cfg, nil
	}
	return LoadFromPath(path)
}

// LoadTOML decodes path into cfg and fills unset values with defaults.
func LoadTOML(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	fillDefaults(cfg)
	return nil
}

// LoadFromPath loads configuration from a specific file with full
// validation.
func LoadFromPath(path string) (*Config, error) {
	cfg := &Config{}
	// Booleans that default to true cannot be told apart from an explicit
	// false after decoding, so they start from their defaults.
	cfg.UI.Mouse = true

	if err := LoadTOML(cfg, path); err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}
	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// fillDefaults fills in any missing values with defaults.
func fillDefaults(cfg *Config) {
	d := Default()

	if cfg.Version == "" {
		cfg.Version = d.Version
	}

	if cfg.Weather.Units == "" {
		cfg.Weather.Units = d.Weather.Units
	}
	if cfg.Weather.BaseURL == "" {
		cfg.Weather.BaseURL = d.Weather.BaseURL
	}
	if cfg.Search.BaseURL == "" {
		cfg.Search.BaseURL = d.Search.BaseURL
	}

	if cfg.Assistant.Model == "" {
		cfg.Assistant.Model = d.Assistant.Model
	}
	if cfg.Assistant.HistoryLimit == 0 {
		cfg.Assistant.HistoryLimit = d.Assistant.HistoryLimit
	}

	if cfg.Speech.Mode == "" {
		cfg.Speech.Mode = d.Speech.Mode
	}
	if cfg.Speech.RecorderCommand == "" {
		cfg.Speech.RecorderCommand = d.Speech.RecorderCommand
	}
	if cfg.Speech.ProbeURL == "" {
		cfg.Speech.ProbeURL = d.Speech.ProbeURL
	}

	if cfg.Gesture.LongPressMs == 0 {
		cfg.Gesture.LongPressMs = d.Gesture.LongPressMs
	}
	if cfg.Onboarding.SwipeThreshold == 0 {
		cfg.Onboarding.SwipeThreshold = d.Onboarding.SwipeThreshold
	}
	if cfg.Onboarding.CellHeight == 0 {
		cfg.Onboarding.CellHeight = d.Onboarding.CellHeight
	}

	if cfg.Polling.TimeSecs == 0 {
		cfg.Polling.TimeSecs = d.Polling.TimeSecs
	}
	if cfg.Polling.WeatherSecs == 0 {
		cfg.Polling.WeatherSecs = d.Polling.WeatherSecs
	}
	if cfg.Polling.BatterySecs == 0 {
		cfg.Polling.BatterySecs = d.Polling.BatterySecs
	}

	if cfg.UI.Theme == "" {
		cfg.UI.Theme = d.UI.Theme
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = d.Log.Level
	}
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to ~/.plates/config.toml.
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML writes cfg atomically with 0600 permissions.
func SaveTOML(cfg *Config, path string) error {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "# plates configuration file")
	fmt.Fprintln(&buf, "# Generated by plates - edit with care")
	fmt.Fprintln(&buf, "")

	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFileWithDir(path, buf.Bytes(), 0600, 0700); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

func oneOf(field, value string, allowed ...string) *ValidationError {
	for _, a := range allowed {
		if strings.EqualFold(value, a) {
			return nil
		}
	}
	return &ValidationError{
		Field:   field,
		Message: fmt.Sprintf("invalid value '%s', must be one of: %s", value, strings.Join(allowed, ", ")),
	}
}

func httpURL(field, value string) *ValidationError {
	u, err := url.Parse(value)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return &ValidationError{Field: field, Message: fmt.Sprintf("invalid URL '%s', must be http(s)", value)}
	}
	return nil
}

// Validate validates the configuration and returns ValidateErrors.
func (c *Config) Validate() error {
	var errs ValidateErrors
	add := func(e *ValidationError) {
		if e != nil {
			errs = append(errs, *e)
		}
	}

	if c.Location.Latitude < -90 || c.Location.Latitude > 90 {
		add(&ValidationError{Field: "location.latitude", Message: "must be between -90 and 90"})
	}
	if c.Location.Longitude < -180 || c.Location.Longitude > 180 {
		add(&ValidationError{Field: "location.longitude", Message: "must be between -180 and 180"})
	}

	add(oneOf("weather.units", c.Weather.Units, "imperial", "metric", "standard"))
	add(httpURL("weather.base_url", c.Weather.BaseURL))
	if c.Weather.MinIntervalSecs < 0 {
		add(&ValidationError{Field: "weather.min_interval_secs", Message: "must not be negative"})
	}
	add(httpURL("search.base_url", c.Search.BaseURL))

	if c.Assistant.HistoryLimit < 0 {
		add(&ValidationError{Field: "assistant.history_limit", Message: "must not be negative"})
	}

	add(oneOf("speech.mode", c.Speech.Mode, "auto", "online", "offline"))
	add(httpURL("speech.probe_url", c.Speech.ProbeURL))

	if c.Gesture.LongPressMs < 100 || c.Gesture.LongPressMs > 5000 {
		add(&ValidationError{Field: "gesture.long_press_ms", Message: "must be between 100 and 5000"})
	}
	if c.Onboarding.SwipeThreshold <= 0 {
		add(&ValidationError{Field: "onboarding.swipe_threshold", Message: "must be positive"})
	}
	if c.Onboarding.CellHeight <= 0 {
		add(&ValidationError{Field: "onboarding.cell_height", Message: "must be positive"})
	}
	if c.Onboarding.StepsFile != "" {
		if _, err := os.Stat(c.Onboarding.StepsFile); err != nil {
			add(&ValidationError{Field: "onboarding.steps_file", Message: fmt.Sprintf("cannot read '%s'", c.Onboarding.StepsFile)})
		}
	}

	if c.Polling.TimeSecs < 1 {
		add(&ValidationError{Field: "polling.time_secs", Message: "must be at least 1"})
	}
	if c.Polling.WeatherSecs < 60 {
		add(&ValidationError{Field: "polling.weather_secs", Message: "must be at least 60"})
	}
	if c.Polling.BatterySecs < 1 {
		add(&ValidationError{Field: "polling.battery_secs", Message: "must be at least 1"})
	}

	add(oneOf("ui.theme", c.UI.Theme, "auto", "dark", "light"))
	add(oneOf("log.level", c.Log.Level, "debug", "info", "warn", "error"))

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

func envBool(v string) bool {
	return v == "1" || strings.EqualFold(v, "true") || strings.EqualFold(v, "yes")
}

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - PLATES_OFFLINE: "1" or "true" enables offline mode
//   - PLATES_LAT, PLATES_LON: override location coordinates
//   - PLATES_THEME: overrides ui.theme
//   - PLATES_LOG_LEVEL: overrides log.level
//   - PLATES_MODEL: overrides assistant.model
//   - PLATES_STT_MODE: overrides speech.mode
//   - OPENWEATHER_API_KEY: overrides weather.api_key
//   - GOOGLE_API_KEY, GOOGLE_SEARCH_ENGINE_ID: override search credentials
//   - GEMINI_API_KEY: overrides assistant.gemini_api_key
//   - OPENAI_API_KEY: overrides speech.openai_api_key
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("PLATES_OFFLINE"); v != "" {
		c.OfflineMode = envBool(v)
	}
	if v := os.Getenv("PLATES_LAT"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Location.Latitude = f
		}
	}
	if v := os.Getenv("PLATES_LON"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Location.Longitude = f
		}
	}
	if v := os.Getenv("PLATES_THEME"); v != "" {
		c.UI.Theme = v
	}
	if v := os.Getenv("PLATES_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("PLATES_MODEL"); v != "" {
		c.Assistant.Model = v
	}
	if v := os.Getenv("PLATES_STT_MODE"); v != "" {
		c.Speech.Mode = v
	}

	if v := os.Getenv("OPENWEATHER_API_KEY"); v != "" {
		c.Weather.APIKey = v
	}
	if v := os.Getenv("GOOGLE_API_KEY"); v != "" {
		c.Search.APIKey = v
	}
	if v := os.Getenv("GOOGLE_SEARCH_ENGINE_ID"); v != "" {
		c.Search.EngineID = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.Assistant.GeminiAPIKey = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.Speech.OpenAIAPIKey = v
	}
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// lookup walks a dot-notation key to its field.
func (c *Config) lookup(key string) (reflect.Value, error) {
	if strings.TrimSpace(key) == "" {
		return reflect.Value{}, errors.New("empty key")
	}
	parts := strings.Split(key, ".")

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		field, ok := fieldByTag(v, part)
		if !ok {
			return reflect.Value{}, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}
		if i == len(parts)-1 {
			return field, nil
		}
		if field.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("field '%s' is not a section", strings.Join(parts[:i+1], "."))
		}
		v = field
	}
	return reflect.Value{}, fmt.Errorf("invalid key: %s", key)
}

// fieldByTag finds the field whose toml tag is name.
func fieldByTag(v reflect.Value, name string) (reflect.Value, bool) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		tag := strings.Split(t.Field(i).Tag.Get("toml"), ",")[0]
		if strings.EqualFold(tag, name) {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}

// Get retrieves a configuration value using dot notation (e.g. "ui.theme").
func (c *Config) Get(key string) (interface{}, error) {
	field, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set sets a configuration value using dot notation. String values are
// converted to the field's type.
func (c *Config) Set(key string, value interface{}) error {
	field, err := c.lookup(key)
	if err != nil {
		return err
	}
	if field.Kind() == reflect.Struct {
		return fmt.Errorf("cannot set section: %s", key)
	}
	if !field.CanSet() {
		return fmt.Errorf("cannot set field: %s", key)
	}
	return setFieldValue(field, value)
}

// setFieldValue sets a reflect.Value from an interface{} value with type conversion.
func setFieldValue(field reflect.Value, value interface{}) error {
	if strVal, ok := value.(string); ok {
		switch field.Kind() {
		case reflect.String:
			field.SetString(strVal)
			return nil
		case reflect.Int, reflect.Int64:
			intVal, err := strconv.ParseInt(strVal, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer value: %v", err)
			}
			field.SetInt(intVal)
			return nil
		case reflect.Float64:
			floatVal, err := strconv.ParseFloat(strVal, 64)
			if err != nil {
				return fmt.Errorf("invalid float value: %v", err)
			}
			field.SetFloat(floatVal)
			return nil
		case reflect.Bool:
			field.SetBool(envBool(strVal))
			return nil
		}
	}

	val := reflect.ValueOf(value)
	if val.Type().AssignableTo(field.Type()) {
		field.Set(val)
		return nil
	}
	if val.Type().ConvertibleTo(field.Type()) {
		field.Set(val.Convert(field.Type()))
		return nil
	}
	return fmt.Errorf("cannot assign %T to %s", value, field.Type())
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// AllKeys returns every configuration key in dot notation.
func AllKeys() []string {
	var keys []string
	var walk func(t reflect.Type, prefix string)
	walk = func(t reflect.Type, prefix string) {
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			tag := strings.Split(f.Tag.Get("toml"), ",")[0]
			if tag == "" || tag == "-" {
				continue
			}
			if f.Type.Kind() == reflect.Struct {
				walk(f.Type, prefix+tag+".")
				continue
			}
			keys = append(keys, prefix+tag)
		}
	}
	walk(reflect.TypeOf(Config{}), "")
	return keys
}

// Clone returns a copy of the configuration. Config holds no reference
// types, so a value copy is deep.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// Redacted returns a copy with every API key masked.
func (c *Config) Redacted() *Config {
	safe := c.Clone()
	for _, key := range []*string{
		&safe.Weather.APIKey,
		&safe.Search.APIKey,
		&safe.Assistant.GeminiAPIKey,
		&safe.Speech.OpenAIAPIKey,
	} {
		if *key != "" {
			*key = "[REDACTED]"
		}
	}
	return safe
}

// String returns a JSON rendering with secrets redacted.
func (c *Config) String() string {
	data, _ := json.MarshalIndent(c.Redacted(), "", "  ")
	return string(data)
}

// =============================================================================
// SINGLETON PATTERN (THREAD-SAFE)
// =============================================================================

var (
	globalConfig     *Config
	globalConfigOnce sync.Once
	globalConfigMu   sync.RWMutex
)

// Global returns the global configuration instance, loading it on first
// access. Load failures fall back to defaults.
func Global() *Config {
	globalConfigOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
			cfg = Default()
		}
		globalConfigMu.Lock()
		if globalConfig == nil {
			globalConfig = cfg
		}
		globalConfigMu.Unlock()
	})

	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return globalConfig
}

// ReloadGlobal reloads the global configuration from disk.
func ReloadGlobal() error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	SetGlobal(cfg)
	return nil
}

// SetGlobal sets the global configuration instance.
func SetGlobal(cfg *Config) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting resets the global config state for testing.
func ResetGlobalForTesting() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
	globalConfigOnce = sync.Once{}
}
