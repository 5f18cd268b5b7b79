// Package config manages the clipvault YAML configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the clipvault configuration.
type Config struct {
	// PollingIntervalMS is the clipboard polling cadence in milliseconds.
	PollingIntervalMS int `yaml:"polling_interval_ms"`
	// AutoStartMonitoring starts the watcher as soon as the daemon launches.
	AutoStartMonitoring bool `yaml:"auto_start_monitoring"`
	// EnableDeduplication evicts the older of two records sharing a fingerprint.
	EnableDeduplication bool `yaml:"enable_deduplication"`

	// DataLocation overrides the default data directory.
	DataLocation string `yaml:"data_location,omitempty"`
	// ImagesFolderName is the asset directory name under the data directory.
	ImagesFolderName string `yaml:"images_folder_name"`
	// HistoryFileName is the record log filename under the data directory.
	HistoryFileName string `yaml:"history_file_name"`

	// MaxRecords caps stored history; 0 means unlimited.
	MaxRecords int `yaml:"max_records"`
	// DataExpirationDays purges older records; 0 means never.
	DataExpirationDays int `yaml:"data_expiration_days"`

	// ThumbnailMaxWidth and ThumbnailMaxHeight bound derived images.
	ThumbnailMaxWidth  int `yaml:"thumbnail_max_width"`
	ThumbnailMaxHeight int `yaml:"thumbnail_max_height"`
	// ThumbnailKeepAspectRatio scales proportionally when true.
	ThumbnailKeepAspectRatio bool `yaml:"thumbnail_keep_aspect_ratio"`

	// TextPreviewMaxLength bounds text previews.
	TextPreviewMaxLength int `yaml:"text_preview_max_length"`
	// FilePrefix is prepended to asset filenames.
	FilePrefix string `yaml:"file_prefix"`
	// SensitiveKeywords blocks text snapshots containing any keyword.
	SensitiveKeywords []string `yaml:"sensitive_keywords,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		PollingIntervalMS:        500,
		AutoStartMonitoring:      true,
		EnableDeduplication:      true,
		ImagesFolderName:         "clipboard_images",
		HistoryFileName:          "clipboard_history.jsonl",
		MaxRecords:               1000,
		DataExpirationDays:       30,
		ThumbnailMaxWidth:        200,
		ThumbnailMaxHeight:       200,
		ThumbnailKeepAspectRatio: true,
		TextPreviewMaxLength:     100,
		FilePrefix:               "clipboard",
	}
}

// DataDir resolves the writable data directory for the log and assets.
func (c *Config) DataDir() (string, error) {
	if c.DataLocation != "" {
		return c.DataLocation, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".local", "share", "clipvault"), nil
}

// ConfigManager manages configuration persistence.
type ConfigManager struct {
	configPath string
}

// NewConfigManager creates a manager using the default config path.
func NewConfigManager() (*ConfigManager, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}
	configPath := filepath.Join(homeDir, ".config", "clipvault", "config.yaml")
	return &ConfigManager{configPath: configPath}, nil
}

// NewConfigManagerWithPath creates a manager with a custom config path.
func NewConfigManagerWithPath(configPath string) *ConfigManager {
	return &ConfigManager{configPath: configPath}
}

// Load reads the configuration from file, or returns the default when the
// file doesn't exist.
func (cm *ConfigManager) Load() (*Config, error) {
	if _, err := os.Stat(cm.configPath); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(cm.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cm.validate(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return config, nil
}

// Save writes the configuration to file.
func (cm *ConfigManager) Save(config *Config) error {
	if err := cm.validate(config); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	configDir := filepath.Dir(cm.configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(cm.configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// validate rejects configurations the daemon cannot run with.
func (cm *ConfigManager) validate(config *Config) error {
	if config.PollingIntervalMS < 50 {
		return fmt.Errorf("polling_interval_ms must be at least 50")
	}
	if config.MaxRecords < 0 {
		return fmt.Errorf("max_records must not be negative")
	}
	if config.DataExpirationDays < 0 {
		return fmt.Errorf("data_expiration_days must not be negative")
	}
	if config.ThumbnailMaxWidth <= 0 || config.ThumbnailMaxHeight <= 0 {
		return fmt.Errorf("thumbnail bounds must be positive")
	}
	if config.TextPreviewMaxLength <= 0 {
		return fmt.Errorf("text_preview_max_length must be positive")
	}
	return nil
}

// GetConfigPath returns the path to the config file.
func (cm *ConfigManager) GetConfigPath() string {
	return cm.configPath
}

// Update modifies a single configuration value addressed by key.
func (cm *ConfigManager) Update(key, value string) error {
	config, err := cm.Load()
	if err != nil {
		return err
	}

	switch key {
	case "polling-interval-ms":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer value for %s: %s", key, value)
		}
		config.PollingIntervalMS = n
	case "auto-start-monitoring":
		b, err := parseBool(key, value)
		if err != nil {
			return err
		}
		config.AutoStartMonitoring = b
	case "enable-deduplication":
		b, err := parseBool(key, value)
		if err != nil {
			return err
		}
		config.EnableDeduplication = b
	case "data-location":
		config.DataLocation = value
	case "max-records":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer value for %s: %s", key, value)
		}
		config.MaxRecords = n
	case "data-expiration-days":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer value for %s: %s", key, value)
		}
		config.DataExpirationDays = n
	case "text-preview-max-length":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer value for %s: %s", key, value)
		}
		config.TextPreviewMaxLength = n
	case "sensitive-keywords":
		config.SensitiveKeywords = splitKeywords(value)
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}

	return cm.Save(config)
}

// Get returns the value for a single configuration key.
func (cm *ConfigManager) Get(key string) (string, error) {
	config, err := cm.Load()
	if err != nil {
		return "", err
	}

	values := cm.asMap(config)
	value, ok := values[key]
	if !ok {
		return "", fmt.Errorf("unknown configuration key: %s", key)
	}
	return value, nil
}

// List returns all configuration keys and values.
func (cm *ConfigManager) List() (map[string]string, error) {
	config, err := cm.Load()
	if err != nil {
		return nil, err
	}
	return cm.asMap(config), nil
}

// asMap flattens a config into CLI-addressable key/value pairs.
func (cm *ConfigManager) asMap(config *Config) map[string]string {
	location := config.DataLocation
	if location == "" {
		location = "[default]"
	}
	return map[string]string{
		"polling-interval-ms":     strconv.Itoa(config.PollingIntervalMS),
		"auto-start-monitoring":   strconv.FormatBool(config.AutoStartMonitoring),
		"enable-deduplication":    strconv.FormatBool(config.EnableDeduplication),
		"data-location":           location,
		"max-records":             strconv.Itoa(config.MaxRecords),
		"data-expiration-days":    strconv.Itoa(config.DataExpirationDays),
		"text-preview-max-length": strconv.Itoa(config.TextPreviewMaxLength),
		"sensitive-keywords":      strings.Join(config.SensitiveKeywords, ","),
	}
}

// parseBool parses "true" or "false", rejecting anything else.
func parseBool(key, value string) (bool, error) {
	switch value {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean value for %s: %s (must be 'true' or 'false')", key, value)
}

// splitKeywords parses a comma-separated keyword list, dropping empties.
func splitKeywords(value string) []string {
	var keywords []string
	for _, kw := range strings.Split(value, ",") {
		kw = strings.TrimSpace(kw)
		if kw != "" {
			keywords = append(keywords, kw)
		}
	}
	return keywords
}
