package model

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// LogConfig controls the structured logger.
type LogConfig struct {
	// Level is one of DEBUG, INFO, WARN, ERROR.
	Level string `mapstructure:"level" yaml:"level"`
}

// PreferencesConfig selects where user preferences are kept.
type PreferencesConfig struct {
	// Backend is "auto" (system keychain first) or "file".
	Backend string `mapstructure:"backend" yaml:"backend"`

	// Dir holds the encrypted file backend.
	Dir string `mapstructure:"dir" yaml:"dir"`
}

// BackupConfig holds export settings.
type BackupConfig struct {
	CacheDir string `mapstructure:"cache_dir" yaml:"cache_dir"`
}

// NotificationsConfig stands in for the OS permission prompt.
type NotificationsConfig struct {
	Allowed bool `mapstructure:"allowed" yaml:"allowed"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	DataDir       string              `mapstructure:"data_dir" yaml:"data_dir"`
	DBPath        string              `mapstructure:"db_path" yaml:"db_path"`
	Log           LogConfig           `mapstructure:"log" yaml:"log"`
	Preferences   PreferencesConfig   `mapstructure:"preferences" yaml:"preferences"`
	Backup        BackupConfig        `mapstructure:"backup" yaml:"backup"`
	Notifications NotificationsConfig `mapstructure:"notifications" yaml:"notifications"`
}

// DefaultConfigPath returns ~/.config/dayplan/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "dayplan", "config.yaml")
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "dayplan")
	}
	return filepath.Join(home, ".local", "share", "dayplan")
}

// defaultAppConfig returns the configuration used when no file exists.
func defaultAppConfig() *AppConfig {
	dataDir := defaultDataDir()
	return &AppConfig{
		DataDir: dataDir,
		DBPath:  filepath.Join(dataDir, "dayplan.db"),
		Log:     LogConfig{Level: "INFO"},
		Preferences: PreferencesConfig{
			Backend: "auto",
			Dir:     filepath.Join(dataDir, "preferences"),
		},
		Backup:        BackupConfig{CacheDir: filepath.Join(dataDir, "cache")},
		Notifications: NotificationsConfig{Allowed: true},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// Environment variables prefixed with DAYPLAN_ override file values
// (DAYPLAN_LOG_LEVEL for log.level). A missing file yields the defaults.
func LoadConfig(path string) (*AppConfig, error) {
	def := defaultAppConfig()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("dayplan")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("data_dir", def.DataDir)
	v.SetDefault("db_path", "")
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("preferences.backend", def.Preferences.Backend)
	v.SetDefault("preferences.dir", "")
	v.SetDefault("backup.cache_dir", "")
	v.SetDefault("notifications.allowed", def.Notifications.Allowed)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		var pathErr *os.PathError
		if !errors.As(err, &notFound) && !errors.As(err, &pathErr) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := &AppConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	// Paths left empty follow data_dir.
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(cfg.DataDir, "dayplan.db")
	}
	if cfg.Preferences.Dir == "" {
		cfg.Preferences.Dir = filepath.Join(cfg.DataDir, "preferences")
	}
	if cfg.Backup.CacheDir == "" {
		cfg.Backup.CacheDir = filepath.Join(cfg.DataDir, "cache")
	}
	cfg.Log.Level = strings.ToUpper(cfg.Log.Level)

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("data_dir", cfg.DataDir)
	v.Set("db_path", cfg.DBPath)
	v.Set("log", cfg.Log)
	v.Set("preferences", cfg.Preferences)
	v.Set("backup", cfg.Backup)
	v.Set("notifications", cfg.Notifications)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
