package model

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// SeedCategory is a category inserted on first run.
type SeedCategory struct {
	Name  string `mapstructure:"name" yaml:"name"`
	Color string `mapstructure:"color" yaml:"color"`
}

// SeedConfig controls the bootstrap data written into an empty database.
type SeedConfig struct {
	// Categories are inserted when the categories collection is empty.
	Categories []SeedCategory `mapstructure:"categories" yaml:"categories"`

	// ExampleTask inserts the sample tasks when the tasks collection is empty.
	ExampleTask bool `mapstructure:"example_task" yaml:"example_task"`
}

// DatabaseConfig locates the embedded database.
type DatabaseConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// LogConfig holds logger settings. An empty File logs to the data dir.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	File  string `mapstructure:"file" yaml:"file"`
}

// DisplayConfig holds UI/rendering preferences.
type DisplayConfig struct {
	Theme         string `mapstructure:"theme" yaml:"theme"`
	ShowCompleted bool   `mapstructure:"show_completed" yaml:"show_completed"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
	Display  DisplayConfig  `mapstructure:"display" yaml:"display"`
	Seed     SeedConfig     `mapstructure:"seed" yaml:"seed"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/studytrack/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "studytrack", "config.yaml")
}

// DefaultDataDir returns the directory holding the database and log file.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".local", "share", "studytrack")
}

// DefaultSeedCategories are the three categories created on first run.
func DefaultSeedCategories() []SeedCategory {
	return []SeedCategory{
		{Name: "院試対策", Color: "#ef4444"},
		{Name: "専門科目", Color: "#3b82f6"},
		{Name: "語学", Color: "#10b981"},
	}
}

// DefaultAppConfig returns the configuration used when no file exists.
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		Database: DatabaseConfig{
			Path: filepath.Join(DefaultDataDir(), "studytrack.db"),
		},
		Log: LogConfig{
			Level: "info",
		},
		Display: DisplayConfig{
			Theme:         "default",
			ShowCompleted: true,
		},
		Seed: SeedConfig{
			Categories: DefaultSeedCategories(),
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	def := DefaultAppConfig()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("STUDYTRACK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("database.path", def.Database.Path)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.file", "")
	v.SetDefault("display.theme", def.Display.Theme)
	v.SetDefault("display.show_completed", def.Display.ShowCompleted)
	v.SetDefault("seed.example_task", false)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return def, nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return def, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := DefaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	// An explicit empty list disables category seeding; an absent key
	// keeps the defaults.
	if !v.IsSet("seed.categories") {
		cfg.Seed.Categories = DefaultSeedCategories()
	}
	for i := range cfg.Seed.Categories {
		if cfg.Seed.Categories[i].Color == "" {
			cfg.Seed.Categories[i].Color = DefaultCategoryColor
		}
	}

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

	v.Set("database", cfg.Database)
	v.Set("log", cfg.Log)
	v.Set("display", cfg.Display)
	v.Set("seed", cfg.Seed)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
