// Package config loads lingo settings from defaults, an optional YAML
// file and LINGO_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Server struct {
		Addr string `mapstructure:"addr"`
	} `mapstructure:"server"`

	LLM struct {
		Provider    string        `mapstructure:"provider"`
		Model       string        `mapstructure:"model"`
		BaseURL     string        `mapstructure:"base_url"`
		APIKey      string        `mapstructure:"api_key"`
		Org         string        `mapstructure:"organization"`
		Timeout     time.Duration `mapstructure:"timeout"`
		MaxTokens   int           `mapstructure:"max_tokens"`
		Temperature float64       `mapstructure:"temperature"`
	} `mapstructure:"llm"`

	Mock struct {
		// SentinelKey is a placeholder credential that forces mock replies
		SentinelKey string `mapstructure:"sentinel_key"`
	} `mapstructure:"mock"`

	Tutor struct {
		Prompt string `mapstructure:"prompt"`
	} `mapstructure:"tutor"`

	History struct {
		Driver string `mapstructure:"driver"`
		DSN    string `mapstructure:"dsn"`
		Dir    string `mapstructure:"dir"`
	} `mapstructure:"history"`

	Vault struct {
		Enabled bool   `mapstructure:"enabled"`
		Service string `mapstructure:"service"`
	} `mapstructure:"vault"`

	DataDir string `mapstructure:"-"`
}

// Manager owns the viper instance backing a Config
type Manager struct {
	v          *viper.Viper
	configPath string
	dataDir    string
}

// DataDir is ~/.lingo
func DataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".lingo"), nil
}

// NewManager reads configPath, or <DataDir>/config.yaml when it is empty.
// A missing file is not an error.
func NewManager(configPath string) (*Manager, error) {
	dataDir, err := DataDir()
	if err != nil {
		return nil, err
	}
	if configPath == "" {
		configPath = filepath.Join(dataDir, "config.yaml")
	}

	v := viper.New()
	setDefaults(v, dataDir)

	v.SetEnvPrefix("LINGO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("llm.api_key", "LINGO_LLM_API_KEY", "OPENAI_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind api key env: %w", err)
	}

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	return &Manager{v: v, configPath: configPath, dataDir: dataDir}, nil
}

func setDefaults(v *viper.Viper, dataDir string) {
	v.SetDefault("server.addr", ":12001")
	v.SetDefault("llm.provider", "openai")
	v.SetDefault("llm.model", "gpt-4o")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.organization", "")
	v.SetDefault("llm.timeout", 60*time.Second)
	v.SetDefault("llm.max_tokens", 1000)
	v.SetDefault("llm.temperature", 0.7)
	v.SetDefault("mock.sentinel_key", "your_openai_api_key_here")
	v.SetDefault("tutor.prompt", "")
	v.SetDefault("history.driver", "file")
	v.SetDefault("history.dsn", "")
	v.SetDefault("history.dir", dataDir)
	v.SetDefault("vault.enabled", true)
	v.SetDefault("vault.service", "lingo")
}

// Viper exposes the underlying instance so CLI flags can be bound to it
func (m *Manager) Viper() *viper.Viper {
	return m.v
}

// Path is the config file location
func (m *Manager) Path() string {
	return m.configPath
}

// Load decodes the current settings
func (m *Manager) Load() (*Config, error) {
	var cfg Config
	if err := m.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.DataDir = m.dataDir
	return &cfg, nil
}

// SetDefaults persists the default provider and model to the config file.
// Only keys already in the file are written back, never env values.
func (m *Manager) SetDefaults(provider, model string) error {
	w := viper.New()
	w.SetConfigFile(m.configPath)
	w.SetConfigType("yaml")
	_ = w.ReadInConfig()

	w.Set("llm.provider", provider)
	w.Set("llm.model", model)

	if err := os.MkdirAll(filepath.Dir(m.configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := w.WriteConfigAs(m.configPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	m.v.Set("llm.provider", provider)
	m.v.Set("llm.model", model)
	return nil
}

// Watch calls fn with the reloaded settings whenever the config file
// changes on disk. The file must exist.
func (m *Manager) Watch(fn func(*Config)) error {
	if _, err := os.Stat(m.configPath); err != nil {
		return fmt.Errorf("cannot watch config: %w", err)
	}
	m.v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		cfg, err := m.Load()
		if err != nil {
			return
		}
		fn(cfg)
	})
	m.v.WatchConfig()
	return nil
}
