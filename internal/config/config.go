package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Wizard   WizardConfig   `mapstructure:"wizard"`
	Settings SettingsConfig `mapstructure:"settings"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Tracing  TracingConfig  `mapstructure:"tracing"`
	Client   ClientConfig   `mapstructure:"client"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	Version     string `mapstructure:"version"`
}

type ServerConfig struct {
	Host              string   `mapstructure:"host"`
	Port              int      `mapstructure:"port"`
	ShutdownTimeoutMs int      `mapstructure:"shutdown_timeout_ms"`
	CORSOrigins       []string `mapstructure:"cors_origins"`
}

func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type DatabaseConfig struct {
	Driver       string         `mapstructure:"driver"`
	URL          string         `mapstructure:"url"`
	Path         string         `mapstructure:"path"`
	MaxOpenConns int            `mapstructure:"max_open_conns"`
	MaxIdleConns int            `mapstructure:"max_idle_conns"`
	Postgres     PostgresConfig `mapstructure:"postgres"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Database string `mapstructure:"database"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	SSLMode  string `mapstructure:"ssl_mode"`
}

// GetDSN returns the URL when one is set, otherwise builds a keyword DSN.
func (d DatabaseConfig) GetDSN() string {
	if d.URL != "" {
		return d.URL
	}
	p := d.Postgres
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode)
}

type ProviderConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

type LLMConfig struct {
	OpenAI           ProviderConfig `mapstructure:"openai"`
	Anthropic        ProviderConfig `mapstructure:"anthropic"`
	AnthropicVersion string         `mapstructure:"anthropic_version"`
	MaxTokens        int            `mapstructure:"max_tokens"`
	TimeoutMs        int            `mapstructure:"timeout_ms"`
}

type WizardConfig struct {
	AutosaveDelayMs int `mapstructure:"autosave_delay_ms"`
	SaveRetries     int `mapstructure:"save_retries"`
	RetryBackoffMs  int `mapstructure:"retry_backoff_ms"`
}

const (
	SettingsBackendFile   = "file"
	SettingsBackendRedis  = "redis"
	SettingsBackendMemory = "memory"
)

type SettingsConfig struct {
	Backend string      `mapstructure:"backend"`
	Path    string      `mapstructure:"path"`
	Redis   RedisConfig `mapstructure:"redis"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type TracingConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	ServiceName string `mapstructure:"service_name"`
}

type ClientConfig struct {
	ServerURL string `mapstructure:"server_url"`
}

// GetDuration converts milliseconds from config to time.Duration.
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}

// DefaultSettingsPath is $XDG_CONFIG_HOME/gravity/settings.json, falling back to ~/.config.
func DefaultSettingsPath() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "gravity", "settings.json"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".config", "gravity", "settings.json"), nil
}
