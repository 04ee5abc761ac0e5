package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// envKeys are bound explicitly so AutomaticEnv also reaches keys absent from any file.
var envKeys = []string{
	"app.name", "app.environment", "app.version",
	"server.host", "server.port", "server.shutdown_timeout_ms", "server.cors_origins",
	"database.driver", "database.url", "database.path", "database.max_open_conns", "database.max_idle_conns",
	"database.postgres.host", "database.postgres.port", "database.postgres.database",
	"database.postgres.user", "database.postgres.password", "database.postgres.ssl_mode",
	"llm.openai.base_url", "llm.openai.model", "llm.anthropic.base_url", "llm.anthropic.model",
	"llm.anthropic_version", "llm.max_tokens", "llm.timeout_ms",
	"wizard.autosave_delay_ms", "wizard.save_retries", "wizard.retry_backoff_ms",
	"settings.backend", "settings.path",
	"settings.redis.address", "settings.redis.password", "settings.redis.db", "settings.redis.prefix",
	"logging.level", "logging.format",
	"tracing.enabled", "tracing.service_name",
	"client.server_url",
}

// Load reads .env, config.yaml, config.<APP_ENVIRONMENT>.yaml and the environment,
// in increasing order of precedence.
func Load(paths ...string) (*Config, error) {
	loadEnvFile()

	if len(paths) == 0 {
		paths = []string{"./configs", "."}
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}
	v.SetConfigName("config." + env)
	_ = v.MergeInConfig()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = env
	}

	overrideFromLegacyEnv(&cfg)
	if err := applyDefaults(&cfg); err != nil {
		return nil, err
	}
	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func loadEnvFile() {
	for _, path := range []string{".env", "../.env", "../../.env"} {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// overrideFromLegacyEnv honours the plain PORT variable of container platforms.
func overrideFromLegacyEnv(cfg *Config) {
	if cfg.Server.Port == 0 {
		if port := os.Getenv("PORT"); port != "" {
			fmt.Sscanf(port, "%d", &cfg.Server.Port)
		}
	}
}

func applyDefaults(cfg *Config) error {
	if cfg.App.Name == "" {
		cfg.App.Name = "gravity"
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.ShutdownTimeoutMs == 0 {
		cfg.Server.ShutdownTimeoutMs = 10000
	}
	if len(cfg.Server.CORSOrigins) == 0 {
		cfg.Server.CORSOrigins = []string{"*"}
	}

	if cfg.Database.Driver == "" {
		if cfg.Database.URL != "" {
			cfg.Database.Driver = DriverPostgres
		} else {
			cfg.Database.Driver = DriverSQLite
		}
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "gravity.db"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.Postgres.Port == 0 {
		cfg.Database.Postgres.Port = 5432
	}
	if cfg.Database.Postgres.SSLMode == "" {
		cfg.Database.Postgres.SSLMode = "disable"
	}

	if cfg.LLM.OpenAI.BaseURL == "" {
		cfg.LLM.OpenAI.BaseURL = "https://api.openai.com"
	}
	if cfg.LLM.OpenAI.Model == "" {
		cfg.LLM.OpenAI.Model = "gpt-4o"
	}
	if cfg.LLM.Anthropic.BaseURL == "" {
		cfg.LLM.Anthropic.BaseURL = "https://api.anthropic.com"
	}
	if cfg.LLM.Anthropic.Model == "" {
		cfg.LLM.Anthropic.Model = "claude-sonnet-4-20250514"
	}
	if cfg.LLM.AnthropicVersion == "" {
		cfg.LLM.AnthropicVersion = "2023-06-01"
	}
	if cfg.LLM.MaxTokens == 0 {
		cfg.LLM.MaxTokens = 4096
	}

	if cfg.Wizard.AutosaveDelayMs == 0 {
		cfg.Wizard.AutosaveDelayMs = 1000
	}
	if cfg.Wizard.SaveRetries == 0 {
		cfg.Wizard.SaveRetries = 3
	}
	if cfg.Wizard.RetryBackoffMs == 0 {
		cfg.Wizard.RetryBackoffMs = 200
	}

	if cfg.Settings.Backend == "" {
		cfg.Settings.Backend = SettingsBackendFile
	}
	if cfg.Settings.Backend == SettingsBackendFile && cfg.Settings.Path == "" {
		path, err := DefaultSettingsPath()
		if err != nil {
			return err
		}
		cfg.Settings.Path = path
	}
	if cfg.Settings.Redis.Prefix == "" {
		cfg.Settings.Redis.Prefix = "gravity:settings:"
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}

	if cfg.Tracing.ServiceName == "" {
		cfg.Tracing.ServiceName = cfg.App.Name
	}

	if cfg.Client.ServerURL == "" {
		cfg.Client.ServerURL = fmt.Sprintf("http://localhost:%d", cfg.Server.Port)
	}
	return nil
}

func validateConfig(cfg *Config) error {
	switch cfg.Database.Driver {
	case DriverSQLite:
		if cfg.Database.Path == "" {
			return fmt.Errorf("database.path is required for sqlite")
		}
	case DriverPostgres:
		if cfg.Database.URL == "" && (cfg.Database.Postgres.Host == "" || cfg.Database.Postgres.Database == "") {
			return fmt.Errorf("database.url or database.postgres.host and database.postgres.database are required for postgres")
		}
	default:
		return fmt.Errorf("database.driver %q is not supported", cfg.Database.Driver)
	}

	switch cfg.Settings.Backend {
	case SettingsBackendFile, SettingsBackendMemory:
	case SettingsBackendRedis:
		if cfg.Settings.Redis.Address == "" {
			return fmt.Errorf("settings.redis.address is required for the redis backend")
		}
	default:
		return fmt.Errorf("settings.backend %q is not supported", cfg.Settings.Backend)
	}

	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port %d is out of range", cfg.Server.Port)
	}
	if cfg.Wizard.SaveRetries < 1 {
		return fmt.Errorf("wizard.save_retries must be at least 1")
	}
	return nil
}
