package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config holds all runtime configuration, grouped by concern.
type Config struct {
	Server  ServerConfig  `mapstructure:"server" validate:"required"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Storage StorageConfig `mapstructure:"storage" validate:"required"`
	Chain   ChainConfig   `mapstructure:"chain"`
	Log     LogConfig     `mapstructure:"log" validate:"required"`
}

// ServerConfig contains the HTTP listener settings.
type ServerConfig struct {
	Addr            string `mapstructure:"addr" validate:"required"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout" validate:"gte=0"`
}

// RedisConfig selects and configures the Redis history store.
// When Enabled is false the file (or memory) store is used instead.
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr" validate:"required_if=Enabled true"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db" validate:"gte=0"`
	// TTLSeconds expires idle session journals; 0 keeps them forever.
	TTLSeconds int `mapstructure:"ttl_seconds" validate:"gte=0"`
}

// StorageConfig configures the file-backed history store.
type StorageConfig struct {
	Backend string `mapstructure:"backend" validate:"required,oneof=memory file redis"`
	Path    string `mapstructure:"path"`
}

// ChainConfig points at the YAML escalation chain definition.
type ChainConfig struct {
	File string `mapstructure:"file"`
}

// LogConfig controls structured logging output.
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=auto text json"`
}

// Load reads configuration from an optional file and the environment.
// Environment variables use the TRIAGE_ prefix and override file values,
// e.g. TRIAGE_SERVER_ADDR overrides server.addr. An empty path means no
// config file is required; a named file that cannot be read is an error.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.shutdown_timeout", 10)
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl_seconds", 0)
	v.SetDefault("storage.backend", "file")
	v.SetDefault("storage.path", filepath.Join(".triage", "sessions"))
	v.SetDefault("chain.file", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "auto")

	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "triage"))
		}
		v.SetConfigName("triage")
		// An absent default config file is fine; defaults and env apply.
		_ = v.ReadInConfig()
	}

	v.SetEnvPrefix("TRIAGE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}
