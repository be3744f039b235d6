package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the BDO configuration
type Config struct {
	Log     LogConfig     `mapstructure:"log"`
	Storage StorageConfig `mapstructure:"storage"`
	Redis   RedisConfig   `mapstructure:"redis"`
	SQL     SQLConfig     `mapstructure:"sql"`
	Models  ModelsConfig  `mapstructure:"models"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// StorageConfig selects the stores behind models and namespaced storage
type StorageConfig struct {
	// Driver backs model collections: memory, redis or sql
	Driver string `mapstructure:"driver"`
	// Local backs namespaced storage: memory or redis
	Local string `mapstructure:"local"`
}

// RedisConfig represents Redis connection configuration
type RedisConfig struct {
	Addr      string `mapstructure:"addr"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	PoolSize  int    `mapstructure:"pool_size"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// SQLConfig represents the SQL document store configuration
type SQLConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
	Table  string `mapstructure:"table"`
}

// ModelsConfig represents model defaults
type ModelsConfig struct {
	Database string `mapstructure:"database"`
	Language string `mapstructure:"language"`
}

// Load loads the configuration from path, or from bdo.yml / bdo.yaml in the
// working directory when path is empty. BDO_* environment variables override
// file values (BDO_STORAGE_DRIVER sets storage.driver).
func Load(path string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
	v.SetDefault("storage.driver", "memory")
	v.SetDefault("storage.local", "memory")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.key_prefix", "bdo:")
	v.SetDefault("sql.driver", "sqlite3")
	v.SetDefault("sql.dsn", ":memory:")
	v.SetDefault("sql.table", "documents")
	v.SetDefault("models.database", "default")
	v.SetDefault("models.language", "en")

	// Set config name and paths
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("bdo")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	// Enable environment variable support
	v.SetEnvPrefix("BDO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file if it exists
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found - use defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// FindConfigFile looks for bdo.yml or bdo.yaml from the working directory
// upwards and returns its path.
func FindConfigFile() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		for _, name := range []string{"bdo.yml", "bdo.yaml"} {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}

		// Move up one directory
		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			return "", fmt.Errorf("no bdo.yml found")
		}
		dir = parent
	}
}

// validateConfig validates the configuration
func validateConfig(cfg *Config) error {
	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error, got: %s", cfg.Log.Level)
	}

	switch cfg.Storage.Driver {
	case "memory", "redis":
	case "sql":
		switch cfg.SQL.Driver {
		case "sqlite3", "pgx", "postgres":
		default:
			return fmt.Errorf("sql.driver must be one of sqlite3, pgx, postgres, got: %s", cfg.SQL.Driver)
		}
		if cfg.SQL.Table == "" {
			return fmt.Errorf("sql.table is required")
		}
	default:
		return fmt.Errorf("storage.driver must be one of memory, redis, sql, got: %s", cfg.Storage.Driver)
	}

	switch cfg.Storage.Local {
	case "memory", "redis":
	default:
		return fmt.Errorf("storage.local must be one of memory, redis, got: %s", cfg.Storage.Local)
	}

	if cfg.Models.Database == "" {
		return fmt.Errorf("models.database is required")
	}
	return nil
}
