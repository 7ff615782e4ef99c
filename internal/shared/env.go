package shared

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// LoadEnv reads KEY=value pairs from the given dotenv files into the process environment.
//
// Missing files are skipped and variables already set in the environment win.
func LoadEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}

	for _, path := range paths {
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return err
		}
	}
	return nil
}

// ApplyEnv overrides config values with OKMUSI_* environment variables.
func ApplyEnv(c *Config) {
	c.Server.Host = GetEnvOrDefault("OKMUSI_SERVER_HOST", c.Server.Host)
	c.Server.Port = getEnvInt("OKMUSI_SERVER_PORT", c.Server.Port)
	if origins := os.Getenv("OKMUSI_ALLOWED_ORIGINS"); origins != "" {
		c.Server.AllowedOrigins = strings.Split(origins, ",")
	}

	c.Storage.Driver = strings.ToLower(GetEnvOrDefault("OKMUSI_STORAGE_DRIVER", c.Storage.Driver))
	c.Database.Path = GetEnvOrDefault("OKMUSI_DATABASE_PATH", c.Database.Path)
	c.Postgres.DSN = GetEnvOrDefault("OKMUSI_POSTGRES_DSN", c.Postgres.DSN)
	c.Redis.Addr = GetEnvOrDefault("OKMUSI_REDIS_ADDR", c.Redis.Addr)
	c.Redis.Password = GetEnvOrDefault("OKMUSI_REDIS_PASSWORD", c.Redis.Password)
	c.Redis.DB = getEnvInt("OKMUSI_REDIS_DB", c.Redis.DB)

	c.Latency.Auth = GetEnvOrDefault("OKMUSI_LATENCY_AUTH", c.Latency.Auth)
	c.Latency.Search = GetEnvOrDefault("OKMUSI_LATENCY_SEARCH", c.Latency.Search)
}

// GetEnvOrDefault retrieves an environment variable or returns a default value
func GetEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}
