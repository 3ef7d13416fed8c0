package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"kokugo/internal/logger"
)

// Config holds the application configuration, loaded from the environment.
type Config struct {
	// Analysis Configuration
	MinInputChars int  // floor below which analysis fails (InputTooShort)
	DevMode       bool // pattern-catalogue problems become fatal

	// File Loader Configuration
	AllowedDirs []string // directories input paths must resolve under

	// Store Configuration
	DBPath string // sqlite database for batch/history; empty disables

	// Logging Configuration
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

// Load reads the configuration from the environment. Every key has a usable
// default; nothing is required.
func Load() (*Config, error) {
	config := &Config{
		MinInputChars: getEnvInt("KOKUGO_MIN_INPUT_CHARS", 200),
		DevMode:       getEnvBool("KOKUGO_DEV_MODE", false),
		AllowedDirs:   splitDirs(getEnv("KOKUGO_ALLOWED_DIRS", "")),
		DBPath:        getEnv("KOKUGO_DB_PATH", defaultDBPath()),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "console"),
		LogTimeFormat: getEnv("LOG_TIME_FORMAT", "2006-01-02T15:04:05Z07:00"),
		LogOutput:     getEnv("LOG_OUTPUT", "stderr"),
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func (c *Config) validate() error {
	if c.MinInputChars < 0 {
		return fmt.Errorf("KOKUGO_MIN_INPUT_CHARS must not be negative")
	}
	for _, d := range c.AllowedDirs {
		if !filepath.IsAbs(d) {
			return fmt.Errorf("KOKUGO_ALLOWED_DIRS entries must be absolute, got %q", d)
		}
	}
	return nil
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "kokugo.db"
	}
	return filepath.Join(home, ".kokugo", "kokugo.db")
}

func splitDirs(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, d := range strings.Split(s, string(os.PathListSeparator)) {
		if d = strings.TrimSpace(d); d != "" {
			out = append(out, filepath.Clean(d))
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
