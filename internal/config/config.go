package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config holds all configuration options for the timesheet engine
type Config struct {
	Database    DatabaseConfig
	Pagination  PaginationConfig
	Validation  ValidationConfig
	Application ApplicationConfig
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Dir            string        `env:"TSC_DB_DIR"`
	Filename       string        `env:"TSC_DB_FILENAME"`
	QueryTimeout   time.Duration `env:"TSC_DB_QUERY_TIMEOUT"`
	WriteTimeout   time.Duration `env:"TSC_DB_WRITE_TIMEOUT"`
	DirPermissions uint32        `env:"TSC_DB_DIR_PERMISSIONS"`
}

// PaginationConfig holds listing pagination configuration
type PaginationConfig struct {
	DefaultLimit int `env:"TSC_PAGE_DEFAULT_LIMIT"`
	MaxLimit     int `env:"TSC_PAGE_MAX_LIMIT"`
}

// ValidationConfig holds validation rules configuration
type ValidationConfig struct {
	DescriptionMaxLength int `env:"TSC_VALIDATION_DESCRIPTION_MAX"`
}

// ApplicationConfig holds application-level configuration
type ApplicationConfig struct {
	Timeout time.Duration `env:"TSC_APP_TIMEOUT"`
	Verbose bool          `env:"TSC_APP_VERBOSE"`
}

// NewConfig creates a new configuration with sensible defaults
func NewConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	defaultDBDir := filepath.Join(homeDir, ".tsc")

	return &Config{
		Database: DatabaseConfig{
			Dir:            defaultDBDir,
			Filename:       "timesheet.db",
			QueryTimeout:   10 * time.Second,
			WriteTimeout:   5 * time.Second,
			DirPermissions: 0755,
		},
		Pagination: PaginationConfig{
			DefaultLimit: 10,
			MaxLimit:     100,
		},
		Validation: ValidationConfig{
			DescriptionMaxLength: 500,
		},
		Application: ApplicationConfig{
			Timeout: 60 * time.Second,
			Verbose: false,
		},
	}
}

// GetDatabasePath returns the full path to the database file
func (c *Config) GetDatabasePath() string {
	return filepath.Join(c.Database.Dir, c.Database.Filename)
}

// GetQueryTimeout returns the database query timeout
func (c *Config) GetQueryTimeout() time.Duration {
	return c.Database.QueryTimeout
}

// GetWriteTimeout returns the database write timeout
func (c *Config) GetWriteTimeout() time.Duration {
	return c.Database.WriteTimeout
}

// LoadFromEnvironment loads configuration from environment variables
func (c *Config) LoadFromEnvironment() error {
	// Database configuration
	if dir := os.Getenv("TSC_DB_DIR"); dir != "" {
		c.Database.Dir = dir
	}
	if filename := os.Getenv("TSC_DB_FILENAME"); filename != "" {
		c.Database.Filename = filename
	}
	if timeout := os.Getenv("TSC_DB_QUERY_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			c.Database.QueryTimeout = d
		}
	}
	if timeout := os.Getenv("TSC_DB_WRITE_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			c.Database.WriteTimeout = d
		}
	}
	if perms := os.Getenv("TSC_DB_DIR_PERMISSIONS"); perms != "" {
		if p, err := strconv.ParseUint(perms, 8, 32); err == nil {
			c.Database.DirPermissions = uint32(p)
		}
	}

	// Pagination configuration
	if limit := os.Getenv("TSC_PAGE_DEFAULT_LIMIT"); limit != "" {
		if n, err := strconv.Atoi(limit); err == nil {
			c.Pagination.DefaultLimit = n
		}
	}
	if limit := os.Getenv("TSC_PAGE_MAX_LIMIT"); limit != "" {
		if n, err := strconv.Atoi(limit); err == nil {
			c.Pagination.MaxLimit = n
		}
	}

	// Validation configuration
	if maxLen := os.Getenv("TSC_VALIDATION_DESCRIPTION_MAX"); maxLen != "" {
		if n, err := strconv.Atoi(maxLen); err == nil {
			c.Validation.DescriptionMaxLength = n
		}
	}

	// Application configuration
	if timeout := os.Getenv("TSC_APP_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			c.Application.Timeout = d
		}
	}
	if verbose := os.Getenv("TSC_APP_VERBOSE"); verbose != "" {
		if b, err := strconv.ParseBool(verbose); err == nil {
			c.Application.Verbose = b
		}
	}

	return nil
}

// Validate validates the configuration and returns any errors
func (c *Config) Validate() error {
	// Validate database configuration
	if c.Database.Dir == "" {
		return &ConfigError{Field: "database.dir", Message: "database directory cannot be empty"}
	}
	if c.Database.Filename == "" {
		return &ConfigError{Field: "database.filename", Message: "database filename cannot be empty"}
	}
	if c.Database.QueryTimeout <= 0 {
		return &ConfigError{Field: "database.query_timeout", Message: "query timeout must be positive"}
	}
	if c.Database.WriteTimeout <= 0 {
		return &ConfigError{Field: "database.write_timeout", Message: "write timeout must be positive"}
	}

	// Validate pagination configuration
	if c.Pagination.DefaultLimit < 1 {
		return &ConfigError{Field: "pagination.default_limit", Message: "default page limit must be at least 1"}
	}
	if c.Pagination.MaxLimit < c.Pagination.DefaultLimit {
		return &ConfigError{Field: "pagination.max_limit", Message: "max page limit must be at least the default limit"}
	}

	// Validate validation configuration
	if c.Validation.DescriptionMaxLength < 1 {
		return &ConfigError{Field: "validation.description_max_length", Message: "description max length must be at least 1"}
	}

	// Validate application configuration
	if c.Application.Timeout <= 0 {
		return &ConfigError{Field: "application.timeout", Message: "application timeout must be positive"}
	}

	return nil
}

// ConfigError represents a configuration validation error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
