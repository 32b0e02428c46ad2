package config

import (
	"fmt"
	"strings"
	"time"
)

// DatabaseConfig selects where estimates, voyages and session logs are stored
type DatabaseConfig struct {
	// "postgres" for shared deployments, "sqlite" for a single analyst's file
	Type string `mapstructure:"type" validate:"required,oneof=postgres sqlite"`

	// postgres:// URL; wins over the individual fields
	URL string `mapstructure:"url"`

	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode" validate:"omitempty,oneof=disable require verify-ca verify-full"`

	// SQLite file, or ":memory:"
	Path string `mapstructure:"path"`

	Pool PoolConfig `mapstructure:"pool"`
}

// PoolConfig sizes the postgres connection pool
type PoolConfig struct {
	MaxOpen     int           `mapstructure:"max_open" validate:"min=1"`
	MaxIdle     int           `mapstructure:"max_idle" validate:"min=1,ltefield=MaxOpen"`
	MaxLifetime time.Duration `mapstructure:"max_lifetime"`
}

// sqliteOptions apply to file databases, which the CLI and a running server may share
const sqliteOptions = "_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"

// InMemory reports whether the SQLite database lives only in this process
func (c DatabaseConfig) InMemory() bool {
	return c.Type == "sqlite" && (c.Path == "" || c.Path == ":memory:")
}

// DSN is the driver connection string for the configured type
func (c DatabaseConfig) DSN() string {
	switch c.Type {
	case "postgres":
		if c.URL != "" {
			return c.URL
		}
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
	case "sqlite":
		if c.InMemory() {
			return ":memory:"
		}
		if strings.Contains(c.Path, "?") {
			return c.Path
		}
		return "file:" + c.Path + "?" + sqliteOptions
	}
	return ""
}
