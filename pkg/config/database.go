package config

import (
	"fmt"
	"strings"
	"time"
)

// DatabaseConfig describes the PostgreSQL connection. Migrations is the
// path to the migration files; when empty the binary skips migrations
// on startup.
type DatabaseConfig struct {
	URL        string        `koanf:"url"`
	Timeout    time.Duration `koanf:"timeout"`
	Migrations string        `koanf:"migrations"`
}

func (c *DatabaseConfig) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("database URL is not configured")
	}
	if !strings.HasPrefix(c.URL, "postgres://") && !strings.HasPrefix(c.URL, "postgresql://") {
		return fmt.Errorf("database URL must use the postgres:// scheme")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("invalid database timeout: %v", c.Timeout)
	}
	return nil
}
