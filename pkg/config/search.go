package config

import (
	"fmt"
	"strings"
)

// SearchConfig configures the optional search index. When disabled the
// service serves every read from the relational store.
type SearchConfig struct {
	Enabled   bool     `koanf:"enabled"`
	Addresses []string `koanf:"addresses"`
	Username  string   `koanf:"username"`
	Password  string   `koanf:"password"`
}

// String returns a string representation of the search configuration.
func (c *SearchConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Search ---\n")
	b.WriteString(fmt.Sprintf("  enabled: %t\n", c.Enabled))
	b.WriteString(fmt.Sprintf("  addresses: %s\n", strings.Join(c.Addresses, ",")))
	return b.String()
}

func (c *SearchConfig) Validate() error {
	if c.Enabled && len(c.Addresses) == 0 {
		return fmt.Errorf("search is enabled but no addresses are configured")
	}
	return nil
}
