package postgres

import (
	"fmt"
	"time"
)

// Config holds the connection settings of the candidate database.
type Config struct {
	DSN            string        `json:"dsn"`
	MaxConns       int32         `json:"max_conns"`
	ConnectTimeout time.Duration `json:"connect_timeout"`
	QueryTimeout   time.Duration `json:"query_timeout"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.MaxConns <= 0 {
		c.MaxConns = 4
	}
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = 5 * time.Second
	}
	if c.QueryTimeout <= 0 {
		c.QueryTimeout = 10 * time.Second
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	if c.DSN == "" {
		return fmt.Errorf("postgres dsn is required")
	}
	return nil
}
