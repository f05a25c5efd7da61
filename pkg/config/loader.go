package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

// Load populates the given struct from environment variables using `env`
// struct tags.
//
// Example:
//
//	type Config struct {
//	    HTTPPort int    `env:"PRICING_HTTP_PORT" envDefault:"8007"`
//	    LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
//	}
func Load(cfg any) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}
