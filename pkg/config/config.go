// Package config loads service configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds every environment-driven setting.
type Config struct {
	DatabaseURL string `env:"DATABASE_URL"`

	// HostedZoneIDList is the semicolon-separated allow-list of provider
	// zone identifiers enabled for dynamic DNS.
	HostedZoneIDList     string `env:"HOSTED_ZONE_ID_LIST"`
	AWSRegion            string `env:"AWS_REGION" envDefault:"ca-central-1"`
	UsePrivateHostedZone bool   `env:"USE_PRIVATE_HOSTED_ZONE"`

	// AdminPassword bootstraps the "admin" account at startup when set.
	AdminPassword string `env:"DDNS_ADMIN_PASSWORD"`

	// BaseURL is embedded in rendered client install scripts.
	BaseURL string `env:"FT_DDNS_BASE_URL"`

	// DryRun logs record changes instead of submitting them.
	DryRun bool `env:"DRY_RUN"`

	// PublicDomain and PrivateDomain trigger instance self-registration
	// through the EC2 metadata service at startup.
	PublicDomain  string `env:"FT_DDNS_PUBLIC_DOMAIN"`
	PrivateDomain string `env:"FT_DDNS_PRIVATE_DOMAIN"`

	BindAddress string `env:"BIND_ADDRESS" envDefault:"0.0.0.0"`
	Port        string `env:"PORT" envDefault:"8000"`
}

// Validate checks the settings the server cannot start without.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}

	if c.HostedZoneIDList == "" {
		return errors.New("HOSTED_ZONE_ID_LIST is required")
	}

	return nil
}

// ZoneAllowlist splits the configured zone identifier list.
func (c *Config) ZoneAllowlist() []string {
	var out []string
	for _, entry := range strings.Split(c.HostedZoneIDList, ";") {
		if entry = strings.TrimSpace(entry); entry != "" {
			out = append(out, entry)
		}
	}
	return out
}

// Load reads the configuration from the environment, honoring a local .env
// file when present.
func Load() (Config, error) {
	_ = godotenv.Load()

	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, fmt.Errorf("parsing environment: %w", err)
	}
	return c, nil
}
