// Package config loads service configuration from the environment (with an
// optional .env file) and, for the read proxy, an optional yaml file.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Vaultd configures the engine host daemon.
type Vaultd struct {
	ListenAddr     string `env:"VAULTD_LISTEN_ADDR,default=:8080"`
	DatabaseURL    string `env:"DATABASE_URL"`
	KafkaBrokers   string `env:"KAFKA_BROKERS"` // comma separated; empty keeps events in process
	RateLimitRPS   int    `env:"RATE_LIMIT_RPS,default=20"`
	RateLimitBurst int    `env:"RATE_LIMIT_BURST,default=40"`
}

func LoadVaultd() (Vaultd, error) {
	_ = godotenv.Load()

	var cfg Vaultd
	if err := envdecode.Decode(&cfg); err != nil {
		return Vaultd{}, fmt.Errorf("decode vaultd config: %w", err)
	}
	return cfg, nil
}

// Ctl configures the interactive client.
type Ctl struct {
	VaultdURL     string `env:"VAULTD_URL,default=http://localhost:8080"`
	ProxyURL      string `env:"READPROXY_URL,default=http://localhost:8090"`
	VaultAddress  string `env:"VAULT_ADDRESS"`
	CallerAddress string `env:"CALLER_ADDRESS"`
}

func LoadCtl() (Ctl, error) {
	_ = godotenv.Load()

	var cfg Ctl
	if err := envdecode.Decode(&cfg); err != nil {
		return Ctl{}, fmt.Errorf("decode client config: %w", err)
	}
	return cfg, nil
}

// ReadProxy configures the read-proxy service. File settings are overridden
// by the environment, so a deploy-written .env can point an otherwise static
// config at a fresh vault.
type ReadProxy struct {
	ListenAddr      string `yaml:"listen_addr"`
	VaultdURL       string `yaml:"vaultd_url"`
	VaultAddress    string `yaml:"vault_address"`
	DisplayUnit     string `yaml:"display_unit"`
	DisplayDecimals int32  `yaml:"display_decimals"`
	PageLimit       int    `yaml:"page_limit"`
}

// DefaultReadProxy returns the proxy defaults: eight decimal places of a
// nominal PAY unit, pages of 100.
func DefaultReadProxy() ReadProxy {
	return ReadProxy{
		ListenAddr:      ":8090",
		VaultdURL:       "http://localhost:8080",
		DisplayUnit:     "PAY",
		DisplayDecimals: 8,
		PageLimit:       100,
	}
}

// LoadReadProxy loads defaults, overlays the yaml file at path when it
// exists, then applies environment overrides.
func LoadReadProxy(path string) (ReadProxy, error) {
	_ = godotenv.Load()

	cfg := DefaultReadProxy()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return ReadProxy{}, fmt.Errorf("parse proxy config %s: %w", path, err)
			}
		case !os.IsNotExist(err):
			return ReadProxy{}, fmt.Errorf("read proxy config %s: %w", path, err)
		}
	}

	overrideString(&cfg.ListenAddr, "READPROXY_LISTEN_ADDR")
	overrideString(&cfg.VaultdURL, "VAULTD_URL")
	overrideString(&cfg.VaultAddress, "VAULT_ADDRESS")
	overrideString(&cfg.DisplayUnit, "DISPLAY_UNIT")
	if raw := os.Getenv("DISPLAY_DECIMALS"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			return ReadProxy{}, fmt.Errorf("parse DISPLAY_DECIMALS: %w", err)
		}
		cfg.DisplayDecimals = int32(n)
	}
	if raw := os.Getenv("PAGE_LIMIT"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return ReadProxy{}, fmt.Errorf("parse PAGE_LIMIT: %w", err)
		}
		cfg.PageLimit = n
	}

	return cfg, nil
}

func overrideString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
