package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/net/idna"
)

// devAttestationSecret is only accepted when APP_ENV is development.
const devAttestationSecret = "premolt-dev-secret"

type Config struct {
	Env         string
	ListenAddr  string
	DatabaseURL string
	LogLevel    string

	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	RegistryCacheTTL time.Duration

	AttestationSecret string
	ServiceDomain     string
	ServiceName       string

	MigrateOnStart bool

	domainErr error
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// Load reads configuration from the environment. A returned error with a
// non-zero Config is a warning the caller may choose to ignore; invalid
// values that cannot be defaulted are reported through Validate.
func Load() (Config, error) {
	cfg := Config{
		Env:               getenv("APP_ENV", "development"),
		ListenAddr:        getenv("LISTEN_ADDR", ":8080"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		LogLevel:          getenv("LOG_LEVEL", "INFO"),
		RedisAddr:         os.Getenv("REDIS_ADDR"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		RedisDB:           getenvInt("REDIS_DB", 0),
		RegistryCacheTTL:  time.Duration(getenvInt("REGISTRY_CACHE_TTL_SECONDS", 300)) * time.Second,
		AttestationSecret: os.Getenv("ATTESTATION_SECRET"),
		ServiceDomain:     getenv("SERVICE_DOMAIN", "premolt.com"),
		ServiceName:       getenv("SERVICE_NAME", "Premolt.com"),
		MigrateOnStart:    getenvBool("MIGRATE_ON_START", true),
	}

	if cfg.AttestationSecret == "" && cfg.IsDevelopment() {
		cfg.AttestationSecret = devAttestationSecret
	}

	domain, err := normalizeDomain(cfg.ServiceDomain)
	if err != nil {
		// An unusable host must never reach a badge URL; Validate reports it.
		cfg.ServiceDomain = ""
		cfg.domainErr = fmt.Errorf("SERVICE_DOMAIN is invalid: %w", err)
		return cfg, cfg.domainErr
	}
	cfg.ServiceDomain = domain

	if cfg.DatabaseURL == "" {
		// Not fatal for early local runs; warn via error value so callers can decide.
		return cfg, fmt.Errorf("DATABASE_URL not set")
	}
	return cfg, nil
}

// Validate reports settings the server cannot start without.
func (c Config) Validate() error {
	var errs []error
	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	}
	if c.AttestationSecret == "" {
		errs = append(errs, errors.New("ATTESTATION_SECRET is required outside development"))
	}
	switch {
	case c.domainErr != nil:
		errs = append(errs, c.domainErr)
	case c.ServiceDomain == "":
		errs = append(errs, errors.New("SERVICE_DOMAIN is empty"))
	}
	return errors.Join(errs...)
}

func (c Config) IsDevelopment() bool { return c.Env == "development" }

// normalizeDomain converts the badge host to its ASCII (punycode) form so the
// verification URL stays a plain https URL.
func normalizeDomain(raw string) (string, error) {
	host := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(raw)), ".")
	if host == "" {
		return "", nil
	}
	ascii, err := idna.Lookup.ToASCII(host)
	if err != nil {
		return "", fmt.Errorf("%q: %w", raw, err)
	}
	return ascii, nil
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		var out int
		_, err := fmt.Sscanf(v, "%d", &out)
		if err == nil {
			return out
		}
	}
	return def
}

func getenvBool(key string, def bool) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return def
}
