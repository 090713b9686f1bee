// Package config loads service settings from the environment, after merging an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultJWTSecret is the secret the existing customer token issuer signs with.
const DefaultJWTSecret = "fingerprint_customer"

type Config struct {
	Port     string
	LogLevel string

	JWTSecret string
	SeedPath  string

	MetricsEnabled bool
	MetricsToken   string

	// RegisterRatePerMin is the per-IP budget for POST /register; 0 disables it.
	RegisterRatePerMin int
	CORSOrigins        []string
}

// Load reads .env files (missing files are ignored) and then the process
// environment. Variables already set in the environment win over .env values.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	c := Config{
		Port:         getenv("PORT", "5000"),
		LogLevel:     getenv("LOG_LEVEL", "info"),
		JWTSecret:    getenv("JWT_SECRET", DefaultJWTSecret),
		SeedPath:     os.Getenv("SEED_PATH"),
		MetricsToken: os.Getenv("METRICS_TOKEN"),
		CORSOrigins:  splitList(getenv("CORS_ALLOWED_ORIGINS", "*")),
	}

	var err error
	if c.MetricsEnabled, err = getbool("METRICS_ENABLED", false); err != nil {
		return Config{}, err
	}
	if c.RegisterRatePerMin, err = getint("REGISTER_RATE_PER_MIN", 30); err != nil {
		return Config{}, err
	}
	if c.RegisterRatePerMin < 0 {
		return Config{}, fmt.Errorf("REGISTER_RATE_PER_MIN must be >= 0, got %d", c.RegisterRatePerMin)
	}

	return c, nil
}

func (c Config) Addr() string { return ":" + c.Port }

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getbool(k string, def bool) (bool, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", k, err)
	}
	return b, nil
}

func getint(k string, def int) (int, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", k, err)
	}
	return n, nil
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
