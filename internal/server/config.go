// internal/server/config.go
package server

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Host           string
	Port           int
	CatalogSource  string // URL, .json/.yaml file or .db catalog store
	DBPath         string
	AllowedOrigins []string
	Env            string
}

// DefaultConfig reads DIETCALC_* environment variables, falling back to
// built-in defaults. Flags in cmd/diet-calc override the result.
func DefaultConfig() *Config {
	cfg := &Config{
		Host:           getEnv("DIETCALC_HOST", "0.0.0.0"),
		Port:           8011,
		CatalogSource:  getEnv("DIETCALC_CATALOG", "./data/alimentos.json"),
		DBPath:         getEnv("DIETCALC_DB_PATH", "/data/diet-calc.db"),
		AllowedOrigins: []string{"*"},
		Env:            getEnv("ENV", "development"),
	}

	if port, err := strconv.Atoi(os.Getenv("DIETCALC_PORT")); err == nil && port > 0 {
		cfg.Port = port
	}

	if origins := os.Getenv("DIETCALC_ALLOWED_ORIGINS"); origins != "" {
		cfg.AllowedOrigins = nil
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
			}
		}
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
