// internal/server/config_test.go
package server

import (
	"reflect"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	for _, k := range []string{"DIETCALC_HOST", "DIETCALC_PORT", "DIETCALC_CATALOG", "DIETCALC_DB_PATH", "DIETCALC_ALLOWED_ORIGINS", "ENV"} {
		t.Setenv(k, "")
	}

	cfg := DefaultConfig()
	if cfg.Host != "0.0.0.0" || cfg.Port != 8011 {
		t.Errorf("addr = %s:%d", cfg.Host, cfg.Port)
	}
	if cfg.CatalogSource != "./data/alimentos.json" {
		t.Errorf("catalog = %s", cfg.CatalogSource)
	}
	if !reflect.DeepEqual(cfg.AllowedOrigins, []string{"*"}) {
		t.Errorf("origins = %v", cfg.AllowedOrigins)
	}
}

func TestDefaultConfigFromEnv(t *testing.T) {
	t.Setenv("DIETCALC_HOST", "127.0.0.1")
	t.Setenv("DIETCALC_PORT", "9090")
	t.Setenv("DIETCALC_CATALOG", "https://example.com/alimentos.json")
	t.Setenv("DIETCALC_ALLOWED_ORIGINS", "http://localhost:5173, http://127.0.0.1:5173")
	t.Setenv("ENV", "production")

	cfg := DefaultConfig()
	if cfg.Host != "127.0.0.1" || cfg.Port != 9090 {
		t.Errorf("addr = %s:%d", cfg.Host, cfg.Port)
	}
	if cfg.CatalogSource != "https://example.com/alimentos.json" {
		t.Errorf("catalog = %s", cfg.CatalogSource)
	}
	want := []string{"http://localhost:5173", "http://127.0.0.1:5173"}
	if !reflect.DeepEqual(cfg.AllowedOrigins, want) {
		t.Errorf("origins = %v, want %v", cfg.AllowedOrigins, want)
	}
	if cfg.Env != "production" {
		t.Errorf("env = %s", cfg.Env)
	}
}

func TestDefaultConfigBadPort(t *testing.T) {
	t.Setenv("DIETCALC_PORT", "not-a-port")
	if cfg := DefaultConfig(); cfg.Port != 8011 {
		t.Errorf("port = %d, want 8011", cfg.Port)
	}
}
