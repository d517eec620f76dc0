package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFileDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.yml"))
	if err != nil {
		t.Fatalf("load defaults failed: %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Fatalf("default port want 8080 got %s", cfg.Server.Port)
	}
	if cfg.Session.Backend != "database" {
		t.Fatalf("default session backend want database got %s", cfg.Session.Backend)
	}
	if cfg.Cart.SessionKey != "cart" {
		t.Fatalf("default cart session key want cart got %s", cfg.Cart.SessionKey)
	}
	if cfg.Queue.Queues["default"] != 5 {
		t.Fatalf("default queue weight want 5 got %d", cfg.Queue.Queues["default"])
	}
}

func TestLoadFileOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	content := []byte(`
server:
  port: "9090"
  mode: release
session:
  backend: redis
  cookie_name: dpit_session
site:
  admin_email: admin@example.com
`)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write config failed: %v", err)
	}
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load config failed: %v", err)
	}
	if cfg.Server.Port != "9090" || cfg.Server.Mode != "release" {
		t.Fatalf("server override not applied: %+v", cfg.Server)
	}
	if cfg.Session.Backend != "redis" || cfg.Session.CookieName != "dpit_session" {
		t.Fatalf("session override not applied: %+v", cfg.Session)
	}
	if cfg.Site.AdminEmail != "admin@example.com" {
		t.Fatalf("site override not applied: %+v", cfg.Site)
	}
	if cfg.Order.NumberPrefix != "DP" {
		t.Fatalf("untouched default lost: %s", cfg.Order.NumberPrefix)
	}
}
