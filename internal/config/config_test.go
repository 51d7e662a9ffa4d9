package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Errorf("Addr: got %q, want :8080", cfg.Addr)
	}
	if cfg.DBPath != "data/planner.db" {
		t.Errorf("DBPath: got %q, want data/planner.db", cfg.DBPath)
	}
	if cfg.PresetsDir != "presets" {
		t.Errorf("PresetsDir: got %q, want presets", cfg.PresetsDir)
	}
	if len(cfg.AllowedOrigins) != 0 {
		t.Errorf("AllowedOrigins: got %v, want empty", cfg.AllowedOrigins)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PLANNER_ADDR", ":9999")
	t.Setenv("PLANNER_TOKEN_SECRET", "hunter2")
	t.Setenv("PLANNER_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Addr != ":9999" {
		t.Errorf("Addr: got %q, want :9999", cfg.Addr)
	}
	if cfg.TokenSecret != "hunter2" {
		t.Errorf("TokenSecret: got %q", cfg.TokenSecret)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://b.example" {
		t.Errorf("AllowedOrigins: got %v", cfg.AllowedOrigins)
	}
}

func TestConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "planner.yaml")
	content := "addr: \":7777\"\ndb_path: /tmp/x.db\ntoken_secret: s3cret\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Addr != ":7777" || cfg.DBPath != "/tmp/x.db" || cfg.TokenSecret != "s3cret" {
		t.Errorf("unexpected config: %+v", cfg)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestValidate(t *testing.T) {
	cfg := Config{Addr: ":8080", DBPath: "x.db"}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error without token secret")
	}
	cfg.TokenSecret = "s"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: unexpected error %v", err)
	}
	cfg.DBPath = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected error without db path")
	}
}
