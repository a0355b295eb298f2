package config

import (
	"os"
	"path/filepath"
	"testing"
)

type serverSection struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type testConfig struct {
	Name   string        `mapstructure:"name"`
	Debug  bool          `mapstructure:"debug"`
	Server serverSection `mapstructure:"server"`
}

func TestLoad_FromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	yaml := "name: demo\nserver:\n  host: 127.0.0.1\n  port: 9090\n"
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}

	var cfg testConfig
	if err := Load("demo", &cfg, WithConfigFile(path)); err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Name != "demo" {
		t.Errorf("expected name 'demo', got '%s'", cfg.Name)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	if err := os.WriteFile(path, []byte("server:\n  port: 9090\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("SERVER_PORT", "7070")

	var cfg testConfig
	if err := Load("demo", &cfg, WithConfigFile(path)); err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Server.Port != 7070 {
		t.Errorf("expected env override 7070, got %d", cfg.Server.Port)
	}
}

func TestLoad_DotEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	if err := os.WriteFile(envPath, []byte("NAME=from-dotenv\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	var cfg testConfig
	if err := Load("demo", &cfg, WithEnvFile(envPath)); err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Name != "from-dotenv" {
		t.Errorf("expected name 'from-dotenv', got '%s'", cfg.Name)
	}
}

func TestLoad_MissingFilesIsFine(t *testing.T) {
	var cfg testConfig
	if err := Load("nonexistent-service", &cfg); err != nil {
		t.Fatalf("Load() without files should not error, got: %v", err)
	}
}
