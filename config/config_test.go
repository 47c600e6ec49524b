package config

import (
	"os"
	"path/filepath"
	"testing"
)

type testConfig struct {
	Service ServiceConfig `mapstructure:"service"`
	Key     string        `mapstructure:"key"`
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	content := []byte("service:\n  name: testsvc\n  environment: test\nkey: from-file\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	var cfg testConfig
	if err := LoadConfig("testsvc", &cfg, WithConfigFile(path)); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Service.Name != "testsvc" {
		t.Errorf("expected service name testsvc, got %q", cfg.Service.Name)
	}
	if cfg.Key != "from-file" {
		t.Errorf("expected key from-file, got %q", cfg.Key)
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("KEY", "from-env")

	var cfg testConfig
	if err := LoadConfig("testsvc", &cfg); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Key != "from-env" {
		t.Errorf("expected env value, got %q", cfg.Key)
	}
}

func TestLoadConfigDotenv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("KEY=from-dotenv\n"), 0o644); err != nil {
		t.Fatalf("write .env: %v", err)
	}

	var cfg testConfig
	if err := LoadConfig("testsvc", &cfg, WithEnvFile(path)); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Key != "from-dotenv" {
		t.Errorf("expected dotenv value, got %q", cfg.Key)
	}
}

func TestEnvKeyVariants(t *testing.T) {
	variants := envKeyVariants("TRANSCRIPTION_API_KEY")
	want := map[string]bool{
		"transcription_api_key": false,
		"transcription.api.key": false,
		"transcription.api_key": false,
	}
	for _, v := range variants {
		if _, ok := want[v]; ok {
			want[v] = true
		}
	}
	for k, found := range want {
		if !found {
			t.Errorf("missing variant %q in %v", k, variants)
		}
	}
}

func TestServiceConfigDefaults(t *testing.T) {
	var cfg ServiceConfig
	cfg.ApplyDefaults()
	if cfg.Name != "audioscribe" {
		t.Errorf("expected default name, got %q", cfg.Name)
	}
	if cfg.Environment != "development" {
		t.Errorf("expected development, got %q", cfg.Environment)
	}
	if cfg.Logging.ServiceName != cfg.Name {
		t.Errorf("logging service name not inherited: %q", cfg.Logging.ServiceName)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestServiceConfigValidateRejectsBadEnvironment(t *testing.T) {
	cfg := ServiceConfig{Name: "x", Environment: "bogus"}
	cfg.Logging.ApplyDefaults()
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for invalid environment")
	}
}
