package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func setRequiredSecrets(t *testing.T) {
	t.Helper()
	t.Setenv("BINANCE_API_KEY", "test-key")
	t.Setenv("BINANCE_API_SECRET", "test-secret")
	t.Setenv("OPENAI_API_KEY", "test-openai")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredSecrets(t)
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "absent.yaml"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("port = %q", cfg.Port)
	}
	if !cfg.BinanceTestnet {
		t.Error("testnet not defaulted to true")
	}
	if cfg.OpenAIModel != "gpt-3.5-turbo" {
		t.Errorf("model = %q", cfg.OpenAIModel)
	}
	if cfg.LogFile != "bot.log" || cfg.LogMaxSizeMB != 5 || cfg.LogMaxBackups != 5 {
		t.Errorf("log settings = %q %d %d", cfg.LogFile, cfg.LogMaxSizeMB, cfg.LogMaxBackups)
	}
	if len(cfg.Symbols) != 2 {
		t.Errorf("symbols = %v", cfg.Symbols)
	}
}

func TestLoadMissingSecretFailsAtStartup(t *testing.T) {
	setRequiredSecrets(t)
	t.Setenv("BINANCE_API_KEY", "")
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "absent.yaml"))

	_, err := Load()
	if err == nil {
		t.Fatal("Load succeeded with a missing exchange API key")
	}
	if !strings.Contains(err.Error(), "BINANCE_API_KEY") {
		t.Errorf("error does not name the missing secret: %v", err)
	}
}

func TestLoadReportsAllMissingSecrets(t *testing.T) {
	t.Setenv("BINANCE_API_KEY", "")
	t.Setenv("BINANCE_API_SECRET", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "absent.yaml"))

	_, err := Load()
	if err == nil {
		t.Fatal("Load succeeded with no secrets")
	}
	for _, name := range []string{"BINANCE_API_KEY", "BINANCE_API_SECRET", "OPENAI_API_KEY"} {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("error missing %s: %v", name, err)
		}
	}
}

func TestLoadFileOverlay(t *testing.T) {
	setRequiredSecrets(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("port: \"9090\"\ntestnet: false\nsymbols: [SOLUSDT]\nopenai_model: gpt-4o-mini\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "9090" {
		t.Errorf("port = %q", cfg.Port)
	}
	if cfg.BinanceTestnet {
		t.Error("file testnet=false not applied")
	}
	if cfg.OpenAIModel != "gpt-4o-mini" {
		t.Errorf("model = %q", cfg.OpenAIModel)
	}
}

func TestLoadEnvWinsOverFile(t *testing.T) {
	setRequiredSecrets(t)
	t.Setenv("PORT", "7070")

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("port: \"9090\"\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "7070" {
		t.Errorf("port = %q, want env value 7070", cfg.Port)
	}
}
