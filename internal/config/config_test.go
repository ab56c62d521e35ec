package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Server.Addr != ":8000" {
		t.Fatalf("default addr: %q", cfg.Server.Addr)
	}
	if cfg.NewsAPI.Provider != "newsapi" {
		t.Fatalf("default provider: %q", cfg.NewsAPI.Provider)
	}
	if cfg.Scheduler.RecentDays != 7 || cfg.Scheduler.RecentLimit != 50 {
		t.Fatalf("default scheduler window: %+v", cfg.Scheduler)
	}
	if cfg.Scheduler.Location() == nil {
		t.Fatal("scheduler location not bound")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(serverAddrEnv, ":9999")
	t.Setenv(newsAPIKeyEnv, "key-from-env")
	t.Setenv(clientModeEnv, "local")

	cfg := Load()

	if cfg.Server.Addr != ":9999" {
		t.Fatalf("addr override: %q", cfg.Server.Addr)
	}
	if cfg.NewsAPI.APIKey != "key-from-env" {
		t.Fatalf("api key override: %q", cfg.NewsAPI.APIKey)
	}
	if !cfg.Client.Local() {
		t.Fatal("client mode override not applied")
	}
}

func TestYAMLFileMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := []byte(`
server:
  addr: ":7070"
newsApi:
  language: de
scheduler:
  cronExpression: "0 * * * *"
`)
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(configPathEnv, path)

	cfg := Load()

	if cfg.Server.Addr != ":7070" {
		t.Fatalf("file addr not applied: %q", cfg.Server.Addr)
	}
	if cfg.NewsAPI.Language != "de" {
		t.Fatalf("file language not applied: %q", cfg.NewsAPI.Language)
	}
	if cfg.Scheduler.CronExpression != "0 * * * *" {
		t.Fatalf("file cron not applied: %q", cfg.Scheduler.CronExpression)
	}
	// Untouched keys keep their defaults.
	if cfg.NewsAPI.Provider != "newsapi" {
		t.Fatalf("default provider lost in merge: %q", cfg.NewsAPI.Provider)
	}
}

func TestEnvWinsOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  addr: \":7070\"\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(configPathEnv, path)
	t.Setenv(serverAddrEnv, ":6060")

	cfg := Load()
	if cfg.Server.Addr != ":6060" {
		t.Fatalf("env should win over file: %q", cfg.Server.Addr)
	}
}
