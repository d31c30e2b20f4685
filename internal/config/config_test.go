package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaultsAndEnv(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("DISCORD_TOKEN", "token-from-env")
	t.Setenv("MC_PORT", "25599")
	t.Setenv("PUNISH_WATCHER_ENABLED", "true")
	t.Setenv("PUNISH_OPERATOR_COL", "banned_by_name")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DiscordToken != "token-from-env" {
		t.Errorf("DiscordToken = %q", cfg.DiscordToken)
	}
	if cfg.Minecraft.Port != 25599 {
		t.Errorf("Minecraft.Port = %d, want 25599", cfg.Minecraft.Port)
	}
	if !cfg.Watcher.Enabled {
		t.Error("Watcher.Enabled should come from env")
	}
	if cfg.Watcher.ColumnOverride["operator"] != "banned_by_name" {
		t.Errorf("operator override = %q", cfg.Watcher.ColumnOverride["operator"])
	}
	if cfg.Warnings.MaxDisplayed != 3 {
		t.Errorf("Warnings.MaxDisplayed = %d, want default 3", cfg.Warnings.MaxDisplayed)
	}
	if cfg.Watcher.PollSeconds <= 0 {
		t.Errorf("Watcher.PollSeconds = %d, want positive default", cfg.Watcher.PollSeconds)
	}
}

func TestLoadYAMLThenEnvWins(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := []byte("discord_token: token-from-file\nlog_level: debug\nminecraft:\n  host: play.example.net\n")
	if err := os.WriteFile(path, yaml, 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("CONFIG_PATH", path)
	t.Setenv("DISCORD_TOKEN", "token-from-env")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DiscordToken != "token-from-env" {
		t.Errorf("env should override file, got %q", cfg.DiscordToken)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug from file", cfg.LogLevel)
	}
	if cfg.Minecraft.Host != "play.example.net" {
		t.Errorf("Minecraft.Host = %q", cfg.Minecraft.Host)
	}
}

func TestLoadMissingToken(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("DISCORD_TOKEN", "")
	if _, err := Load(); err == nil {
		t.Fatal("Load should fail without a token")
	}
}
