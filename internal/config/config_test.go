package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func setupXDG(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir+"/config")
	t.Setenv("XDG_DATA_HOME", tmpDir+"/data")
	t.Setenv("XDG_CACHE_HOME", tmpDir+"/cache")
	t.Setenv("XDG_STATE_HOME", tmpDir+"/state")
	t.Setenv("PRIO_DB", "")
	return tmpDir
}

func writeConfig(t *testing.T, body string) {
	t.Helper()
	paths := GetPaths()
	if err := paths.EnsureDirs(); err != nil {
		t.Fatalf("EnsureDirs: %v", err)
	}
	if err := os.WriteFile(paths.ConfigFile, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func TestGetPaths(t *testing.T) {
	paths := GetPaths()

	if paths.ConfigDir == "" {
		t.Fatal("ConfigDir should not be empty")
	}
	if paths.DataDir == "" {
		t.Fatal("DataDir should not be empty")
	}
	if paths.ConfigFile == "" {
		t.Fatal("ConfigFile should not be empty")
	}
	if paths.DBFile == "" {
		t.Fatal("DBFile should not be empty")
	}
}

func TestGetPathsRespectsXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/testxdg/config")
	t.Setenv("XDG_DATA_HOME", "/tmp/testxdg/data")
	t.Setenv("PRIO_DB", "")

	paths := GetPaths()

	if paths.ConfigDir != "/tmp/testxdg/config/prio" {
		t.Fatalf("expected /tmp/testxdg/config/prio, got %s", paths.ConfigDir)
	}
	if paths.DataDir != "/tmp/testxdg/data/prio" {
		t.Fatalf("expected /tmp/testxdg/data/prio, got %s", paths.DataDir)
	}
	if paths.DBFile != "/tmp/testxdg/data/prio/prio.db" {
		t.Fatalf("expected prio.db under data dir, got %s", paths.DBFile)
	}
}

func TestGetPathsDBOverride(t *testing.T) {
	t.Setenv("PRIO_DB", "/tmp/elsewhere.db")
	if got := GetPaths().DBFile; got != "/tmp/elsewhere.db" {
		t.Fatalf("expected PRIO_DB override, got %s", got)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Rank.Strategy != "smart_balance" {
		t.Fatalf("expected strategy 'smart_balance', got %q", cfg.Rank.Strategy)
	}
	if cfg.Rank.SuggestCount != 3 {
		t.Fatalf("expected suggest_count 3, got %d", cfg.Rank.SuggestCount)
	}
	if cfg.Server.Addr != "127.0.0.1:8000" {
		t.Fatalf("unexpected addr %q", cfg.Server.Addr)
	}
	if !cfg.UI.ColorEnabled() {
		t.Fatal("color should default to on")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestColorEnabled_NilMeansOn(t *testing.T) {
	if !(UIConfig{}).ColorEnabled() {
		t.Fatal("nil color should mean enabled")
	}
	if (UIConfig{Color: BoolPtr(false)}).ColorEnabled() {
		t.Fatal("explicit false should disable color")
	}
}

func TestEnsureDirs(t *testing.T) {
	setupXDG(t)

	paths := GetPaths()
	if err := paths.EnsureDirs(); err != nil {
		t.Fatalf("EnsureDirs failed: %v", err)
	}

	for _, dir := range []string{paths.ConfigDir, paths.DataDir, paths.CacheDir, paths.StateDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("dir %s not created: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("%s is not a directory", dir)
		}
	}
}

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	setupXDG(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Rank.Strategy != "smart_balance" || cfg.Server.Addr != DefaultAddr {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
	if Initialized() {
		t.Fatal("Initialized should be false without a config file")
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	setupXDG(t)
	writeConfig(t, "[rank]\nstrategy = \"deadline_driven\"\n")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Rank.Strategy != "deadline_driven" {
		t.Fatalf("expected deadline_driven, got %q", cfg.Rank.Strategy)
	}
	if cfg.Rank.SuggestCount != 3 || cfg.Server.Addr != DefaultAddr {
		t.Fatalf("missing keys should keep defaults, got %+v", cfg)
	}
}

func TestLoad_CustomStrategies(t *testing.T) {
	setupXDG(t)
	writeConfig(t, `
[rank]
strategy = "deep_work"

[[strategies]]
name = "deep_work"
description = "Big important work first"
urgency = 0.1
importance = 0.6
effort = 0.0
dependency = 0.3
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	set, err := cfg.StrategySet()
	if err != nil {
		t.Fatalf("StrategySet: %v", err)
	}
	s, ok := set.Lookup("deep_work")
	if !ok {
		t.Fatal("custom strategy not registered")
	}
	if s.Weights.Importance != 0.6 || s.Description != "Big important work first" {
		t.Fatalf("unexpected profile %+v", s)
	}
}

func TestLoad_InvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"bad toml", "[rank\n", "parsing"},
		{"unknown strategy", "[rank]\nstrategy = \"nope\"\n", "unknown strategy"},
		{"count out of range", "[rank]\nsuggest_count = 50\n", "suggest_count"},
		{"weights off", "[[strategies]]\nname = \"x\"\nurgency = 0.5\n", "weights sum"},
		{"duplicate builtin", "[[strategies]]\nname = \"balanced\"\nurgency = 1.0\n", "already defined"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupXDG(t)
			writeConfig(t, tt.body)

			_, err := Load()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestSave_RoundTrip(t *testing.T) {
	setupXDG(t)

	cfg := defaultConfig()
	cfg.Server.AllowedOrigins = []string{"http://localhost:3000"}
	cfg.UI.Color = BoolPtr(false)
	if err := Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	info, err := os.Stat(filepath.Join(GetPaths().ConfigDir, "config.toml"))
	if err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("expected 0600 config file, got %v", info.Mode().Perm())
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.UI.ColorEnabled() {
		t.Error("color setting lost in round trip")
	}
	if len(loaded.Server.AllowedOrigins) != 1 || loaded.Server.AllowedOrigins[0] != "http://localhost:3000" {
		t.Errorf("origins lost in round trip: %v", loaded.Server.AllowedOrigins)
	}
}
