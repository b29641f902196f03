package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig_Defaults(t *testing.T) {
	// No .nbdiff/config.json under root falls back to defaults.
	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Scan.MaxLines != 20 {
		t.Errorf("Scan.MaxLines = %d, want 20", cfg.Scan.MaxLines)
	}
	if cfg.Limits.MaxCells != 10000 {
		t.Errorf("Limits.MaxCells = %d, want 10000", cfg.Limits.MaxCells)
	}
	if cfg.Store.Enabled {
		t.Error("Store.Enabled should default to false")
	}
	if cfg.Logging.Format != "human" {
		t.Errorf("Logging.Format = %q, want human", cfg.Logging.Format)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadConfig_FromFile(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, ".nbdiff")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	content := `{
  "version": 1,
  "scan": {"maxLines": 5, "rulesPath": "rules/RECOMMEND.toml"},
  "limits": {"maxCells": 500},
  "store": {"enabled": true, "path": "custom/nb.db"},
  "logging": {"format": "json", "level": "debug"}
}`
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(root)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Scan.MaxLines != 5 {
		t.Errorf("Scan.MaxLines = %d, want 5", cfg.Scan.MaxLines)
	}
	if cfg.Scan.RulesPath != "rules/RECOMMEND.toml" {
		t.Errorf("Scan.RulesPath = %q", cfg.Scan.RulesPath)
	}
	if cfg.Limits.MaxCells != 500 {
		t.Errorf("Limits.MaxCells = %d, want 500", cfg.Limits.MaxCells)
	}
	if !cfg.Store.Enabled || cfg.Store.Path != "custom/nb.db" {
		t.Errorf("Store = %+v", cfg.Store)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Errorf("Logging = %+v", cfg.Logging)
	}
}

func TestLoadConfig_PartialFileKeepsDefaults(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, ".nbdiff")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.json"),
		[]byte(`{"version": 1, "scan": {"maxLines": 7}}`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(root)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Scan.MaxLines != 7 {
		t.Errorf("Scan.MaxLines = %d, want 7", cfg.Scan.MaxLines)
	}
	if cfg.Limits.MaxCells != 10000 {
		t.Errorf("Limits.MaxCells = %d, want default 10000", cfg.Limits.MaxCells)
	}
}

func TestConfig_SaveRoundtrip(t *testing.T) {
	root := t.TempDir()
	cfg := DefaultConfig()
	cfg.Scan.MaxLines = 42
	cfg.Store.Enabled = true

	if err := cfg.Save(root); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := LoadConfig(root)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if loaded.Scan.MaxLines != 42 {
		t.Errorf("Scan.MaxLines = %d, want 42", loaded.Scan.MaxLines)
	}
	if !loaded.Store.Enabled {
		t.Error("Store.Enabled not persisted")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{
			name:   "bad version",
			mutate: func(c *Config) { c.Version = 2 },
			field:  "version",
		},
		{
			name:   "non-positive max lines",
			mutate: func(c *Config) { c.Scan.MaxLines = 0 },
			field:  "scan.maxLines",
		},
		{
			name:   "non-positive max cells",
			mutate: func(c *Config) { c.Limits.MaxCells = -1 },
			field:  "limits.maxCells",
		},
		{
			name:   "unknown log format",
			mutate: func(c *Config) { c.Logging.Format = "xml" },
			field:  "logging.format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			cfgErr, ok := err.(*ConfigError)
			if !ok {
				t.Fatalf("error type = %T, want *ConfigError", err)
			}
			if cfgErr.Field != tt.field {
				t.Errorf("Field = %q, want %q", cfgErr.Field, tt.field)
			}
		})
	}
}
