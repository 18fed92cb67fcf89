package backend

import (
	"testing"

	"defter/internal/config"
)

func TestFromAppConfig(t *testing.T) {
	appCfg := &config.Config{
		DataBackend:   "sqlite",
		SQLiteDBPath:  "/tmp/defter.db",
		DataDirectory: "seed",
	}

	cfg, err := FromAppConfig(appCfg)
	if err != nil {
		t.Fatalf("FromAppConfig() = %v", err)
	}
	if cfg.Type != SQLiteBackend {
		t.Errorf("Type = %q, want sqlite", cfg.Type)
	}
	if cfg.SQLiteDBPath != "/tmp/defter.db" {
		t.Errorf("SQLiteDBPath = %q", cfg.SQLiteDBPath)
	}
	if cfg.DataDirectory != "seed" {
		t.Errorf("DataDirectory = %q", cfg.DataDirectory)
	}
}

func TestFromAppConfigRejectsUnknownBackend(t *testing.T) {
	if _, err := FromAppConfig(&config.Config{DataBackend: "postgres"}); err == nil {
		t.Error("expected error for unknown backend type")
	}
	if _, err := FromAppConfig(nil); err == nil {
		t.Error("expected error for nil config")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"memory", Config{Type: MemoryBackend}, false},
		{"sqlite with path", Config{Type: SQLiteBackend, SQLiteDBPath: "x.db"}, false},
		{"sqlite without path", Config{Type: SQLiteBackend}, true},
		{"unknown type", Config{Type: "sheets"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
