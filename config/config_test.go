package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/darianmavgo/mkinsert/converters"
	"github.com/darianmavgo/mkinsert/converters/common"
)

func TestExportAndLoad(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "config_test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	configPath := filepath.Join(tempDir, "mkinsert.hcl")

	// Test Export
	cfg := DefaultConfig()
	cfg.Source = "people.csv"
	cfg.Table = "people"
	cfg.Delimiter = "semicolon"
	cfg.Headers = false
	cfg.Columns = []string{"id", "name"}
	cfg.Chunk = 500
	cfg.ChunkInsert = 50
	cfg.Typed = true
	err = Export(configPath, cfg)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	// Test Load
	loadedCfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loadedCfg.Source != "people.csv" || loadedCfg.Table != "people" {
		t.Errorf("expected source people.csv and table people, got %q and %q", loadedCfg.Source, loadedCfg.Table)
	}
	if loadedCfg.Delimiter != "semicolon" {
		t.Errorf("expected delimiter semicolon, got %q", loadedCfg.Delimiter)
	}
	if loadedCfg.Headers {
		t.Error("expected headers to be disabled")
	}
	if len(loadedCfg.Columns) != 2 || loadedCfg.Columns[0] != "id" || loadedCfg.Columns[1] != "name" {
		t.Errorf("expected columns [id name], got %v", loadedCfg.Columns)
	}
	if loadedCfg.Chunk != 500 || loadedCfg.ChunkInsert != 50 {
		t.Errorf("expected chunk 500 and chunk_insert 50, got %d and %d", loadedCfg.Chunk, loadedCfg.ChunkInsert)
	}
	if !loadedCfg.Typed || loadedCfg.WithTransaction {
		t.Errorf("expected typed without transaction, got typed=%v with_transaction=%v", loadedCfg.Typed, loadedCfg.WithTransaction)
	}
}

func TestLoadDefaults(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "config_test_empty")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	configPath := filepath.Join(tempDir, "empty.hcl")
	err = os.WriteFile(configPath, []byte(""), 0644)
	if err != nil {
		t.Fatalf("failed to write empty config: %v", err)
	}

	loadedCfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if !loadedCfg.Headers {
		t.Error("expected headers to default to true")
	}
	if loadedCfg.Delimiter != "comma" {
		t.Errorf("expected default delimiter comma, got %q", loadedCfg.Delimiter)
	}
	if loadedCfg.TargetType != "sql" {
		t.Errorf("expected default target type sql, got %q", loadedCfg.TargetType)
	}
}

func TestLoadInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "broken.hcl")
	if err := os.WriteFile(configPath, []byte(`chunk = "many"`), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	_, err := Load(configPath)
	if !errors.Is(err, common.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		want   error
	}{
		{"Valid", func(c *Config) {}, nil},
		{"MissingSource", func(c *Config) { c.Source = "" }, common.ErrInvalidConfig},
		{"BadDelimiter", func(c *Config) { c.Delimiter = "colon" }, common.ErrInvalidConfig},
		{"BadTargetType", func(c *Config) { c.TargetType = "json" }, common.ErrInvalidConfig},
		{"NegativeChunk", func(c *Config) { c.Chunk = -1 }, common.ErrInvalidConfig},
		{"NegativeChunkInsert", func(c *Config) { c.ChunkInsert = -3 }, common.ErrInvalidConfig},
		{"NoColumns", func(c *Config) { c.Headers = false }, common.ErrNoFieldNames},
		{"ColumnsWithoutHeaders", func(c *Config) { c.Headers = false; c.Columns = []string{"a"} }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Source = "data.csv"
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.want == nil {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestRequest(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Source = "data.csv"
	cfg.Target = "-"
	cfg.TargetType = "CSV"
	cfg.Delimiter = "tab"
	cfg.Columns = []string{"a", "b"}
	cfg.Chunk = 3
	cfg.ChunkInsert = 2

	req, err := cfg.Request()
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}

	if req.TargetType != converters.TargetCSV {
		t.Errorf("expected csv target, got %q", req.TargetType)
	}
	if req.Config.Delimiter != '\t' {
		t.Errorf("expected tab delimiter, got %q", req.Config.Delimiter)
	}
	if req.Config.Chunk != 3 || req.Config.ChunkInsert != 2 {
		t.Errorf("expected chunk 3 and chunk insert 2, got %d and %d", req.Config.Chunk, req.Config.ChunkInsert)
	}
	if !req.Config.UseTransaction() {
		t.Error("expected chunk to imply a transaction")
	}

	// The request owns its column slice.
	cfg.Columns[0] = "changed"
	if req.Config.Columns[0] != "a" {
		t.Errorf("expected request columns to be copied, got %v", req.Config.Columns)
	}
}
