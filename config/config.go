package config

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"

	"github.com/darianmavgo/mkinsert/converters"
	"github.com/darianmavgo/mkinsert/converters/common"
)

// DefaultFile is the config file picked up from the working directory.
const DefaultFile = "mkinsert.hcl"

// Config represents the application configuration.
type Config struct {
	Source          string   `hcl:"source,optional" koanf:"source"`
	Target          string   `hcl:"target,optional" koanf:"target"`
	TargetType      string   `hcl:"target_type,optional" koanf:"target_type"`
	Delimiter       string   `hcl:"delimiter,optional" koanf:"delimiter"`
	Table           string   `hcl:"table,optional" koanf:"table"`
	Headers         bool     `hcl:"headers,optional" koanf:"headers"`
	Columns         []string `hcl:"columns,optional" koanf:"columns"`
	Chunk           int      `hcl:"chunk,optional" koanf:"chunk"`
	ChunkInsert     int      `hcl:"chunk_insert,optional" koanf:"chunk_insert"`
	Prefix          string   `hcl:"prefix,optional" koanf:"prefix"`
	Suffix          string   `hcl:"suffix,optional" koanf:"suffix"`
	WithTransaction bool     `hcl:"with_transaction,optional" koanf:"with_transaction"`
	Typed           bool     `hcl:"typed,optional" koanf:"typed"`
	Encoding        string   `hcl:"encoding,optional" koanf:"encoding"`
	Verbose         bool     `hcl:"verbose,optional" koanf:"verbose"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		TargetType: string(converters.TargetSQL),
		Delimiter:  "comma",
		Headers:    true,
	}
}

// Load reads the configuration from the given HCL file.
// Attributes missing from the file keep their default values.
func Load(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(content, path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("%w: failed to parse config file: %s", common.ErrInvalidConfig, diags.Error())
	}

	cfg := DefaultConfig()
	diags = gohcl.DecodeBody(file.Body, nil, cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("%w: failed to decode config: %s", common.ErrInvalidConfig, diags.Error())
	}

	return cfg, nil
}

// Export writes the configuration to the specified file in HCL format.
func Export(path string, cfg *Config) error {
	f := hclwrite.NewEmptyFile()
	root := f.Body()

	setString := func(name, value string) {
		if value != "" {
			root.SetAttributeValue(name, cty.StringVal(value))
		}
	}

	setString("source", cfg.Source)
	setString("target", cfg.Target)
	setString("target_type", cfg.TargetType)
	setString("delimiter", cfg.Delimiter)
	setString("table", cfg.Table)
	root.SetAttributeValue("headers", cty.BoolVal(cfg.Headers))
	if len(cfg.Columns) > 0 {
		values := make([]cty.Value, len(cfg.Columns))
		for i, c := range cfg.Columns {
			values[i] = cty.StringVal(c)
		}
		root.SetAttributeValue("columns", cty.ListVal(values))
	}
	root.SetAttributeValue("chunk", cty.NumberIntVal(int64(cfg.Chunk)))
	root.SetAttributeValue("chunk_insert", cty.NumberIntVal(int64(cfg.ChunkInsert)))
	setString("prefix", cfg.Prefix)
	setString("suffix", cfg.Suffix)
	root.SetAttributeValue("with_transaction", cty.BoolVal(cfg.WithTransaction))
	root.SetAttributeValue("typed", cty.BoolVal(cfg.Typed))
	setString("encoding", cfg.Encoding)
	if cfg.Verbose {
		root.SetAttributeValue("verbose", cty.True)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	_, err = file.Write(f.Bytes())
	if err != nil {
		return fmt.Errorf("failed to write config to file: %w", err)
	}

	return nil
}

// Validate checks the settings a conversion cannot start without.
func (c *Config) Validate() error {
	if c.Source == "" {
		return fmt.Errorf("%w: a CSV source is required", common.ErrInvalidConfig)
	}
	if _, err := converters.ParseTargetType(c.TargetType); err != nil {
		return err
	}
	if _, err := common.ParseDelimiter(c.Delimiter); err != nil {
		return err
	}
	if c.Chunk < 0 {
		return fmt.Errorf("%w: chunk must not be negative, got %d", common.ErrInvalidConfig, c.Chunk)
	}
	if c.ChunkInsert < 0 {
		return fmt.Errorf("%w: chunk_insert must not be negative, got %d", common.ErrInvalidConfig, c.ChunkInsert)
	}
	if !c.Headers && len(c.Columns) == 0 {
		return fmt.Errorf("%w: columns are required when headers are disabled", common.ErrNoFieldNames)
	}
	return nil
}

// Request validates the configuration and builds the conversion request.
func (c *Config) Request() (converters.Request, error) {
	if err := c.Validate(); err != nil {
		return converters.Request{}, err
	}

	// Both parse calls succeeded in Validate.
	targetType, _ := converters.ParseTargetType(c.TargetType)
	delimiter, _ := common.ParseDelimiter(c.Delimiter)

	return converters.Request{
		Source:     c.Source,
		Target:     c.Target,
		TargetType: targetType,
		Config: common.ConversionConfig{
			Delimiter:       delimiter,
			Encoding:        c.Encoding,
			TableName:       c.Table,
			Headers:         c.Headers,
			Columns:         append([]string(nil), c.Columns...),
			Chunk:           uint(c.Chunk),
			ChunkInsert:     uint(c.ChunkInsert),
			Prefix:          c.Prefix,
			Suffix:          c.Suffix,
			WithTransaction: c.WithTransaction,
			Typed:           c.Typed,
		},
	}, nil
}
