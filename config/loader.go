package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// EnvPrefix prefixes the environment variables read by LoadLayered.
const EnvPrefix = "MKINSERT_"

// flagKeys maps CLI flag names to config keys where they differ.
var flagKeys = map[string]string{
	"column": "columns",
}

// LoadLayered loads the configuration from defaults, the HCL config file,
// MKINSERT_* environment variables and CLI flags.
// Precedence (highest to lowest): flags > env vars > config file > defaults.
//
// An empty cfgFile falls back to DefaultFile when it exists in the working directory.
// Only flags that were explicitly set override lower layers.
func LoadLayered(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults and config file
	base := DefaultConfig()
	path, err := findConfigFile(cfgFile)
	if err != nil {
		return nil, err
	}
	if path != "" {
		if base, err = Load(path); err != nil {
			return nil, err
		}
	}
	if err := k.Load(confmap.Provider(base.toMap(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load config file values: %w", err)
	}

	// 2. Environment variables: MKINSERT_CHUNK_INSERT -> chunk_insert
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 3. Flags
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			key := strings.ReplaceAll(f.Name, "-", "_")
			if mapped, ok := flagKeys[key]; ok {
				key = mapped
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	return &cfg, nil
}

// findConfigFile returns the config file to load, or "" when there is none.
// An explicit path must exist.
func findConfigFile(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("failed to read config file: %w", err)
		}
		return explicit, nil
	}
	if _, err := os.Stat(DefaultFile); err == nil {
		return DefaultFile, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("failed to read config file: %w", err)
	}
	return "", nil
}

func (c *Config) toMap() map[string]interface{} {
	return map[string]interface{}{
		"source":           c.Source,
		"target":           c.Target,
		"target_type":      c.TargetType,
		"delimiter":        c.Delimiter,
		"table":            c.Table,
		"headers":          c.Headers,
		"columns":          append([]string(nil), c.Columns...),
		"chunk":            c.Chunk,
		"chunk_insert":     c.ChunkInsert,
		"prefix":           c.Prefix,
		"suffix":           c.Suffix,
		"with_transaction": c.WithTransaction,
		"typed":            c.Typed,
		"encoding":         c.Encoding,
		"verbose":          c.Verbose,
	}
}
