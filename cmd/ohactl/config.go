package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"github.com/tailscale/hujson"
)

// config holds the table parameters ohactl starts a REPL session with.
// Flags take precedence over a --config file, which takes precedence
// over the defaults below.
type config struct {
	KeySize       int     `json:"key_size"`
	ValueSize     int     `json:"value_size"`
	MaxElems      uint32  `json:"max_elems"`
	MaxLoadFactor float64 `json:"max_load_factor"`
	Resizable     bool    `json:"resizable"`
}

func defaultConfig() config {
	return config{
		KeySize:       8,
		ValueSize:     8,
		MaxElems:      64,
		MaxLoadFactor: 0.8,
		Resizable:     true,
	}
}

// loadConfig parses flags, optionally overlaying a JSONC (hujson) config
// file named by --config before flag values are reapplied, so a flag
// passed on the command line always wins over the file.
func loadConfig(args []string) (config, error) {
	fs := pflag.NewFlagSet("ohactl", pflag.ContinueOnError)

	cfgPath := fs.String("config", "", "path to a JSONC config file")
	keySize := fs.Int("key-size", 0, "key size in bytes")
	valueSize := fs.Int("value-size", 0, "value size in bytes")
	maxElems := fs.Uint32("max-elems", 0, "initial table capacity")
	maxLoadFactor := fs.Float64("max-load-factor", 0, "maximum load factor before resize")
	resizable := fs.Bool("resizable", false, "allow the table to grow past max-elems")

	if err := fs.Parse(args); err != nil {
		return config{}, err
	}

	cfg := defaultConfig()

	if *cfgPath != "" {
		fileCfg, err := loadConfigFile(*cfgPath)
		if err != nil {
			return config{}, err
		}

		cfg = mergeConfig(cfg, fileCfg)
	}

	if fs.Changed("key-size") {
		cfg.KeySize = *keySize
	}

	if fs.Changed("value-size") {
		cfg.ValueSize = *valueSize
	}

	if fs.Changed("max-elems") {
		cfg.MaxElems = *maxElems
	}

	if fs.Changed("max-load-factor") {
		cfg.MaxLoadFactor = *maxLoadFactor
	}

	if fs.Changed("resizable") {
		cfg.Resizable = *resizable
	}

	return cfg, nil
}

func loadConfigFile(path string) (config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is user-supplied via a CLI flag
	if err != nil {
		return config{}, fmt.Errorf("reading config %s: %w", path, err)
	}

	standardized, err := hujson.Standardize(data)
	if err != nil {
		return config{}, fmt.Errorf("invalid JSONC in %s: %w", path, err)
	}

	cfg := defaultConfig()

	if err := json.Unmarshal(standardized, &cfg); err != nil {
		return config{}, fmt.Errorf("invalid JSON in %s: %w", path, err)
	}

	return cfg, nil
}

func mergeConfig(base, overlay config) config {
	if overlay.KeySize != 0 {
		base.KeySize = overlay.KeySize
	}

	if overlay.ValueSize != 0 {
		base.ValueSize = overlay.ValueSize
	}

	if overlay.MaxElems != 0 {
		base.MaxElems = overlay.MaxElems
	}

	if overlay.MaxLoadFactor != 0 {
		base.MaxLoadFactor = overlay.MaxLoadFactor
	}

	base.Resizable = overlay.Resizable

	return base
}
