package main

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/grainx/grain"
)

// config holds the settings every subcommand shares. Values resolve
// flag over config file over built-in default.
type config struct {
	DataDir  string `toml:"data_dir"`
	LogLevel string `toml:"log_level"`
}

func resolveConfig(cmd *cobra.Command) (config, error) {
	var cfg config

	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return config{}, err
	}
	if path != "" {
		md, err := toml.DecodeFile(path, &cfg)
		if err != nil {
			return config{}, fmt.Errorf("config %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return config{}, fmt.Errorf("config %s: unknown keys %s", path, strings.Join(keys, ", "))
		}
	}

	if flag, err := cmd.Flags().GetString("data-dir"); err != nil {
		return config{}, err
	} else if flag != "" {
		cfg.DataDir = flag
	}
	if flag, err := cmd.Flags().GetString("log-level"); err != nil {
		return config{}, err
	} else if flag != "" {
		cfg.LogLevel = flag
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	return cfg, nil
}

// builderOptions translates the resolved config into dataset builder
// options. An empty DataDir keeps the builder's own default.
func (c config) builderOptions() []grain.Option {
	opts := []grain.Option{grain.WithLogger(logger)}
	if c.DataDir != "" {
		opts = append(opts, grain.WithDataDir(c.DataDir))
	}
	return opts
}
