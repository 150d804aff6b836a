package main

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// cfg and logger are set by the root command before any subcommand
// runs.
var (
	cfg    config
	logger = zerolog.Nop()
)

var rootCmd = &cobra.Command{
	Use:   "grain",
	Short: "Build and inspect grain datasets",
	Long: `Prepare datasets registered with grain.Register into sharded record files
and inspect the results. The commands operate on the datasets compiled
into this binary; use "grain list" to see them.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfg, err = resolveConfig(cmd); err != nil {
			return err
		}
		level, err := zerolog.ParseLevel(cfg.LogLevel)
		if err != nil {
			return err
		}
		logger = zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()}).
			Level(level).
			With().Timestamp().Logger()
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "TOML file with default settings")
	rootCmd.PersistentFlags().String("data-dir", "", "root directory for prepared datasets")
	rootCmd.PersistentFlags().String("log-level", "", "log level: trace, debug, info, warn, error or disabled")
}
