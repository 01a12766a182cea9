package main

import (
	"errors"
	"io/fs"
	"log/slog"

	"github.com/JaimeStill/portfolio/internal/config"
	"github.com/JaimeStill/portfolio/pkg/logging"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configDir string
	verbose   bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "portfolio",
		Short: "Inspect portfolio galleries and routes",
		Long: `Portfolio tools for checking image lists and the content catalog
outside the web server.

Commands read config.toml from --config when present and fall back to
defaults otherwise.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.configDir, "config", "c", ".", "Directory holding config.toml")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log debug output")

	cmd.AddCommand(newProbeCmd(opts))
	cmd.AddCommand(newRoutesCmd(opts))

	return cmd
}

// load reads configuration from the config directory. A missing config.toml
// yields the defaults.
func (o *rootOptions) load() (*config.Config, error) {
	cfg, err := config.LoadDir(o.configDir)
	if errors.Is(err, fs.ErrNotExist) {
		cfg = &config.Config{}
		err = cfg.Finalize()
	}
	if err != nil {
		return nil, err
	}
	if o.verbose {
		cfg.Logging.Level = logging.LevelDebug
	}
	return cfg, nil
}

func (o *rootOptions) logger(cfg *config.Config, cmd *cobra.Command) *slog.Logger {
	return logging.NewWithWriter(&cfg.Logging, cmd.ErrOrStderr())
}
