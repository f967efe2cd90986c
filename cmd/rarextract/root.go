package main

import (
	"log/slog"

	"github.com/Defacto2/rarextract/internal/config"
	"github.com/Defacto2/rarextract/internal/logging"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for rarextract.
// Given archive arguments without a subcommand, it runs the extract command.
func NewRootCmd() *cobra.Command {
	opts := &extractOptions{}
	cmd := &cobra.Command{
		Use:   "rarextract [archive]...",
		Short: "Extract RAR archives using the unrar program",
		Long: `rarextract extracts each RAR archive into a new directory next to it,
named after the archive without its extension.

The unrar program is not included. It is searched for next to this program,
then in /opt/homebrew/bin, /usr/local/bin and /usr/bin, and finally in the PATH.
On macOS it can be installed with: brew install unrar`,
		Version:       rootVersion(),
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return runExtract(cmd, opts, args)
		},
	}

	cmd.PersistentFlags().String("log-level", "",
		"Log level: debug, info, warn or error (env RAREXTRACT_LOG_LEVEL)")
	cmd.PersistentFlags().String("log-format", "",
		"Log format: auto, text or json (env RAREXTRACT_LOG_FORMAT)")
	addExtractFlags(cmd, opts)

	cmd.AddCommand(NewExtractCmd())
	cmd.AddCommand(NewLocateCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// newLogger returns the logger for the cmd, using the environment
// defaults overridden by any log flags.
func newLogger(cmd *cobra.Command) (*slog.Logger, config.Config, error) {
	c, err := config.Load()
	if err != nil {
		return nil, config.Config{}, err
	}
	if s, _ := cmd.Flags().GetString("log-level"); s != "" {
		c.LogLevel = s
	}
	if s, _ := cmd.Flags().GetString("log-format"); s != "" {
		c.LogFormat = s
	}
	logger, err := logging.New(logging.Options{
		Level:  c.LogLevel,
		Format: c.LogFormat,
		Writer: cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, config.Config{}, err
	}
	return logger, c, nil
}

func rootVersion() string {
	ver, _ := build()
	return ver
}
