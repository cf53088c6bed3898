// Package cli provides the command-line interface for wallhue.
package cli

import (
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/wallhue/internal/config"
	"github.com/jmylchreest/wallhue/internal/logging"
	"github.com/jmylchreest/wallhue/internal/version"
)

// app carries state shared by every subcommand of one root command.
type app struct {
	configPath string
	verbose    bool
	quiet      bool

	cfg    *config.Config
	logger hclog.Logger
	closer io.Closer
}

// NewRootCmd builds a fresh command tree.
func NewRootCmd() *cobra.Command {
	a := &app{logger: hclog.NewNullLogger()}

	rootCmd := &cobra.Command{
		Use:   "wallhue",
		Short: "Generate terminal colour schemes from wallpapers",
		Long: `wallhue extracts the dominant colours of a wallpaper and turns them into a
16-colour terminal scheme with background, foreground and cursor colours.

Schemes can be printed as JSON, shell variables, CSS custom properties or a
plain colour list, and saved to a cache directory for other tools to read.`,
		Version:           version.Short(),
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) { a.teardown() },
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/wallhue/config.hcl)")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&a.quiet, "quiet", "q", false, "suppress non-error output")

	rootCmd.SetVersionTemplate(version.String() + "\n")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newColoursCmd(a))
	rootCmd.AddCommand(newSaveCmd(a))
	rootCmd.AddCommand(newShowCmd(a))

	return rootCmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	logger, closer, err := logging.New(logging.Options{
		Level:   cfg.Logging.Level,
		File:    cfg.Logging.File,
		Verbose: a.verbose,
		Quiet:   a.quiet,
		Output:  cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}
	a.logger = logger.Named(cmd.Name())
	a.closer = closer

	if cfg.Path != "" {
		a.logger.Debug("loaded config", "path", cfg.Path)
	}
	return nil
}

func (a *app) teardown() {
	if a.closer != nil {
		_ = a.closer.Close()
		a.closer = nil
	}
}
