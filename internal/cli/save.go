package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/jmylchreest/wallhue/internal/config"
	"github.com/jmylchreest/wallhue/internal/schemecache"
)

func newSaveCmd(a *app) *cobra.Command {
	var (
		flags   extractionFlags
		dir     string
		formats []string
	)

	cmd := &cobra.Command{
		Use:   "save <image|directory|url>",
		Short: "Generate a scheme and write it to the cache directory",
		Long: `Generate a scheme and write colors.json, colors.sh, colors.css and colors
into the cache directory (default $XDG_CACHE_HOME/wallhue).

Examples:
  # Save every format to the default cache directory
  wallhue save wallpaper.jpg

  # Save only JSON and CSS somewhere else
  wallhue save --dir ~/.config/theme --formats json,css wallpaper.jpg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scheme, err := a.extract(cmd.Context(), cmd.Flags(), &flags, args[0])
			if err != nil {
				return err
			}

			target := a.cfg.Output.Dir
			if dir != "" {
				target = config.ExpandHome(dir)
			}
			if target == "" {
				return fmt.Errorf("no output directory configured")
			}

			names := a.cfg.Output.Formats
			if cmd.Flags().Changed("formats") {
				names = formats
			}
			parsed, err := schemecache.ParseFormats(names)
			if err != nil {
				return err
			}

			written, saveErr := schemecache.Save(target, scheme, parsed)
			if !a.quiet {
				ok := color.New(color.FgGreen)
				for _, path := range written {
					ok.Fprint(cmd.OutOrStdout(), "✓ ")
					fmt.Fprintln(cmd.OutOrStdout(), path)
				}
			}
			for _, err := range multierr.Errors(saveErr) {
				a.logger.Error("failed to save scheme file", "error", err)
			}
			if saveErr != nil {
				return fmt.Errorf("failed to save scheme: %w", saveErr)
			}
			a.logger.Info("saved scheme", "dir", target, "files", len(written))
			return nil
		},
	}

	cmd.Flags().AddFlagSet(flags.flagSet())
	cmd.Flags().StringVarP(&dir, "dir", "d", "", "output directory (default from config)")
	cmd.Flags().StringSliceVar(&formats, "formats", nil, "formats to write (json, shell, css, colors)")

	return cmd
}
