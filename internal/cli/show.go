package cli

import (
	"fmt"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/wallhue/internal/config"
	"github.com/jmylchreest/wallhue/internal/schemecache"
)

func newShowCmd(a *app) *cobra.Command {
	var (
		scheme string
		format string
		alpha  int
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Display a saved scheme",
		Long: `Load a previously saved colors.json and print it in another format.

Examples:
  # Preview the last saved scheme
  wallhue show

  # Re-export a saved scheme as CSS
  wallhue show --scheme ~/.cache/wallhue/colors.json --format css`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			path := scheme
			if path == "" {
				path = filepath.Join(a.cfg.Output.Dir, schemecache.FormatJSON.Filename())
			}
			path = config.ExpandHome(path)

			s, err := schemecache.Load(path)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("alpha") {
				s = s.WithAlpha(alpha)
			}
			a.logger.Debug("loaded scheme", "path", path)

			if format == formatPreview && !a.quiet {
				heading := color.New(color.Bold)
				mode := "light"
				if s.IsDark {
					mode = "dark"
				}
				heading.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", s.Wallpaper, mode)
			}
			if err := render(cmd.OutOrStdout(), s, format); err != nil {
				return fmt.Errorf("failed to render scheme: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&scheme, "scheme", "s", "", "scheme file or directory (default from config)")
	cmd.Flags().StringVarP(&format, "format", "f", formatPreview, "output format (json, shell, css, colors, preview, variables)")
	cmd.Flags().IntVar(&alpha, "alpha", 100, "override the saved alpha (0-100)")

	return cmd
}
