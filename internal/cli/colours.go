package cli

import (
	"github.com/spf13/cobra"
)

func newColoursCmd(a *app) *cobra.Command {
	var (
		flags  extractionFlags
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:     "colours <image|directory|url>",
		Aliases: []string{"colors"},
		Short:   "Generate a colour scheme from a wallpaper",
		Long: `Generate a 16-colour terminal scheme from a wallpaper and print it.

The argument may be an image file, a directory (a random image inside it is
used) or an http(s) URL, which is downloaded into the wallpaper cache.

Supported image formats: JPEG, PNG, GIF, WebP, BMP, TIFF

Examples:
  # Print the scheme as JSON
  wallhue colours wallpaper.jpg

  # Show a colour preview in the terminal
  wallhue colours --format preview wallpaper.png

  # Force a light scheme with stronger accents
  wallhue colours --light --contrast 4 wallpaper.jpg

  # Shell variables from a random wallpaper, written to a file
  wallhue colours -f shell -o colors.sh ~/Pictures/walls`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			scheme, err := a.extract(cmd.Context(), cmd.Flags(), &flags, args[0])
			if err != nil {
				return err
			}
			a.logger.Info("generated scheme", "wallpaper", scheme.Wallpaper, "dark", scheme.IsDark)
			return writeOutput(cmd.OutOrStdout(), output, scheme, format)
		},
	}

	cmd.Flags().AddFlagSet(flags.flagSet())
	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format (json, shell, css, colors, preview, variables)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")

	return cmd
}
