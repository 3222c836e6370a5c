package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/canopy/pkg/theme"
)

// themeCommand creates the theme command that prints a theme as TOML.
func (c *CLI) themeCommand() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "theme",
		Short: "Print the default theme as TOML",
		Long: `Print the built-in theme as TOML. The output is a complete theme file
that can be edited and passed back with --theme.

With --check, the given theme file is loaded on top of the default theme and
the merged result is printed instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			th := theme.Default()
			if path != "" {
				var err error
				if th, err = theme.Load(path); err != nil {
					return err
				}
			}
			return th.Encode(stdout)
		},
	}

	cmd.Flags().StringVar(&path, "check", "", "theme file to validate and print merged with the defaults")
	_ = cmd.RegisterFlagCompletionFunc("check", completeScene)

	return cmd
}
