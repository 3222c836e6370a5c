package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/canopy/pkg/cache"
	cerrors "github.com/matzehuels/canopy/pkg/errors"
)

func (c *CLI) cacheCommand() *cobra.Command {
	var opts cacheOpts
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the rendered artifact cache",
		Long: `Manage the artifact cache shared by render and serve.

Artifacts live in redis when --redis or $` + redisAddrEnv + ` is set, and in
files below the cache directory otherwise.`,
	}
	cmd.PersistentFlags().StringVar(&opts.redis, "redis", "", "redis address (default $"+redisAddrEnv+")")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "clear",
			Short: "Remove all cached artifacts",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				store, err := c.newCache(cmd.Context(), opts)
				if err != nil {
					return err
				}
				defer store.Close()

				n, err := store.Clear(cmd.Context())
				if err != nil {
					return cerrors.Wrap(cerrors.ErrCodeInternal, err, "clear cache")
				}
				if n == 0 {
					printInfo("Cache is empty")
				} else {
					printSuccess("Cleared %d cached entries", n)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "info",
			Short: "Show the cache backend and its usage",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				store, err := c.newCache(cmd.Context(), opts)
				if err != nil {
					return err
				}
				defer store.Close()
				return printCacheInfo(store.Cache)
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print the file cache directory",
			Args:  cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				dir, err := cacheDir()
				if err != nil {
					return cerrors.Wrap(cerrors.ErrCodeNotFound, err, "cache directory")
				}
				writeLine(dir)
				return nil
			},
		},
	)
	return cmd
}

var styleKey = lipgloss.NewStyle().Foreground(colorGray).Width(12)

func printKeyValue(key, value string) {
	writeLine(styleKey.Render(key) + " " + StyleValue.Render(value))
}

func printCacheInfo(c cache.Cache) error {
	switch c := c.(type) {
	case *cache.FileCache:
		n, size, err := c.Usage()
		if err != nil {
			return cerrors.Wrap(cerrors.ErrCodeInternal, err, "read cache directory")
		}
		printKeyValue("backend", "file")
		printKeyValue("directory", c.Dir())
		printKeyValue("entries", fmt.Sprint(n))
		printKeyValue("size", formatBytes(size))
	case *cache.RedisCache:
		printKeyValue("backend", "redis")
		printKeyValue("address", c.Addr())
	default:
		printKeyValue("backend", "none")
	}
	return nil
}

// formatBytes renders n with a binary unit, e.g. "1.5 KiB".
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
