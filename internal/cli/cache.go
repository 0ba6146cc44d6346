package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pointpack/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the scene cache",
		Long: `Scenes are cached by kind and options so that re-running a command with a
different output path, or after changing only sampling densities, skips
placement and relaxation. The local cache lives under the XDG cache
directory; --cache-url or POINTPACK_CACHE_URL selects a shared Redis cache.`,
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	var f cacheFlags

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached scenes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, err := c.openCache(cmd.Context(), f)
			if err != nil {
				return err
			}
			defer store.Close()

			if _, ok := store.(cache.NullCache); ok {
				printInfo("Cache is disabled, nothing to clear")
				return nil
			}
			clearer, ok := store.(cache.Clearer)
			if !ok {
				return fmt.Errorf("cache backend %T cannot be cleared", store)
			}
			n, err := clearer.Clear(cmd.Context())
			if err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			if n == 0 {
				printInfo("Cache is empty")
				return nil
			}
			printSuccess("Cleared %d cached scenes", n)
			printDetail("Location: %s", cacheLocation(store, f))
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the local cache directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}

func cacheLocation(store cache.Cache, f cacheFlags) string {
	if fc, ok := store.(*cache.FileCache); ok {
		return fc.Dir()
	}
	return f.url
}
