package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/nrfg/pkg/cache"
	"github.com/matzehuels/nrfg/pkg/pipeline"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the tool output cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheDir resolves the file cache directory from --cache-dir, the config
// file or the per-user default, in that order.
func cacheDir(config, dir string) (string, error) {
	if dir != "" {
		return dir, nil
	}
	if config != "" {
		opts, err := pipeline.LoadConfig(config)
		if err != nil {
			return "", err
		}
		if opts.Cache.Backend != "" && opts.Cache.Backend != pipeline.CacheFile {
			return "", fmt.Errorf("config %s uses the %s cache backend, not file", config, opts.Cache.Backend)
		}
		if opts.Cache.Dir != "" {
			return opts.Cache.Dir, nil
		}
	}
	return cache.DefaultDir()
}

func (c *CLI) cacheClearCommand() *cobra.Command {
	var config, dir string
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached alignments and trees",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := cacheDir(config, dir)
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fc, err := cache.NewFileCache(path)
			if err != nil {
				return err
			}
			n, err := fc.Clear()
			if err != nil {
				return err
			}
			if n == 0 {
				printInfo("Cache is empty")
				return nil
			}
			printSuccess("Cleared %d cached entries", n)
			printDetail("Directory: %s", fc.Dir())
			return nil
		},
	}
	cmd.Flags().StringVarP(&config, "config", "c", "", "config file (.toml, .yaml)")
	cmd.Flags().StringVar(&dir, "cache-dir", "", "directory of the file cache")
	return cmd
}

func (c *CLI) cachePathCommand() *cobra.Command {
	var config, dir string
	cmd := &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := cacheDir(config, dir)
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&config, "config", "c", "", "config file (.toml, .yaml)")
	cmd.Flags().StringVar(&dir, "cache-dir", "", "directory of the file cache")
	return cmd
}
