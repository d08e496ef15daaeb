package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/avatarshuffle/pkg/catalog"
	"github.com/matzehuels/avatarshuffle/pkg/history"
	"github.com/matzehuels/avatarshuffle/pkg/storage"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the stored style catalog and prompt history",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove the stored catalog and prompt history",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			store, err := c.openStore(ctx, cfg)
			if err != nil {
				return fmt.Errorf("open storage: %w", err)
			}
			defer store.Close()

			if fs, ok := store.(*storage.FileStore); ok {
				count, err := fs.Clear()
				if err != nil {
					return err
				}
				printSuccess("Cleared %d stored entries", count)
				printDetail("Directory: %s", fs.Dir())
				return nil
			}

			if err := store.Delete(ctx, catalog.DefaultKey); err != nil {
				return err
			}
			if err := history.New(store).Clear(ctx); err != nil {
				return err
			}
			printSuccess("Cleared catalog and prompt history")
			printDetail("Backend: %s", cfg.Storage.Backend)
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the storage directory of the file backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			dir, err := cacheDir(cfg)
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Println(dir)
			return nil
		},
	}
}
