package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/avatarshuffle/pkg/config"
	"github.com/matzehuels/avatarshuffle/pkg/history"
	"github.com/matzehuels/avatarshuffle/pkg/plugin"
	"github.com/matzehuels/avatarshuffle/pkg/suggest"
)

// suggestCommand creates the suggest command.
func (c *CLI) suggestCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "suggest <key> [query]",
		Short: "List suggestions for a run parameter",
		Long: `Suggest prints the values offered for a run parameter while typing.

Keys:
  ` + strings.Join(suggest.Keys(), "\n  "),
		Args:      cobra.RangeArgs(1, 2),
		ValidArgs: suggest.Keys(),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := ""
			if len(args) == 2 {
				query = args[1]
			}
			return c.runSuggest(cmd.Context(), args[0], query)
		},
	}
	return cmd
}

func (c *CLI) runSuggest(ctx context.Context, key, query string) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	store, err := c.openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer store.Close()

	provider := &suggest.Provider{History: history.New(store)}
	if key == suggest.KeyCategory {
		if provider.Categories, err = categories(ctx, c.newLoader(cfg, store), cfg); err != nil {
			return err
		}
	}

	items, err := provider.Suggest(ctx, key, query)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		printInfo("No suggestions")
		return nil
	}
	for _, it := range items {
		fmt.Println(it.Name)
	}
	return nil
}

// categories returns the categories present in the current catalog, or nil
// when none match the configured pattern.
func categories(ctx context.Context, loader plugin.CatalogLoader, cfg config.Config) ([]string, error) {
	cz, err := cfg.Categorizer()
	if err != nil {
		return nil, err
	}
	cats := cz.Categories(loader.Load(ctx).Styles)
	if len(cats) == 0 {
		return nil, nil
	}
	return cats, nil
}
