package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/avatarshuffle/pkg/catalog"
	"github.com/matzehuels/avatarshuffle/pkg/config"
	"github.com/matzehuels/avatarshuffle/pkg/errors"
)

// stylesCommand creates the styles command.
func (c *CLI) stylesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "styles",
		Short: "Inspect the avatar style catalog",
	}
	cmd.AddCommand(c.stylesListCommand())
	cmd.AddCommand(c.stylesRefreshCommand())
	return cmd
}

// stylesListCommand creates the "styles list" subcommand.
func (c *CLI) stylesListCommand() *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the styles a run would draw from",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withCatalog(cmd.Context(), func(cfg config.Config, l *catalog.Loader) error {
				res := l.Load(cmd.Context())
				styles := res.Styles.Filter(category)
				if len(styles) == 0 {
					return errors.NoEligibleStyles(category)
				}

				cz, err := cfg.Categorizer()
				if err != nil {
					return err
				}

				rows := make([][]string, len(styles))
				for i, s := range styles {
					rows[i] = []string{s.Name, cz.Category(s.Name), s.Key}
				}
				fmt.Println(stylesTable(rows))
				printKeyValue("Styles", fmt.Sprint(len(styles)))
				printKeyValue("Origin", originLabel(string(res.Origin)))
				if res.Version != "" {
					printKeyValue("Version", res.Version)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&category, "category", "c", "", "only list styles of this category")
	return cmd
}

// stylesRefreshCommand creates the "styles refresh" subcommand.
func (c *CLI) stylesRefreshCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Fetch the catalog from the library, ignoring the stored copy",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withCatalog(cmd.Context(), func(_ config.Config, l *catalog.Loader) error {
				spinner := newSpinnerWithContext(cmd.Context(), "Fetching styles...")
				spinner.Start()
				res := l.Refresh(cmd.Context())
				if res.Origin != catalog.OriginLibrary {
					spinner.Stop()
					printWarning("Library unavailable, using %s styles", res.Origin)
					return nil
				}
				spinner.StopWithSuccess(fmt.Sprintf("Fetched %d styles", len(res.Styles)))
				if res.Version != "" {
					printDetail("Version: %s", res.Version)
				}
				return nil
			})
		},
	}
}

// withCatalog opens storage, builds a loader and calls fn.
func (c *CLI) withCatalog(ctx context.Context, fn func(config.Config, *catalog.Loader) error) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	store, err := c.openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer store.Close()
	return fn(cfg, c.newLoader(cfg, store))
}

func stylesTable(rows [][]string) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Name", "Category", "Key").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 2:
				return lipgloss.NewStyle().Foreground(colorDim)
			default:
				return lipgloss.NewStyle()
			}
		}).
		Render()
}
