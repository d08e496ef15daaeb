package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/avatarshuffle/pkg/config"
	"github.com/matzehuels/avatarshuffle/pkg/document"
	"github.com/matzehuels/avatarshuffle/pkg/history"
	"github.com/matzehuels/avatarshuffle/pkg/plugin"
	"github.com/matzehuels/avatarshuffle/pkg/suggest"
)

// runOpts holds the flags of the run command.
type runOpts struct {
	out       string
	selectIDs []string
	images    string
	pick      bool
	sameSet   bool // --same was given explicitly
	params    plugin.Params
}

// runCommand creates the run command.
func (c *CLI) runCommand() *cobra.Command {
	var opts runOpts

	cmd := &cobra.Command{
		Use:   "run <document.json>",
		Short: "Fill the selected shapes of a document with avatars",
		Long: `Run applies a random avatar style from the library to every eligible
shape in the selection, or generates avatar images from a prompt and applies
those instead.

The document is rewritten in place unless --out is given.`,
		Example: `  # Random People styles, one per shape
  avatarshuffle run design.json --category People

  # One generated avatar for the whole selection
  avatarshuffle run design.json --prompt "a smiling cat" --same

  # Choose the parameters interactively
  avatarshuffle run design.json --pick`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.sameSet = cmd.Flags().Changed("same")
			return c.runRun(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "output path (default: overwrite the input)")
	cmd.Flags().StringSliceVarP(&opts.selectIDs, "select", "s", nil, "node ids to select (default: the document's selection)")
	cmd.Flags().StringVar(&opts.images, "images", "", "directory to write generated images to")
	cmd.Flags().BoolVar(&opts.pick, "pick", false, "choose category or prompt interactively")
	cmd.Flags().BoolVar(&opts.params.SameAvatar, "same", false, "use the same avatar for all nodes")
	cmd.Flags().StringVarP(&opts.params.Category, "category", "c", "", "only use styles of this category")
	cmd.Flags().StringVarP(&opts.params.Prompt, "prompt", "p", "", "generate avatars from this prompt")

	return cmd
}

func (c *CLI) runRun(cmd *cobra.Command, path string, opts runOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	sw := newStopwatch(logger)

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	doc, err := document.ReadFile(path)
	if err != nil {
		return err
	}
	sw.lap("document read", "path", path)
	if len(opts.selectIDs) > 0 {
		if err := doc.Select(opts.selectIDs...); err != nil {
			return err
		}
	}

	store, err := c.openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer store.Close()

	loader := c.newLoader(cfg, store)
	hist := history.New(store)

	if opts.pick {
		provider := &suggest.Provider{History: hist}
		if opts.params, err = pickParams(ctx, runPicker, provider, loader, cfg, opts); err != nil {
			return err
		}
	}

	runner := plugin.NewRunner(loader, c.newGenerator(cfg), logger)
	runner.History = hist
	runner.Rule = cfg.Rule()
	runner.Timeout = cfg.Run.Timeout.Std()
	runner.NotifyTimeout = cfg.Run.NotifyTimeout.Std()

	spinner := newSpinnerWithContext(ctx, spinnerMessage(opts.params))
	spinner.Start()
	res, runErr := runner.Run(ctx, doc, opts.params)
	spinner.Stop()
	sw.lap("run finished", "mode", res.Mode)

	// Error notices repeat runErr, which main prints.
	for _, n := range doc.Notices() {
		if !n.Error {
			printInfo("%s", n.Message)
		}
	}
	if runErr != nil {
		return runErr
	}

	out := opts.out
	if out == "" {
		out = path
	}
	if err := doc.WriteFile(out); err != nil {
		return err
	}
	if opts.images != "" {
		if err := writeImages(opts.images, doc.Images()); err != nil {
			return err
		}
	}
	sw.finish("Run complete")

	printSuccess("Shuffled %d shapes", res.Report.Applied)
	printReport(res.Report.Applied, res.Report.Skipped, res.Report.Failed)
	printKeyValue("Mode", res.Mode)
	if res.Origin != "" {
		printKeyValue("Styles", originLabel(string(res.Origin)))
	}
	printKeyValue("Run", res.RunID)
	printFile(out)
	return nil
}

func spinnerMessage(p plugin.Params) string {
	if p.Mode() == plugin.ModeAvatars {
		return "Generating avatars..."
	}
	return "Applying styles..."
}

// writeImages writes each image as <hash>.png into dir.
func writeImages(dir string, images map[string][]byte) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for hash, data := range images {
		path := filepath.Join(dir, hash+".png")
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return err
		}
		printFile(path)
	}
	return nil
}

// picker asks the user to choose one of items. ok is false when the user
// backs out.
type picker func(title string, items []suggest.Suggestion) (choice suggest.Suggestion, ok bool, err error)

// pickParams fills the parameters the flags left unset from interactive
// pickers. An explicit --same is never asked again.
func pickParams(ctx context.Context, pick picker, provider *suggest.Provider, loader plugin.CatalogLoader, cfg config.Config, opts runOpts) (plugin.Params, error) {
	p := opts.params
	cats, err := categories(ctx, loader, cfg)
	if err != nil {
		return p, err
	}
	provider.Categories = cats

	if !opts.sameSet {
		same, err := provider.Suggest(ctx, suggest.KeySameAvatar, "")
		if err != nil {
			return p, err
		}
		choice, ok, err := pick("Avatars", same)
		if err != nil || !ok {
			return p, pickErr(err)
		}
		p.SameAvatar, _ = choice.Data.(bool)
	}

	if strings.TrimSpace(p.Prompt) != "" || p.Category != "" {
		return p, nil
	}
	options, err := provider.Suggest(ctx, suggest.KeyCategory, "")
	if err != nil {
		return p, err
	}
	options = append([]suggest.Suggestion{{Name: anyCategory}}, options...)
	choice, ok, err := pick("Category", options)
	if err != nil || !ok {
		return p, pickErr(err)
	}
	if choice.Name != anyCategory {
		p.Category = choice.Name
	}
	return p, nil
}

const anyCategory = "Any category"

func pickErr(err error) error {
	if err != nil {
		return err
	}
	return errCancelled
}
