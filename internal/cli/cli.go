// Package cli implements the avatarshuffle command-line interface.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/avatarshuffle/pkg/avatar"
	"github.com/matzehuels/avatarshuffle/pkg/buildinfo"
	"github.com/matzehuels/avatarshuffle/pkg/catalog"
	"github.com/matzehuels/avatarshuffle/pkg/config"
	"github.com/matzehuels/avatarshuffle/pkg/integrations/figma"
	"github.com/matzehuels/avatarshuffle/pkg/storage"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "avatarshuffle"

// Log levels accepted by New.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	noCache    bool
	verbose    bool
	quiet      bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "avatarshuffle fills design shapes with random avatars",
		Long:          `avatarshuffle applies random avatar styles from a shared library, or freshly generated avatar images, to the selected shapes of a design document.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c.SetLogLevel(logLevel(c.verbose, c.quiet))
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ~/.config/avatarshuffle/config.toml)")
	root.PersistentFlags().BoolVar(&c.noCache, "no-cache", false, "keep catalog and history in memory only")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "log every stage of a command")
	root.PersistentFlags().BoolVarP(&c.quiet, "quiet", "q", false, "log warnings and errors only")

	root.AddCommand(c.runCommand())
	root.AddCommand(c.stylesCommand())
	root.AddCommand(c.suggestCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Wiring
// =============================================================================

// loadConfig reads the config file named by --config.
func (c *CLI) loadConfig() (config.Config, error) {
	return config.Load(c.configPath)
}

// openStore opens the configured storage backend, or a memory store with
// --no-cache.
func (c *CLI) openStore(ctx context.Context, cfg config.Config) (storage.Store, error) {
	opts := cfg.StorageOptions()
	if c.noCache {
		opts.Backend = storage.BackendMemory
	}
	return storage.Open(ctx, opts)
}

// newLoader creates the catalog loader. The library is only queried when
// both a token and a file key are configured.
func (c *CLI) newLoader(cfg config.Config, store storage.Store) *catalog.Loader {
	var fetcher catalog.Fetcher
	if cfg.Library.Token != "" && cfg.Library.FileKey != "" {
		client := figma.NewClient(cfg.Library.Token)
		if cfg.Library.BaseURL != "" {
			client = client.WithBaseURL(cfg.Library.BaseURL)
		}
		fetcher = catalog.FigmaFetcher{Client: client, FileKey: cfg.Library.FileKey}
	} else {
		c.Logger.Debug("no style library configured, using stored or built-in styles")
	}
	loader := catalog.NewLoader(store, fetcher, c.Logger)
	if ttl := cfg.Library.TTL.Std(); ttl > 0 {
		loader.TTL = ttl
	}
	return loader
}

// newGenerator creates the avatar generator. Missing API settings surface
// as a CONFIGURATION error when a prompt is used.
func (c *CLI) newGenerator(cfg config.Config) *avatar.Generator {
	return avatar.NewGenerator(cfg.AvatarConfig())
}

// cacheDir returns the directory of the file store.
func cacheDir(cfg config.Config) (string, error) {
	if cfg.Storage.Dir != "" {
		return cfg.Storage.Dir, nil
	}
	return storage.DefaultDir()
}
