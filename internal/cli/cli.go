package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/nestsquare/pkg/buildinfo"
	"github.com/matzehuels/nestsquare/pkg/cache"
	"github.com/matzehuels/nestsquare/pkg/errors"
	"github.com/matzehuels/nestsquare/pkg/observability"
	"github.com/matzehuels/nestsquare/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "nestsquare"

	// defaultAddr is where "show" listens unless --addr is given.
	defaultAddr = "127.0.0.1:8737"
)

// Log levels exported for use in main.go.
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
	config     Config
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
		Use:   appName,
		Short: "Nestsquare draws nested-square land cover diagrams",
		Long: `Nestsquare draws nested-square diagrams: every value becomes a square whose
area is proportional to the value, all squares share the bottom-left corner,
and labels sit at the midpoint between consecutive square edges.

The built-in presets show the share of land cover flooded in the 1-in-500
year and 1-in-5 year events, and in the 2021 floods.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.loadConfig(); err != nil {
				return err
			}
			hooks := newDebugHooks(c.Logger)
			observability.SetPipelineHooks(hooks)
			observability.SetCacheHooks(hooks)
			observability.SetHTTPHooks(hooks)
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/nestsquare/config.toml)")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.presetsCommand())
	root.AddCommand(c.showCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config file named by --config, or the default one if
// it exists.
func (c *CLI) loadConfig() error {
	path, explicit := c.configPath, true
	if path == "" {
		explicit = false
		p, err := configFile()
		if err != nil {
			c.Logger.Debug("no config directory", "error", err)
			return nil
		}
		path = p
	}

	cfg, err := loadConfigFile(path, explicit)
	if err != nil {
		return err
	}
	c.config = cfg
	c.Logger.Debug("loaded config", "path", path, "redis", cfg.Cache.RedisURL != "")
	return nil
}

// FormatError renders err for the terminal, dropping the code prefix of
// validation errors.
func FormatError(err error) string {
	if errors.IsValidation(err) || errors.Is(err, errors.ErrCodePresetNotFound) {
		return styleIconError.Render(iconError) + " " + errors.UserMessage(err)
	}
	return styleIconError.Render(iconError) + " " + err.Error()
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cc, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cc, nil, c.Logger), nil
}

// newCache picks the cache backend: none when disabled, Redis when the config
// names a server, otherwise files under cacheDir.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache || c.config.Cache.Disabled {
		return cache.NewNullCache(), nil
	}
	if url := c.config.Cache.RedisURL; url != "" {
		return cache.NewRedisCache(ctx, url, cache.DefaultRedisPrefix)
	}
	dir, err := cacheDir()
	if err != nil {
		c.Logger.Warn("cache disabled", "error", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/nestsquare/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// configFile returns the default config path (~/.config/nestsquare/config.toml).
func configFile() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}
