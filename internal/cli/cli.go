package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/Nir-David-Duani/pp-linear/pkg/buildinfo"
	"github.com/Nir-David-Duani/pp-linear/pkg/cache"
	"github.com/Nir-David-Duani/pp-linear/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "pplinear"

	// redisPrefix namespaces pplinear entries in a shared Redis.
	redisPrefix = "pplinear:"
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
	Config Config

	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: DefaultConfig(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "pplinear decides whether a binary character matrix admits a perfect phylogeny",
		Long: `pplinear reads a binary taxon×character matrix, decides in linear time whether it
admits a perfect phylogeny, and writes the tree (Newick, JSON, DOT, SVG) or the
conflicting character together with the split table.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		PersistentPreRunE: c.loadConfig,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ./pplinear.toml, then $XDG_CONFIG_HOME/pplinear/config.toml)")

	// Register all subcommands
	root.AddCommand(c.solveCommand())
	root.AddCommand(c.batchCommand())
	root.AddCommand(c.splitsCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config file and attaches the logger to the command
// context.
func (c *CLI) loadConfig(cmd *cobra.Command, args []string) error {
	cfg, path, err := LoadConfig(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg
	if path != "" {
		c.Logger.Debug("loaded config", "path", path)
	}
	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	ch, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(ch, nil, c.Logger)
	r.TTL = c.Config.Cache.TTL
	return r, nil
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch c.Config.Cache.Backend {
	case backendNone:
		return cache.NewNullCache(), nil
	case backendRedis:
		return cache.NewRedisCache(ctx, c.Config.Cache.RedisURL, redisPrefix)
	}
	dir, err := c.fileCacheDir()
	if err != nil {
		c.Logger.Warn("caching disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// fileCacheDir returns the configured cache directory or the XDG default.
func (c *CLI) fileCacheDir() (string, error) {
	if c.Config.Cache.Dir != "" {
		return c.Config.Cache.Dir, nil
	}
	return cacheDir()
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/pplinear/).
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

// =============================================================================
// Options Helpers
// =============================================================================

// analysisFlags are the flags shared by commands that run the pipeline.
type analysisFlags struct {
	delimiter string
	normalize bool
	keepZero  bool
	formats   string
	noCache   bool
	refresh   bool
}

// addAnalysisFlags registers the shared pipeline flags on cmd.
func addAnalysisFlags(cmd *cobra.Command, f *analysisFlags, withFormats bool) {
	cmd.Flags().StringVarP(&f.delimiter, "delimiter", "d", "", `CSV delimiter: a single character or "tab" (default ",")`)
	cmd.Flags().BoolVar(&f.normalize, "normalize", false, "complement characters so the first taxon has all zeros")
	cmd.Flags().BoolVar(&f.keepZero, "keep-zero-columns", false, "keep characters no taxon has")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "ignore cached results")
	if withFormats {
		cmd.Flags().StringVarP(&f.formats, "format", "f", "", "artifact formats, comma-separated: "+strings.Join(pipeline.AllFormats, ", ")+" (default all)")
	}
}

// pipelineOptions merges the config file with the flags explicitly set on cmd.
func (c *CLI) pipelineOptions(cmd *cobra.Command, f *analysisFlags) (pipeline.Options, error) {
	in := c.Config.Input
	opts := pipeline.Options{
		Normalize:       in.Normalize,
		KeepZeroColumns: in.KeepZeroColumns,
		Formats:         c.Config.Output.Formats,
		Refresh:         f.refresh,
	}

	delim := in.Delimiter
	if cmd.Flags().Changed("delimiter") {
		delim = f.delimiter
	}
	d, err := parseDelimiter(delim)
	if err != nil {
		return opts, err
	}
	opts.Delimiter = d

	if cmd.Flags().Changed("normalize") {
		opts.Normalize = f.normalize
	}
	if cmd.Flags().Changed("keep-zero-columns") {
		opts.KeepZeroColumns = f.keepZero
	}
	if cmd.Flags().Changed("format") {
		opts.Formats = parseFormats(f.formats)
		if err := pipeline.ValidateFormats(opts.Formats); err != nil {
			return opts, err
		}
	}
	opts.Formats = withManifest(opts.Formats)
	return opts, nil
}

// withManifest adds the manifest to an explicit format list. Every run
// written to disk records what it produced; an empty list already means all
// formats.
func withManifest(formats []string) []string {
	if len(formats) == 0 || slices.Contains(formats, pipeline.FormatManifest) {
		return formats
	}
	return append(slices.Clone(formats), pipeline.FormatManifest)
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
