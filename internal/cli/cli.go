// Package cli implements the pairrank command-line interface.
//
// Sessions are created from an item list, then refined one comparison at a
// time, either with single commands (next, compare, skip) or interactively
// with play. The CLI is built using cobra and logs via charmbracelet/log.
//
// # Commands
//
//   - new: Start a session from items given as arguments or a file
//   - list, show, delete: Inspect and manage stored sessions
//   - next, compare, skip: Answer comparisons one at a time
//   - play: Answer comparisons in an interactive terminal UI
//   - render: Draw the comparison graph as DOT, SVG or PNG
//   - serve: Expose sessions over HTTP
//   - cache: Manage the rendered artifact cache
//
// # Configuration
//
// Settings are read from $XDG_CONFIG_HOME/pairrank/config.toml or the file
// named by --config. See [config.Config].
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pairrank/pkg/buildinfo"
	"github.com/matzehuels/pairrank/pkg/cache"
	"github.com/matzehuels/pairrank/pkg/config"
	errs "github.com/matzehuels/pairrank/pkg/errors"
	"github.com/matzehuels/pairrank/pkg/session"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "pairrank"

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
	config     config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "pairrank ranks things by asking you to compare two at a time",
		Long:         `pairrank builds a ranking from pairwise "A beats B" judgements. It infers what follows transitively and always asks the comparison that tells it the most.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/pairrank/config.toml)")

	root.AddCommand(c.newCommand())
	root.AddCommand(c.listCommand())
	root.AddCommand(c.showCommand())
	root.AddCommand(c.nextCommand())
	root.AddCommand(c.compareCommand())
	root.AddCommand(c.skipCommand())
	root.AddCommand(c.deleteCommand())
	root.AddCommand(c.playCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.config = cfg

	level, _ := cfg.LogLevel()
	c.SetLogLevel(level)
	c.Logger.Debug("config loaded", "path", c.configPath, "backend", cfg.Store.Backend)
	return nil
}

// =============================================================================
// Store & Manager Factory
// =============================================================================

// backend is an opened session store plus the redis client behind it, if any.
type backend struct {
	name   string
	store  session.Store
	client *redis.Client
}

// openBackend opens the session store selected by the configuration.
func (c *CLI) openBackend(ctx context.Context) (*backend, error) {
	sc := c.config.Store
	switch sc.Backend {
	case config.BackendMemory:
		return &backend{name: sc.Backend, store: session.NewMemoryStore()}, nil
	case config.BackendFile:
		fs, err := session.NewFileStore(sc.Dir)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeStorage, err, "open session dir")
		}
		c.Logger.Debug("using file store", "dir", fs.Path())
		return &backend{name: sc.Backend, store: fs}, nil
	case config.BackendRedis:
		client, err := session.DialRedis(ctx, sc.Redis.Addr, sc.Redis.Password, sc.Redis.DB)
		if err != nil {
			return nil, err
		}
		store := session.NewRedisStore(client, session.RedisOptions{Prefix: sc.Redis.Prefix, TTL: sc.Redis.TTL})
		c.Logger.Debug("using redis store", "addr", sc.Redis.Addr)
		return &backend{name: sc.Backend, store: store, client: client}, nil
	default:
		return nil, errs.New(errs.ErrCodeInvalidConfig, "unknown store backend %q", sc.Backend)
	}
}

// newManager opens the configured store and wraps it in a session manager.
// The caller must Close the manager.
func (c *CLI) newManager(ctx context.Context) (*session.Manager, error) {
	b, err := c.openBackend(ctx)
	if err != nil {
		return nil, err
	}
	return session.NewManager(session.Instrument(b.name, b.store), c.Logger), nil
}

// newCache returns the artifact cache for rendering.
func (c *CLI) newCache(noCache bool) cache.Cache {
	if noCache || !c.config.Render.Cache {
		return cache.NewNullCache()
	}
	dir, err := cache.DefaultDir()
	if err != nil {
		return cache.NewNullCache()
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		c.Logger.Warn("artifact cache disabled", "err", err)
		return cache.NewNullCache()
	}
	return fc
}

// withRanker opens the manager, resolves ref to a session and runs fn.
func (c *CLI) withRanker(ctx context.Context, ref string, fn func(*session.Manager, *session.Ranker) error) error {
	m, err := c.newManager(ctx)
	if err != nil {
		return err
	}
	defer m.Close()

	id, err := resolveSessionID(ctx, m, ref)
	if err != nil {
		return err
	}
	r, err := m.Open(ctx, id)
	if err != nil {
		return err
	}
	return fn(m, r)
}

// resolveSessionID accepts a full session ID or a unique prefix of one.
func resolveSessionID(ctx context.Context, m *session.Manager, ref string) (string, error) {
	if err := errs.ValidateSessionID(ref); err != nil {
		return "", err
	}
	list, err := m.List(ctx)
	if err != nil {
		return "", err
	}

	var matches []string
	for _, s := range list {
		if s.ID == ref {
			return ref, nil
		}
		if len(ref) < len(s.ID) && s.ID[:len(ref)] == ref {
			matches = append(matches, s.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", errs.New(errs.ErrCodeSessionNotFound, "session %s not found", ref)
	case 1:
		return matches[0], nil
	default:
		return "", errs.New(errs.ErrCodeInvalidInput, "session prefix %q is ambiguous (%d matches)", ref, len(matches))
	}
}
