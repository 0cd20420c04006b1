package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/moviedb/internal/catalog"
	"github.com/desertthunder/moviedb/internal/models"
	"github.com/desertthunder/moviedb/internal/repositories"
	"github.com/desertthunder/moviedb/internal/shared"
	"github.com/desertthunder/moviedb/internal/store"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// The store is opened lazily on the first command that needs the catalog, using the driver from the loaded config.
type Runner struct {
	config     *shared.Config
	configPath string
	logger     *log.Logger
	output     io.Writer
	store      models.MovieStore
	imports    *repositories.ImportRepository
	manager    *catalog.Manager
	closers    []func()
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Logger     *log.Logger
	Output     io.Writer
	Store      models.MovieStore // Overrides the configured driver when set
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		logger:     opts.Logger,
		output:     opts.Output,
		store:      opts.Store,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, moviesCommand, importCommand, exportCommand, serveCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// App builds the root command.
func (r *Runner) App() *cli.Command {
	return &cli.Command{
		Name:    "moviedb",
		Usage:   "Manage a validated movie catalog",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Before:   r.Configure,
		Commands: r.register(),
	}
}

// Configure loads the config file named by --config, applies environment overrides and validates the result.
//
// A missing file falls back to the defaults so that "setup config" can create it.
func (r *Runner) Configure(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	path := cmd.String("config")
	r.configPath = path

	if _, err := os.Stat(path); err == nil {
		config, err := shared.LoadConfig(path)
		if err != nil {
			return ctx, err
		}
		r.config = config
	} else if cmd.IsSet("config") {
		r.logger.Warn("config file not found, using defaults", "path", path)
	}

	if err := r.config.ApplyEnv(); err != nil {
		return ctx, err
	}
	if err := r.config.Validate(); err != nil {
		return ctx, err
	}

	shared.SetLogLevel(r.logger, shared.ParseLevel(r.config.Log.Level))
	r.logger.Debug("configuration loaded", "path", path, "driver", r.config.Database.Driver)
	return ctx, nil
}

// SetLogger replaces the runner's logger, including the one held by an already opened catalog.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
	if r.manager != nil {
		r.manager = r.newManager()
	}
}

// Catalog returns the catalog manager, opening the configured store on first use.
func (r *Runner) Catalog(ctx context.Context) (*catalog.Manager, error) {
	if r.manager != nil {
		return r.manager, nil
	}

	if r.store == nil {
		if err := r.openStore(ctx); err != nil {
			return nil, err
		}
	}

	r.manager = r.newManager()
	return r.manager, nil
}

func (r *Runner) newManager() *catalog.Manager {
	opts := catalog.Options{Logger: r.logger, RateLimit: r.config.Import.RateLimit}
	if r.imports != nil {
		opts.Recorder = r.imports
	}
	return catalog.NewManager(r.store, opts)
}

func (r *Runner) openStore(ctx context.Context) error {
	cfg := r.config.Database

	switch cfg.Driver {
	case shared.DriverMemory:
		r.logger.Warn("using the in-memory store, changes are lost on exit")
		r.store = store.NewMemory()

	case shared.DriverSQLite:
		db, err := shared.NewDatabase(cfg.Path)
		if err != nil {
			return fmt.Errorf("%w: %w", shared.ErrStoreUnavailable, err)
		}
		r.closers = append(r.closers, func() { db.Close() })

		if cfg.Path != ":memory:" {
			shared.ConfigureDatabase(db, cfg.MaxOpenConns, cfg.MaxIdleConns)
		}
		if err := shared.RunMigrations(db); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}

		r.store = repositories.NewMovieRepository(db)
		if r.config.Import.RecordHistory {
			r.imports = repositories.NewImportRepository(db)
		}

	case shared.DriverPostgres:
		pool, err := shared.NewPostgresPool(ctx, cfg)
		if err != nil {
			return fmt.Errorf("%w: %w", shared.ErrStoreUnavailable, err)
		}
		r.closers = append(r.closers, pool.Close)

		repo := repositories.NewPostgresMovieRepository(pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			return err
		}
		r.store = repo

	default:
		return fmt.Errorf("%w: unknown database driver %q", shared.ErrInvalidConfig, cfg.Driver)
	}

	r.logger.Debug("store opened", "driver", cfg.Driver)
	return nil
}

// ImportHistory returns the import history repository, or an error when history is not recorded.
func (r *Runner) ImportHistory(ctx context.Context) (*repositories.ImportRepository, error) {
	if _, err := r.Catalog(ctx); err != nil {
		return nil, err
	}
	if r.imports == nil {
		return nil, errors.New("import history requires the sqlite driver with import.record_history enabled")
	}
	return r.imports, nil
}

// Close releases every resource opened by the runner.
func (r *Runner) Close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		r.closers[i]()
	}
	r.closers = nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
