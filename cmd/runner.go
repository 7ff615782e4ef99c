package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/huh/spinner"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/okmusi/internal/catalog"
	"github.com/desertthunder/okmusi/internal/models"
	"github.com/desertthunder/okmusi/internal/repositories"
	"github.com/desertthunder/okmusi/internal/services"
	"github.com/desertthunder/okmusi/internal/session"
	"github.com/desertthunder/okmusi/internal/shared"
	"github.com/urfave/cli/v3"
)

// LocalDevice is the storage namespace of the CLI and TUI.
const LocalDevice = "local"

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config      *shared.Config
	api         *services.APIService
	store       models.Store
	catalog     *catalog.Catalog
	logger      *log.Logger
	output      io.Writer
	interactive bool
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config      *shared.Config
	API         *services.APIService
	Store       models.Store // opened from Config on demand when nil
	Catalog     *catalog.Catalog
	Logger      *log.Logger
	Output      io.Writer
	Interactive bool // prompt for missing input and show spinners
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
	if opts.Catalog == nil {
		opts.Catalog = catalog.Default()
	}
	if opts.API == nil {
		opts.API = services.NewAPIService("http://"+opts.Config.Server.Addr(), nil)
	}

	return &Runner{
		config:      opts.Config,
		api:         opts.API,
		store:       opts.Store,
		catalog:     opts.Catalog,
		logger:      opts.Logger,
		output:      opts.Output,
		interactive: opts.Interactive,
	}
}

// SetLogger replaces the runner's logger.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		serveCommand, setupCommand, loginCommand, signupCommand, logoutCommand, whoamiCommand,
		dashboardCommand, searchCommand, playCommand, homeCommand, apiCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// openStore returns the injected store, or opens the one selected by c.
// The returned func closes only stores opened here.
func (r *Runner) openStore(ctx context.Context, c *shared.Config) (models.Store, func(), error) {
	if r.store != nil {
		return r.store, func() {}, nil
	}

	store, err := repositories.Open(ctx, c)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s storage: %w", c.Storage.Driver, err)
	}
	r.logger.Debug("storage opened", "driver", c.Storage.Driver)

	return store, func() {
		if err := store.Close(); err != nil {
			r.logger.Warn("failed to close storage", "error", err)
		}
	}, nil
}

// sessions opens the session store of the local device.
func (r *Runner) sessions(ctx context.Context) (*session.Store, func(), error) {
	store, closeFn, err := r.openStore(ctx, r.config)
	if err != nil {
		return nil, nil, err
	}
	return session.NewStore(repositories.NewScopedStore(store, LocalDevice)), closeFn, nil
}

// withSpinner runs fn behind a spinner in interactive mode, and directly otherwise.
func (r *Runner) withSpinner(ctx context.Context, title string, fn func(context.Context) error) error {
	if !r.interactive {
		return fn(ctx)
	}
	return spinner.New().Title(title).Context(ctx).ActionWithErr(fn).Run()
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
