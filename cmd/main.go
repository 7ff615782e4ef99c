package main

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/okmusi/internal/services"
	"github.com/desertthunder/okmusi/internal/shared"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v3"
)

// setupLogging loads the dotenv files before building the root logger, so LOG_LEVEL set there applies.
func setupLogging(w io.Writer, envFiles ...string) *log.Logger {
	err := shared.LoadEnv(envFiles...)
	logger := shared.NewLogger(w)
	if err != nil {
		logger.Warn("failed to load .env", "error", err)
	}
	return logger
}

func main() {
	logger := setupLogging(nil)

	config, err := shared.ResolveConfig(shared.GetEnvOrDefault("OKMUSI_CONFIG", "config.toml"))
	if err != nil {
		logger.Warn("failed to load config, using defaults", "error", err)
		config = shared.DefaultConfig()
		shared.ApplyEnv(config)
	}

	runner := NewRunner(RunnerOpts{
		Config:      config,
		API:         services.NewAPIService(shared.GetEnvOrDefault("OKMUSI_API_URL", "http://"+config.Server.Addr()), nil),
		Logger:      logger,
		Output:      os.Stdout,
		Interactive: isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd()),
	})

	app := &cli.Command{
		Name:    "okmusi",
		Usage:   "Music streaming demo: sign in, browse, and search a mock catalog",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"V"},
				Usage:   "Enable debug logging",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if cmd.Bool("verbose") {
				shared.SetLogLevel(logger, log.DebugLevel)
			}
			return ctx, nil
		},
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		err_ := errors.Unwrap(err)
		if errors.Is(err_, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		} else {
			logger.Fatalf("application error: %v", err)
		}
	}
}
