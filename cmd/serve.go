package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/desertthunder/okmusi/internal/server"
	"github.com/desertthunder/okmusi/internal/shared"
	"github.com/urfave/cli/v3"
)

// Serve runs the HTTP API until SIGINT or SIGTERM.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	config := *r.config
	if host := cmd.String("host"); host != "" {
		config.Server.Host = host
	}
	if cmd.IsSet("port") {
		config.Server.Port = int(cmd.Int("port"))
	}
	if driver := cmd.String("driver"); driver != "" {
		config.Storage.Driver = strings.ToLower(driver)
	}

	if err := config.Validate(); err != nil {
		return err
	}

	store, closeStore, err := r.openStore(ctx, &config)
	if err != nil {
		return err
	}
	defer closeStore()

	srv := server.New(server.Options{
		Config:      config.Server,
		Driver:      config.Storage.Driver,
		Store:       store,
		Catalog:     r.catalog,
		AuthDelay:   config.Latency.AuthDelay(),
		SearchDelay: config.Latency.SearchDelay(),
		Logger:      r.logger,
	})

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ready := make(chan string, 1)
	errs := make(chan error, 1)
	go func() {
		errs <- srv.Run(ctx, ready)
	}()

	select {
	case addr := <-ready:
		url := "http://" + addr
		r.writePlain("✓ OKmusi API listening on %s (storage: %s)\n", url, config.Storage.Driver)
		if cmd.Bool("open") {
			if err := shared.OpenBrowser(url + "/api/home"); err != nil {
				r.logger.Warn("failed to open browser", "error", err)
			}
		}
	case err := <-errs:
		return fmt.Errorf("server failed to start: %w", err)
	}

	return <-errs
}
