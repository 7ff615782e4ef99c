package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/desertthunder/okmusi/internal/catalog"
	"github.com/desertthunder/okmusi/internal/formatter"
	"github.com/desertthunder/okmusi/internal/forms"
	"github.com/desertthunder/okmusi/internal/models"
	"github.com/desertthunder/okmusi/internal/repositories"
	"github.com/desertthunder/okmusi/internal/services"
	"github.com/desertthunder/okmusi/internal/shared"
	"github.com/urfave/cli/v3"
)

// remoteDeviceKey holds the device id a server issued to this machine.
const remoteDeviceKey = "remote_device"

// remoteSession binds the API client to the device saved by earlier --remote commands.
// The returned func saves the device the server issued when it changed.
func (r *Runner) remoteSession(ctx context.Context) (func(), error) {
	store, closeStore, err := r.openStore(ctx, r.config)
	if err != nil {
		return nil, err
	}
	kv := repositories.NewScopedStore(store, LocalDevice)

	saved, err := kv.Get(ctx, remoteDeviceKey)
	if err != nil && !errors.Is(err, models.ErrKeyNotFound) {
		closeStore()
		return nil, fmt.Errorf("failed to read remote device: %w", err)
	}
	r.api.UseDevice(saved)

	return func() {
		defer closeStore()
		device := r.api.Device()
		if device == "" || device == saved {
			return
		}
		if err := kv.Set(ctx, remoteDeviceKey, device); err != nil {
			r.logger.Warn("failed to save remote device", "error", err)
			return
		}
		r.logger.Debug("remote device saved", "device", device)
	}, nil
}

// remoteFailure prints the server's message for err and returns err.
func (r *Runner) remoteFailure(op string, err error) error {
	r.logger.Debug(op+" failed", "error", err)

	var apiErr *services.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		r.writePlain("✗ %s\n", apiErr.Message)
	} else {
		r.writePlain("✗ %v\n", err)
	}
	return err
}

func (r *Runner) remoteLogin(ctx context.Context, cmd *cli.Command, form forms.LoginForm) error {
	done, err := r.remoteSession(ctx)
	if err != nil {
		return err
	}
	defer done()

	var resp *models.AuthResponse
	err = r.withSpinner(ctx, "Signing in...", func(ctx context.Context) error {
		var err error
		resp, err = r.api.Login(ctx, form)
		return err
	})
	if err != nil {
		return r.remoteFailure("remote login", err)
	}

	r.logger.Info("signed in remotely", "id", resp.User.ID, "device", r.api.Device())
	if cmd.Bool("json") {
		return r.writeJSON(resp, true)
	}
	return r.writePlain("✓ Signed in as %s (%s)\n", resp.User.Name, resp.User.Email)
}

func (r *Runner) remoteSignup(ctx context.Context, cmd *cli.Command, form forms.SignupForm) error {
	done, err := r.remoteSession(ctx)
	if err != nil {
		return err
	}
	defer done()

	var resp *models.AuthResponse
	err = r.withSpinner(ctx, "Creating account...", func(ctx context.Context) error {
		var err error
		resp, err = r.api.Signup(ctx, form)
		return err
	})
	if err != nil {
		return r.remoteFailure("remote signup", err)
	}

	r.logger.Info("account created remotely", "id", resp.User.ID, "device", r.api.Device())
	if cmd.Bool("json") {
		return r.writeJSON(resp, true)
	}
	return r.writePlain("✓ Welcome to OKmusi, %s!\n", resp.User.Name)
}

func (r *Runner) remoteLogout(ctx context.Context) error {
	done, err := r.remoteSession(ctx)
	if err != nil {
		return err
	}
	defer done()

	redirect, err := r.api.Logout(ctx)
	if err != nil {
		return r.remoteFailure("remote logout", err)
	}
	r.logger.Info("signed out remotely", "redirect", redirect)
	return r.writePlain("✓ Signed out\n")
}

func (r *Runner) remoteUser(ctx context.Context) (*models.Session, error) {
	done, err := r.remoteSession(ctx)
	if err != nil {
		return nil, err
	}
	defer done()

	user, err := r.api.Session(ctx)
	if errors.Is(err, shared.ErrNotAuthenticated) {
		return nil, fmt.Errorf("%w: run 'okmusi login --remote' first", err)
	}
	return user, err
}

func (r *Runner) remoteDashboard(ctx context.Context) (*models.Dashboard, error) {
	done, err := r.remoteSession(ctx)
	if err != nil {
		return nil, err
	}
	defer done()

	d, err := r.api.Dashboard(ctx)
	if errors.Is(err, shared.ErrNotAuthenticated) {
		return nil, fmt.Errorf("%w: run 'okmusi login --remote' first", err)
	}
	return d, err
}

func (r *Runner) remoteSearch(ctx context.Context, cmd *cli.Command, query string, format formatter.Format) error {
	done, err := r.remoteSession(ctx)
	if err != nil {
		return err
	}
	defer done()

	var resp *models.SearchResponse
	err = r.withSpinner(ctx, fmt.Sprintf("Searching for %q...", query), func(ctx context.Context) error {
		var err error
		resp, err = r.api.Search(ctx, query)
		return err
	})
	if err != nil {
		return r.remoteFailure("remote search", err)
	}
	r.logger.Debug("remote search finished", "path", catalog.SearchPath(query), "state", resp.State, "total", resp.Total)

	data, err := formatter.RenderSearch(*resp, format)
	if err != nil {
		return err
	}
	return r.emit(cmd, data, format)
}

func (r *Runner) remotePlay(ctx context.Context, song models.Song) (*models.NowPlaying, error) {
	done, err := r.remoteSession(ctx)
	if err != nil {
		return nil, err
	}
	defer done()

	return r.api.Player(ctx, catalog.PlayerPath(song))
}
