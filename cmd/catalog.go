package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/okmusi/internal/auth"
	"github.com/desertthunder/okmusi/internal/catalog"
	"github.com/desertthunder/okmusi/internal/formatter"
	"github.com/desertthunder/okmusi/internal/models"
	"github.com/desertthunder/okmusi/internal/session"
	"github.com/desertthunder/okmusi/internal/shared"
	"github.com/desertthunder/okmusi/internal/tasks"
	"github.com/urfave/cli/v3"
)

// outputFormat reads --format, with --json taking precedence.
func outputFormat(cmd *cli.Command) (formatter.Format, error) {
	if cmd.Bool("json") {
		return formatter.FormatJSON, nil
	}
	return formatter.ParseFormat(cmd.String("format"))
}

// emit writes data to stdout, or to the --output file when set.
func (r *Runner) emit(cmd *cli.Command, data []byte, format formatter.Format) error {
	if path := cmd.String("output"); path != "" {
		written, err := formatter.WriteExport(path, data, format)
		if err != nil {
			return err
		}
		r.logger.Info("export written", "path", written, "format", format)
		return r.writePlain("✓ Saved to %s\n", written)
	}

	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if len(data) > 0 && data[len(data)-1] != '\n' {
		return r.writePlain("\n")
	}
	return nil
}

// Dashboard renders the signed-in view.
func (r *Runner) Dashboard(ctx context.Context, cmd *cli.Command) error {
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}

	var dashboard models.Dashboard
	if cmd.Bool("remote") {
		d, err := r.remoteDashboard(ctx)
		if err != nil {
			return err
		}
		dashboard = *d
	} else {
		user, err := r.requireUser(ctx)
		if err != nil {
			return err
		}
		dashboard = r.catalog.Dashboard(*user)
	}

	data, err := formatter.RenderDashboard(dashboard, format)
	if err != nil {
		return err
	}
	return r.emit(cmd, data, format)
}

// Search runs a catalog search. A blank query lists popular genres.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}
	query := cmd.StringArg("query")
	if cmd.Bool("remote") {
		return r.remoteSearch(ctx, cmd, query, format)
	}

	engine := tasks.NewSearchEngine(r.catalog, r.config.Latency.SearchDelay())

	var update tasks.SearchUpdate
	err = r.withSpinner(ctx, fmt.Sprintf("Searching for %q...", query), func(ctx context.Context) error {
		var err error
		update, err = engine.Search(ctx, query)
		return err
	})
	if err != nil {
		r.logger.Warn("search failed", "query", query, "error", err)
		r.writePlain("✗ %s\n", auth.Message(err))
		return err
	}

	resp := models.SearchResponse{
		Query:   update.Query,
		State:   update.State.String(),
		Genres:  update.Genres,
		Songs:   update.Results.Songs,
		Artists: update.Results.Artists,
		Albums:  update.Results.Albums,
		Total:   update.Results.Total(),
		User:    r.currentUser(ctx),
	}
	r.logger.Debug("search finished", "path", catalog.SearchPath(query), "state", resp.State, "total", resp.Total)

	data, err := formatter.RenderSearch(resp, format)
	if err != nil {
		return err
	}
	return r.emit(cmd, data, format)
}

// currentUser returns the local session, or nil when there is none or storage is unavailable.
func (r *Runner) currentUser(ctx context.Context) *models.Session {
	store, closeStore, err := r.sessions(ctx)
	if err != nil {
		r.logger.Debug("search without session", "error", err)
		return nil
	}
	defer closeStore()

	return session.Enter(ctx, store).Session
}

// Play hands a song to the player by id.
func (r *Runner) Play(ctx context.Context, cmd *cli.Command) error {
	id := strings.TrimSpace(cmd.StringArg("id"))
	if id == "" {
		return fmt.Errorf("%w: song id", shared.ErrMissingArgument)
	}

	song, ok := r.catalog.Song(id)
	if !ok {
		return fmt.Errorf("%w: %s", shared.ErrTrackNotFound, id)
	}

	path := catalog.PlayerPath(song)
	r.logger.Info("now playing", "path", path)

	np := &models.NowPlaying{Track: song.ID, Title: song.Title, Artist: song.Artist}
	if cmd.Bool("remote") {
		remote, err := r.remotePlay(ctx, song)
		if err != nil {
			return r.remoteFailure("remote play", err)
		}
		np = remote
	}

	if cmd.Bool("json") {
		return r.writeJSON(np, true)
	}
	r.writePlain("▶ Now playing: %s - %s (%s)\n", song.Title, song.Artist, song.Duration)
	return r.writePlain("  %s\n", path)
}

// Home prints the landing data.
func (r *Runner) Home(ctx context.Context, cmd *cli.Command) error {
	home := catalog.Home()
	if cmd.Bool("remote") {
		remote, err := r.api.Home(ctx)
		if err != nil {
			return r.remoteFailure("remote home", err)
		}
		home = *remote
	}

	if cmd.Bool("json") {
		return r.writeJSON(home, true)
	}
	r.writePlainHeader("OKmusi")
	_, err := r.output.Write(formatter.HomeToText(home))
	return err
}
