package main

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/desertthunder/okmusi/internal/auth"
	"github.com/desertthunder/okmusi/internal/forms"
	"github.com/desertthunder/okmusi/internal/models"
	"github.com/desertthunder/okmusi/internal/session"
	"github.com/desertthunder/okmusi/internal/shared"
	"github.com/urfave/cli/v3"
)

// Login signs in on the local device. Missing credentials are prompted for in interactive mode.
func (r *Runner) Login(ctx context.Context, cmd *cli.Command) error {
	form := forms.LoginForm{Email: cmd.String("email"), Password: cmd.String("password")}
	if r.interactive && (form.Email == "" || form.Password == "") {
		if err := promptLogin(&form); err != nil {
			return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
		}
	}
	if cmd.Bool("remote") {
		return r.remoteLogin(ctx, cmd, form)
	}

	store, closeStore, err := r.sessions(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	svc := auth.NewService(r.config.Latency.AuthDelay())

	var user *models.Session
	err = r.withSpinner(ctx, "Signing in...", func(ctx context.Context) error {
		var err error
		user, err = svc.Login(ctx, store, form)
		return err
	})
	if err != nil {
		return r.authFailure("login", err)
	}

	r.logger.Info("signed in", "id", user.ID, "email", user.Email)
	if cmd.Bool("json") {
		return r.writeJSON(models.AuthResponse{User: user, Redirect: session.DashboardPath}, true)
	}
	return r.writePlain("✓ Signed in as %s (%s)\n", user.Name, user.Email)
}

// Signup creates an account on the local device. Missing fields are prompted for in interactive mode.
func (r *Runner) Signup(ctx context.Context, cmd *cli.Command) error {
	form := forms.SignupForm{
		Name:            cmd.String("name"),
		Email:           cmd.String("email"),
		Password:        cmd.String("password"),
		ConfirmPassword: cmd.String("confirm-password"),
		AgreeToTerms:    cmd.Bool("agree-terms"),
	}
	if r.interactive && (form.Name == "" || form.Email == "" || form.Password == "" || form.ConfirmPassword == "") {
		if err := promptSignup(&form); err != nil {
			return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
		}
	}
	if cmd.Bool("remote") {
		return r.remoteSignup(ctx, cmd, form)
	}

	store, closeStore, err := r.sessions(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	svc := auth.NewService(r.config.Latency.AuthDelay())

	var user *models.Session
	err = r.withSpinner(ctx, "Creating account...", func(ctx context.Context) error {
		var err error
		user, err = svc.Signup(ctx, store, form)
		return err
	})
	if err != nil {
		return r.authFailure("signup", err)
	}

	r.logger.Info("account created", "id", user.ID, "email", user.Email)
	if cmd.Bool("json") {
		return r.writeJSON(models.AuthResponse{User: user, Redirect: session.DashboardPath}, true)
	}
	return r.writePlain("✓ Welcome to OKmusi, %s!\n", user.Name)
}

// authFailure prints the single message of a failed login or signup and returns err.
func (r *Runner) authFailure(op string, err error) error {
	r.logger.Debug(op+" failed", "error", err)
	r.writePlain("✗ %s\n", auth.Message(err))
	return err
}

// Logout clears the local session.
func (r *Runner) Logout(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("remote") {
		return r.remoteLogout(ctx)
	}

	store, closeStore, err := r.sessions(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	redirect, err := session.Logout(ctx, store)
	if err != nil {
		return err
	}
	r.logger.Info("signed out", "redirect", redirect)
	return r.writePlain("✓ Signed out\n")
}

// WhoAmI prints the signed-in user.
func (r *Runner) WhoAmI(ctx context.Context, cmd *cli.Command) error {
	var (
		user *models.Session
		err  error
	)
	if cmd.Bool("remote") {
		user, err = r.remoteUser(ctx)
	} else {
		user, err = r.requireUser(ctx)
	}
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(user, true)
	}

	r.writePlain("Name:  %s\n", user.Name)
	r.writePlain("Email: %s\n", user.Email)
	r.writePlain("ID:    %s\n", user.ID)
	if user.CreatedAt != nil {
		r.writePlain("Since: %s\n", user.CreatedAt.Format(time.DateOnly))
	}
	return nil
}

// requireUser applies the session gate for CLI commands.
func (r *Runner) requireUser(ctx context.Context) (*models.Session, error) {
	store, closeStore, err := r.sessions(ctx)
	if err != nil {
		return nil, err
	}
	defer closeStore()

	decision := session.Enter(ctx, store)
	if !decision.Allowed() {
		return nil, fmt.Errorf("%w: run 'okmusi login' first", shared.ErrNotAuthenticated)
	}
	return decision.Session, nil
}

func promptLogin(form *forms.LoginForm) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Placeholder("you@example.com").
				Value(&form.Email),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&form.Password),
		),
	).Run()
}

func promptSignup(form *forms.SignupForm) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Full name").
				Value(&form.Name),
			huh.NewInput().
				Title("Email").
				Placeholder("you@example.com").
				Value(&form.Email),
			huh.NewInput().
				Title("Password").
				Description(fmt.Sprintf("At least %d characters", forms.MinPasswordLength)).
				EchoMode(huh.EchoModePassword).
				Value(&form.Password),
			huh.NewInput().
				Title("Confirm password").
				EchoMode(huh.EchoModePassword).
				Value(&form.ConfirmPassword),
			huh.NewConfirm().
				Title("I agree to the terms and conditions").
				Value(&form.AgreeToTerms),
		),
	).Run()
}
