// Package auth implements the simulated login and signup flows.
//
// There is no account lookup: login accepts any non-empty credentials and signup accepts any
// form passing [forms.SignupForm.Validate]. Both fabricate a [models.Session] and persist it
// through a [session.Store] after a simulated delay.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/okmusi/internal/forms"
	"github.com/desertthunder/okmusi/internal/models"
	"github.com/desertthunder/okmusi/internal/session"
	"github.com/desertthunder/okmusi/internal/tasks"
)

var (
	ErrLoginFailed  = errors.New("Login failed. Please try again.")
	ErrSignupFailed = errors.New("Account creation failed. Please try again.")
)

// Service performs login and signup.
type Service struct {
	delay time.Duration
	now   func() time.Time
}

// NewService creates a [Service] with the given simulated latency.
func NewService(delay time.Duration) *Service {
	return &Service{delay: delay, now: time.Now}
}

// WithClock returns a copy of s using now as its time source.
func (s *Service) WithClock(now func() time.Time) *Service {
	c := *s
	c.now = now
	return &c
}

// Login simulates a request, then persists a session for any non-empty credentials.
//
// Empty fields return [forms.ErrFillAllFields] and persist nothing. Any other failure wraps [ErrLoginFailed].
func (s *Service) Login(ctx context.Context, store *session.Store, form forms.LoginForm) (*models.Session, error) {
	if err := tasks.Simulate(ctx, s.delay); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoginFailed, err)
	}
	if err := form.Validate(); err != nil {
		return nil, err
	}

	user := models.Session{
		ID:    s.sessionID(),
		Name:  NameFromEmail(form.Email),
		Email: form.Email,
	}
	if err := store.Set(ctx, user); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoginFailed, err)
	}
	return &user, nil
}

// Signup validates form, simulates a request, then persists a session with a creation timestamp.
//
// Validation failures return the [forms.ValidationError] before any delay. Other failures wrap [ErrSignupFailed].
func (s *Service) Signup(ctx context.Context, store *session.Store, form forms.SignupForm) (*models.Session, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}
	if err := tasks.Simulate(ctx, s.delay); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSignupFailed, err)
	}

	created := s.now().UTC()
	user := models.Session{
		ID:        s.sessionID(),
		Name:      form.Name,
		Email:     form.Email,
		CreatedAt: &created,
	}
	if err := store.Set(ctx, user); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSignupFailed, err)
	}
	return &user, nil
}

// StartLogin runs [Service.Login] in the background.
func (s *Service) StartLogin(ctx context.Context, store *session.Store, form forms.LoginForm) *tasks.Task[*models.Session] {
	return tasks.Go(ctx, func(ctx context.Context) (*models.Session, error) {
		return s.Login(ctx, store, form)
	})
}

// StartSignup runs [Service.Signup] in the background.
func (s *Service) StartSignup(ctx context.Context, store *session.Store, form forms.SignupForm) *tasks.Task[*models.Session] {
	return tasks.Go(ctx, func(ctx context.Context) (*models.Session, error) {
		return s.Signup(ctx, store, form)
	})
}

func (s *Service) sessionID() string {
	return "user_" + strconv.FormatInt(s.now().UnixMilli(), 10)
}

// NameFromEmail returns the part of email before its first "@", or the whole email when there is none.
func NameFromEmail(email string) string {
	name, _, _ := strings.Cut(email, "@")
	return name
}

// Message maps err to the single message a form displays.
func Message(err error) string {
	if err == nil {
		return ""
	}

	var v forms.ValidationError
	if errors.As(err, &v) {
		return v.Error()
	}
	for _, known := range []error{ErrLoginFailed, ErrSignupFailed, tasks.ErrSearchFailed} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	return "Something went wrong. Please try again."
}
