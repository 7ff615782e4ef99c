// Package session persists the signed-in user record and gates protected views on it.
//
// The record lives under [Key] in a [models.Store]. It carries no expiry and is never
// validated against a server: its presence is the only proof of login.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/desertthunder/okmusi/internal/models"
)

// Key is the storage key of the session record.
const Key = "user"

// Redirect targets used by the gate and logout.
const (
	LoginPath     = "/auth/login"
	HomePath      = "/"
	DashboardPath = "/dashboard"
)

// ErrNoSession is returned when no usable session record exists.
var ErrNoSession = errors.New("no session")

// Store reads and writes the session record through a [models.Store].
type Store struct {
	kv models.Store
}

// NewStore creates a session [Store] backed by kv.
func NewStore(kv models.Store) *Store {
	return &Store{kv: kv}
}

// Get returns the persisted session.
//
// A missing, unparsable, null or id-less record yields [ErrNoSession]; other storage errors
// are returned wrapped.
func (s *Store) Get(ctx context.Context) (*models.Session, error) {
	raw, err := s.kv.Get(ctx, Key)
	if errors.Is(err, models.ErrKeyNotFound) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var user *models.Session
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, fmt.Errorf("%w: unparsable record: %v", ErrNoSession, err)
	}
	if user == nil || user.ID == "" {
		return nil, fmt.Errorf("%w: empty record", ErrNoSession)
	}
	return user, nil
}

// Set persists user, replacing any previous record.
func (s *Store) Set(ctx context.Context, user models.Session) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := s.kv.Set(ctx, Key, string(data)); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

// Clear removes the record. Clearing an absent record succeeds.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.kv.Remove(ctx, Key); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// Decision is the outcome of entering a protected view.
type Decision struct {
	Session  *models.Session
	Redirect string // set when the view must not render
}

// Allowed reports whether the view may render.
func (d Decision) Allowed() bool {
	return d.Redirect == "" && d.Session != nil
}

// Enter applies the gate: a valid record is exposed to the view, anything else redirects to the login page.
func Enter(ctx context.Context, s *Store) Decision {
	user, err := s.Get(ctx)
	if err != nil {
		return Decision{Redirect: LoginPath}
	}
	return Decision{Session: user}
}

// Logout clears the record and returns the redirect target.
func Logout(ctx context.Context, s *Store) (string, error) {
	if err := s.Clear(ctx); err != nil {
		return "", err
	}
	return HomePath, nil
}
