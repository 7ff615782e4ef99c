// package repositories provides key-value store implementations for [models.Store].
package repositories

import (
	"context"
	"fmt"

	"github.com/desertthunder/okmusi/internal/models"
	"github.com/desertthunder/okmusi/internal/shared"
)

// Open connects the backend named by c.Storage.Driver.
func Open(ctx context.Context, c *shared.Config) (models.Store, error) {
	switch c.Storage.Driver {
	case shared.DriverMemory:
		return NewMemoryStore(), nil
	case shared.DriverSQLite, "":
		db, err := shared.OpenDatabase(c.Database)
		if err != nil {
			return nil, err
		}
		return NewSQLiteStore(db), nil
	case shared.DriverPostgres:
		return NewPostgresStore(ctx, c.Postgres.DSN)
	case shared.DriverRedis:
		return NewRedisStore(ctx, c.Redis.Addr, c.Redis.Password, c.Redis.DB)
	default:
		return nil, fmt.Errorf("%w: %q", shared.ErrUnsupportedDriver, c.Storage.Driver)
	}
}

// ScopedStore namespaces every key of an underlying store as device:<id>:<key>.
type ScopedStore struct {
	store  models.Store
	device string
}

// NewScopedStore wraps store with the namespace for device.
func NewScopedStore(store models.Store, device string) *ScopedStore {
	return &ScopedStore{store: store, device: device}
}

// Device returns the namespace identifier.
func (s *ScopedStore) Device() string { return s.device }

// Key returns the fully qualified key for key.
func (s *ScopedStore) Key(key string) string {
	return fmt.Sprintf("device:%s:%s", s.device, key)
}

func (s *ScopedStore) Get(ctx context.Context, key string) (string, error) {
	return s.store.Get(ctx, s.Key(key))
}

func (s *ScopedStore) Set(ctx context.Context, key, value string) error {
	return s.store.Set(ctx, s.Key(key), value)
}

func (s *ScopedStore) Remove(ctx context.Context, key string) error {
	return s.store.Remove(ctx, s.Key(key))
}

// Close is a no-op; the underlying store is shared between namespaces and closed by its owner.
func (s *ScopedStore) Close() error { return nil }
