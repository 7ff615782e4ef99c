// Package repositories implements the key-value [models.Store] backends holding session records.
//
// Key Implementations:
//   - [MemoryStore] : Process-local map, lost on exit
//   - [SQLiteStore] : kv_store table created by the embedded migrations
//   - [PostgresStore] : kv_store table on a pgx connection pool
//   - [RedisStore] : Plain Redis strings without expiry
//   - [ScopedStore] : Prefixes keys with a device namespace so clients never see each other's records
//
// [Open] selects a backend from [shared.StorageConfig].
package repositories
