// Package sessionstore builds the scs store that backs server-side sessions.
//
// Backends (SESSION_STORE):
//
//	database  sessions table in the application database (sqlite3store or
//	          postgresstore, matching DATABASE_DRIVER). Expired rows are
//	          purged by the session cleanup scheduler.
//	redis     go-redis client at REDIS_URL; keys expire on their own.
//	memory    in-process map, lost on restart. Useful for tests and demos.
package sessionstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexedwards/scs/v2"

	"github.com/mrlokans/llm-aggregator/internal/config"
	"github.com/mrlokans/llm-aggregator/internal/database"
)

// ErrPurgeUnsupported is returned by PurgeExpired for backends that expire
// sessions themselves.
var ErrPurgeUnsupported = errors.New("session store expires entries on its own")

// Store is an opened session backend.
type Store struct {
	// Sessions is handed to scs as-is so context-aware stores keep their
	// CtxStore methods visible to the session manager.
	Sessions scs.Store

	backend config.SessionStore
	purge   func(ctx context.Context) (int64, error)
	close   func() error
}

// Open creates the backend selected in cfg. db is required for the
// "database" backend and ignored otherwise.
func Open(ctx context.Context, cfg config.Session, redisCfg config.Redis, db *database.Database) (*Store, error) {
	switch cfg.Store {
	case config.SessionStoreDatabase, "":
		if db == nil {
			return nil, errors.New("database session store requires a database")
		}
		return openDatabase(ctx, db)
	case config.SessionStoreRedis:
		return openRedis(ctx, redisCfg.URL)
	case config.SessionStoreMemory:
		return openMemory(), nil
	default:
		return nil, fmt.Errorf("unsupported session store: %q", cfg.Store)
	}
}

// Backend reports which backend is in use.
func (s *Store) Backend() config.SessionStore {
	return s.backend
}

// CanPurge reports whether PurgeExpired does any work for this backend.
func (s *Store) CanPurge() bool {
	return s.purge != nil
}

// PurgeExpired deletes expired sessions and returns how many were removed.
func (s *Store) PurgeExpired(ctx context.Context) (int64, error) {
	if s.purge == nil {
		return 0, ErrPurgeUnsupported
	}
	return s.purge(ctx)
}

// Close releases resources owned by the store. The application database is
// not owned by the store and stays open.
func (s *Store) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}
