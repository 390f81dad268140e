package sessionstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexedwards/scs/postgresstore"
	"github.com/alexedwards/scs/sqlite3store"

	"github.com/mrlokans/llm-aggregator/internal/config"
	"github.com/mrlokans/llm-aggregator/internal/database"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS sessions (
	token TEXT PRIMARY KEY,
	data BLOB NOT NULL,
	expiry REAL NOT NULL
);
CREATE INDEX IF NOT EXISTS sessions_expiry_idx ON sessions(expiry);`

const postgresSchema = `CREATE TABLE IF NOT EXISTS sessions (
	token TEXT PRIMARY KEY,
	data BYTEA NOT NULL,
	expiry TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS sessions_expiry_idx ON sessions (expiry);`

// openDatabase stores sessions next to the identities. The stores' own
// cleanup goroutines are disabled; the scheduler calls PurgeExpired instead.
func openDatabase(ctx context.Context, db *database.Database) (*Store, error) {
	sqlDB, err := db.SQLDB()
	if err != nil {
		return nil, fmt.Errorf("failed to get SQL DB for sessions: %w", err)
	}

	switch db.Driver {
	case config.DatabaseDriverPostgres:
		if _, err := sqlDB.ExecContext(ctx, postgresSchema); err != nil {
			return nil, fmt.Errorf("failed to create sessions table: %w", err)
		}
		return &Store{
			Sessions: postgresstore.NewWithCleanupInterval(sqlDB, 0),
			backend:  config.SessionStoreDatabase,
			purge:    purgeWith(sqlDB, `DELETE FROM sessions WHERE expiry < current_timestamp`),
		}, nil

	default:
		if _, err := sqlDB.ExecContext(ctx, sqliteSchema); err != nil {
			return nil, fmt.Errorf("failed to create sessions table: %w", err)
		}
		return &Store{
			Sessions: sqlite3store.NewWithCleanupInterval(sqlDB, 0),
			backend:  config.SessionStoreDatabase,
			purge:    purgeWith(sqlDB, `DELETE FROM sessions WHERE expiry < julianday('now')`),
		}, nil
	}
}

func purgeWith(sqlDB *sql.DB, query string) func(ctx context.Context) (int64, error) {
	return func(ctx context.Context) (int64, error) {
		res, err := sqlDB.ExecContext(ctx, query)
		if err != nil {
			return 0, fmt.Errorf("failed to purge expired sessions: %w", err)
		}
		return res.RowsAffected()
	}
}
