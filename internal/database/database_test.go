package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/llm-aggregator/internal/config"
	"github.com/mrlokans/llm-aggregator/internal/entities"
)

func TestNewSilentDatabase_SQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	db, err := NewSilentDatabase(config.Database{Driver: config.DatabaseDriverSQLite, URL: path})
	require.NoError(t, err)
	defer db.Close()

	assert.Equal(t, config.DatabaseDriverSQLite, db.Driver)
	assert.NoError(t, db.Ping(context.Background()))
	assert.True(t, db.DB.Migrator().HasTable(&entities.Identity{}))
}

func TestNewSilentDatabase_DefaultsToSQLite(t *testing.T) {
	db, err := NewSilentDatabase(config.Database{URL: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	defer db.Close()

	assert.Equal(t, config.DatabaseDriverSQLite, db.Driver)
}

func TestNewSilentDatabase_UnsupportedDriver(t *testing.T) {
	_, err := NewSilentDatabase(config.Database{Driver: "mysql", URL: "x"})
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestDatabase_PingAfterClose(t *testing.T) {
	db, err := NewSilentDatabase(config.Database{URL: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	require.NoError(t, db.Close())

	assert.Error(t, db.Ping(context.Background()))
}
