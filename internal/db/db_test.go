package db

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_CreatesDatabaseAndSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "ft.db")

	db, err := Open(path)
	require.NoError(t, err)
	defer db.Close()

	_, err = os.Stat(path)
	require.NoError(t, err)

	version, err := Version(db)
	require.NoError(t, err)
	assert.Equal(t, len(All), version)
	for _, table := range []string{"files", "scenarios", "statuses", "test_links"} {
		assert.True(t, tableExists(t, db, table), table)
	}
}

func TestOpen_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ft.db")

	db, err := Open(path)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO files (file_path) VALUES (?)`, "fts/login.ft")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = Open(path)
	require.NoError(t, err)
	defer db.Close()

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM files`).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestOpen_EnforcesForeignKeys(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "ft.db"))
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`INSERT INTO scenarios (file_id, name) VALUES (42, 'orphan')`)
	assert.Error(t, err)
}

func TestOpen_UsesWriteAheadLog(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "ft.db"))
	require.NoError(t, err)
	defer db.Close()

	var mode string
	require.NoError(t, db.QueryRow("PRAGMA journal_mode").Scan(&mode))
	assert.Equal(t, "wal", mode)
}
