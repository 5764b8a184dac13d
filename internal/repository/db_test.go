package repository

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// newTestDB opens a private in-memory SQLite database with the schema applied.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := NewDB(fmt.Sprintf("file:%s?mode=memory&cache=shared", name), nil)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, Migrate(db))
	return db
}

func TestSQLitePath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", defaultSQLiteDSN},
		{"  ", defaultSQLiteDSN},
		{"sqlite:///./weekly_challenges.db", "./weekly_challenges.db"},
		{"sqlite:////var/lib/app.db", "/var/lib/app.db"},
		{"data/app.db", "data/app.db"},
		{"file:test?mode=memory", "file:test?mode=memory"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SQLitePath(tt.in), "input %q", tt.in)
	}
}

func TestDialectorFor(t *testing.T) {
	d, err := dialectorFor("postgres://u:p@localhost:5432/app")
	require.NoError(t, err)
	assert.Equal(t, "postgres", d.Name())

	d, err = dialectorFor("postgresql://u:p@localhost:5432/app")
	require.NoError(t, err)
	assert.Equal(t, "postgres", d.Name())

	d, err = dialectorFor("file:dialector?mode=memory")
	require.NoError(t, err)
	assert.Equal(t, "sqlite", d.Name())
}

func TestDialectorForCreatesSQLiteDir(t *testing.T) {
	dir := t.TempDir()
	_, err := dialectorFor("sqlite:///" + filepath.Join(dir, "nested", "app.db"))
	require.NoError(t, err)
	assert.DirExists(t, filepath.Join(dir, "nested"))

	_, err = dialectorFor("file:" + filepath.Join(dir, "other", "app.db") + "?cache=shared")
	require.NoError(t, err)
	assert.DirExists(t, filepath.Join(dir, "other"))
}

// newFileDB opens a SQLite file database with the pool settings NewDB applies.
func newFileDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "app.db"), nil)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, Migrate(db))
	return db
}

func TestNewDBSerializesSQLiteConnections(t *testing.T) {
	sqlDB, err := newFileDB(t).DB()
	require.NoError(t, err)
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
}
