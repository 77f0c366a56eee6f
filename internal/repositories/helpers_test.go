package repositories

import (
	"github.com/maxaizer/boss-scraper/internal/config"
	"github.com/stretchr/testify/require"
	"path/filepath"
	"testing"
)

func newTestDbContext(t *testing.T) *DbContext {
	t.Helper()

	dbContext, err := NewDbContext(config.DBConfig{
		Driver:      config.DriverSQLite,
		Name:        filepath.Join(t.TempDir(), "test.db"),
		TablePrefix: "boss_",
	})
	require.NoError(t, err)
	require.NoError(t, dbContext.Migrate())

	t.Cleanup(func() { _ = dbContext.Close() })
	return dbContext
}

func ptr[T any](v T) *T {
	return &v
}
