package services

import (
	"context"
	"encoding/json"
	"fmt"
	"github.com/maxaizer/boss-scraper/internal/clients/boss"
	"github.com/maxaizer/boss-scraper/internal/config"
	"github.com/maxaizer/boss-scraper/internal/repositories"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"path/filepath"
	"testing"
)

func newTestDbContext(t *testing.T) *repositories.DbContext {
	t.Helper()

	dbContext, err := repositories.NewDbContext(config.DBConfig{
		Driver:      config.DriverSQLite,
		Name:        filepath.Join(t.TempDir(), "test.db"),
		TablePrefix: "boss_",
	})
	require.NoError(t, err)
	require.NoError(t, dbContext.Migrate())

	t.Cleanup(func() { _ = dbContext.Close() })
	return dbContext
}

func newTestNormalizer(t *testing.T) (*Normalizer, *repositories.DbContext) {
	dbContext := newTestDbContext(t)
	jobs := repositories.NewCachedJobs(repositories.NewJobsRepository(dbContext.DB))
	return NewNormalizer(jobs), dbContext
}

func decode(t *testing.T, raw string) boss.JobRecord {
	t.Helper()
	record, err := boss.DecodeJobRecord(json.RawMessage(raw))
	require.NoError(t, err)
	return record
}

func rawJobs(ids ...string) []json.RawMessage {
	list := make([]json.RawMessage, 0, len(ids))
	for _, id := range ids {
		list = append(list, json.RawMessage(fmt.Sprintf(`{"encryptJobId":%q,"jobName":"job %s"}`, id, id)))
	}
	return list
}

type mockJobUpserter struct {
	mock.Mock
}

func (m *mockJobUpserter) UpsertJob(ctx context.Context, record boss.JobRecord, origin Origin) (bool, error) {
	args := m.Called(ctx, record, origin)
	return args.Bool(0), args.Error(1)
}
