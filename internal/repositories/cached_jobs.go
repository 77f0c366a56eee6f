package repositories

import (
	"context"
	"github.com/maxaizer/boss-scraper/internal/entities"
	gocache "github.com/patrickmn/go-cache"
	"time"
)

type jobRepository interface {
	Exists(ctx context.Context, jobID string) (bool, error)
	Save(ctx context.Context, bundle entities.JobBundle) error
}

// CachedJobs remembers job ids known to exist. Negative answers are never cached
// since a job can be written at any moment.
type CachedJobs struct {
	repo  jobRepository
	cache *gocache.Cache
}

func NewCachedJobs(repo jobRepository) *CachedJobs {
	return &CachedJobs{repo: repo, cache: gocache.New(30*time.Minute, time.Hour)}
}

func (c CachedJobs) Exists(ctx context.Context, jobID string) (bool, error) {
	if _, found := c.cache.Get(jobID); found {
		return true, nil
	}

	exists, err := c.repo.Exists(ctx, jobID)
	if err == nil && exists {
		c.cache.SetDefault(jobID, true)
	}

	return exists, err
}

func (c CachedJobs) Save(ctx context.Context, bundle entities.JobBundle) error {
	if err := c.repo.Save(ctx, bundle); err != nil {
		return err
	}
	c.cache.SetDefault(bundle.JobID, true)
	return nil
}
