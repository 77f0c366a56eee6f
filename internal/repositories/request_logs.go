package repositories

import (
	"context"
	"github.com/maxaizer/boss-scraper/internal/entities"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type RequestLogs struct {
	db *gorm.DB
}

func NewRequestLogsRepository(db *gorm.DB) *RequestLogs {
	return &RequestLogs{db: db}
}

func (r *RequestLogs) Add(ctx context.Context, entry entities.RequestLog) error {
	entry.ID = 0
	if err := r.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return errors.Wrap(err, "failed to add request log")
	}
	return nil
}
