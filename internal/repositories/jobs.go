package repositories

import (
	"context"
	"github.com/maxaizer/boss-scraper/internal/entities"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"sort"
	"time"
)

type Jobs struct {
	db *gorm.DB
}

func NewJobsRepository(db *gorm.DB) *Jobs {
	return &Jobs{db: db}
}

func (j *Jobs) Exists(ctx context.Context, jobID string) (bool, error) {
	var count int64
	err := j.db.WithContext(ctx).
		Model(&entities.Job{}).
		Where("job_id = ?", jobID).
		Count(&count).Error
	if err != nil {
		return false, errors.Wrap(err, "failed to check job existence")
	}
	return count > 0, nil
}

// Save writes a job with its recruiter, company, link and child collections in one transaction.
// Nothing is persisted if any write fails.
func (j *Jobs) Save(ctx context.Context, bundle entities.JobBundle) error {

	return j.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		if bundle.Recruiter != nil {
			err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "boss_id"}},
				DoUpdates: clause.AssignmentColumns([]string{
					"boss_name", "boss_title", "boss_avatar", "boss_cert", "gold_hunter", "boss_online", "updated_at",
				}),
			}).Create(bundle.Recruiter).Error
			if err != nil {
				return errors.Wrap(err, "failed to upsert recruiter")
			}
		}

		if bundle.Company != nil {
			err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "brand_id"}},
				DoUpdates: clause.AssignmentColumns([]string{
					"brand_name", "brand_logo", "brand_stage_name", "brand_industry", "industry_code",
					"brand_scale_name", "updated_at",
				}),
			}).Create(bundle.Company).Error
			if err != nil {
				return errors.Wrap(err, "failed to upsert company")
			}
		}

		if err := upsertJob(tx, bundle.JobID, bundle.Job); err != nil {
			return errors.Wrap(err, "failed to upsert job")
		}

		link := bundle.Link
		link.JobID = bundle.JobID
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "job_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"brand_id", "boss_id"}),
		}).Create(&link).Error
		if err != nil {
			return errors.Wrap(err, "failed to upsert job link")
		}

		if err = replaceRows(tx, bundle.Labels, "job_id = ?", bundle.JobID); err != nil {
			return errors.Wrap(err, "failed to replace labels")
		}
		if err = replaceRows(tx, bundle.Skills, "job_id = ?", bundle.JobID); err != nil {
			return errors.Wrap(err, "failed to replace skills")
		}
		if err = replaceRows(tx, bundle.IconFlags, "job_id = ?", bundle.JobID); err != nil {
			return errors.Wrap(err, "failed to replace icon flags")
		}
		if err = replaceRows(tx, bundle.Welfare, "job_id = ?", bundle.JobID); err != nil {
			return errors.Wrap(err, "failed to replace welfare")
		}
		err = replaceRows(tx, bundle.BeforeNameIcons, "job_id = ? AND position = ?", bundle.JobID, entities.IconBefore)
		if err != nil {
			return errors.Wrap(err, "failed to replace name icons")
		}
		err = replaceRows(tx, bundle.AfterNameIcons, "job_id = ? AND position = ?", bundle.JobID, entities.IconAfter)
		if err != nil {
			return errors.Wrap(err, "failed to replace name icons")
		}

		return nil
	})
}

func upsertJob(tx *gorm.DB, jobID string, columns map[string]any) error {

	now := time.Now()
	values := lo.Assign(columns, map[string]any{
		"job_id":     jobID,
		"created_at": now,
		"updated_at": now,
	})

	updates := lo.Without(lo.Keys(values), "job_id", "created_at")
	sort.Strings(updates)

	return tx.Model(&entities.Job{}).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "job_id"}},
		DoUpdates: clause.AssignmentColumns(updates),
	}).Create(values).Error
}

// replaceRows deletes the rows matched by query and inserts rows in their place.
// A nil rows slice leaves the table untouched.
func replaceRows[T any](tx *gorm.DB, rows []T, query string, args ...any) error {

	if rows == nil {
		return nil
	}

	if err := tx.Where(query, args...).Delete(new(T)).Error; err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	return tx.Create(&rows).Error
}
