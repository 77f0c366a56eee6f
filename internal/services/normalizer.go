package services

import (
	"context"
	"encoding/json"
	"fmt"
	"github.com/maxaizer/boss-scraper/internal/clients/boss"
	"github.com/maxaizer/boss-scraper/internal/entities"
	"github.com/maxaizer/boss-scraper/internal/logger"
	"github.com/maxaizer/boss-scraper/internal/metrics"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
)

type jobRepository interface {
	Exists(ctx context.Context, jobID string) (bool, error)
	Save(ctx context.Context, bundle entities.JobBundle) error
}

// Origin describes where a record was found.
type Origin struct {
	SearchTerm string
	PageNumber *int
}

type Normalizer struct {
	jobs jobRepository
}

func NewNormalizer(jobs jobRepository) *Normalizer {
	return &Normalizer{jobs: jobs}
}

// UpsertJob stores a job record with everything attached to it. It reports whether anything
// was written: a job that already exists is left as is and returns false with no error.
func (n *Normalizer) UpsertJob(ctx context.Context, record boss.JobRecord, origin Origin) (bool, error) {

	if record.EncryptJobID == "" {
		return false, boss.ErrMissingJobKey
	}

	exists, err := n.jobs.Exists(ctx, string(record.EncryptJobID))
	if err != nil {
		return false, fmt.Errorf("failed to check job %s: %w", record.EncryptJobID, err)
	}
	if exists {
		log.Debugf("job %s already exists, skipping", record.EncryptJobID)
		return false, nil
	}

	if err = n.jobs.Save(ctx, BuildBundle(record, origin)); err != nil {
		return false, fmt.Errorf("failed to save job %s: %w", record.EncryptJobID, err)
	}

	return true, nil
}

type jobUpserter interface {
	UpsertJob(ctx context.Context, record boss.JobRecord, origin Origin) (bool, error)
}

// importRecord decodes and upserts a single raw record. Failures are logged and reported as false.
func importRecord(ctx context.Context, normalizer jobUpserter, raw json.RawMessage, origin Origin, source string) bool {

	record, err := boss.DecodeJobRecord(raw)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeApi).Errorf("skipping job record: %v", err)
		metrics.JobsCounter.WithLabelValues(source, metrics.ResultFailed).Inc()
		return false
	}

	inserted, err := normalizer.UpsertJob(ctx, record, origin)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("failed to import job: %v", err)
		metrics.JobsCounter.WithLabelValues(source, metrics.ResultFailed).Inc()
		return false
	}

	if inserted {
		metrics.JobsCounter.WithLabelValues(source, metrics.ResultSaved).Inc()
	} else {
		metrics.JobsCounter.WithLabelValues(source, metrics.ResultSkipped).Inc()
	}
	return true
}

// BuildBundle maps a decoded record onto table rows.
func BuildBundle(record boss.JobRecord, origin Origin) entities.JobBundle {

	jobID := string(record.EncryptJobID)
	bundle := entities.JobBundle{
		JobID: jobID,
		Job:   jobColumns(record, origin),
		Link: entities.JobCompanyRecruiter{
			JobID:   jobID,
			BrandID: record.EncryptBrandID,
			BossID:  record.EncryptBossID,
		},
	}

	if record.EncryptBossID != nil {
		bundle.Recruiter = &entities.Recruiter{
			BossID:     *record.EncryptBossID,
			BossName:   record.BossName,
			BossTitle:  record.BossTitle,
			BossAvatar: record.BossAvatar,
			BossCert:   flagPtr(record.BossCert),
			GoldHunter: flagPtr(record.GoldHunter),
			BossOnline: flag(record.BossOnline),
		}
	}

	if brandID := lo.FromPtr(record.EncryptBrandID); brandID != "" {
		bundle.Company = &entities.Company{
			BrandID:        brandID,
			BrandName:      record.BrandName,
			BrandLogo:      record.BrandLogo,
			BrandStageName: record.BrandStageName,
			BrandIndustry:  record.BrandIndustry,
			IndustryCode:   flagPtr(record.Industry),
			BrandScaleName: record.BrandScaleName,
		}
	}

	if len(record.JobLabels) > 0 {
		bundle.Labels = lo.Map(record.JobLabels, func(label string, _ int) entities.JobLabel {
			return entities.JobLabel{JobID: jobID, Label: label}
		})
	}
	if len(record.Skills) > 0 {
		bundle.Skills = lo.Map(record.Skills, func(skill string, _ int) entities.JobSkill {
			return entities.JobSkill{JobID: jobID, Skill: skill}
		})
	}
	if len(record.IconFlagList) > 0 {
		bundle.IconFlags = lo.Map(record.IconFlagList, func(iconFlag int, _ int) entities.JobIconFlag {
			return entities.JobIconFlag{JobID: jobID, IconFlag: iconFlag}
		})
	}
	if len(record.WelfareList) > 0 {
		bundle.Welfare = lo.Map(record.WelfareList, func(welfare string, _ int) entities.CompanyWelfare {
			return entities.CompanyWelfare{JobID: jobID, Welfare: welfare}
		})
	}
	bundle.BeforeNameIcons = nameIcons(jobID, record.BeforeNameIcons, entities.IconBefore)
	bundle.AfterNameIcons = nameIcons(jobID, record.AfterNameIcons, entities.IconAfter)

	return bundle
}

func jobColumns(record boss.JobRecord, origin Origin) map[string]any {

	columns := map[string]any{
		"job_id":             string(record.EncryptJobID),
		"job_name":           value(record.JobName),
		"salary_desc":        value(record.SalaryDesc),
		"job_experience":     value(record.JobExperience),
		"job_degree":         value(record.JobDegree),
		"city_name":          value(record.CityName),
		"area_district":      value(record.AreaDistrict),
		"business_district":  value(record.BusinessDistrict),
		"lid":                value(record.Lid),
		"item_id":            value(flagPtr(record.ItemID)),
		"security_id":        value(record.SecurityID),
		"job_type":           flag(record.JobType),
		"proxy_job":          flag(record.ProxyJob),
		"anonymous":          flag(record.Anonymous),
		"outland":            flag(record.Outland),
		"is_shield":          flag(record.IsShield),
		"show_top_position":  flag(record.ShowTopPosition),
		"ats_direct_post":    flag(record.AtsDirectPost),
		"days_per_week_desc": value(record.DaysPerWeekDesc),
		"least_month_desc":   value(record.LeastMonthDesc),
		"optimal":            flag(record.Optimal),
		"page_number":        value(origin.PageNumber),
	}

	if record.City != nil {
		columns["city_code"] = record.City.String()
	}
	if record.GPS != nil {
		columns["longitude"] = value(record.GPS.Longitude)
		columns["latitude"] = value(record.GPS.Latitude)
	}
	if origin.SearchTerm != "" {
		columns["search_term"] = origin.SearchTerm
	}

	// a missing value must not overwrite a stored one
	return lo.OmitBy(columns, func(_ string, v any) bool {
		return v == nil
	})
}

func nameIcons(jobID string, urls []string, position entities.IconPosition) []entities.NameIcon {
	if len(urls) == 0 {
		return nil
	}
	return lo.Map(urls, func(url string, _ int) entities.NameIcon {
		return entities.NameIcon{JobID: jobID, IconURL: url, Position: position}
	})
}

func value[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

func flag(f *boss.Flag) int {
	if f == nil {
		return 0
	}
	return int(*f)
}

func flagPtr(f *boss.Flag) *int {
	if f == nil {
		return nil
	}
	v := int(*f)
	return &v
}
