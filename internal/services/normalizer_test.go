package services

import (
	"context"
	"github.com/maxaizer/boss-scraper/internal/clients/boss"
	"github.com/maxaizer/boss-scraper/internal/entities"
	"github.com/maxaizer/boss-scraper/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

const fullRecord = `{
	"encryptJobId": "job-1",
	"jobName": "Go Developer",
	"salaryDesc": "20-30K",
	"city": 101010100,
	"itemId": 7,
	"proxyJob": 1,
	"showTopPosition": true,
	"gps": {"longitude": 116.3, "latitude": 39.9},
	"encryptBossId": "boss-1",
	"bossName": "Li",
	"bossCert": 3,
	"bossOnline": true,
	"encryptBrandId": "brand-1",
	"brandName": "Example",
	"industry": 100020,
	"jobLabels": ["A", "B", "C"],
	"skills": ["Go", "SQL"],
	"iconFlagList": [4],
	"welfareList": ["五险一金"],
	"beforeNameIcons": ["b.png"],
	"afterNameIcons": ["a1.png", "a2.png"]
}`

func count(t *testing.T, dbContext *repositories.DbContext, model any) int64 {
	var n int64
	require.NoError(t, dbContext.DB.Model(model).Count(&n).Error)
	return n
}

func Test_UpsertJob_NewJob_WritesAllTables(t *testing.T) {

	normalizer, dbContext := newTestNormalizer(t)
	page := 2

	inserted, err := normalizer.UpsertJob(context.Background(), decode(t, fullRecord), Origin{SearchTerm: "golang", PageNumber: &page})
	require.NoError(t, err)
	assert.True(t, inserted)

	var job entities.Job
	require.NoError(t, dbContext.DB.First(&job, "job_id = ?", "job-1").Error)
	assert.Equal(t, "Go Developer", job.JobName)
	assert.Equal(t, "101010100", *job.CityCode)
	assert.Equal(t, 7, *job.ItemID)
	assert.Equal(t, 1, job.ProxyJob)
	assert.Equal(t, 1, job.ShowTopPosition)
	assert.Equal(t, 0, job.AtsDirectPost)
	assert.Equal(t, 39.9, *job.Latitude)
	assert.Equal(t, "golang", *job.SearchTerm)
	assert.Equal(t, 2, *job.PageNumber)
	assert.Nil(t, job.JobDegree)

	var labels []entities.JobLabel
	require.NoError(t, dbContext.DB.Where("job_id = ?", "job-1").Order("id").Find(&labels).Error)
	require.Len(t, labels, 3)
	assert.Equal(t, []string{"A", "B", "C"}, []string{labels[0].Label, labels[1].Label, labels[2].Label})

	assert.Equal(t, int64(2), count(t, dbContext, &entities.JobSkill{}))
	assert.Equal(t, int64(1), count(t, dbContext, &entities.JobIconFlag{}))
	assert.Equal(t, int64(1), count(t, dbContext, &entities.CompanyWelfare{}))
	assert.Equal(t, int64(3), count(t, dbContext, &entities.NameIcon{}))
	assert.Equal(t, int64(1), count(t, dbContext, &entities.Recruiter{}))
	assert.Equal(t, int64(1), count(t, dbContext, &entities.Company{}))

	var link entities.JobCompanyRecruiter
	require.NoError(t, dbContext.DB.First(&link, "job_id = ?", "job-1").Error)
	assert.Equal(t, "brand-1", *link.BrandID)
	assert.Equal(t, "boss-1", *link.BossID)
}

func Test_UpsertJob_LooseNumericFields_AreStored(t *testing.T) {

	normalizer, dbContext := newTestNormalizer(t)
	record := decode(t, `{"encryptJobId":98765,"jobName":"Go","itemId":"3","jobType":"1",
		"encryptBrandId":"brand-9","industry":100020.0}`)

	inserted, err := normalizer.UpsertJob(context.Background(), record, Origin{})
	require.NoError(t, err)
	assert.True(t, inserted)

	var job entities.Job
	require.NoError(t, dbContext.DB.First(&job, "job_id = ?", "98765").Error)
	assert.Equal(t, 3, *job.ItemID)
	assert.Equal(t, 1, job.JobType)

	var company entities.Company
	require.NoError(t, dbContext.DB.First(&company, "brand_id = ?", "brand-9").Error)
	assert.Equal(t, 100020, *company.IndustryCode)
}

func Test_UpsertJob_Duplicate_IsSkippedWithoutWrites(t *testing.T) {

	normalizer, dbContext := newTestNormalizer(t)
	ctx := context.Background()

	_, err := normalizer.UpsertJob(ctx, decode(t, fullRecord), Origin{SearchTerm: "golang"})
	require.NoError(t, err)

	var before entities.Job
	require.NoError(t, dbContext.DB.First(&before, "job_id = ?", "job-1").Error)

	changed := decode(t, fullRecord)
	changed.JobName = ptr("Renamed")
	changed.BrandName = ptr("Renamed Inc")
	changed.JobLabels = []string{"X"}

	inserted, err := normalizer.UpsertJob(ctx, changed, Origin{SearchTerm: "other"})
	require.NoError(t, err)
	assert.False(t, inserted)

	var after entities.Job
	require.NoError(t, dbContext.DB.First(&after, "job_id = ?", "job-1").Error)
	assert.Equal(t, before, after)

	// the company profile is not refreshed for a known job
	var company entities.Company
	require.NoError(t, dbContext.DB.First(&company, "brand_id = ?", "brand-1").Error)
	assert.Equal(t, "Example", *company.BrandName)

	assert.Equal(t, int64(1), count(t, dbContext, &entities.Job{}))
	assert.Equal(t, int64(3), count(t, dbContext, &entities.JobLabel{}))
}

func Test_UpsertJob_MissingKey(t *testing.T) {

	normalizer, dbContext := newTestNormalizer(t)

	inserted, err := normalizer.UpsertJob(context.Background(), boss.JobRecord{JobName: ptr("no key")}, Origin{})
	assert.ErrorIs(t, err, boss.ErrMissingJobKey)
	assert.False(t, inserted)
	assert.Zero(t, count(t, dbContext, &entities.Job{}))
}

func Test_UpsertJob_FailedWrite_LeavesNoRows(t *testing.T) {

	normalizer, dbContext := newTestNormalizer(t)

	// job_name is required by the schema
	record := decode(t, `{"encryptJobId":"job-1","encryptBossId":"boss-1","jobLabels":["A"]}`)
	inserted, err := normalizer.UpsertJob(context.Background(), record, Origin{})
	assert.Error(t, err)
	assert.False(t, inserted)

	assert.Zero(t, count(t, dbContext, &entities.Job{}))
	assert.Zero(t, count(t, dbContext, &entities.Recruiter{}))
	assert.Zero(t, count(t, dbContext, &entities.JobLabel{}))
}

func Test_BuildBundle_SparseRecord(t *testing.T) {

	record := decode(t, `{"encryptJobId":"job-2","jobName":"PM","encryptBrandId":"","jobLabels":[]}`)

	bundle := BuildBundle(record, Origin{})

	assert.Nil(t, bundle.Recruiter)
	assert.Nil(t, bundle.Company)
	assert.Nil(t, bundle.Labels)
	assert.Nil(t, bundle.BeforeNameIcons)
	assert.Equal(t, "", *bundle.Link.BrandID)
	assert.Nil(t, bundle.Link.BossID)

	assert.Equal(t, map[string]any{
		"job_id":            "job-2",
		"job_name":          "PM",
		"job_type":          0,
		"proxy_job":         0,
		"anonymous":         0,
		"outland":           0,
		"is_shield":         0,
		"show_top_position": 0,
		"ats_direct_post":   0,
		"optimal":           0,
	}, bundle.Job)
}

func Test_BuildBundle_Recruiter(t *testing.T) {

	bundle := BuildBundle(decode(t, fullRecord), Origin{})

	require.NotNil(t, bundle.Recruiter)
	assert.Equal(t, "boss-1", bundle.Recruiter.BossID)
	assert.Equal(t, 3, *bundle.Recruiter.BossCert)
	assert.Nil(t, bundle.Recruiter.GoldHunter)
	assert.Equal(t, 1, bundle.Recruiter.BossOnline)

	require.NotNil(t, bundle.Company)
	assert.Equal(t, 100020, *bundle.Company.IndustryCode)

	require.Len(t, bundle.AfterNameIcons, 2)
	assert.Equal(t, entities.IconAfter, bundle.AfterNameIcons[1].Position)
}

func ptr[T any](v T) *T {
	return &v
}
