package services

import (
	"context"
	"github.com/asaskevich/EventBus"
	"github.com/maxaizer/boss-scraper/internal/config"
	"github.com/maxaizer/boss-scraper/internal/entities"
	"github.com/maxaizer/boss-scraper/internal/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) {
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

const (
	pageOne = `{"code":0,"message":"Success","zpData":{"hasMore":true,"resCount":3,"jobList":[
		{"encryptJobId":"job-1","jobName":"Go Developer","jobLabels":["A","B"]},
		{"encryptJobId":"job-2","jobName":"Go Lead"}
	]}}`
	duplicatePage = `{"code":0,"message":"Success","zpData":{"hasMore":false,"resCount":3,"jobList":[
		{"encryptJobId":"job-1","jobName":"Changed","jobLabels":["C"]}
	]}}`
)

func Test_ImportDirectory(t *testing.T) {

	normalizer, dbContext := newTestNormalizer(t)
	bus := EventBus.New()
	var finished []events.RunFinished
	require.NoError(t, bus.Subscribe(events.RunFinishedTopic, func(e events.RunFinished) {
		finished = append(finished, e)
	}))

	dir := t.TempDir()
	writeFile(t, dir, "golang_p1.json", pageOne)
	writeFile(t, dir, "golang_p2.json", `{"code":0,"zpData":`)
	writeFile(t, dir, "blocked.json", `{"code":37,"message":"您的访问行为异常"}`)
	writeFile(t, dir, "empty_p3.json", `{"code":0,"zpData":{"jobList":[],"hasMore":false}}`)
	writeFile(t, dir, "later_p4.JSON", duplicatePage)
	writeFile(t, dir, "notes.txt", "ignored")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.json"), 0755))

	importer := NewImporter(bus, normalizer, config.ImporterConfig{})
	summary, err := importer.ImportDirectory(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, StatusSuccess, summary.Status)
	assert.Equal(t, 5, summary.ProcessedFiles)
	assert.Equal(t, 3, summary.SuccessfulRecords)
	assert.Equal(t, 3, summary.TotalRecords)
	assert.Equal(t, "processed 5 files, imported 3/3 records", summary.Message)

	var jobs []entities.Job
	require.NoError(t, dbContext.DB.Order("job_id").Find(&jobs).Error)
	require.Len(t, jobs, 2)
	assert.Equal(t, "Go Developer", jobs[0].JobName)
	assert.Equal(t, "golang", *jobs[0].SearchTerm)
	assert.Equal(t, 1, *jobs[0].PageNumber)

	var labels int64
	require.NoError(t, dbContext.DB.Model(&entities.JobLabel{}).Count(&labels).Error)
	assert.Equal(t, int64(2), labels)

	require.Len(t, finished, 1)
	assert.Equal(t, events.ImportRun, finished[0].Kind)
	assert.True(t, finished[0].Success)
	assert.Equal(t, 5, finished[0].Pages)
}

func Test_ImportDirectory_Errors(t *testing.T) {

	normalizer, _ := newTestNormalizer(t)
	importer := NewImporter(EventBus.New(), normalizer, config.ImporterConfig{})

	summary, err := importer.ImportDirectory(context.Background(), filepath.Join(t.TempDir(), "absent"))
	assert.Error(t, err)
	assert.Equal(t, StatusError, summary.Status)

	emptyDir := t.TempDir()
	writeFile(t, emptyDir, "readme.md", "no json here")
	summary, err = importer.ImportDirectory(context.Background(), emptyDir)
	assert.ErrorIs(t, err, ErrNoFiles)
	assert.Equal(t, StatusError, summary.Status)

	file := filepath.Join(emptyDir, "readme.md")
	_, err = importer.ImportDirectory(context.Background(), file)
	assert.Error(t, err)
}

func Test_ImportDirectory_Cancelled(t *testing.T) {

	normalizer, _ := newTestNormalizer(t)
	importer := NewImporter(EventBus.New(), normalizer, config.ImporterConfig{})

	dir := t.TempDir()
	writeFile(t, dir, "a_p1.json", pageOne)
	writeFile(t, dir, "b_p1.json", pageOne)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := importer.ImportDirectory(ctx, dir)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StatusWarning, summary.Status)
	assert.Less(t, summary.ProcessedFiles, 2)
}

func Test_ParseFileName(t *testing.T) {

	tests := []struct {
		path string
		term string
		page *int
	}{
		{path: "json_responses/ai-tech-leader_p5.json", term: "ai-tech-leader", page: ptr(5)},
		{path: "nopagehint.json", term: "nopagehint"},
		{path: "golang_backend_p12.json", term: "golang_backend", page: ptr(12)},
		{path: "page_p.json", term: "page_p"},
		{path: "p_px.json", term: "p_px"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			info := ParseFileName(tt.path)
			assert.Equal(t, tt.term, info.SearchTerm)
			assert.Equal(t, tt.page, info.PageNumber)
		})
	}
}
