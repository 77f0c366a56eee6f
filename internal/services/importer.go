package services

import (
	"context"
	"fmt"
	"github.com/asaskevich/EventBus"
	"github.com/maxaizer/boss-scraper/internal/clients/boss"
	"github.com/maxaizer/boss-scraper/internal/config"
	"github.com/maxaizer/boss-scraper/internal/events"
	"github.com/maxaizer/boss-scraper/internal/logger"
	"github.com/maxaizer/boss-scraper/internal/metrics"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var ErrNoFiles = errors.New("no json files found")

type ImportStatus string

const (
	StatusSuccess ImportStatus = "success"
	// StatusWarning means the import was interrupted and counts are partial.
	StatusWarning ImportStatus = "warning"
	StatusError   ImportStatus = "error"
)

type ImportSummary struct {
	Status            ImportStatus
	Message           string
	ProcessedFiles    int
	SuccessfulRecords int
	TotalRecords      int
	Duration          time.Duration
}

// FileInfo is what a saved response's file name says about its origin.
type FileInfo struct {
	SearchTerm string
	PageNumber *int
}

var pageSuffix = regexp.MustCompile(`^(.*)_p(\d+)$`)

// ParseFileName splits "<term>_p<page>.json". Without the page suffix the whole name is the term.
func ParseFileName(path string) FileInfo {

	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	match := pageSuffix.FindStringSubmatch(stem)
	if match == nil {
		return FileInfo{SearchTerm: stem}
	}

	page, err := strconv.Atoi(match[2])
	if err != nil {
		return FileInfo{SearchTerm: stem}
	}
	return FileInfo{SearchTerm: match[1], PageNumber: &page}
}

type Importer struct {
	bus         EventBus.Bus
	normalizer  jobUpserter
	recordDelay time.Duration
	fileDelay   time.Duration
	sleep       func(ctx context.Context, d time.Duration) error
}

func NewImporter(bus EventBus.Bus, normalizer jobUpserter, cfg config.ImporterConfig) *Importer {
	return &Importer{
		bus:         bus,
		normalizer:  normalizer,
		recordDelay: cfg.RecordDelay,
		fileDelay:   cfg.FileDelay,
		sleep:       sleepContext,
	}
}

// ImportDirectory replays every saved response in dir through the normalizer.
// A broken file is skipped without affecting the others.
func (i *Importer) ImportDirectory(ctx context.Context, dir string) (ImportSummary, error) {

	start := time.Now()

	files, err := scanDirectory(dir)
	if err != nil {
		summary := ImportSummary{Status: StatusError, Message: err.Error()}
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeFile).Errorf("import failed: %v", err)
		i.publish(summary, err)
		return summary, err
	}
	log.Infof("found %d json files in %s", len(files), dir)

	summary := ImportSummary{Status: StatusSuccess}
	for n, file := range files {
		if n > 0 {
			if err = i.sleep(ctx, i.fileDelay); err != nil {
				break
			}
		}

		successful, total, fileErr := i.importFile(ctx, file)
		if fileErr != nil {
			log.WithField(logger.ErrorTypeField, logger.ErrorTypeFile).Errorf("skipping %s: %v", file, fileErr)
		}

		summary.ProcessedFiles++
		summary.SuccessfulRecords += successful
		summary.TotalRecords += total

		if err = ctx.Err(); err != nil {
			break
		}
	}

	summary.Duration = time.Since(start)
	summary.Message = fmt.Sprintf("processed %d files, imported %d/%d records",
		summary.ProcessedFiles, summary.SuccessfulRecords, summary.TotalRecords)

	if err != nil {
		summary.Status = StatusWarning
		log.Warnf("import interrupted: %s", summary.Message)
	} else {
		log.Infof("import finished in %v: %s", summary.Duration, summary.Message)
	}

	i.publish(summary, err)
	return summary, err
}

func (i *Importer) importFile(ctx context.Context, path string) (int, int, error) {

	body, err := os.ReadFile(path)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read file: %w", err)
	}

	response, err := boss.ParseSearchResponse(body)
	if err != nil {
		return 0, 0, err
	}
	if response.Code != 0 {
		return 0, 0, fmt.Errorf("api error saved in file, code %d: %s", response.Code, response.Message)
	}
	if response.ZpData == nil || len(response.ZpData.JobList) == 0 {
		log.Warnf("file %s has no jobs", path)
		return 0, 0, nil
	}

	info := ParseFileName(path)
	origin := Origin{SearchTerm: info.SearchTerm, PageNumber: info.PageNumber}

	successful, total := 0, 0
	for n, raw := range response.ZpData.JobList {
		if n > 0 {
			if err = i.sleep(ctx, i.recordDelay); err != nil {
				break
			}
		}

		total++
		if importRecord(ctx, i.normalizer, raw, origin, metrics.SourceImport) {
			successful++
		}
	}

	log.Infof("imported %d/%d jobs from %s", successful, total, path)
	return successful, total, nil
}

func (i *Importer) publish(summary ImportSummary, err error) {
	i.bus.Publish(events.RunFinishedTopic, events.RunFinished{
		Kind:     events.ImportRun,
		Success:  summary.Status == StatusSuccess,
		Pages:    summary.ProcessedFiles,
		Imported: summary.SuccessfulRecords,
		Total:    summary.TotalRecords,
		Duration: summary.Duration,
		Err:      err,
	})
}

func scanDirectory(dir string) ([]string, error) {

	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("directory %s is not accessible: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".json") {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoFiles, dir)
	}
	return files, nil
}
