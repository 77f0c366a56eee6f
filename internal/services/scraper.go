package services

import (
	"context"
	"fmt"
	"github.com/asaskevich/EventBus"
	"github.com/maxaizer/boss-scraper/internal/clients/boss"
	"github.com/maxaizer/boss-scraper/internal/config"
	"github.com/maxaizer/boss-scraper/internal/cookies"
	"github.com/maxaizer/boss-scraper/internal/events"
	"github.com/maxaizer/boss-scraper/internal/logger"
	"github.com/maxaizer/boss-scraper/internal/metrics"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"math/rand/v2"
	"time"
)

var ErrRetriesExhausted = errors.New("retries exhausted")

type searchClient interface {
	Search(ctx context.Context, parameters boss.SearchParameters, jar cookies.Jar) (boss.FetchResult, error)
}

type jarLoader interface {
	Load() cookies.Jar
}

type scrapeState int

const (
	stateFetching scrapeState = iota
	stateRetrying
	stateAdvancing
	stateDone
	stateFailed
)

// scrapeRun is the mutable state of a single Run.
type scrapeRun struct {
	params   boss.SearchParameters
	jar      cookies.Jar
	attempts int
	lastErr  error
	pages    int
	imported int
	total    int
	err      error
}

type Scraper struct {
	bus          EventBus.Bus
	client       searchClient
	cookies      jarLoader
	normalizer   jobUpserter
	maxPages     int
	maxRetries   int
	retryDelay   time.Duration
	minPageDelay time.Duration
	maxPageDelay time.Duration
	sleep        func(ctx context.Context, d time.Duration) error
}

func NewScraper(bus EventBus.Bus, client searchClient, cookieStore jarLoader, normalizer jobUpserter,
	cfg config.ScraperConfig) *Scraper {

	return &Scraper{
		bus:          bus,
		client:       client,
		cookies:      cookieStore,
		normalizer:   normalizer,
		maxPages:     cfg.MaxPages,
		maxRetries:   cfg.MaxRetries,
		retryDelay:   cfg.RetryDelay,
		minPageDelay: cfg.MinPageDelay,
		maxPageDelay: cfg.MaxPageDelay,
		sleep:        sleepContext,
	}
}

// Run walks the result pages starting at params.Page until the API reports no more results,
// the page limit is reached, or a page keeps failing.
func (s *Scraper) Run(ctx context.Context, params boss.SearchParameters) error {

	if params.Page < 1 {
		params.Page = 1
	}
	if err := params.Validate(); err != nil {
		return fmt.Errorf("invalid search parameters: %w", err)
	}

	start := time.Now()
	run := &scrapeRun{params: params, jar: s.cookies.Load()}
	log.Infof("scraping %q in city %s starting from page %d", params.Query, params.City, params.Page)

	state := stateFetching
	for {
		switch state {
		case stateFetching:
			state = s.fetch(ctx, run)
		case stateRetrying:
			state = s.retry(ctx, run)
		case stateAdvancing:
			state = s.advance(ctx, run)
		case stateDone:
			s.finish(run, start)
			return nil
		case stateFailed:
			s.finish(run, start)
			return run.err
		}
	}
}

func (s *Scraper) fetch(ctx context.Context, run *scrapeRun) scrapeState {

	run.attempts++
	result, err := s.client.Search(ctx, run.params, run.jar)
	if result.Cookies != nil {
		run.jar = result.Cookies
	}

	if err == nil && !result.Response.Succeeded() {
		err = fmt.Errorf("api returned code %d: %s", result.Response.Code, result.Response.Message)
	}
	if err != nil {
		if ctx.Err() != nil {
			run.err = ctx.Err()
			return stateFailed
		}
		run.lastErr = err
		log.Warnf("page %d attempt %d/%d failed: %v", run.params.Page, run.attempts, s.maxRetries, err)
		return stateRetrying
	}

	run.attempts = 0
	payload := result.Response.ZpData
	s.importPage(ctx, run, payload)

	s.bus.Publish(events.PageFetchedTopic, events.PageFetched{
		SearchTerm: run.params.Query,
		Page:       run.params.Page,
		Body:       result.Body,
	})

	if !payload.HasMore {
		log.Infof("no more results after page %d", run.params.Page)
		return stateDone
	}
	return stateAdvancing
}

func (s *Scraper) importPage(ctx context.Context, run *scrapeRun, payload *boss.SearchPayload) {

	page := run.params.Page
	origin := Origin{SearchTerm: run.params.Query, PageNumber: &page}

	imported := 0
	for _, raw := range payload.JobList {
		if importRecord(ctx, s.normalizer, raw, origin, metrics.SourceScrape) {
			imported++
		}
	}

	run.pages++
	run.imported += imported
	run.total += len(payload.JobList)
	metrics.PagesCounter.Inc()
	log.Infof("page %d: imported %d/%d records, %d results in total", page, imported, len(payload.JobList),
		payload.ResCount)
}

func (s *Scraper) retry(ctx context.Context, run *scrapeRun) scrapeState {

	if run.attempts >= s.maxRetries {
		run.err = fmt.Errorf("%w: page %d failed %d times, last error: %v",
			ErrRetriesExhausted, run.params.Page, run.attempts, run.lastErr)
		return stateFailed
	}

	log.Infof("retrying page %d in %v", run.params.Page, s.retryDelay)
	if err := s.sleep(ctx, s.retryDelay); err != nil {
		run.err = err
		return stateFailed
	}
	return stateFetching
}

func (s *Scraper) advance(ctx context.Context, run *scrapeRun) scrapeState {

	if s.maxPages > 0 && run.params.Page >= s.maxPages {
		log.Infof("page limit %d reached", s.maxPages)
		return stateDone
	}

	delay := s.pageDelay()
	log.Debugf("waiting %v before page %d", delay, run.params.Page+1)
	if err := s.sleep(ctx, delay); err != nil {
		run.err = err
		return stateFailed
	}

	run.params.Page++
	return stateFetching
}

// pageDelay is uniformly distributed between the configured bounds.
func (s *Scraper) pageDelay() time.Duration {
	if s.maxPageDelay <= s.minPageDelay {
		return s.minPageDelay
	}
	return s.minPageDelay + rand.N(s.maxPageDelay-s.minPageDelay+1)
}

func (s *Scraper) finish(run *scrapeRun, start time.Time) {

	duration := time.Since(start)
	switch {
	case errors.Is(run.err, ErrRetriesExhausted):
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeApi).
			Errorf("scraping failed after %d pages in %v: %v", run.pages, duration, run.err)
	case run.err != nil:
		log.Warnf("scraping stopped after %d pages in %v: %v", run.pages, duration, run.err)
	default:
		log.Infof("scraping finished: %d pages, imported %d/%d records in %v",
			run.pages, run.imported, run.total, duration)
	}

	s.bus.Publish(events.RunFinishedTopic, events.RunFinished{
		Kind:     events.ScrapeRun,
		Success:  run.err == nil,
		Pages:    run.pages,
		Imported: run.imported,
		Total:    run.total,
		Duration: duration,
		Err:      run.err,
	})
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
