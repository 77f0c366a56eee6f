package services

import (
	"context"
	"github.com/maxaizer/boss-scraper/internal/clients/boss"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

type scrapeRunner interface {
	Run(ctx context.Context, params boss.SearchParameters) error
}

// Scheduler repeats a scrape on a cron schedule. A run still in progress causes the next one to be skipped.
type Scheduler struct {
	ctx    context.Context
	cron   *cron.Cron
	runner scrapeRunner
	params boss.SearchParameters
}

func NewScheduler(ctx context.Context, runner scrapeRunner, params boss.SearchParameters, schedule string) (*Scheduler, error) {

	if schedule == "" {
		return nil, errors.New("schedule must not be empty")
	}

	cronLogger := cron.PrintfLogger(log.StandardLogger())
	s := &Scheduler{
		ctx:    ctx,
		cron:   cron.New(cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger))),
		runner: runner,
		params: params,
	}

	if _, err := s.cron.AddFunc(schedule, s.scrape); err != nil {
		return nil, errors.Wrapf(err, "invalid schedule %q", schedule)
	}

	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	log.Infof("scheduler started, next run at %v", s.cron.Entries()[0].Next)
}

// Stop waits for a running scrape to complete.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) scrape() {
	if s.ctx.Err() != nil {
		return
	}
	if err := s.runner.Run(s.ctx, s.params); err != nil {
		log.Warnf("scheduled scrape failed: %v", err)
	}
}
