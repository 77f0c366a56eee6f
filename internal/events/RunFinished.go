package events

import "time"

var RunFinishedTopic = "RunFinishedEvent"

type RunKind string

const (
	ScrapeRun RunKind = "scrape"
	ImportRun RunKind = "import"
)

type RunFinished struct {
	Kind    RunKind
	Success bool
	// Pages is the number of processed result pages or files.
	Pages    int
	Imported int
	Total    int
	Duration time.Duration
	Err      error
}
