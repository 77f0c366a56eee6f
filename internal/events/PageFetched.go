package events

var PageFetchedTopic = "PageFetchedEvent"

// PageFetched carries the raw body of a successfully fetched result page.
type PageFetched struct {
	SearchTerm string
	Page       int
	Body       []byte
}
