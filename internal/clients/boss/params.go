package boss

import (
	"fmt"
	"strconv"
	"time"
)

const maxPageSize = 100

type SearchParameters struct {
	Query    string
	City     string
	Scene    string
	Page     int
	PageSize int
}

func (s SearchParameters) Validate() error {

	if s.Query == "" {
		return fmt.Errorf("query must not be empty")
	}

	if s.Page < 1 {
		return fmt.Errorf("page must be positive")
	}

	if s.PageSize < 1 || s.PageSize > maxPageSize {
		return fmt.Errorf("page size must be between 1 and %d", maxPageSize)
	}

	return nil
}

// ToQuery builds the listing query string. The "_" parameter busts intermediate caches.
func (s SearchParameters) ToQuery(now time.Time) map[string]string {

	params := map[string]string{
		"scene":    s.Scene,
		"query":    s.Query,
		"city":     s.City,
		"page":     strconv.Itoa(s.Page),
		"pageSize": strconv.Itoa(s.PageSize),
		"_":        strconv.FormatInt(now.UnixMilli(), 10),
	}

	if s.Scene == "" {
		delete(params, "scene")
	}
	if s.City == "" {
		delete(params, "city")
	}

	return params
}
