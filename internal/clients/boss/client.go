package boss

import (
	"context"
	"encoding/json"
	"fmt"
	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"github.com/maxaizer/boss-scraper/internal/config"
	"github.com/maxaizer/boss-scraper/internal/cookies"
	"github.com/maxaizer/boss-scraper/internal/entities"
	"github.com/maxaizer/boss-scraper/internal/logger"
	"github.com/maxaizer/boss-scraper/internal/metrics"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
	"time"
)

type cookieStore interface {
	Merge(setCookieHeaders []string, current cookies.Jar) cookies.Jar
}

type requestLogRepository interface {
	Add(ctx context.Context, entry entities.RequestLog) error
}

type FetchRequest struct {
	URL     string
	Headers map[string]string
	Params  map[string]string
	Cookies cookies.Jar
}

// FetchResult always carries the jar to use for the next request. Response is nil on failure.
type FetchResult struct {
	Response   *SearchResponse
	Body       []byte
	StatusCode int
	Cookies    cookies.Jar
}

type Client struct {
	http        *resty.Client
	baseURL     string
	cookies     cookieStore
	requestLogs requestLogRepository
	rateLimiter *rate.Limiter
	now         func() time.Time
}

func NewClient(cfg config.ScraperConfig, cookieStore cookieStore, requestLogs requestLogRepository) *Client {

	client := resty.New()
	// the Cookie header is built from our own jar
	client.SetCookieJar(nil)
	if cfg.CloudflareBypass {
		client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	}

	client.SetTimeout(cfg.RequestTimeout)
	client.SetHeaders(map[string]string{
		"User-Agent": cfg.UserAgent,
		"Referer":    cfg.Referer,
		"Accept":     "application/json, text/plain, */*",
	})

	c := &Client{
		http:        client,
		baseURL:     cfg.BaseURL,
		cookies:     cookieStore,
		requestLogs: requestLogs,
		now:         time.Now,
	}

	if cfg.MaxRequestsPerSecond > 0 {
		c.SetRateLimit(cfg.MaxRequestsPerSecond)
	}
	client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		if c.rateLimiter == nil {
			return nil
		}
		return c.rateLimiter.Wait(req.Context())
	})

	return c
}

func (c *Client) SetRateLimit(maxRequestsPerSecond float32) {
	c.rateLimiter = rate.NewLimiter(rate.Limit(maxRequestsPerSecond), 1)
}

// Search requests one result page of the listing endpoint.
func (c *Client) Search(ctx context.Context, parameters SearchParameters, jar cookies.Jar) (FetchResult, error) {

	if err := parameters.Validate(); err != nil {
		return FetchResult{Cookies: jar}, fmt.Errorf("invalid parameters: %w", err)
	}

	return c.Fetch(ctx, FetchRequest{
		URL:     c.baseURL,
		Params:  parameters.ToQuery(c.now()),
		Cookies: jar,
	})
}

// Fetch issues a single GET. On any failure the request's jar is returned untouched so the
// caller can retry with it.
func (c *Client) Fetch(ctx context.Context, request FetchRequest) (FetchResult, error) {

	result := FetchResult{Cookies: request.Cookies}

	req := c.http.R().
		SetContext(ctx).
		SetHeaders(request.Headers).
		SetQueryParams(request.Params)
	if len(request.Cookies) > 0 {
		req.SetHeader("Cookie", request.Cookies.Header())
	}

	start := time.Now()
	resp, err := req.Get(request.URL)
	elapsed := time.Since(start)
	metrics.FetchDuration.Observe(elapsed.Seconds())

	if err != nil {
		metrics.FetchesCounter.WithLabelValues(metrics.OutcomeFailure).Inc()
		return result, fmt.Errorf("error sending request: %w", err)
	}

	result.StatusCode = resp.StatusCode()
	result.Body = resp.Body()

	if !resp.IsSuccess() {
		metrics.FetchesCounter.WithLabelValues(metrics.OutcomeFailure).Inc()
		return result, fmt.Errorf("request failed with status %v, body: %v", resp.StatusCode(), resp.String())
	}

	response, err := ParseSearchResponse(result.Body)
	if err != nil {
		metrics.FetchesCounter.WithLabelValues(metrics.OutcomeFailure).Inc()
		return result, err
	}
	result.Response = &response
	metrics.FetchesCounter.WithLabelValues(metrics.OutcomeSuccess).Inc()

	if c.cookies != nil {
		result.Cookies = c.cookies.Merge(resp.Header().Values("Set-Cookie"), request.Cookies)
	}

	c.recordRequest(ctx, request, result, elapsed)
	return result, nil
}

func (c *Client) recordRequest(ctx context.Context, request FetchRequest, result FetchResult, elapsed time.Duration) {

	if c.requestLogs == nil {
		return
	}

	params, _ := json.Marshal(request.Params)
	cookieSnapshot, _ := json.Marshal(request.Cookies)

	entry := entities.RequestLog{
		URL:          request.URL,
		Params:       string(params),
		StatusCode:   result.StatusCode,
		ResponseTime: elapsed.Seconds(),
		Cookies:      string(cookieSnapshot),
	}
	if result.Response.Succeeded() {
		entry.TotalResults = result.Response.ZpData.ResCount
		entry.HasMore = result.Response.ZpData.HasMore
	}

	if err := c.requestLogs.Add(ctx, entry); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).
			Warnf("failed to record request log: %v", err)
	}
}
