package backend

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/Tushar-Bhat65/WorthIt/internal/domain"
	"github.com/go-resty/resty/v2"
)

// MoreClient drives the supplementary "more results" phase through the
// backend's /more polling protocol. One FetchMore call is one logical poll
// loop; single-flight discipline per request is the caller's job.
type MoreClient struct {
	client      *resty.Client
	interval    time.Duration
	maxAttempts int
}

// NewMoreClient creates a polling client. interval is the fixed re-poll
// cadence while the backend reports "loading"; maxAttempts bounds the loop
// so a wedged backend is not polled indefinitely.
func NewMoreClient(baseURL string, requestTimeout, interval time.Duration, maxAttempts int) *MoreClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(requestTimeout).
		SetHeader("User-Agent", "WorthIt/1.0")

	return &MoreClient{
		client:      client,
		interval:    interval,
		maxAttempts: maxAttempts,
	}
}

// FetchMore polls /more until the backend delivers results, then routes
// every entry through sink exactly as the live stream does. A transport
// failure ends the loop without retry; the rows collected so far stay in
// place. Exhausting the attempt ceiling returns ErrPollExhausted.
func (c *MoreClient) FetchMore(ctx context.Context, query, userPrice string, sink domain.EventSink) error {
	for attempt := 1; ; attempt++ {
		resp, err := c.poll(ctx, query, userPrice)
		if err != nil {
			log.Printf("[more] poll failed (attempt %d): %v", attempt, err)
			return err
		}

		if resp.StillLoading() {
			if attempt >= c.maxAttempts {
				log.Printf("[more] giving up after %d attempts for query %q", attempt, query)
				return domain.ErrPollExhausted
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.interval):
			}
			continue
		}

		for site, result := range resp.Results {
			sink.ResultReceived(site, result)
		}
		if resp.Worthit != nil {
			sink.ScoreReceived(*resp.Worthit)
		}
		log.Printf("[more] delivered %d results for query %q (attempt %d)", len(resp.Results), query, attempt)
		return nil
	}
}

// poll issues a single /more request and decodes its body
func (c *MoreClient) poll(ctx context.Context, query, userPrice string) (*MoreResponse, error) {
	req := c.client.R().
		SetContext(ctx).
		SetQueryParam("query", query)
	if userPrice != "" {
		req.SetQueryParam("user_price", userPrice)
	}

	resp, err := req.Get("/more")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrBackendFailure, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", domain.ErrBackendFailure, resp.StatusCode())
	}

	parsed, err := ParseMoreResponse(resp.Body())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrBackendFailure, err)
	}
	return parsed, nil
}

var _ domain.MoreClient = (*MoreClient)(nil)
