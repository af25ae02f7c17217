// Package promiedos scrapes upcoming match data from promiedos.com.ar.
//
// The site is a Next.js app: the team page embeds its fixture list as JSON
// inside script tags, and the match page carries kickoff, venue, referee
// and broadcast details in its source. Requests go through a token bucket
// rate limiter so hourly polls stay polite.
package promiedos

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/diablorojo/matchday/internal/fixture"
)

const (
	baseURL   = "https://www.promiedos.com.ar"
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

// Client is the promiedos HTTP scraper.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	loc        *time.Location
	logger     *slog.Logger

	// now is swappable for tests; defaults to time.Now.
	now func() time.Time
}

// NewClient creates a rate-limited promiedos client. loc is the timezone
// kickoff times are interpreted in.
func NewClient(requestsPerMinute int, loc *time.Location, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if loc == nil {
		loc = time.UTC
	}
	rps := float64(requestsPerMinute) / 60.0
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		loc:        loc,
		logger:     logger,
		now:        time.Now,
	}
}

// NextMatch returns the soonest future match listed on the team page, or
// nil when the page lists none. An empty fixture list is not a failure:
// the source may simply have nothing scheduled yet.
func (c *Client) NextMatch(ctx context.Context, teamURL string) (*fixture.Fixture, error) {
	teamPage, err := c.get(ctx, teamURL)
	if err != nil {
		return nil, err
	}

	matchURL, ok := nextMatchURL(teamPage)
	if !ok {
		c.logger.Debug("no upcoming match listed", "team_url", teamURL)
		return nil, nil
	}

	matchPage, err := c.get(ctx, matchURL)
	if err != nil {
		return nil, err
	}

	f, err := parseMatchPage(matchPage, c.now().In(c.loc), c.loc)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", matchURL, err)
	}

	c.logger.Debug("scraped next match",
		"local", f.LocalTeam, "visiting", f.VisitingTeam, "kickoff", f.DateTime)
	return &f, nil
}

// get performs a rate-limited GET request with a browser user agent.
func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request %s: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("promiedos %s returned %d", url, resp.StatusCode)
	}
	return body, nil
}
