package ghapi

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"resty.dev/v3"
)

// ErrNotFound reports a contents path that does not exist on the branch.
var ErrNotFound = errors.New("not found")

// ErrRateLimited reports an API rate limit rejection. Callers treat it as
// transient and retry on their own schedule.
var ErrRateLimited = errors.New("rate limit exceeded")

// Config carries everything needed to talk to one repository.
type Config struct {
	// BaseURL is the API host, e.g. https://api.github.com.
	BaseURL string
	// Token authenticates every call.
	Token string
	// Repository is the "owner/name" slug.
	Repository string
	// Branch is the branch contents operations commit to.
	Branch string
	// UserAgent is sent on every request.
	UserAgent string
	// Timeout bounds a single HTTP attempt. Zero means 10 seconds.
	Timeout time.Duration
}

// Client talks to the GitHub REST API for a single repository.
type Client struct {
	rc     *resty.Client
	repo   string
	branch string
}

// New builds a Client. Callers own its lifecycle and should Close it when
// the quantum finishes.
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	rc := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(timeout).
		SetAllowMethodDeletePayload(true).
		SetHeader("Accept", "application/vnd.github.v3+json").
		SetHeader("Authorization", "token "+cfg.Token)
	if cfg.UserAgent != "" {
		rc.SetHeader("User-Agent", cfg.UserAgent)
	}

	return &Client{rc: rc, repo: cfg.Repository, branch: cfg.Branch}
}

// Close releases the underlying transport.
func (c *Client) Close() error {
	return c.rc.Close()
}

// statusError converts a non-success response into an error, mapping the
// statuses callers branch on to sentinels.
func statusError(op string, res *resty.Response) error {
	switch res.StatusCode() {
	case http.StatusNotFound:
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%s: %w", op, ErrRateLimited)
	default:
		return fmt.Errorf("%s: unexpected status %d: %s", op, res.StatusCode(), truncate(res.String(), 200))
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
