package task

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"resty.dev/v3"

	"github.com/DataDeltas/autoCMSCheck/internal/ctxlog"
	"github.com/DataDeltas/autoCMSCheck/internal/retry"
)

// ErrAuthentication reports that the CMS rejected the credentials.
var ErrAuthentication = errors.New("cms authentication failed")

// Executor is what the application needs from the task side of a quantum.
type Executor interface {
	Run(ctx context.Context) error
}

// contentsAPI is the slice of ghapi.Client the processor uses for its
// progress files.
type contentsAPI interface {
	GetContents(ctx context.Context, path string) ([]byte, string, error)
	PutContents(ctx context.Context, path string, data []byte, sha, message string) (string, error)
}

// Config wires a Processor to one CMS project and its progress files.
type Config struct {
	LoginURL  string
	APIURL    string
	ProjectID string
	Email     string
	Password  string
	UserAgent string

	// PostIDsPath and ProcessedPath are repository paths of the ID lists.
	PostIDsPath   string
	ProcessedPath string

	// Timeout bounds a single CMS call. Zero means 10 seconds.
	Timeout time.Duration
}

// Processor processes exactly one post per quantum.
type Processor struct {
	cms    *resty.Client
	files  contentsAPI
	cfg    Config
	policy retry.Policy
}

// NewProcessor builds a Processor. The CMS client carries a cookie jar so
// the login session survives across calls within the quantum.
func NewProcessor(files contentsAPI, cfg Config, policy retry.Policy) *Processor {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	jar, _ := cookiejar.New(nil)
	cms := resty.New().
		SetTimeout(timeout).
		SetCookieJar(jar).
		SetHeader("User-Agent", cfg.UserAgent)

	return &Processor{cms: cms, files: files, cfg: cfg, policy: policy}
}

// Close releases the CMS transport.
func (p *Processor) Close() error {
	return p.cms.Close()
}

// Run performs one quantum of work: authenticate, pick the first
// unprocessed post, submit it, record the progress. Having nothing left
// to process is a clean success.
func (p *Processor) Run(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	if err := p.login(ctx); err != nil {
		return err
	}

	processed, err := p.loadProcessed(ctx)
	if err != nil {
		return err
	}
	all, err := p.loadPostIDs(ctx)
	if err != nil {
		return err
	}
	logger.Info("Progress loaded.", "processed", len(processed), "total", len(all))

	postID := firstUnprocessed(all, processed)
	if postID == "" {
		logger.Info("All posts have been processed.")
		return nil
	}

	logger.Info("Processing post.", "post_id", postID)
	if err := p.processPost(ctx, postID, true); err != nil {
		return err
	}

	if err := p.saveProcessed(ctx, postID); err != nil {
		return fmt.Errorf("post processed but progress not recorded: %w", err)
	}
	logger.Info("Post processed.", "post_id", postID)
	return nil
}

// login establishes the cookie session. The CMS answers a failed login
// with a redirect back to the login page rather than an error status.
func (p *Processor) login(ctx context.Context) error {
	_, err := retry.Do(ctx, "cms login", p.policy, func() (struct{}, error) {
		res, err := p.cms.R().
			SetContext(ctx).
			SetFormData(map[string]string{
				"Email":      p.cfg.Email,
				"Password":   p.cfg.Password,
				"RememberMe": "true",
			}).
			Post(p.cfg.LoginURL)
		if err != nil {
			return struct{}{}, err
		}
		if !res.IsSuccess() {
			return struct{}{}, fmt.Errorf("login returned status %d", res.StatusCode())
		}
		if landedOnLoginPage(res) {
			// Wrong credentials will not improve with retries.
			return struct{}{}, retry.Permanent(ErrAuthentication)
		}
		return struct{}{}, nil
	})
	if err != nil {
		return err
	}

	ctxlog.FromContext(ctx).Info("CMS login successful.")
	return nil
}

// processPost submits one post. An expired session shows up as 401/403 or
// a bounce to the login page; one re-authentication is attempted before
// giving up.
func (p *Processor) processPost(ctx context.Context, postID string, canReauth bool) error {
	res, err := p.cms.R().
		SetContext(ctx).
		SetHeader("Accept", "*/*").
		SetHeader("X-Requested-With", "XMLHttpRequest").
		SetFormData(map[string]string{
			"postId":    postID,
			"projectId": p.cfg.ProjectID,
		}).
		Post(p.cfg.APIURL)
	if err != nil {
		return fmt.Errorf("process post %s: %w", postID, err)
	}

	expired := res.StatusCode() == http.StatusUnauthorized ||
		res.StatusCode() == http.StatusForbidden ||
		landedOnLoginPage(res)
	if expired {
		if !canReauth {
			return fmt.Errorf("process post %s: %w", postID, ErrAuthentication)
		}
		ctxlog.FromContext(ctx).Warn("Session expired, re-authenticating.")
		if err := p.login(ctx); err != nil {
			return err
		}
		return p.processPost(ctx, postID, false)
	}

	if !res.IsSuccess() {
		return fmt.Errorf("process post %s: status %d: %s", postID, res.StatusCode(), truncate(res.String(), 100))
	}
	return nil
}

// landedOnLoginPage reports whether the final URL, after redirects, is
// the login page.
func landedOnLoginPage(res *resty.Response) bool {
	raw := res.RawResponse
	if raw == nil || raw.Request == nil || raw.Request.URL == nil {
		return false
	}
	return strings.Contains(raw.Request.URL.String(), "Login")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
