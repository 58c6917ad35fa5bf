package aocweb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/doeshing/aocenv/internal/domain"
	"github.com/doeshing/aocenv/internal/ports"
)

const maxBodyBytes = 5 * 1024 * 1024

// SessionFunc resolves the session cookie at request time, so commands that
// are served from the cache never need one.
type SessionFunc func() (string, error)

// Options configures a Client.
type Options struct {
	BaseURL      string
	UserAgent    string
	Timeout      time.Duration
	RetryBackoff time.Duration
	Session      SessionFunc
	Logger       ports.Logger
}

// Client talks to the puzzle site over HTTP.
type Client struct {
	baseURL    string
	userAgent  string
	backoff    time.Duration
	session    SessionFunc
	logger     ports.Logger
	httpClient *http.Client
}

// New creates a Client. Redirects are never followed: the site answers an
// unauthenticated request with a redirect to its login page.
func New(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = domain.DefaultRemoteTimeout
	}
	return &Client{
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		userAgent: opts.UserAgent,
		backoff:   opts.RetryBackoff,
		session:   opts.Session,
		logger:    opts.Logger,
		httpClient: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// FetchText returns the puzzle description rendered as markdown.
func (c *Client) FetchText(ctx context.Context, year, day int) (string, error) {
	body, err := c.get(ctx, fmt.Sprintf("/%d/day/%d", year, day))
	if err != nil {
		return "", err
	}
	text, err := renderArticles(body)
	if err != nil {
		return "", err
	}
	if text == "" {
		return "", fmt.Errorf("%w: no puzzle text in page for %d day %d", domain.ErrNotFound, year, day)
	}
	return text, nil
}

// FetchInput returns the raw puzzle input.
func (c *Client) FetchInput(ctx context.Context, year, day int) (string, error) {
	body, err := c.get(ctx, fmt.Sprintf("/%d/day/%d/input", year, day))
	if err != nil {
		return "", err
	}
	if strings.HasPrefix(body, "Puzzle inputs differ by user") {
		return "", fmt.Errorf("%w: %s", domain.ErrAuthentication, strings.TrimSpace(body))
	}
	return body, nil
}

// SubmitAnswer posts an answer and returns the text of the response article.
func (c *Client) SubmitAnswer(ctx context.Context, year, day int, part domain.Part, answer string) (string, error) {
	form := url.Values{}
	form.Set("level", strconv.Itoa(int(part)))
	form.Set("answer", answer)

	body, err := c.do(ctx, http.MethodPost, fmt.Sprintf("/%d/day/%d/answer", year, day), form.Encode())
	if err != nil {
		return "", err
	}
	text, found, err := articleText(body)
	if err != nil {
		return "", err
	}
	if !found {
		if looksLoggedOut(body) {
			return "", fmt.Errorf("%w: submission page asks to log in", domain.ErrAuthentication)
		}
		return "", fmt.Errorf("%w: no response article in submission reply", domain.ErrTransport)
	}
	return text, nil
}

// FetchYearOverview returns the parts marked solved on the year's calendar.
func (c *Client) FetchYearOverview(ctx context.Context, year int) ([]domain.PuzzleKey, error) {
	body, err := c.get(ctx, fmt.Sprintf("/%d", year))
	if err != nil {
		return nil, err
	}
	keys, err := calendarStars(body, year)
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 && looksLoggedOut(body) {
		return nil, fmt.Errorf("%w: calendar shows a logged out user", domain.ErrAuthentication)
	}
	return keys, nil
}

func (c *Client) get(ctx context.Context, path string) (string, error) {
	return c.do(ctx, http.MethodGet, path, "")
}

// do issues the request, retrying a transport failure once after the backoff.
// A POST is retried only when the connection was never made, since a second
// answer submission would be graded again.
func (c *Client) do(ctx context.Context, method, path, form string) (string, error) {
	body, err := c.once(ctx, method, path, form)
	if err == nil || !errors.Is(err, domain.ErrTransport) {
		return body, err
	}
	if method != http.MethodGet && !neverSent(err) {
		return body, err
	}
	c.logDebug("retrying request", map[string]interface{}{"path": path, "error": err.Error(), "backoff": c.backoff.String()})

	timer := time.NewTimer(c.backoff)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%w: %v", domain.ErrTransport, ctx.Err())
	case <-timer.C:
	}
	return c.once(ctx, method, path, form)
}

func (c *Client) once(ctx context.Context, method, path, form string) (string, error) {
	session, err := c.resolveSession()
	if err != nil {
		return "", err
	}

	var reader io.Reader
	if form != "" {
		reader = strings.NewReader(form)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	if form != "" {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	req.AddCookie(&http.Cookie{Name: "session", Value: session})

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %s %s: %w", domain.ErrTransport, method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("%w: reading %s: %v", domain.ErrTransport, path, err)
	}
	c.logDebug("remote request", map[string]interface{}{
		"method":   method,
		"path":     path,
		"status":   resp.StatusCode,
		"duration": time.Since(start).String(),
	})

	if err := statusError(resp, path); err != nil {
		return "", err
	}
	return string(raw), nil
}

func (c *Client) resolveSession() (string, error) {
	if c.session == nil {
		return "", fmt.Errorf("%w: no session configured", domain.ErrAuthentication)
	}
	session, err := c.session()
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrAuthentication, err)
	}
	if session == "" {
		return "", fmt.Errorf("%w: empty session cookie", domain.ErrAuthentication)
	}
	return session, nil
}

func neverSent(err error) bool {
	var opErr *net.OpError
	return errors.As(err, &opErr) && opErr.Op == "dial"
}

func statusError(resp *http.Response, path string) error {
	switch code := resp.StatusCode; {
	case code >= 200 && code < 300:
		return nil
	case code >= 300 && code < 400:
		return fmt.Errorf("%w: %s redirected to %q", domain.ErrAuthentication, path, resp.Header.Get("Location"))
	case code == http.StatusBadRequest, code == http.StatusUnauthorized, code == http.StatusForbidden:
		return fmt.Errorf("%w: %s returned %d", domain.ErrAuthentication, path, code)
	case code == http.StatusNotFound:
		return fmt.Errorf("%w: %s", domain.ErrNotFound, path)
	case code >= 500:
		return fmt.Errorf("%w: %s returned %d", domain.ErrTransport, path, code)
	default:
		return fmt.Errorf("unexpected status %d for %s", code, path)
	}
}

func looksLoggedOut(body string) bool {
	lower := strings.ToLower(body)
	return strings.Contains(lower, "[log in]") || strings.Contains(lower, "please log in") || strings.Contains(lower, "/auth/login")
}

func (c *Client) logDebug(msg string, fields map[string]interface{}) {
	if c.logger != nil {
		c.logger.Debug(msg, fields)
	}
}

var _ ports.PuzzleSite = (*Client)(nil)
