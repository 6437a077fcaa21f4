package playbooks

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/derdritte/timestamper/internal/ratelimit"
)

const (
	listenHost = "play.google.com"
	listenPath = "/books/listen"

	// Rate limit: 1 request per second, small burst. One page per book is
	// the normal case; the limiter only matters for batch runs.
	defaultRPS   = 1.0
	defaultBurst = 2

	// HTTP client settings
	defaultTimeout = 30 * time.Second
)

// Client is a rate-limited Play Books page client. It fetches raw page
// text; all interpretation happens in Scan.
type Client struct {
	http    *http.Client
	limiter *ratelimit.Limiter
	logger  *slog.Logger
}

// NewClient creates a new Play Books client.
func NewClient(logger *slog.Logger) *Client {
	return &Client{
		http: &http.Client{
			Timeout: defaultTimeout,
		},
		limiter: ratelimit.New(defaultRPS, defaultBurst),
		logger:  logger,
	}
}

// FetchPage retrieves the listen page for a book id and returns its raw
// text.
func (c *Client) FetchPage(ctx context.Context, bookID string) (string, error) {
	if bookID == "" {
		return "", wrapError("fetch", "", ErrInvalidLink)
	}

	if !c.limiter.Allow() {
		c.logger.Debug("playbooks throttled", "book_id", bookID)
		if err := c.limiter.Wait(ctx); err != nil {
			return "", wrapError("fetch", bookID, fmt.Errorf("rate limit wait: %w", err))
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, BookURL(bookID), nil)
	if err != nil {
		return "", wrapError("fetch", bookID, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Accept", "text/html")
	req.Header.Set("User-Agent", "timestamper/1.0")

	c.logger.Debug("playbooks request", "book_id", bookID)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", wrapError("fetch", bookID, fmt.Errorf("execute request: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", wrapError("fetch", bookID, fmt.Errorf("read response: %w", err))
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return string(body), nil
	case resp.StatusCode == http.StatusNotFound:
		return "", wrapError("fetch", bookID, ErrBookNotFound)
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", wrapError("fetch", bookID, ErrRateLimited)
	case resp.StatusCode >= 500:
		return "", wrapError("fetch", bookID, ErrServer)
	default:
		return "", wrapError("fetch", bookID, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}
}

// BookURL builds the listen page URL for a book id.
func BookURL(bookID string) string {
	u := url.URL{
		Scheme:   "https",
		Host:     listenHost,
		Path:     listenPath,
		RawQuery: url.Values{"id": {bookID}}.Encode(),
	}
	return u.String()
}

// ParseBookID extracts the book id from a listen page link.
func ParseBookID(link string) (string, error) {
	u, err := url.Parse(link)
	if err != nil {
		return "", wrapError("fetch", "", fmt.Errorf("%q: %v: %w", link, err, ErrInvalidLink))
	}
	id := u.Query().Get("id")
	if id == "" {
		return "", wrapError("fetch", "", fmt.Errorf("%q: %w", link, ErrInvalidLink))
	}
	return id, nil
}
