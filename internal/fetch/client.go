package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/audi70r/commitdigest/internal/digest"
	"github.com/audi70r/commitdigest/internal/logger"
)

const (
	monthLayout = "2006-January"
	maxWorkers  = 4
	maxBodySize = 32 << 20
)

// errRetryable marks failures worth another attempt
var errRetryable = errors.New("retryable")

// Options configures a Client
type Options struct {
	Attempts int
	Timeout  time.Duration
	Rate     float64 // requests per second, <= 0 disables limiting
}

// Client downloads archive pages with a bounded number of attempts per URL
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	attempts   int
}

// NewClient creates a new archive client
func NewClient(opts Options) *Client {
	if opts.Attempts < 1 {
		opts.Attempts = 1
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}

	limit := rate.Inf
	if opts.Rate > 0 {
		limit = rate.Limit(opts.Rate)
	}

	return &Client{
		httpClient: &http.Client{Timeout: opts.Timeout},
		limiter:    rate.NewLimiter(limit, 1),
		attempts:   opts.Attempts,
	}
}

// Fetch downloads one page. Network errors, 429 and 5xx responses are
// retried up to the attempt limit; other statuses fail at once.
func (c *Client) Fetch(ctx context.Context, url string) (string, error) {
	var lastErr error

	for attempt := 1; attempt <= c.attempts; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limiter: %w", err)
		}

		body, err := c.get(ctx, url)
		if err == nil {
			return body, nil
		}
		lastErr = err

		if !errors.Is(err, errRetryable) {
			break
		}
		logger.WithField("url", url).WithError(err).Warnf("attempt %d/%d failed", attempt, c.attempts)
	}

	return "", fmt.Errorf("fetch %s: %w", url, lastErr)
}

func (c *Client) get(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("User-Agent", "commitdigest")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", errRetryable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return "", fmt.Errorf("%w: status %d", errRetryable, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", fmt.Errorf("%w: read body: %v", errRetryable, err)
	}
	return string(body), nil
}

// FetchAll downloads pages concurrently and returns them in URL order.
// A failed URL does not stop the others; its error is joined into the result
// and its page is left out.
func (c *Client) FetchAll(ctx context.Context, urls []string) ([]digest.Page, error) {
	bodies := make([]string, len(urls))
	errs := make([]error, len(urls))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxWorkers)

	for i, url := range urls {
		g.Go(func() error {
			bodies[i], errs[i] = c.Fetch(ctx, url)
			return nil
		})
	}
	_ = g.Wait()

	var pages []digest.Page
	for i, url := range urls {
		if errs[i] != nil {
			continue
		}
		pages = append(pages, digest.Page{
			Label:  url,
			Text:   bodies[i],
			Format: digest.PageFormat(url),
		})
	}

	return pages, errors.Join(errs...)
}

// MonthURLs expands an archive template for the month containing now and
// the months-1 months before it, newest first
func MonthURLs(template string, now time.Time, months int) []string {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	urls := make([]string, 0, months)
	for i := 0; i < months; i++ {
		name := first.AddDate(0, -i, 0).Format(monthLayout)
		if strings.Contains(template, "%s") {
			urls = append(urls, fmt.Sprintf(template, name))
		} else {
			urls = append(urls, template)
		}
	}
	return urls
}

// LoadFiles reads pages from disk. Files ending in .txt use the plain-text
// extractor; a file's modification time dates items before the first heading.
func LoadFiles(paths []string) ([]digest.Page, error) {
	pages := make([]digest.Page, 0, len(paths))
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
		pages = append(pages, digest.Page{
			Label:  filepath.Base(path),
			Text:   string(data),
			Format: digest.PageFormat(path),
			Date:   info.ModTime(),
		})
	}
	return pages, nil
}
