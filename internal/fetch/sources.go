package fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/audi70r/commitdigest/internal/digest"
	"github.com/audi70r/commitdigest/internal/logger"
)

// Sources says where a run reads its pages from
type Sources struct {
	Files    []string // local archive pages; when empty the archive is fetched
	Template string   // archive URL template
	Months   int
}

// Collect loads the given files, or fetches the archive months ending at now.
// Months that fail to download are logged and skipped as long as at least
// one page arrived.
func Collect(ctx context.Context, c *Client, src Sources, now time.Time) ([]digest.Page, error) {
	if len(src.Files) > 0 {
		return LoadFiles(src.Files)
	}

	urls := MonthURLs(src.Template, now, src.Months)
	pages, err := c.FetchAll(ctx, urls)
	if err != nil {
		if len(pages) == 0 {
			return nil, fmt.Errorf("no archive page could be fetched: %w", err)
		}
		logger.WithError(err).Warnf("fetched %d of %d archive pages", len(pages), len(urls))
	}
	return pages, nil
}
