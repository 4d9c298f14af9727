package feed

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"OutreachScanner/internal/domain"
	"OutreachScanner/internal/ports"
)

const fetchTimeout = 30 * time.Second

// unknownSource labels entries whose parent feed carries no title.
const unknownSource = "Unknown"

// GofeedSource implements ports.FeedSource on top of gofeed, which handles
// both RSS and Atom transparently.
type GofeedSource struct {
	parser  *gofeed.Parser
	timeout time.Duration
	logger  *slog.Logger
}

var _ ports.FeedSource = (*GofeedSource)(nil)

// NewGofeedSource builds a source with a fixed per-feed timeout.
func NewGofeedSource(logger *slog.Logger) *GofeedSource {
	return &GofeedSource{
		parser:  gofeed.NewParser(),
		timeout: fetchTimeout,
		logger:  logger,
	}
}

// Fetch retrieves one feed and yields normalized candidate metadata.
// Entries without a link are dropped here: a link is mandatory. The raw
// published string prefers the published field over updated; the summary
// prefers description over content.
func (s *GofeedSource) Fetch(ctx context.Context, feedURL string) ([]domain.FeedEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	parsed, err := s.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch feed %s: %w", feedURL, err)
	}

	source := strings.TrimSpace(parsed.Title)
	if source == "" {
		source = unknownSource
	}

	entries := make([]domain.FeedEntry, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		if item.Link == "" {
			s.debug("entry without link dropped", "feed", feedURL, "title", item.Title)
			continue
		}

		published := item.Published
		if published == "" {
			published = item.Updated
		}

		summary := item.Description
		if summary == "" {
			summary = item.Content
		}

		entries = append(entries, domain.FeedEntry{
			Title:     item.Title,
			Link:      item.Link,
			Source:    source,
			Published: published,
			Summary:   summary,
		})
	}

	s.debug("feed fetched", "feed", feedURL, "entries", len(entries))
	return entries, nil
}

func (s *GofeedSource) debug(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
