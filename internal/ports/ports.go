package ports

import (
	"context"

	"OutreachScanner/internal/domain"
)

// FeedSource enumerates candidate article metadata from one syndicated feed.
type FeedSource interface {
	Fetch(ctx context.Context, feedURL string) ([]domain.FeedEntry, error)
}

// BodyFetcher retrieves the readable text of an article page. Best effort:
// callers forward an empty body when it fails.
type BodyFetcher interface {
	Fetch(ctx context.Context, articleURL string) (string, error)
}

// ExtractionService converts article metadata plus optional body text into
// a structured Article via an external LLM. An error means the response
// was not usable and the entry must be skipped for this run.
type ExtractionService interface {
	Extract(ctx context.Context, meta domain.FeedEntry, body string) (domain.Article, error)
}

// ArticleStore persists the full article collection as one document.
type ArticleStore interface {
	Load(ctx context.Context) (domain.Collection, error)
	Save(ctx context.Context, col domain.Collection) error
}
