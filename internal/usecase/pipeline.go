package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"OutreachScanner/internal/domain"
	"OutreachScanner/internal/ports"
)

// fallbackDate stands in for stored articles missing a published_at.
const fallbackDate = "1970-01-01"

// PipelineDeps wires all driven adapters into the orchestration pipeline.
type PipelineDeps struct {
	Feeds     []string
	Cutoff    time.Time
	Source    ports.FeedSource
	Fetcher   ports.BodyFetcher
	Extractor ports.ExtractionService
	Store     ports.ArticleStore
	Logger    *slog.Logger
}

// Pipeline implements the fetch-new, enrich, merge, filter, sort, save
// workflow over the persisted article collection.
type Pipeline struct {
	feeds     []string
	cutoff    time.Time
	source    ports.FeedSource
	fetcher   ports.BodyFetcher
	extractor ports.ExtractionService
	store     ports.ArticleStore
	logger    *slog.Logger
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	return &Pipeline{
		feeds:     deps.Feeds,
		cutoff:    deps.Cutoff,
		source:    deps.Source,
		fetcher:   deps.Fetcher,
		extractor: deps.Extractor,
		store:     deps.Store,
		logger:    deps.Logger,
	}
}

// Run executes one full pass and returns the number of newly added
// articles. A rerun against unchanged feeds and store is a no-op: every
// known identifier is skipped before any fetch or extraction happens.
func (p *Pipeline) Run(ctx context.Context) (int, error) {
	col, err := p.store.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("load store: %w", err)
	}

	// Index existing articles by id, keeping first-seen order so ties
	// stay stable across save/reload round trips.
	index := make(map[string]domain.Article, len(col.Articles))
	order := make([]string, 0, len(col.Articles))
	for _, article := range col.Articles {
		if article.ID == "" {
			continue
		}
		if _, ok := index[article.ID]; !ok {
			order = append(order, article.ID)
		}
		index[article.ID] = article
	}

	added := 0
	for _, feedURL := range p.feeds {
		entries, err := p.source.Fetch(ctx, feedURL)
		if err != nil {
			p.warn("feed fetch failed", "feed", feedURL, "error", err)
			continue
		}

		for _, entry := range entries {
			article, ok := p.processEntry(ctx, entry, index)
			if !ok {
				continue
			}
			index[article.ID] = article
			order = append(order, article.ID)
			added++
		}
	}

	// Rebuild the list, re-validating even previously stored articles so
	// a tightened cutoff retroactively prunes them.
	filtered := make([]domain.Article, 0, len(order))
	for _, id := range order {
		article := index[id]
		raw := article.PublishedAt
		if raw == "" {
			raw = fallbackDate
		}
		when, ok := domain.ParseWhen(raw)
		if !ok || when.Before(p.cutoff) {
			continue
		}
		filtered = append(filtered, article)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return p.sortKey(filtered[i]).After(p.sortKey(filtered[j]))
	})

	col.Articles = filtered
	if err := p.store.Save(ctx, col); err != nil {
		return added, fmt.Errorf("save store: %w", err)
	}

	p.debug("run complete", "added", added, "stored", len(filtered))
	return added, nil
}

// processEntry applies the per-entry decisions in order; any failure is a
// hard skip for this run. ok is true only when a fully reconciled new
// article should be merged into the collection.
func (p *Pipeline) processEntry(ctx context.Context, entry domain.FeedEntry, index map[string]domain.Article) (domain.Article, bool) {
	if entry.Link == "" {
		return domain.Article{}, false
	}

	published, ok := domain.ParseWhen(entry.Published)
	if !ok {
		p.debug("entry without usable date skipped", "link", entry.Link)
		return domain.Article{}, false
	}
	if published.Before(p.cutoff) {
		return domain.Article{}, false
	}

	id := domain.ArticleID(entry.Link, published)
	if _, exists := index[id]; exists {
		// already tracked
		return domain.Article{}, false
	}

	body := ""
	if p.fetcher != nil {
		text, err := p.fetcher.Fetch(ctx, entry.Link)
		if err != nil {
			p.debug("body fetch failed", "link", entry.Link, "error", err)
		} else {
			body = text
		}
	}

	article, err := p.extractor.Extract(ctx, entry, body)
	if err != nil {
		p.warn("extraction failed", "link", entry.Link, "error", err)
		return domain.Article{}, false
	}

	return reconcile(article, id, entry, published), true
}

// reconcile enforces local authority over identity and backfills fields
// the extraction service left blank. Service-supplied ids are never
// trusted.
func reconcile(article domain.Article, id string, entry domain.FeedEntry, published time.Time) domain.Article {
	article.ID = id
	if article.Title == "" {
		article.Title = entry.Title
	}
	if article.URL == "" {
		article.URL = entry.Link
	}
	if article.Source == "" {
		article.Source = entry.Source
	}
	if article.PublishedAt == "" {
		article.PublishedAt = published.Format(domain.DateLayout)
	}
	if article.Summary == "" {
		article.Summary = entry.Summary
	}
	article.ApplyDefaults()
	return article
}

// sortKey parses the stored date for ordering, falling back to the cutoff
// when it is unparseable so broken rows sink together instead of failing.
func (p *Pipeline) sortKey(article domain.Article) time.Time {
	when, ok := domain.ParseWhen(article.PublishedAt)
	if !ok {
		return p.cutoff
	}
	return when
}

func (p *Pipeline) warn(msg string, args ...interface{}) {
	if p.logger != nil {
		p.logger.Warn(msg, args...)
	}
}

func (p *Pipeline) debug(msg string, args ...interface{}) {
	if p.logger != nil {
		p.logger.Debug(msg, args...)
	}
}
