package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"OutreachScanner/internal/domain"
	"OutreachScanner/internal/ports"
)

var articleColumns = []string{
	"id", "title", "url", "source", "published_at", "summary",
	"categories", "campaign_types", "demo_tags", "psych_tags",
	"stakeholders", "outreach_templates",
}

// PostgresStore persists the article collection in a single table.
// Save keeps the store's full-document overwrite semantics: the table is
// truncated and repopulated inside one transaction.
type PostgresStore struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ ports.ArticleStore = (*PostgresStore)(nil)

// NewPostgresStore wires a sql.DB implementation.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Load reads every stored article, most recent first.
func (r *PostgresStore) Load(ctx context.Context) (domain.Collection, error) {
	col := domain.Collection{Articles: []domain.Article{}}
	if r.db == nil {
		return col, nil
	}

	query, args, err := r.builder.
		Select(articleColumns...).
		From("articles").
		OrderBy("published_at DESC").
		ToSql()
	if err != nil {
		return col, fmt.Errorf("build select: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return col, fmt.Errorf("query articles: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return col, err
		}
		col.Articles = append(col.Articles, article)
	}

	if err := rows.Err(); err != nil {
		return col, fmt.Errorf("rows iteration: %w", err)
	}

	return col, nil
}

// Save replaces the table contents with the given collection.
func (r *PostgresStore) Save(ctx context.Context, col domain.Collection) error {
	if r.db == nil {
		return fmt.Errorf("postgres store has no database")
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	if err := r.saveAll(ctx, tx, col); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	return nil
}

func (r *PostgresStore) saveAll(ctx context.Context, tx *sql.Tx, col domain.Collection) error {
	query, args, err := r.builder.Delete("articles").ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("clear articles: %w", err)
	}

	for _, article := range col.Articles {
		values, err := articleValues(article)
		if err != nil {
			return fmt.Errorf("article %s: %w", article.ID, err)
		}

		query, args, err := r.builder.
			Insert("articles").
			Columns(articleColumns...).
			Values(values...).
			ToSql()
		if err != nil {
			return fmt.Errorf("build insert: %w", err)
		}

		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert article %s: %w", article.ID, err)
		}
	}

	return nil
}

func articleValues(article domain.Article) ([]any, error) {
	article.ApplyDefaults()

	lists := make([][]byte, 0, 6)
	for _, v := range []any{
		article.Categories, article.CampaignTypes, article.DemoTags,
		article.PsychTags, article.Stakeholders, article.OutreachTemplates,
	} {
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("marshal list field: %w", err)
		}
		lists = append(lists, raw)
	}

	return []any{
		article.ID, article.Title, article.URL, article.Source,
		article.PublishedAt, article.Summary,
		lists[0], lists[1], lists[2], lists[3], lists[4], lists[5],
	}, nil
}

func scanArticle(rows *sql.Rows) (domain.Article, error) {
	var article domain.Article
	var categories, campaignTypes, demoTags, psychTags, stakeholders, templates []byte

	err := rows.Scan(
		&article.ID, &article.Title, &article.URL, &article.Source,
		&article.PublishedAt, &article.Summary,
		&categories, &campaignTypes, &demoTags, &psychTags,
		&stakeholders, &templates,
	)
	if err != nil {
		return article, fmt.Errorf("scan article: %w", err)
	}

	fields := []struct {
		raw    []byte
		target any
	}{
		{categories, &article.Categories},
		{campaignTypes, &article.CampaignTypes},
		{demoTags, &article.DemoTags},
		{psychTags, &article.PsychTags},
		{stakeholders, &article.Stakeholders},
		{templates, &article.OutreachTemplates},
	}
	for _, f := range fields {
		if len(f.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(f.raw, f.target); err != nil {
			return article, fmt.Errorf("decode list field for %s: %w", article.ID, err)
		}
	}

	article.ApplyDefaults()
	return article, nil
}
