package fetch

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"

	"OutreachScanner/internal/ports"
)

const bodyTimeout = 30 * time.Second

// BodyFetcher retrieves the readable text of an article page. It tries
// readability extraction first and falls back to collecting paragraph
// text from the raw HTML when readability yields nothing.
type BodyFetcher struct {
	client  *http.Client
	timeout time.Duration
}

var _ ports.BodyFetcher = (*BodyFetcher)(nil)

// NewBodyFetcher wires an HTTP client for the fallback path; a nil client
// gets a default with the standard timeout.
func NewBodyFetcher(client *http.Client) *BodyFetcher {
	if client == nil {
		client = &http.Client{Timeout: bodyTimeout}
	}
	return &BodyFetcher{client: client, timeout: bodyTimeout}
}

// Fetch returns the article body text or an error; callers treat any
// error as "no body" and continue with metadata only.
func (f *BodyFetcher) Fetch(ctx context.Context, articleURL string) (string, error) {
	if articleURL == "" {
		return "", fmt.Errorf("article url is empty")
	}

	article, rErr := readability.FromURL(articleURL, f.timeout)
	if rErr == nil && strings.TrimSpace(article.TextContent) != "" {
		return article.TextContent, nil
	}

	text, gErr := f.paragraphText(ctx, articleURL)
	if gErr != nil {
		if rErr != nil {
			return "", fmt.Errorf("readability extraction failed: %w", rErr)
		}
		return "", gErr
	}

	return text, nil
}

// paragraphText fetches the page and joins its <p> contents.
func (f *BodyFetcher) paragraphText(ctx context.Context, articleURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, articleURL, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "OutreachScanner/1.0")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("page returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("parse page: %w", err)
	}

	var paragraphs []string
	doc.Find("p").Each(func(i int, p *goquery.Selection) {
		if text := strings.TrimSpace(p.Text()); text != "" {
			paragraphs = append(paragraphs, text)
		}
	})

	return strings.Join(paragraphs, "\n\n"), nil
}
