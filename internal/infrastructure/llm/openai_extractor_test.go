package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"OutreachScanner/internal/config"
	"OutreachScanner/internal/domain"
)

func newTestExtractor(endpoint string) *OpenAIExtractor {
	return NewOpenAIExtractor(config.OpenAIConfig{
		Endpoint: endpoint,
		Model:    "gpt-4o-mini",
		APIKey:   "test-key",
	})
}

func completionWith(content string) string {
	payload := map[string]any{
		"choices": []map[string]any{
			{"message": map[string]string{"role": "assistant", "content": content}},
		},
	}
	raw, _ := json.Marshal(payload)
	return string(raw)
}

func TestExtractParsesWrappedJSON(t *testing.T) {
	t.Parallel()

	content := "Here is the extraction:\n```json\n" +
		`{"title":"Launch","categories":["food_and_beverage"],"stakeholders":[{"full_name":"Dana Brand","title":"CMO","company_name":"Acme","role_type":"marketing","linkedin_url":"","email":"","email_status":"","email_confidence":0.0}]}` +
		"\n```"

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("missing bearer auth, got %q", r.Header.Get("Authorization"))
		}
		_, _ = w.Write([]byte(completionWith(content)))
	}))
	defer server.Close()

	extractor := newTestExtractor(server.URL)
	meta := domain.FeedEntry{Title: "Launch", Link: "https://x/a", Source: "Food Dive"}

	article, err := extractor.Extract(context.Background(), meta, "body text")
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}

	if article.Title != "Launch" {
		t.Fatalf("unexpected title: %s", article.Title)
	}
	if len(article.Categories) != 1 || article.Categories[0] != "food_and_beverage" {
		t.Fatalf("unexpected categories: %+v", article.Categories)
	}
	if len(article.Stakeholders) != 1 || article.Stakeholders[0].FullName != "Dana Brand" {
		t.Fatalf("unexpected stakeholders: %+v", article.Stakeholders)
	}
}

func TestExtractFailsWithoutJSONObject(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(completionWith("I could not process this article.")))
	}))
	defer server.Close()

	extractor := newTestExtractor(server.URL)
	_, err := extractor.Extract(context.Background(), domain.FeedEntry{Link: "https://x/a"}, "")
	if err == nil {
		t.Fatal("expected error when no JSON object is present")
	}
}

func TestExtractFailsOnMalformedJSON(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(completionWith(`{"title": "Launch", "categories": [}`)))
	}))
	defer server.Close()

	extractor := newTestExtractor(server.URL)
	_, err := extractor.Extract(context.Background(), domain.FeedEntry{Link: "https://x/a"}, "")
	if err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}

func TestExtractFailsOnServiceError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	extractor := newTestExtractor(server.URL)
	_, err := extractor.Extract(context.Background(), domain.FeedEntry{Link: "https://x/a"}, "")
	if err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}

func TestExtractRequiresCredential(t *testing.T) {
	t.Parallel()

	extractor := NewOpenAIExtractor(config.OpenAIConfig{Endpoint: "https://example.com", Model: "m"})
	_, err := extractor.Extract(context.Background(), domain.FeedEntry{Link: "https://x/a"}, "")
	if err == nil {
		t.Fatal("expected error without api key")
	}
}
