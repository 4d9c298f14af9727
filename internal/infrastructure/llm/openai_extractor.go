package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"OutreachScanner/internal/config"
	"OutreachScanner/internal/domain"
	"OutreachScanner/internal/ports"
)

const (
	requestTimeout = 60 * time.Second
	maxBodyChars   = 12000
)

const systemPrompt = `You extract structured marketing intelligence from CPG industry news articles.
Respond with exactly one JSON object, no prose, following this schema:
{"id":"","title":"","url":"","source":"","published_at":"","summary":"",
"categories":[],"campaign_types":[],"demo_tags":[],"psych_tags":[],
"stakeholders":[{"full_name":"","title":"","company_name":"","role_type":"","linkedin_url":"","email":"","email_status":"","email_confidence":0}],
"outreach_templates":[{"stakeholder_full_name":"","email_subject":"","email_body":"","linkedin_message":""}]}
Rules:
- categories values only from: food_and_beverage, beauty_and_personal_care, health_and_wellness, other_cpg.
- campaign_types values only from: product_launch, sampling_program, experiential_activation, promotion_or_discount, announcement, other.
- stakeholders: only marketing/brand/PR decision-makers named in the article.
- email: leave empty unless explicitly present in the article text. Never invent one.
- Unknown scalar fields are empty strings, unknown list fields are empty lists.
- If the body text is missing, infer what you can from the metadata alone.`

// OpenAIExtractor implements ports.ExtractionService against an
// OpenAI-compatible chat-completions endpoint.
type OpenAIExtractor struct {
	endpoint   string
	model      string
	apiKey     string
	httpClient *http.Client
}

var _ ports.ExtractionService = (*OpenAIExtractor)(nil)

// NewOpenAIExtractor builds a client from configuration.
func NewOpenAIExtractor(cfg config.OpenAIConfig) *OpenAIExtractor {
	return &OpenAIExtractor{
		endpoint: cfg.Endpoint,
		model:    cfg.Model,
		apiKey:   cfg.APIKey,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

// Extract sends article metadata plus optional body text and decodes the
// structured article from the model's reply. Any response that does not
// contain a single parseable JSON object fails the call; the entry is then
// skipped for this run and retried on the next one since nothing was
// persisted.
func (c *OpenAIExtractor) Extract(ctx context.Context, meta domain.FeedEntry, body string) (domain.Article, error) {
	if c.apiKey == "" || c.endpoint == "" || c.model == "" {
		return domain.Article{}, fmt.Errorf("extraction client misconfigured")
	}

	payload, err := json.Marshal(map[string]any{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": buildUserMessage(meta, body)},
		},
	})
	if err != nil {
		return domain.Article{}, fmt.Errorf("marshal extraction payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return domain.Article{}, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Article{}, fmt.Errorf("call extraction service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return domain.Article{}, fmt.Errorf("extraction service error %s: %s", resp.Status, strings.TrimSpace(string(detail)))
	}

	var completion struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return domain.Article{}, fmt.Errorf("decode completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return domain.Article{}, fmt.Errorf("completion has no choices")
	}

	return decodeArticle(completion.Choices[0].Message.Content)
}

func buildUserMessage(meta domain.FeedEntry, body string) string {
	if len(body) > maxBodyChars {
		body = body[:maxBodyChars]
	}

	var sb strings.Builder
	sb.WriteString("Article metadata:\n")
	sb.WriteString(fmt.Sprintf("title: %s\nurl: %s\nsource: %s\npublished: %s\nsummary: %s\n",
		meta.Title, meta.Link, meta.Source, meta.Published, meta.Summary))
	if strings.TrimSpace(body) != "" {
		sb.WriteString("\nArticle body:\n")
		sb.WriteString(body)
	} else {
		sb.WriteString("\nArticle body: unavailable.\n")
	}
	return sb.String()
}

// decodeArticle locates the first {...} span in the model output and
// unmarshals it. Models wrap JSON in prose or code fences often enough
// that taking the outermost braces is the reliable path.
func decodeArticle(content string) (domain.Article, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return domain.Article{}, fmt.Errorf("no JSON object in extraction response")
	}

	var article domain.Article
	if err := json.Unmarshal([]byte(content[start:end+1]), &article); err != nil {
		return domain.Article{}, fmt.Errorf("decode extraction response: %w", err)
	}

	return article, nil
}
