package domain

import (
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

// Categories the extraction service is allowed to emit.
var Categories = []string{
	"food_and_beverage",
	"beauty_and_personal_care",
	"health_and_wellness",
	"other_cpg",
}

// CampaignTypes the extraction service is allowed to emit.
var CampaignTypes = []string{
	"product_launch",
	"sampling_program",
	"experiential_activation",
	"promotion_or_discount",
	"announcement",
	"other",
}

// Stakeholder is a marketing/brand/PR decision-maker named in an article.
type Stakeholder struct {
	FullName        string  `json:"full_name"`
	Title           string  `json:"title"`
	CompanyName     string  `json:"company_name"`
	RoleType        string  `json:"role_type"`
	LinkedInURL     string  `json:"linkedin_url"`
	Email           string  `json:"email"`
	EmailStatus     string  `json:"email_status"`
	EmailConfidence float64 `json:"email_confidence"`
}

// OutreachTemplate is a pre-drafted contact message referencing a
// stakeholder by name. The reference is soft, never validated.
type OutreachTemplate struct {
	StakeholderFullName string `json:"stakeholder_full_name"`
	EmailSubject        string `json:"email_subject"`
	EmailBody           string `json:"email_body"`
	LinkedInMessage     string `json:"linkedin_message"`
}

// Article is the sole persisted entity. PublishedAt keeps only the
// calendar date, formatted 2006-01-02.
type Article struct {
	ID                string             `json:"id"`
	Title             string             `json:"title"`
	URL               string             `json:"url"`
	Source            string             `json:"source"`
	PublishedAt       string             `json:"published_at"`
	Summary           string             `json:"summary"`
	Categories        []string           `json:"categories"`
	CampaignTypes     []string           `json:"campaign_types"`
	DemoTags          []string           `json:"demo_tags"`
	PsychTags         []string           `json:"psych_tags"`
	Stakeholders      []Stakeholder      `json:"stakeholders"`
	OutreachTemplates []OutreachTemplate `json:"outreach_templates"`
}

// ApplyDefaults replaces nil list fields with empty values so a stored
// article always carries every schema key.
func (a *Article) ApplyDefaults() {
	if a.Categories == nil {
		a.Categories = []string{}
	}
	if a.CampaignTypes == nil {
		a.CampaignTypes = []string{}
	}
	if a.DemoTags == nil {
		a.DemoTags = []string{}
	}
	if a.PsychTags == nil {
		a.PsychTags = []string{}
	}
	if a.Stakeholders == nil {
		a.Stakeholders = []Stakeholder{}
	}
	if a.OutreachTemplates == nil {
		a.OutreachTemplates = []OutreachTemplate{}
	}
}

// Collection is the full persisted document.
type Collection struct {
	Articles []Article `json:"articles"`
}

// FeedEntry is candidate metadata produced by the feed ingestor before
// enrichment. Published holds the raw date string as emitted by the feed.
type FeedEntry struct {
	Title     string
	Link      string
	Source    string
	Published string
	Summary   string
}

// instantLayout is the canonical form of a normalized publish instant.
const instantLayout = "2006-01-02T15:04:05"

// ArticleID derives the stable identifier for an article from its URL and
// normalized publish instant. It is a UUIDv5 over the URL namespace, so
// the same inputs reproduce the same identifier across runs and platforms.
// A zero instant contributes nothing to the hashed input.
func ArticleID(url string, published time.Time) string {
	base := url
	if !published.IsZero() {
		base += published.Format(instantLayout)
	}
	sum := uuid.NewSHA1(uuid.NameSpaceURL, []byte(base))
	return "art_" + hex.EncodeToString(sum[:])[:8]
}
