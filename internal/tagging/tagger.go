// Package tagging assigns taxonomy tags to news articles through a hosted
// text-generation model. Provider wire formats live behind ProviderAdapter /
// ModelClient; this package owns prompt construction, retry with backoff,
// response validation, and batch orchestration.
package tagging

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/spacesedan/newstagger/internal/models"
	"github.com/spacesedan/newstagger/internal/taxonomy"
)

const (
	maxAttempts    = 5
	initialBackoff = 1 * time.Second

	// Pause between successive articles in a batch; calls are sequential on
	// purpose so one in-flight request is all the provider ever sees.
	interArticleDelay = 100 * time.Millisecond

	DefaultMaxTags     = 5
	DefaultFallbackTag = "off_topic"
)

const systemPromptTemplate = `You are a news article classifier. You assign topical tags to a news article from a fixed taxonomy.

Rules:
- Choose at most {max_tags} tag ids that clearly apply to the article.
- Use only tag ids that appear in the taxonomy you are given.
- Respond with a JSON array of tag id strings and nothing else.
- If no tag applies, respond with an empty JSON array: []`

const userPromptTemplate = `Here is the tag taxonomy. Each line is "- id: description" under its category:
{tag_definitions}

Tag the following article.

Title: {title}
Description: {description}
Content: {content}

Respond with only a JSON array of tag ids.`

// ModelClient is the transport boundary for one model backend. Implementations
// wrap their native rate-limit signal in ErrThrottled.
type ModelClient interface {
	Invoke(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Tagger tags articles against one taxonomy through one model client.
type Tagger struct {
	client      ModelClient
	tax         *taxonomy.Taxonomy
	maxTags     int
	fallbackTag string
	sleep       func(time.Duration)

	systemPrompt string
}

type Option func(*Tagger)

// WithMaxTags overrides the tag-count cap (default 5).
func WithMaxTags(n int) Option {
	return func(t *Tagger) {
		if n > 0 {
			t.maxTags = n
		}
	}
}

// WithFallbackTag overrides the tag assigned when the model legitimately
// returns an empty array. An empty id disables the fallback.
func WithFallbackTag(id string) Option {
	return func(t *Tagger) { t.fallbackTag = id }
}

// WithSleep replaces the backoff sleeper; tests use it to observe delays.
func WithSleep(sleep func(time.Duration)) Option {
	return func(t *Tagger) { t.sleep = sleep }
}

// MaxTagsFromEnv resolves the MAX_TAGS override, falling back to the default
// for unset or unusable values.
func MaxTagsFromEnv(value string) int {
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return DefaultMaxTags
	}
	return n
}

func NewTagger(client ModelClient, tax *taxonomy.Taxonomy, opts ...Option) *Tagger {
	t := &Tagger{
		client:      client,
		tax:         tax,
		maxTags:     DefaultMaxTags,
		fallbackTag: DefaultFallbackTag,
		sleep:       time.Sleep,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.systemPrompt = strings.Replace(systemPromptTemplate, "{max_tags}", strconv.Itoa(t.maxTags), 1)
	return t
}

func (t *Tagger) buildUserPrompt(article models.Article) string {
	content := article.Content
	if content == "" {
		content = "No content available."
	}

	prompt := userPromptTemplate
	prompt = strings.Replace(prompt, "{tag_definitions}", t.tax.Format(), 1)
	prompt = strings.Replace(prompt, "{title}", article.Title, 1)
	prompt = strings.Replace(prompt, "{description}", article.Description, 1)
	prompt = strings.Replace(prompt, "{content}", content, 1)
	return prompt
}

// TagArticle classifies a single article. Throttling responses are retried up
// to 5 attempts with exponential backoff starting at one second; any other
// error propagates immediately.
func (t *Tagger) TagArticle(ctx context.Context, article models.Article) ([]string, error) {
	prompt := t.buildUserPrompt(article)

	delay := initialBackoff
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		responseText, err := t.client.Invoke(ctx, t.systemPrompt, prompt)
		if err == nil {
			return t.tagsFromResponse(responseText), nil
		}

		if !IsThrottling(err) {
			return nil, err
		}
		if attempt == maxAttempts {
			break
		}

		slog.Warn("[Tagger] Throttling detected, backing off",
			slog.Duration("delay", delay),
			slog.Int("attempt", attempt),
			slog.String("title", article.Title))
		t.sleep(delay)
		delay *= 2
	}

	return nil, &MaxRetriesError{Title: article.Title}
}

// tagsFromResponse turns raw model text into a validated tag list: parse out
// the array, apply the off-topic fallback when the model found nothing, keep
// only real taxonomy ids (hallucinated ids are silently dropped; an
// under-tagged article beats a corrupted taxonomy reference), cap at maxTags.
func (t *Tagger) tagsFromResponse(responseText string) []string {
	raw := ParseTagArray(responseText)

	if len(raw) == 0 && t.fallbackTag != "" && t.tax.Has(t.fallbackTag) {
		return []string{t.fallbackTag}
	}

	tags := make([]string, 0, len(raw))
	for _, v := range raw {
		id, ok := v.(string)
		if !ok || !t.tax.Has(id) {
			continue
		}
		tags = append(tags, id)
		if len(tags) == t.maxTags {
			break
		}
	}
	return tags
}

// TagBatch tags every article in a raw response sequentially, never aborting
// the batch for one bad article: a failed article is recorded with empty tags
// and the batch moves on. Each article also gets its publishedAtTs derived
// here, once, when publishedAt parses.
func (t *Tagger) TagBatch(ctx context.Context, news models.NewsResponse) models.TaggedNewsResponse {
	tagged := make([]models.TaggedArticle, 0, len(news.Articles))

	for i, article := range news.Articles {
		slog.Info("[Tagger] Processing article",
			slog.Int("index", i+1),
			slog.Int("total", len(news.Articles)),
			slog.String("title", article.Title))

		ta := models.TaggedArticle{Article: article, Tags: []string{}}
		if ts, ok := models.DeriveTimestamp(article.PublishedAt); ok {
			ta.PublishedAtTs = &ts
		}

		tags, err := t.TagArticle(ctx, article)
		if err != nil {
			slog.Error("[Tagger] Failed to tag article, keeping it untagged",
				slog.String("title", article.Title),
				slog.String("error", err.Error()))
		} else {
			ta.Tags = tags
			slog.Info("[Tagger] Tagged article", slog.String("tags", strings.Join(tags, ", ")))
		}

		tagged = append(tagged, ta)

		if i < len(news.Articles)-1 {
			t.sleep(interArticleDelay)
		}
	}

	return models.TaggedNewsResponse{
		Status:       news.Status,
		TotalResults: news.TotalResults,
		Articles:     tagged,
	}
}
