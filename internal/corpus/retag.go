package corpus

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/spacesedan/newstagger/internal/models"
)

// ArticleTagger is the slice of the tagging engine the retag sweep needs.
type ArticleTagger interface {
	TagArticle(ctx context.Context, article models.Article) ([]string, error)
}

// Pause between retag model calls, on top of the tagger's own backoff.
const retagDelay = 200 * time.Millisecond

// RetagMissing resubmits articles whose tagging produced no signal: an empty
// tag list, or exactly the single fallback tag. Per-article failures are
// contained; only articles that come back with tags are updated.
func (m *Maintainer) RetagMissing(ctx context.Context, tagger ArticleTagger, fallbackTag string) (*Report, error) {
	report := newReport("retag-missing")

	dates, err := m.Store.Dates()
	if err != nil {
		return report, err
	}

	for _, date := range dates {
		report.FilesScanned++

		data, err := m.Store.ReadTagged(date)
		if err != nil {
			report.skip(date, err)
			continue
		}
		if len(data.Articles) == 0 {
			continue
		}

		fileModified := false
		for i := range data.Articles {
			article := &data.Articles[i]
			if !needsRetag(article.Tags, fallbackTag) {
				continue
			}

			slog.Info("[Maintenance] Retagging article",
				slog.String("date", date),
				slog.String("title", article.Title))

			newTags, err := tagger.TagArticle(ctx, article.Article)
			if err != nil {
				slog.Error("[Maintenance] Retag failed, keeping article as-is",
					slog.String("title", article.Title),
					slog.String("error", err.Error()))
				m.Sleep(retagDelay)
				continue
			}
			// An unchanged result (e.g. the fallback tag again) is not a
			// write; re-running with a stable model stays idempotent.
			if len(newTags) > 0 && !slices.Equal(newTags, article.Tags) {
				article.Tags = newTags
				fileModified = true
				report.ItemsChanged++
			}

			m.Sleep(retagDelay)
		}

		if !fileModified {
			continue
		}

		data.TotalResults = len(data.Articles)
		if err := m.Store.WriteTagged(date, data); err != nil {
			return report, err
		}
		report.FilesChanged++
	}

	report.Log()
	return report, nil
}

func needsRetag(tags []string, fallbackTag string) bool {
	if len(tags) == 0 {
		return true
	}
	return len(tags) == 1 && fallbackTag != "" && tags[0] == fallbackTag
}
