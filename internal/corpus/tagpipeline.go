package corpus

import (
	"context"
	"log/slog"

	"github.com/spacesedan/newstagger/internal/dedup"
	"github.com/spacesedan/newstagger/internal/models"
)

// BatchTagger is the slice of the tagging engine the pipeline needs.
type BatchTagger interface {
	TagBatch(ctx context.Context, news models.NewsResponse) models.TaggedNewsResponse
}

// TagUntagged runs the ingest pipeline for every raw date file that has no
// tagged counterpart yet: deduplicate the day's batch, tag what survives, and
// persist the tagged file. Days that fail to read are skipped and reported;
// days with nothing left after dedup still get an empty tagged file so they
// are not re-scanned forever.
func TagUntagged(ctx context.Context, raw, tagged *Store, tagger BatchTagger) (*Report, error) {
	report := newReport("tag-untagged")

	if err := tagged.EnsureDir(); err != nil {
		return report, err
	}

	rawDates, err := raw.Dates()
	if err != nil {
		return report, err
	}

	var untagged []string
	for _, date := range rawDates {
		if !tagged.HasDate(date) {
			untagged = append(untagged, date)
		}
	}
	if len(untagged) == 0 {
		slog.Info("[TagPipeline] All news files are already tagged, nothing to do")
		report.Log()
		return report, nil
	}

	slog.Info("[TagPipeline] Found untagged news file(s)", slog.Int("count", len(untagged)))

	for _, date := range untagged {
		report.FilesScanned++
		slog.Info("[TagPipeline] Processing date", slog.String("date", date))

		news, err := raw.ReadRaw(date)
		if err != nil {
			report.skip(date, err)
			continue
		}

		originalCount := len(news.Articles)
		news.Articles = dedup.DeduplicateArticles(news.Articles)
		news.TotalResults = len(news.Articles)
		if removed := originalCount - len(news.Articles); removed > 0 {
			slog.Info("[TagPipeline] Removed duplicate/similar articles",
				slog.String("date", date),
				slog.Int("removed", removed),
				slog.Int("of", originalCount))
			report.ItemsDropped += removed
		}

		var result models.TaggedNewsResponse
		if len(news.Articles) == 0 {
			slog.Info("[TagPipeline] No unique articles to tag", slog.String("date", date))
			result = models.TaggedNewsResponse{
				Status:       news.Status,
				TotalResults: 0,
				Articles:     []models.TaggedArticle{},
			}
		} else {
			result = tagger.TagBatch(ctx, *news)
		}

		if err := tagged.WriteTagged(date, &result); err != nil {
			return report, err
		}
		report.FilesChanged++
		report.ItemsChanged += len(result.Articles)
	}

	report.Log()
	return report, nil
}
