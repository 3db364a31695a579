package corpus

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spacesedan/newstagger/internal/models"
)

// DateFetcher pulls one calendar day of raw articles from the external source.
type DateFetcher func(ctx context.Context, date string) (*models.NewsResponse, error)

// MissingDates returns the expected dates (start through yesterday, relative
// to today, all UTC) that have no file in the store, ascending.
func (s *Store) MissingDates(start, today time.Time) ([]string, error) {
	existing, err := s.Dates()
	if err != nil {
		return nil, err
	}
	have := make(map[string]struct{}, len(existing))
	for _, d := range existing {
		have[d] = struct{}{}
	}

	var missing []string
	yesterday := today.UTC().AddDate(0, 0, -1)
	for d := start.UTC(); !d.After(yesterday); d = d.AddDate(0, 0, 1) {
		date := d.Format("2006-01-02")
		if _, ok := have[date]; !ok {
			missing = append(missing, date)
		}
	}
	return missing, nil
}

// Backfill fetches and persists every missing raw date file, oldest first by
// default so the calendar fills chronologically. The first fetch failure
// aborts the whole run: operators want to investigate a gap immediately, not
// discover it behind later partial progress.
func Backfill(ctx context.Context, store *Store, fetch DateFetcher, start, today time.Time, newestFirst bool) (*Report, error) {
	report := newReport("backfill")

	if err := store.EnsureDir(); err != nil {
		return report, err
	}

	missing, err := store.MissingDates(start, today)
	if err != nil {
		return report, err
	}
	if len(missing) == 0 {
		slog.Info("[Backfill] Raw corpus is up to date, nothing to do")
		report.Log()
		return report, nil
	}

	if newestFirst {
		for i, j := 0, len(missing)-1; i < j; i, j = i+1, j-1 {
			missing[i], missing[j] = missing[j], missing[i]
		}
	}

	slog.Info("[Backfill] Found missing day(s)", slog.Int("count", len(missing)))

	for _, date := range missing {
		report.FilesScanned++

		resp, err := fetch(ctx, date)
		if err != nil {
			return report, fmt.Errorf("backfill aborted on %s: %w", date, err)
		}
		if err := store.WriteRaw(date, resp); err != nil {
			return report, err
		}

		slog.Info("[Backfill] Saved raw news",
			slog.String("date", date),
			slog.Int("totalResults", resp.TotalResults))
		report.FilesChanged++
	}

	report.Log()
	return report, nil
}
