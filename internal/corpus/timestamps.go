package corpus

import (
	"context"

	"github.com/spacesedan/newstagger/internal/models"
)

// BackfillTimestamps populates publishedAtTs for articles that predate the
// field. It is computed once from a parseable publishedAt and never
// recomputed for articles that already carry it.
func (m *Maintainer) BackfillTimestamps(ctx context.Context) (*Report, error) {
	report := newReport("backfill-timestamps")

	dates, err := m.Store.Dates()
	if err != nil {
		return report, err
	}

	for _, date := range dates {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		report.FilesScanned++

		data, err := m.Store.ReadTagged(date)
		if err != nil {
			report.skip(date, err)
			continue
		}

		updated := 0
		for i := range data.Articles {
			a := &data.Articles[i]
			if a.PublishedAtTs != nil {
				continue
			}
			if ts, ok := models.DeriveTimestamp(a.PublishedAt); ok {
				a.PublishedAtTs = &ts
				updated++
			}
		}

		if updated == 0 {
			continue
		}

		data.TotalResults = len(data.Articles)
		if err := m.Store.WriteTagged(date, data); err != nil {
			return report, err
		}
		report.FilesChanged++
		report.ItemsChanged += updated
	}

	report.Log()
	return report, nil
}
