package corpus

import (
	"context"

	"github.com/spacesedan/newstagger/internal/dedup"
)

// Prune reruns duplicate elimination over every tagged file, catching
// duplicates that slipped in before the dedup rules were tightened or that
// arrived via moves. Files without duplicates are left untouched.
func (m *Maintainer) Prune(ctx context.Context) (*Report, error) {
	report := newReport("prune")

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

		pruned := dedup.DeduplicateTagged(data.Articles)
		removed := len(data.Articles) - len(pruned)
		if removed == 0 {
			continue
		}

		data.Articles = pruned
		data.TotalResults = len(pruned)
		if err := m.Store.WriteTagged(date, data); err != nil {
			return report, err
		}
		report.FilesChanged++
		report.ItemsDropped += removed
	}

	report.Log()
	return report, nil
}
