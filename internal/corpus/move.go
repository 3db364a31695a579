package corpus

import (
	"context"
	"sort"
	"time"

	"github.com/spacesedan/newstagger/internal/dedup"
	"github.com/spacesedan/newstagger/internal/models"
)

// dateForArticle derives the UTC calendar date an article belongs to. When
// publishedAt does not parse, the leading YYYY-MM-DD is trusted if it looks
// like one; otherwise the article has no implied date and stays put.
func dateForArticle(publishedAt string) string {
	if publishedAt == "" {
		return ""
	}
	if t, err := time.Parse(time.RFC3339, publishedAt); err == nil {
		return t.UTC().Format("2006-01-02")
	}
	if len(publishedAt) >= 10 && dateStemRe.MatchString(publishedAt[:10]) {
		return publishedAt[:10]
	}
	return ""
}

// MoveToCorrectDate relocates every article whose publishedAt implies a
// different calendar date than the file it sits in: the source file is
// rewritten with only its staying articles, and movers are appended to their
// target date files, deduplicated against what is already there. The date
// invariant is enforced as an eventual-consistency sweep, not at write time.
//
// Every prospective target is read before any source is rewritten. A mover
// is lifted out of its source only once its target is known to be writable;
// an existing target that cannot be read keeps its movers where they are,
// since removing an article with nowhere to land would delete it.
func (m *Maintainer) MoveToCorrectDate(ctx context.Context) (*Report, error) {
	report := newReport("move-to-correct-date")

	dates, err := m.Store.Dates()
	if err != nil {
		return report, err
	}

	type partition struct {
		status string
		stay   []models.TaggedArticle
		movers map[string][]models.TaggedArticle
	}
	parts := make(map[string]*partition)
	var sources []string

	for _, fileDate := range dates {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		report.FilesScanned++

		data, err := m.Store.ReadTagged(fileDate)
		if err != nil {
			report.skip(fileDate, err)
			continue
		}

		p := &partition{status: data.Status, movers: make(map[string][]models.TaggedArticle)}
		for _, a := range data.Articles {
			d := dateForArticle(a.PublishedAt)
			if d == "" || d == fileDate {
				p.stay = append(p.stay, a)
				continue
			}
			p.movers[d] = append(p.movers[d], a)
		}
		parts[fileDate] = p
		sources = append(sources, fileDate)
	}

	// Targets that were scanned above merge from their in-memory partition;
	// everything else is read from disk here, before any write happens.
	targets := make(map[string]*models.TaggedNewsResponse)
	badTarget := make(map[string]bool)
	for _, src := range sources {
		for d := range parts[src].movers {
			if _, isSource := parts[d]; isSource {
				continue
			}
			if _, seen := targets[d]; seen || badTarget[d] {
				continue
			}
			data, err := m.Store.ReadTagged(d)
			switch {
			case err == nil:
				targets[d] = data
			case m.Store.HasDate(d):
				// Existing but unreadable; its movers stay in their sources.
				badTarget[d] = true
				report.skip(d, err)
			default:
				targets[d] = &models.TaggedNewsResponse{Status: "ok", Articles: []models.TaggedArticle{}}
			}
		}
	}

	toAppend := make(map[string][]models.TaggedArticle)
	for _, src := range sources {
		p := parts[src]

		moved := 0
		for d, movers := range p.movers {
			if badTarget[d] {
				p.stay = append(p.stay, movers...)
				continue
			}
			toAppend[d] = append(toAppend[d], movers...)
			moved += len(movers)
		}
		if moved == 0 {
			continue
		}

		deduped := dedup.DeduplicateTagged(p.stay)
		if err := m.Store.WriteTagged(src, &models.TaggedNewsResponse{
			Status:       p.status,
			TotalResults: len(deduped),
			Articles:     deduped,
		}); err != nil {
			return report, err
		}
		p.stay = deduped
		report.FilesChanged++
		report.ItemsChanged += moved
	}

	targetDates := make([]string, 0, len(toAppend))
	for d := range toAppend {
		targetDates = append(targetDates, d)
	}
	sort.Strings(targetDates)

	for _, d := range targetDates {
		base := targets[d]
		if p, isSource := parts[d]; isSource {
			base = &models.TaggedNewsResponse{Status: p.status, Articles: p.stay}
		}

		merged := dedup.DeduplicateTagged(append(base.Articles, toAppend[d]...))
		updated := &models.TaggedNewsResponse{
			Status:       base.Status,
			TotalResults: len(merged),
			Articles:     merged,
		}
		if err := m.Store.WriteTagged(d, updated); err != nil {
			return report, err
		}
		report.FilesChanged++
	}

	report.Log()
	return report, nil
}
