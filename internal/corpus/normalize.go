package corpus

import (
	"context"
	"strings"
)

// NormalizeTags rewrites every article's tag list through a case-insensitive
// normalization map (taxonomy names, ids, and the hand-maintained alias
// table). Tags that map to nothing are dropped and counted; duplicates
// produced by normalization are collapsed. Files are rewritten only when
// something actually changed.
func (m *Maintainer) NormalizeTags(ctx context.Context, normMap map[string]string) (*Report, error) {
	report := newReport("normalize-tags")

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

		fileModified := false
		for i := range data.Articles {
			tags := data.Articles[i].Tags
			if len(tags) == 0 {
				continue
			}

			changed := false
			dropped := 0
			normalized := make([]string, 0, len(tags))
			seen := make(map[string]struct{})
			for _, tag := range tags {
				canonical, ok := normMap[strings.ToLower(tag)]
				if !ok {
					dropped++
					changed = true
					continue
				}
				if canonical != tag {
					changed = true
				}
				if _, dup := seen[canonical]; dup {
					changed = true
					continue
				}
				seen[canonical] = struct{}{}
				normalized = append(normalized, canonical)
			}

			if changed {
				data.Articles[i].Tags = normalized
				fileModified = true
				report.ItemsChanged++
				report.ItemsDropped += dropped
			}
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
