// Package dedup collapses duplicate and near-duplicate news coverage within a
// batch of articles. URL equality (after canonicalization) is the strict first
// pass; fuzzy title matching catches syndicated copies published under
// differently-tracked URLs.
package dedup

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/spacesedan/newstagger/internal/models"
)

// Titles closer than this edit distance are considered the same story.
const editDistanceThreshold = 10

// Token-set Jaccard similarity at or above this is considered the same story.
const jaccardThreshold = 0.9

var (
	newsPrefixRe  = regexp.MustCompile(`^(opinion|analysis|breaking|live)\s*:\s*`)
	wirePrefixRe  = regexp.MustCompile(`^[a-z]{2,}\s*-\s*`)
	pubSuffixRe   = regexp.MustCompile(`\s*-\s+[a-z0-9 .,'’&-]+$`)
	punctuationRe = regexp.MustCompile(`["'’` + "`" + `“”(),.:;!?]`)
	whitespaceRe  = regexp.MustCompile(`\s+`)
)

// CanonicalizeURL normalizes a URL for duplicate comparison: lowercase host,
// no fragment, no query parameters, no trailing slash except root. Every query
// parameter is dropped, not just known tracking ones, trading a small risk of
// losing a URL's meaning for better duplicate recall. Unparseable input is
// returned as-is so it can still act as an exact-match key.
func CanonicalizeURL(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}

	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	u.RawFragment = ""
	u.RawQuery = ""

	if len(u.Path) > 1 {
		u.Path = strings.TrimRight(u.Path, "/")
		u.RawPath = ""
	}

	return u.String()
}

// NormalizeTitle reduces a headline to its comparable core: lowercase, wire
// and opinion prefixes stripped, trailing publication suffix stripped,
// punctuation removed, whitespace collapsed.
func NormalizeTitle(title string) string {
	t := strings.ToLower(strings.TrimSpace(title))

	t = newsPrefixRe.ReplaceAllString(t, "")
	// e.g. "ap - " once lowercased
	t = wirePrefixRe.ReplaceAllString(t, "")
	t = pubSuffixRe.ReplaceAllString(t, "")
	t = punctuationRe.ReplaceAllString(t, " ")
	t = whitespaceRe.ReplaceAllString(t, " ")

	return strings.TrimSpace(t)
}

// TokenSetSimilarity returns the Jaccard similarity (0..1) of the
// whitespace-split token sets of two normalized titles. It catches reorderings
// that edit distance misses, e.g. a publication name moved from suffix to
// prefix.
func TokenSetSimilarity(a, b string) float64 {
	as := tokenSet(a)
	bs := tokenSet(b)
	if len(as) == 0 || len(bs) == 0 {
		return 0
	}

	inter := 0
	union := len(bs)
	for tok := range as {
		if _, ok := bs[tok]; ok {
			inter++
		} else {
			union++
		}
	}
	return float64(inter) / float64(union)
}

func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range strings.Fields(s) {
		set[tok] = struct{}{}
	}
	return set
}

func titlesMatch(a, b string) bool {
	if b == "" {
		return false
	}
	if levenshtein.ComputeDistance(a, b) < editDistanceThreshold {
		return true
	}
	return TokenSetSimilarity(a, b) >= jaccardThreshold
}

// dedupIndexes returns the indexes of the surviving articles, first occurrence
// winning. The title comparison is O(n²) over the batch, which is fine for a
// single day's worth of articles.
func dedupIndexes(n int, urlAt func(int) string, titleAt func(int) string) []int {
	var unique []int
	uniqueNorms := make([]string, 0, n)
	seenURLs := make(map[string]struct{})

	for i := 0; i < n; i++ {
		urlKey := CanonicalizeURL(urlAt(i))
		if urlKey != "" {
			if _, dup := seenURLs[urlKey]; dup {
				continue
			}
		}

		title := titleAt(i)
		if title == "" {
			// Nothing to fuzzy-compare; keep it but remember the URL.
			if urlKey != "" {
				seenURLs[urlKey] = struct{}{}
			}
			unique = append(unique, i)
			uniqueNorms = append(uniqueNorms, "")
			continue
		}

		norm := NormalizeTitle(title)

		isDuplicate := false
		for _, otherNorm := range uniqueNorms {
			if titlesMatch(norm, otherNorm) {
				isDuplicate = true
				break
			}
		}
		if isDuplicate {
			continue
		}

		if urlKey != "" {
			seenURLs[urlKey] = struct{}{}
		}
		unique = append(unique, i)
		uniqueNorms = append(uniqueNorms, norm)
	}

	return unique
}

// DeduplicateArticles removes duplicate articles from a raw batch,
// order-preserving with the first occurrence winning.
func DeduplicateArticles(articles []models.Article) []models.Article {
	keep := dedupIndexes(len(articles),
		func(i int) string { return articles[i].URL },
		func(i int) string { return articles[i].Title })

	out := make([]models.Article, 0, len(keep))
	for _, i := range keep {
		out = append(out, articles[i])
	}
	return out
}

// DeduplicateTagged is DeduplicateArticles over already-tagged articles; the
// maintenance jobs use it when pruning files and merging moved articles.
func DeduplicateTagged(articles []models.TaggedArticle) []models.TaggedArticle {
	keep := dedupIndexes(len(articles),
		func(i int) string { return articles[i].URL },
		func(i int) string { return articles[i].Title })

	out := make([]models.TaggedArticle, 0, len(keep))
	for _, i := range keep {
		out = append(out, articles[i])
	}
	return out
}
