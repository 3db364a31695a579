package dedup

import (
	"testing"

	"github.com/spacesedan/newstagger/internal/models"
)

func TestCanonicalizeURL(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"drops all query params", "https://a.com/x?utm_source=y&id=5", "https://a.com/x"},
		{"drops fragment", "https://a.com/x#section", "https://a.com/x"},
		{"lowercases host", "https://Example.COM/Path", "https://example.com/Path"},
		{"trims trailing slash", "https://a.com/x/", "https://a.com/x"},
		{"keeps root slash", "https://a.com/", "https://a.com/"},
		{"empty stays empty", "", ""},
		{"unparseable returned as-is", "not a url at all", "not a url at all"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanonicalizeURL(tc.in); got != tc.want {
				t.Fatalf("CanonicalizeURL(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalizeTitle(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"lowercases and trims", "  Trump Signs Order  ", "trump signs order"},
		{"strips opinion prefix", "Opinion: Trump signs order", "trump signs order"},
		{"strips breaking prefix", "BREAKING:  Trump signs order", "trump signs order"},
		{"strips wire prefix", "AP - Trump signs order", "trump signs order"},
		{"strips publication suffix", "Trump signs order - The Gazette", "trump signs order"},
		{"removes punctuation", `"Trump" signs order, again!`, "trump signs order again"},
		{"collapses whitespace", "trump   signs\torder", "trump signs order"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeTitle(tc.in); got != tc.want {
				t.Fatalf("NormalizeTitle(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestTokenSetSimilarity(t *testing.T) {
	cases := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "trump signs order", "trump signs order", 1.0},
		{"reordered", "signs order trump", "trump signs order", 1.0},
		{"disjoint", "alpha beta", "gamma delta", 0.0},
		{"empty side", "", "trump signs order", 0.0},
		{"half overlap", "a b c", "a b d", 0.5},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := TokenSetSimilarity(tc.a, tc.b); got != tc.want {
				t.Fatalf("TokenSetSimilarity(%q, %q) = %f, want %f", tc.a, tc.b, got, tc.want)
			}
		})
	}
}

func article(url, title string) models.Article {
	return models.Article{URL: url, Title: title}
}

func TestDeduplicateArticles_URLCanonicalization(t *testing.T) {
	in := []models.Article{
		article("https://a.com/x?utm_source=y", "Foo Bar"),
		article("https://a.com/x", "Foo Bar"),
	}

	out := DeduplicateArticles(in)
	if len(out) != 1 {
		t.Fatalf("Expected 1 survivor, got %d", len(out))
	}
	if out[0].URL != "https://a.com/x?utm_source=y" {
		t.Fatalf("First occurrence should win, got %q", out[0].URL)
	}
}

func TestDeduplicateArticles_FuzzyTitleAcrossURLs(t *testing.T) {
	in := []models.Article{
		article("https://wire.com/1", "AP - Trump signs order creating new federal commission"),
		article("https://gazette.com/2", "Trump signs order creating new federal commission - The Gazette"),
	}

	out := DeduplicateArticles(in)
	if len(out) != 1 {
		t.Fatalf("Expected fuzzy title match to dedupe, got %d survivors", len(out))
	}
	if out[0].URL != "https://wire.com/1" {
		t.Fatalf("Expected earliest article to survive, got %q", out[0].URL)
	}
}

func TestDeduplicateArticles_DistinctSurvive(t *testing.T) {
	in := []models.Article{
		article("https://a.com/1", "Senate passes sweeping immigration overhaul after marathon session"),
		article("https://b.com/2", "Federal appeals court strikes down state election statute"),
		article("https://c.com/3", "White House unveils infrastructure spending framework for next decade"),
	}

	out := DeduplicateArticles(in)
	if len(out) != 3 {
		t.Fatalf("Expected all distinct articles kept, got %d", len(out))
	}
	for i := range in {
		if out[i].URL != in[i].URL {
			t.Fatalf("Order not preserved at %d: got %q", i, out[i].URL)
		}
	}
}

func TestDeduplicateArticles_EmptyTitleKept(t *testing.T) {
	in := []models.Article{
		article("https://a.com/1", ""),
		article("https://b.com/2", ""),
		article("https://a.com/1?fbclid=z", "has a real headline this time"),
	}

	out := DeduplicateArticles(in)
	// Two untitled articles with different URLs both survive; the third is a
	// URL duplicate of the first despite its title.
	if len(out) != 2 {
		t.Fatalf("Expected 2 survivors, got %d", len(out))
	}
}

func TestDeduplicateArticles_SameSurvivorSetAcrossOrderings(t *testing.T) {
	dupA := article("https://a.com/1", "Supreme Court agrees to hear landmark privacy case this fall")
	dupB := article("https://b.com/2", "Supreme Court agrees to hear landmark privacy case this fall - Daily News")
	other := article("https://c.com/3", "Storm system drenches gulf coast as cleanup begins")

	first := DeduplicateArticles([]models.Article{dupA, dupB, other})
	second := DeduplicateArticles([]models.Article{dupA, other, dupB})

	if len(first) != 2 || len(second) != 2 {
		t.Fatalf("Expected 2 survivors in both orders, got %d and %d", len(first), len(second))
	}
	for _, out := range [][]models.Article{first, second} {
		seen := map[string]bool{}
		for _, a := range out {
			seen[a.URL] = true
		}
		if !seen[dupA.URL] || !seen[other.URL] {
			t.Fatalf("Survivor set changed across orderings: %+v", out)
		}
	}
}

func TestDeduplicateTagged_PreservesTags(t *testing.T) {
	in := []models.TaggedArticle{
		{Article: article("https://a.com/x", "Foo Bar"), Tags: []string{"taxes"}},
		{Article: article("https://a.com/x?utm_source=y", "Foo Bar"), Tags: []string{"trade"}},
	}

	out := DeduplicateTagged(in)
	if len(out) != 1 {
		t.Fatalf("Expected 1 survivor, got %d", len(out))
	}
	if len(out[0].Tags) != 1 || out[0].Tags[0] != "taxes" {
		t.Fatalf("Survivor should keep its own tags, got %+v", out[0].Tags)
	}
}
