package corpus

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spacesedan/newstagger/internal/models"
)

func tagged(url, title, publishedAt string, tags ...string) models.TaggedArticle {
	if tags == nil {
		tags = []string{}
	}
	return models.TaggedArticle{
		Article: models.Article{URL: url, Title: title, PublishedAt: publishedAt},
		Tags:    tags,
	}
}

func writeFixture(t *testing.T, store *Store, date string, articles ...models.TaggedArticle) {
	t.Helper()
	resp := &models.TaggedNewsResponse{
		Status:       "ok",
		TotalResults: len(articles),
		Articles:     articles,
	}
	if resp.Articles == nil {
		resp.Articles = []models.TaggedArticle{}
	}
	if err := store.WriteTagged(date, resp); err != nil {
		t.Fatalf("Writing fixture %s: %v", date, err)
	}
}

func TestStore_WriteReadRoundTrip(t *testing.T) {
	store := NewStore(t.TempDir())

	a := tagged("https://a.com/1", "headline", "2024-05-01T08:00:00Z", "taxes")
	ts := int64(1714550400)
	a.PublishedAtTs = &ts
	writeFixture(t, store, "2024-05-01", a)

	got, err := store.ReadTagged("2024-05-01")
	if err != nil {
		t.Fatalf("ReadTagged: %v", err)
	}
	if got.TotalResults != 1 || len(got.Articles) != 1 {
		t.Fatalf("Unexpected response: %+v", got)
	}
	if got.Articles[0].PublishedAtTs == nil || *got.Articles[0].PublishedAtTs != ts {
		t.Fatalf("publishedAtTs did not round-trip: %+v", got.Articles[0])
	}
	if len(got.Articles[0].Tags) != 1 || got.Articles[0].Tags[0] != "taxes" {
		t.Fatalf("tags did not round-trip: %+v", got.Articles[0])
	}
}

func TestStore_AbsentTimestampStaysAbsent(t *testing.T) {
	store := NewStore(t.TempDir())
	writeFixture(t, store, "2024-05-01", tagged("https://a.com/1", "headline", "2024-05-01T08:00:00Z", "taxes"))

	raw, err := os.ReadFile(store.Path("2024-05-01"))
	if err != nil {
		t.Fatalf("Reading file: %v", err)
	}
	if strings.Contains(string(raw), `"publishedAtTs"`) {
		t.Fatalf("publishedAtTs must be omitted when absent:\n%s", raw)
	}
}

func TestStore_CorruptFileIsFlagged(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	cases := map[string]string{
		"2024-01-01": `{this is not json`,
		"2024-01-02": `{"status":"ok","totalResults":0}`,
		"2024-01-03": `"just a string"`,
	}
	for date, content := range cases {
		if err := os.WriteFile(store.Path(date), []byte(content), 0o644); err != nil {
			t.Fatalf("Writing corrupt fixture: %v", err)
		}
		if _, err := store.ReadTagged(date); !errors.Is(err, ErrCorruptFile) {
			t.Fatalf("Expected ErrCorruptFile for %s, got %v", date, err)
		}
	}
}

func TestStore_DatesFiltersNonCorpusFiles(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	writeFixture(t, store, "2024-05-02")
	writeFixture(t, store, "2024-05-01")
	for _, junk := range []string{"notes.txt", "summary.json", "2024-05-03.json.tmp"} {
		if err := os.WriteFile(filepath.Join(dir, junk), []byte("x"), 0o644); err != nil {
			t.Fatalf("Writing junk file: %v", err)
		}
	}

	dates, err := store.Dates()
	if err != nil {
		t.Fatalf("Dates: %v", err)
	}
	if len(dates) != 2 || dates[0] != "2024-05-01" || dates[1] != "2024-05-02" {
		t.Fatalf("Expected sorted corpus dates only, got %v", dates)
	}
}

func TestStore_AtomicWriteLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)
	writeFixture(t, store, "2024-05-01")

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "2024-05-01.json" {
		t.Fatalf("Expected only final file, got %v", entries)
	}
}
