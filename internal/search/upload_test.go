package search

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/spacesedan/newstagger/internal/corpus"
	"github.com/spacesedan/newstagger/internal/models"
)

func TestDocumentID_IsReversible(t *testing.T) {
	url := "https://example.com/politics/article?id=1"
	id := DocumentID(url)
	decoded, err := base64.StdEncoding.DecodeString(id)
	if err != nil {
		t.Fatalf("Decoding id: %v", err)
	}
	if string(decoded) != url {
		t.Fatalf("Expected id to decode back to URL, got %q", decoded)
	}
}

func TestBuildBulkBody(t *testing.T) {
	ts := int64(1714550400)
	articles := []models.TaggedArticle{
		{
			Article: models.Article{
				URL:         "https://a.com/1",
				Title:       "first headline",
				PublishedAt: "2024-05-01T08:00:00Z",
			},
			Tags:          []string{"taxes", "trade"},
			PublishedAtTs: &ts,
		},
		{
			Article: models.Article{URL: "https://a.com/2", Title: "second headline"},
			Tags:    []string{},
		},
	}

	body, err := BuildBulkBody(articles, "2024-05-01")
	if err != nil {
		t.Fatalf("BuildBulkBody: %v", err)
	}

	lines := strings.Split(strings.TrimRight(string(body), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("Expected action+document line per article, got %d lines:\n%s", len(lines), body)
	}

	var action struct {
		Index struct {
			ID string `json:"_id"`
		} `json:"index"`
	}
	if err := json.Unmarshal([]byte(lines[0]), &action); err != nil {
		t.Fatalf("Parsing action line: %v", err)
	}
	if action.Index.ID != DocumentID("https://a.com/1") {
		t.Fatalf("Expected base64 URL id, got %q", action.Index.ID)
	}

	var doc map[string]any
	if err := json.Unmarshal([]byte(lines[1]), &doc); err != nil {
		t.Fatalf("Parsing document line: %v", err)
	}
	if doc["news_date"] != "2024-05-01" {
		t.Fatalf("Expected news_date field, got %v", doc["news_date"])
	}
	if doc["title"] != "first headline" {
		t.Fatalf("Document must flatten the article fields, got %v", doc)
	}
	if doc["publishedAtTs"] != float64(ts) {
		t.Fatalf("Expected publishedAtTs %d, got %v", ts, doc["publishedAtTs"])
	}

	var second map[string]any
	if err := json.Unmarshal([]byte(lines[3]), &second); err != nil {
		t.Fatalf("Parsing second document: %v", err)
	}
	if _, present := second["publishedAtTs"]; present {
		t.Fatalf("Absent timestamp must stay absent in the document: %v", second)
	}
}

type fakeIndexer struct {
	calls    []string
	failDate string
}

func (f *fakeIndexer) BulkIndex(_ context.Context, index string, body io.Reader) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	f.calls = append(f.calls, index)
	if f.failDate != "" && strings.Contains(string(data), f.failDate) {
		return errors.New("bulk request rejected")
	}
	return nil
}

func writeTaggedDay(t *testing.T, store *corpus.Store, date string, articles ...models.TaggedArticle) {
	t.Helper()
	if articles == nil {
		articles = []models.TaggedArticle{}
	}
	err := store.WriteTagged(date, &models.TaggedNewsResponse{
		Status:       "ok",
		TotalResults: len(articles),
		Articles:     articles,
	})
	if err != nil {
		t.Fatalf("Writing fixture %s: %v", date, err)
	}
}

func taggedDoc(url, title string, tags ...string) models.TaggedArticle {
	return models.TaggedArticle{
		Article: models.Article{URL: url, Title: title},
		Tags:    tags,
	}
}

func TestUploadAll(t *testing.T) {
	store := corpus.NewStore(t.TempDir())
	writeTaggedDay(t, store, "2024-05-01", taggedDoc("https://a.com/1", "first day story", "taxes"))
	writeTaggedDay(t, store, "2024-05-02", taggedDoc("https://a.com/2", "second day story", "trade"))
	writeTaggedDay(t, store, "2024-05-03")

	fake := &fakeIndexer{}
	uploader := NewUploader(store, fake)
	if err := uploader.UploadAll(context.Background()); err != nil {
		t.Fatalf("UploadAll: %v", err)
	}
	// The empty day is skipped without a bulk call.
	if len(fake.calls) != 2 {
		t.Fatalf("Expected 2 bulk calls, got %v", fake.calls)
	}
	for _, index := range fake.calls {
		if index != IndexName {
			t.Fatalf("Expected index %q, got %q", IndexName, index)
		}
	}
}

func TestUploadAll_ContainsPerFileFailures(t *testing.T) {
	store := corpus.NewStore(t.TempDir())
	writeTaggedDay(t, store, "2024-05-01", taggedDoc("https://a.com/1", "first day story", "taxes"))
	writeTaggedDay(t, store, "2024-05-02", taggedDoc("https://a.com/2", "second day story", "trade"))

	fake := &fakeIndexer{failDate: "2024-05-01"}
	uploader := NewUploader(store, fake)
	err := uploader.UploadAll(context.Background())
	if err == nil {
		t.Fatalf("Expected a summary error when a file fails")
	}
	if !strings.Contains(err.Error(), "1 of 2") {
		t.Fatalf("Expected failure summary, got %v", err)
	}
	// The failing file must not stop the later one.
	if len(fake.calls) != 2 {
		t.Fatalf("Expected both days attempted, got %v", fake.calls)
	}
}
