// Package search flattens the tagged corpus into search-index documents and
// bulk-upserts them. Document ids are a reversible base64 encoding of the
// article URL, so re-uploads overwrite instead of duplicating.
package search

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/spacesedan/newstagger/internal/corpus"
	"github.com/spacesedan/newstagger/internal/models"
)

const IndexName = "news-articles"

// BulkIndexer is the slice of the OpenSearch client the uploader needs.
type BulkIndexer interface {
	BulkIndex(ctx context.Context, index string, body io.Reader) error
}

// Document is one flattened tagged article as it lives in the index.
type Document struct {
	models.TaggedArticle
	NewsDate string `json:"news_date"`
}

// DocumentID derives the index id for an article URL; base64 keeps it
// reversible for debugging.
func DocumentID(url string) string {
	return base64.StdEncoding.EncodeToString([]byte(url))
}

// BuildBulkBody renders the NDJSON bulk payload for one date's articles.
func BuildBulkBody(articles []models.TaggedArticle, date string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)

	for _, article := range articles {
		action := map[string]map[string]string{
			"index": {"_id": DocumentID(article.URL)},
		}
		if err := enc.Encode(action); err != nil {
			return nil, err
		}
		if err := enc.Encode(Document{TaggedArticle: article, NewsDate: date}); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// Uploader pushes every tagged date file into the search index. Per-file
// failures are reported and the remaining files continue.
type Uploader struct {
	Store   *corpus.Store
	Indexer BulkIndexer
	Index   string
}

func NewUploader(store *corpus.Store, indexer BulkIndexer) *Uploader {
	return &Uploader{
		Store:   store,
		Indexer: indexer,
		Index:   IndexName,
	}
}

func (u *Uploader) UploadAll(ctx context.Context) error {
	dates, err := u.Store.Dates()
	if err != nil {
		return err
	}

	var failed int
	for _, date := range dates {
		if err := u.uploadDate(ctx, date); err != nil {
			slog.Error("[SearchUploader] Failed to upload date file",
				slog.String("date", date),
				slog.String("error", err.Error()))
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("search upload: %d of %d date file(s) failed", failed, len(dates))
	}
	return nil
}

func (u *Uploader) uploadDate(ctx context.Context, date string) error {
	data, err := u.Store.ReadTagged(date)
	if err != nil {
		return err
	}
	if len(data.Articles) == 0 {
		slog.Info("[SearchUploader] No articles for date, skipping", slog.String("date", date))
		return nil
	}

	body, err := BuildBulkBody(data.Articles, date)
	if err != nil {
		return err
	}

	slog.Info("[SearchUploader] Uploading articles",
		slog.String("date", date),
		slog.Int("count", len(data.Articles)))

	return u.Indexer.BulkIndex(ctx, u.Index, bytes.NewReader(body))
}
