package models

import "time"

type ArticleSource struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Article is the raw NewsAPI article shape, immutable once fetched.
type Article struct {
	Source      ArticleSource `json:"source"`
	Author      string        `json:"author"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	URL         string        `json:"url"`
	URLToImage  string        `json:"urlToImage"`
	PublishedAt string        `json:"publishedAt"`
	Content     string        `json:"content"`
}

// TaggedArticle is an Article plus its taxonomy tag ids and an optional
// Unix-seconds timestamp derived once from PublishedAt. PublishedAtTs is a
// pointer so that absence round-trips through JSON; it is never recomputed
// when already present.
type TaggedArticle struct {
	Article
	Tags          []string `json:"tags"`
	PublishedAtTs *int64   `json:"publishedAtTs,omitempty"`
}

type NewsResponse struct {
	Status       string    `json:"status"`
	TotalResults int       `json:"totalResults"`
	Articles     []Article `json:"articles"`
}

type TaggedNewsResponse struct {
	Status       string          `json:"status"`
	TotalResults int             `json:"totalResults"`
	Articles     []TaggedArticle `json:"articles"`
}

// DeriveTimestamp returns the Unix seconds for an ISO publishedAt value,
// or false when it does not parse.
func DeriveTimestamp(publishedAt string) (int64, bool) {
	if publishedAt == "" {
		return 0, false
	}
	t, err := time.Parse(time.RFC3339, publishedAt)
	if err != nil {
		return 0, false
	}
	return t.Unix(), true
}
