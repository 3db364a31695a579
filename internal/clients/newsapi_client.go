package clients

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"sync"
	"time"

	"github.com/spacesedan/newstagger/internal/models"
)

const NEWS_API_EVERYTHING_ENDPOINT = "https://newsapi.org/v2/everything"

var dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

var (
	newsAPIInstance *NewsAPIClient
	newsAPIOnce     sync.Once
)

type NewsAPIClient struct {
	Client *http.Client
	APIKey string
}

func GetNewsAPIClient() *NewsAPIClient {
	newsAPIOnce.Do(func() {
		newsAPIInstance = &NewsAPIClient{
			Client: &http.Client{},
			APIKey: os.Getenv("NEWS_API_KEY"),
		}
	})
	return newsAPIInstance
}

// FetchForDate pulls one calendar day of coverage for a search topic, sorted
// by popularity. Rate limits and server errors are retried with exponential
// backoff; client errors are terminal.
func (n *NewsAPIClient) FetchForDate(ctx context.Context, date, topic string) (*models.NewsResponse, error) {
	if n.APIKey == "" {
		slog.Error("[NewsAPIClient] API key is missing")
		return nil, errors.New("[NewsAPIClient] API key is missing")
	}
	if !dateRe.MatchString(date) {
		return nil, fmt.Errorf("[NewsAPIClient] invalid date format: %s, expected YYYY-MM-DD", date)
	}

	q := url.Values{}
	q.Set("q", topic)
	q.Set("language", "en")
	q.Set("from", date)
	q.Set("to", date)
	q.Set("sortBy", "popularity")
	q.Set("apiKey", n.APIKey)
	endpoint := NEWS_API_EVERYTHING_ENDPOINT + "?" + q.Encode()

	var lastErr error
	backoff := INITIAL_BACKOFF

	for attempt := 1; attempt <= MAX_RETRIES; attempt++ {
		slog.Info("[NewsAPIClient] Fetching articles",
			slog.String("date", date),
			slog.String("topic", topic),
			slog.Int("attempt", attempt))

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", USER_AGENT)

		res, err := n.Client.Do(req)
		if err != nil {
			slog.Error("[NewsAPIClient] Request failed", slog.String("error", err.Error()))
			lastErr = err
		} else {
			response, retry, err := n.handleResponse(res, backoff, attempt)
			if err == nil && response != nil {
				return response, nil
			}
			if !retry {
				return nil, err
			}
			lastErr = err
			backoff *= 2
			if backoff > MAX_BACKOFF {
				backoff = MAX_BACKOFF
			}
		}

		if attempt == MAX_RETRIES {
			slog.Error("[NewsAPIClient] Failed after max retries", slog.String("date", date))
			return nil, fmt.Errorf("[NewsAPIClient] failed after max retries: %w", lastErr)
		}
	}
	return nil, lastErr
}

func (n *NewsAPIClient) handleResponse(res *http.Response, backoff time.Duration, attempt int) (*models.NewsResponse, bool, error) {
	defer res.Body.Close()

	switch res.StatusCode {
	case http.StatusOK:
		body, err := io.ReadAll(res.Body)
		if err != nil {
			slog.Error("[NewsAPIClient] Failed to read response body", slog.String("error", err.Error()))
			return nil, false, err
		}
		var response models.NewsResponse
		if err := json.Unmarshal(body, &response); err != nil {
			slog.Error("[NewsAPIClient] Failed to parse JSON response", slog.String("error", err.Error()))
			return nil, false, err
		}
		slog.Info("[NewsAPIClient] Successfully fetched articles",
			slog.Int("totalResults", response.TotalResults))
		return &response, false, nil

	case http.StatusBadRequest:
		slog.Warn("[NewsAPIClient] Bad request: check query parameters")
		return nil, false, errors.New("[NewsAPIClient] Bad request: check query parameters")

	case http.StatusUnauthorized:
		slog.Error("[NewsAPIClient] Invalid API Key, check credentials")
		return nil, false, errors.New("[NewsAPIClient] Invalid API Key, check credentials")

	case http.StatusForbidden:
		slog.Error("[NewsAPIClient] Access forbidden, check API key permissions")
		return nil, false, errors.New("[NewsAPIClient] API key lacks required permissions")

	case http.StatusTooManyRequests:
		slog.Warn("[NewsAPIClient] Rate limit exceeded, retrying...",
			slog.Duration("backoff", backoff), slog.Int("attempt", attempt))
		io.Copy(io.Discard, res.Body)
		time.Sleep(backoff)
		return nil, true, errors.New("[NewsAPIClient] rate limit exceeded")

	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable:
		slog.Warn("[NewsAPIClient] Server error",
			slog.Int("statusCode", res.StatusCode),
			slog.Duration("backoff", backoff), slog.Int("attempt", attempt))
		time.Sleep(backoff)
		return nil, true, fmt.Errorf("[NewsAPIClient] server error: %d", res.StatusCode)

	default:
		slog.Warn("[NewsAPIClient] Unexpected response", slog.Int("statusCode", res.StatusCode))
		return nil, false, fmt.Errorf("[NewsAPIClient] unexpected status code: %d", res.StatusCode)
	}
}
