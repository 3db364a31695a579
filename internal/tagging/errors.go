package tagging

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedProvider means no adapter matches the configured model
	// id. This is a misconfiguration and aborts the run.
	ErrUnsupportedProvider = errors.New("unsupported model provider")

	// ErrInvalidResponseShape means a provider response did not carry the
	// expected generated-text field. Fatal for the article's attempt only.
	ErrInvalidResponseShape = errors.New("empty or invalid model response")

	// ErrThrottled marks a provider rate-limit signal. Provider clients wrap
	// their native throttling errors with it so the retry loop can see them.
	ErrThrottled = errors.New("model provider throttled the request")
)

// MaxRetriesError is returned when the retry budget for a single article is
// exhausted by consecutive throttling responses.
type MaxRetriesError struct {
	Title string
}

func (e *MaxRetriesError) Error() string {
	return fmt.Sprintf("max retries reached tagging article: %s", e.Title)
}

// IsThrottling reports whether err is a rate-limit signal from any provider.
func IsThrottling(err error) bool {
	return errors.Is(err, ErrThrottled)
}
