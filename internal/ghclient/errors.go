package ghclient

import (
	"errors"

	gh "github.com/google/go-github/v57/github"
)

// ErrorMessage returns the text to show a user for a failed search.
// API failures use the message field of the response body; any other error
// uses its own text. fallback covers failures that carry no message at all.
func ErrorMessage(err error, fallback string) string {
	if err == nil {
		return fallback
	}

	var rateErr *gh.RateLimitError
	if errors.As(err, &rateErr) {
		return messageOr(rateErr.Message, fallback)
	}

	var abuseErr *gh.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return messageOr(abuseErr.Message, fallback)
	}

	var apiErr *gh.ErrorResponse
	if errors.As(err, &apiErr) {
		return messageOr(apiErr.Message, fallback)
	}

	return messageOr(err.Error(), fallback)
}

func messageOr(msg, fallback string) string {
	if msg == "" {
		return fallback
	}
	return msg
}
