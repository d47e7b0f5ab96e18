// Package help forwards contextual-help requests raised from rendered
// document blocks to an external chat collaborator.
package help

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Request is one "ask about this" action: the document it came from and the
// flattened text of the block.
type Request struct {
	Document string `json:"document"`
	Title    string `json:"title"`
	Text     string `json:"text"`
}

// Requester delivers help requests.
type Requester interface {
	RequestHelp(ctx context.Context, req Request) error
}

// RetryableError indicates a transient failure that can be retried.
type RetryableError struct {
	StatusCode int
	Message    string
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("retryable error (status %d): %s", e.StatusCode, truncate(e.Message, 200))
}

// IsRetryable checks if an error is worth retrying.
func IsRetryable(err error) bool {
	var retryErr *RetryableError
	return errors.As(err, &retryErr)
}

// LogRequester records requests in the log. It is used when no webhook is
// configured.
type LogRequester struct {
	Log *slog.Logger
}

func (l LogRequester) RequestHelp(_ context.Context, req Request) error {
	log := l.Log
	if log == nil {
		log = slog.Default()
	}
	log.Info("help requested",
		"document", req.Document,
		"title", req.Title,
		"text", truncate(req.Text, 200),
	)
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
