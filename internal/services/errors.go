package services

import (
	"errors"

	"github.com/desertthunder/albumctl/internal/shared"
)

// APIError is an application-level failure reported by the site in an otherwise successful response.
type APIError struct {
	Endpoint string
	Message  string
}

func (e *APIError) Error() string { return e.Message }

func (e *APIError) Unwrap() error { return shared.ErrApplication }

// UserMessage returns the text to show for err: the server's own words for an [*APIError],
// a generic apology for everything else.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	if errors.Is(err, shared.ErrTransport) {
		return shared.GenericFailureMessage
	}
	return err.Error()
}
