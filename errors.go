package got

import (
	"errors"

	json "github.com/goccy/go-json"
)

// Sentinel errors for common failure scenarios.
var (
	// ErrSuperseded is surfaced to a caller whose in-flight request was
	// cancelled because a new request was issued under the same name.
	// It is never a *ResponseError: supersession is a cancellation
	// signal, not an HTTP failure.
	ErrSuperseded = errors.New("got: request superseded")

	// ErrMissingEndpoint is returned when a request has no target URL.
	ErrMissingEndpoint = errors.New("got: endpoint required")

	// ErrMissingQuery is returned by GQL when no query source is given.
	ErrMissingQuery = errors.New("got: graphql query required")
)

// Distinguished synthetic status for an exhausted redirect budget.
// No server returns this pair; it is synthesized client-side.
const (
	StatusTooManyRedirects  = 429
	MessageTooManyRedirects = "ERR_TOO_MANY_REDIRECTS"
)

// ResponseError is the structured error raised for every non-success
// HTTP response and for an exhausted redirect budget.
//
// The error message is exactly the response's reason phrase, so
// callers can match on it directly:
//
//	var respErr *got.ResponseError
//	if errors.As(err, &respErr) {
//	    log.Printf("%d %s: %v", respErr.StatusCode, respErr.StatusText, respErr.Body)
//	}
type ResponseError struct {
	// StatusCode is the numeric HTTP status code.
	StatusCode int

	// StatusText is the response's reason phrase (e.g. "Not Found").
	StatusText string

	// Body is the best-effort parsed response body: decoded JSON when
	// the body parses, the raw text when it does not, nil when the
	// body was empty or unreadable.
	Body any
}

// Error implements the error interface. The message equals StatusText.
func (e *ResponseError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.StatusText
}

// Status returns the numeric status code. Alias for StatusCode.
func (e *ResponseError) Status() int {
	return e.StatusCode
}

// Is compares response errors by status code for errors.Is.
func (e *ResponseError) Is(target error) bool {
	if e == nil {
		return false
	}
	t, ok := target.(*ResponseError)
	if !ok {
		return false
	}
	return e.StatusCode == t.StatusCode
}

// MarshalJSON emits the wire-adjacent error shape, with status and
// statusCode carrying the same numeric code and message mirroring
// statusText.
func (e *ResponseError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind       string `json:"kind"`
		Message    string `json:"message"`
		Status     int    `json:"status"`
		StatusCode int    `json:"statusCode"`
		StatusText string `json:"statusText"`
		Body       any    `json:"body,omitempty"`
	}{
		Kind:       "ResponseError",
		Message:    e.StatusText,
		Status:     e.StatusCode,
		StatusCode: e.StatusCode,
		StatusText: e.StatusText,
		Body:       e.Body,
	})
}

// errTooManyRedirects builds the synthetic budget-exhaustion error.
func errTooManyRedirects() *ResponseError {
	return &ResponseError{
		StatusCode: StatusTooManyRedirects,
		StatusText: MessageTooManyRedirects,
	}
}

// IsSuperseded reports whether err means the request was cancelled by
// a same-named successor.
func IsSuperseded(err error) bool {
	return errors.Is(err, ErrSuperseded)
}

// IsTooManyRedirects reports whether err is the synthetic
// redirect-budget-exceeded error.
func IsTooManyRedirects(err error) bool {
	var respErr *ResponseError
	return errors.As(err, &respErr) &&
		respErr.StatusCode == StatusTooManyRedirects &&
		respErr.StatusText == MessageTooManyRedirects
}

// AsResponseError extracts a *ResponseError from err, if any.
func AsResponseError(err error) (*ResponseError, bool) {
	var respErr *ResponseError
	ok := errors.As(err, &respErr)
	return respErr, ok
}
