package domain

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ErrorKind classifies failures so callers can switch on the category.
type ErrorKind string

const (
	KindConfiguration ErrorKind = "configuration"
	KindHTTP          ErrorKind = "http"
	KindTransport     ErrorKind = "transport"
	KindParse         ErrorKind = "parse"
	KindValidation    ErrorKind = "validation"
)

// Sentinel causes for validation failures of a notice document.
var (
	ErrMissingObjectContract = errors.New("missing object contract")
	ErrMissingTitle          = errors.New("missing title")
	ErrMissingCredentials    = errors.New("missing API_USERNAME or API_PASSWORD")
)

// maxErrorBody caps how much of a failed response is kept on the error.
const maxErrorBody = 4 << 10

// Error is the single error type returned by the fetch and parse operations.
type Error struct {
	Kind       ErrorKind
	StatusCode int
	Status     string
	URL        string
	Body       string
	Message    string
	Cause      error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))

	switch {
	case e.StatusCode > 0:
		fmt.Fprintf(&b, ": HTTP %s", statusText(e.StatusCode, e.Status))
	case e.Message != "":
		b.WriteString(": " + e.Message)
	case e.Cause != nil:
		b.WriteString(": " + e.Cause.Error())
	}

	if e.URL != "" {
		b.WriteString(" for " + e.URL)
	}

	return b.String()
}

func (e *Error) Unwrap() error { return e.Cause }

// Retryable reports whether repeating the request could succeed. Server errors,
// 429 and network failures qualify; other 4xx do not. No retry policy uses this yet.
func (e *Error) Retryable() bool {
	switch e.Kind {
	case KindTransport:
		return true
	case KindHTTP:
		return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
	default:
		return false
	}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind ErrorKind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

// IsSuccessStatus reports whether code is in the 2xx range.
func IsSuccessStatus(code int) bool {
	return code >= http.StatusOK && code < http.StatusMultipleChoices
}

// NewHTTPError builds a KindHTTP error from a non-2xx response, keeping a bounded
// prefix of the body for context. The body is not closed.
func NewHTTPError(resp *http.Response, url string) *Error {
	e := &Error{
		Kind:       KindHTTP,
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		URL:        url,
	}

	if resp.Body != nil {
		body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		if err != nil {
			e.Message = fmt.Sprintf("read error response body: %v", err)
		}
		e.Body = string(body)
	}

	return e
}

// NewTransportError wraps a network-level failure.
func NewTransportError(cause error, url string) *Error {
	return &Error{Kind: KindTransport, URL: url, Cause: cause}
}

// NewParseError wraps an XML decoding failure.
func NewParseError(cause error) *Error {
	return &Error{Kind: KindParse, Cause: cause}
}

// NewValidationError wraps one of the validation sentinels.
func NewValidationError(cause error) *Error {
	return &Error{Kind: KindValidation, Message: cause.Error(), Cause: cause}
}

// NewConfigurationError reports unusable startup configuration.
func NewConfigurationError(cause error) *Error {
	return &Error{Kind: KindConfiguration, Message: cause.Error(), Cause: cause}
}

func statusText(code int, status string) string {
	if status != "" {
		return status
	}
	if text := http.StatusText(code); text != "" {
		return fmt.Sprintf("%d %s", code, text)
	}
	return fmt.Sprintf("%d", code)
}
