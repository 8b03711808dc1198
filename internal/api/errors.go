package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"
	"syscall"
)

// ErrorType represents the category of a failed request
type ErrorType int

const (
	// ErrTypeTransport indicates the request never produced a response (connection refused, DNS, reset)
	ErrTypeTransport ErrorType = iota
	// ErrTypeTimeout indicates the request exceeded the client timeout or its context deadline
	ErrTypeTimeout
	// ErrTypeServer indicates a non-2xx HTTP response
	ErrTypeServer
	// ErrTypeParse indicates a 2xx response whose body could not be decoded
	ErrTypeParse
)

// FallbackMessage is used when neither the server nor the transport supplied one
const FallbackMessage = "request failed"

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeTransport:
		return "Transport Error"
	case ErrTypeTimeout:
		return "Timeout"
	case ErrTypeServer:
		return "Server Error"
	case ErrTypeParse:
		return "Parse Error"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// label is the metrics label for the error type
func (et ErrorType) label() string {
	switch et {
	case ErrTypeTransport:
		return "transport"
	case ErrTypeTimeout:
		return "timeout"
	case ErrTypeServer:
		return "server"
	case ErrTypeParse:
		return "parse"
	default:
		return "unknown"
	}
}

// DeadlineMessage describes a request cut off by the caller's context deadline
const DeadlineMessage = "request deadline exceeded"

// RequestError is the single normalized error shape returned by the Client.
// Error() yields only the human-readable Message so it can be shown as is.
type RequestError struct {
	Type       ErrorType // Category of error
	Message    string    // Best-effort human-readable message
	StatusCode int       // HTTP status code (ErrTypeServer only)
	Method     string    // HTTP method of the failed request
	Path       string    // Path relative to the base URL
	RequestID  string    // Value sent in X-Request-ID
	Err        error     // Underlying error (if any)
}

// Error implements the error interface
func (e *RequestError) Error() string {
	if e.Message == "" {
		return FallbackMessage
	}
	return e.Message
}

// Unwrap returns the underlying error for error chain inspection
func (e *RequestError) Unwrap() error {
	return e.Err
}

// Detail returns a verbose description for logs.
func (e *RequestError) Detail() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s %s: %s", e.Type, e.Method, e.Path, e.Error())
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " (HTTP %d)", e.StatusCode)
	}
	if e.RequestID != "" {
		fmt.Fprintf(&b, " [request %s]", e.RequestID)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, " (caused by: %v)", e.Err)
	}
	return b.String()
}

// newTransportError classifies a failure from http.Client.Do.
// An expired caller deadline is reported as such; the "timeout of Nms"
// message is reserved for the client's own timeout.
func newTransportError(ctx context.Context, err error, timeoutMS int64) *RequestError {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &RequestError{
			Type:    ErrTypeTimeout,
			Message: DeadlineMessage,
			Err:     err,
		}
	}

	if isTimeout(err) {
		return &RequestError{
			Type:    ErrTypeTimeout,
			Message: fmt.Sprintf("timeout of %dms exceeded", timeoutMS),
			Err:     err,
		}
	}

	return &RequestError{
		Type:    ErrTypeTransport,
		Message: transportMessage(err),
		Err:     err,
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	return os.IsTimeout(err)
}

// transportMessage strips the url.Error wrapper so the message reads
// "dial tcp 127.0.0.1:5001: connect: connection refused" rather than
// repeating the method and URL.
func transportMessage(err error) string {
	if err == nil {
		return FallbackMessage
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return fmt.Sprintf("cannot resolve host %s", dnsErr.Name)
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) && errors.Is(opErr.Err, syscall.ECONNREFUSED) {
		return "connection refused"
	}

	msg := err.Error()
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		msg = urlErr.Err.Error()
	}

	if strings.TrimSpace(msg) == "" {
		return FallbackMessage
	}
	return msg
}

// AsRequestError extracts a *RequestError from an error chain.
func AsRequestError(err error) (*RequestError, bool) {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr, true
	}
	return nil, false
}

// IsTransportError checks if an error is a transport-level failure, including timeouts
func IsTransportError(err error) bool {
	reqErr, ok := AsRequestError(err)
	return ok && (reqErr.Type == ErrTypeTransport || reqErr.Type == ErrTypeTimeout)
}

// IsTimeout checks if an error is a request timeout
func IsTimeout(err error) bool {
	reqErr, ok := AsRequestError(err)
	return ok && reqErr.Type == ErrTypeTimeout
}

// IsServerError checks if an error came from a non-2xx response
func IsServerError(err error) bool {
	reqErr, ok := AsRequestError(err)
	return ok && reqErr.Type == ErrTypeServer
}

// IsParseError checks if an error is a response decoding failure
func IsParseError(err error) bool {
	reqErr, ok := AsRequestError(err)
	return ok && reqErr.Type == ErrTypeParse
}

// Troubleshooting returns user-facing hints for an error
func Troubleshooting(err error) []string {
	reqErr, ok := AsRequestError(err)
	if !ok {
		return nil
	}

	switch reqErr.Type {
	case ErrTypeTimeout:
		return []string{
			"Generation can take close to a minute for long requirements",
			"Try again, or raise the limit with --timeout",
		}
	case ErrTypeTransport:
		return []string{
			"Check that the survey service is running",
			"Verify --base-url / SURVEYGEN_API_BASE_URL points at it",
			"Try: surveygen health",
		}
	case ErrTypeServer:
		if reqErr.StatusCode >= 500 {
			return []string{
				fmt.Sprintf("The service failed with HTTP %d", reqErr.StatusCode),
				"Check the service logs for request " + reqErr.RequestID,
			}
		}
		return []string{fmt.Sprintf("The service rejected the request (HTTP %d)", reqErr.StatusCode)}
	case ErrTypeParse:
		return []string{
			"The response was not a survey envelope",
			"Verify the base URL points at the survey API, not a web page",
		}
	default:
		return nil
	}
}
