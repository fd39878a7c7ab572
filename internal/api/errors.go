// Package api provides the HTTP transport client for the media-vault backend.
package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
)

// Kind classifies an API error for call-site branching.
type Kind int

const (
	// KindUnknown - unclassified failure
	KindUnknown Kind = iota

	// KindAuth - login rejected by the backend
	KindAuth

	// KindSessionExpired - 401 during an authenticated call
	KindSessionExpired

	// KindNetwork - no response received at all
	KindNetwork

	// KindTimeout - client-side deadline exceeded
	KindTimeout

	// KindServer - response received with a non-2xx status (or a 2xx
	// envelope without success:true)
	KindServer

	// KindValidation - client-side metadata/field rule violation; never
	// sent to the network
	KindValidation

	// KindEncodingPrecondition - caller attempted to encode a batch
	// containing an invalid item
	KindEncodingPrecondition
)

func (k Kind) String() string {
	switch k {
	case KindAuth:
		return "auth"
	case KindSessionExpired:
		return "session_expired"
	case KindNetwork:
		return "network"
	case KindTimeout:
		return "timeout"
	case KindServer:
		return "server"
	case KindValidation:
		return "validation"
	case KindEncodingPrecondition:
		return "encoding_precondition"
	default:
		return "unknown"
	}
}

// Error is the normalized error surfaced by the transport client. Message
// carries the backend's human-readable message when one was received;
// Detail preserves the original transport-level wording.
type Error struct {
	Kind       Kind
	Message    string
	StatusCode int
	Detail     string
	err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s (%s, status %d)", e.Message, e.Kind, e.StatusCode)
	}
	return fmt.Sprintf("%s (%s)", e.Message, e.Kind)
}

func (e *Error) Unwrap() error {
	return e.err
}

// NewError builds an Error wrapping cause.
func NewError(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, err: cause}
}

// ErrorKind returns the classification of err, or KindUnknown when err is
// not an *Error.
func ErrorKind(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindUnknown
}

// IsSessionExpired reports whether err is a 401 surfaced by the client.
func IsSessionExpired(err error) bool {
	return ErrorKind(err) == KindSessionExpired
}

// classifyTransport maps a transport-level failure (no usable response) to
// KindNetwork or KindTimeout, preserving the original detail.
func classifyTransport(err error) *Error {
	kind := KindNetwork
	message := "network unreachable"

	if errors.Is(err, context.DeadlineExceeded) {
		kind = KindTimeout
		message = "request timed out"
	} else {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			kind = KindTimeout
			message = "request timed out"
		}
	}

	var urlErr *url.Error
	detail := err.Error()
	if errors.As(err, &urlErr) {
		detail = urlErr.Err.Error()
	}

	return &Error{Kind: kind, Message: message, Detail: detail, err: err}
}
