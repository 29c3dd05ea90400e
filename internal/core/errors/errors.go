package errors

import (
	"errors"
	"fmt"
)

// UpstreamKind classifies why an upstream retrieval failed.
type UpstreamKind string

const (
	// KindTransport covers network, timeout, and TLS failures reaching the
	// ticketing API. These are the only failures the client may retry.
	KindTransport UpstreamKind = "transport"
	// KindProtocol covers non-2xx responses and unparsable bodies. Never
	// retried.
	KindProtocol UpstreamKind = "protocol"
)

// UpstreamError aborts the whole view-builder call that triggered the
// retrieval. There is no partial-result fallback: either every page
// arrived, or the dashboard request fails with this error.
type UpstreamError struct {
	Kind       UpstreamKind
	Endpoint   string
	StatusCode int // protocol errors only
	Err        error
}

func (e *UpstreamError) Error() string {
	switch e.Kind {
	case KindProtocol:
		if e.StatusCode != 0 {
			return fmt.Sprintf("upstream %s returned status %d", e.Endpoint, e.StatusCode)
		}
		return fmt.Sprintf("upstream %s protocol error: %v", e.Endpoint, e.Err)
	default:
		return fmt.Sprintf("upstream %s unreachable: %v", e.Endpoint, e.Err)
	}
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// NewTransportError wraps a network-level failure.
func NewTransportError(endpoint string, err error) *UpstreamError {
	return &UpstreamError{Kind: KindTransport, Endpoint: endpoint, Err: err}
}

// NewProtocolError wraps a non-2xx status or an unparsable response body.
func NewProtocolError(endpoint string, statusCode int, err error) *UpstreamError {
	return &UpstreamError{Kind: KindProtocol, Endpoint: endpoint, StatusCode: statusCode, Err: err}
}

// AsUpstream extracts an UpstreamError from an error chain.
func AsUpstream(err error) (*UpstreamError, bool) {
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return ue, true
	}
	return nil, false
}
