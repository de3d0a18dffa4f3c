package fetch

import "errors"

// Fetch errors.
var (
	// ErrNilRequest is returned when Dispatch is called without a request.
	ErrNilRequest = errors.New("comparison request is nil")

	// ErrBodyTooLarge is returned when a response body exceeds the configured limit.
	ErrBodyTooLarge = errors.New("response body exceeds the configured size limit")

	// ErrUnsupportedProxy is returned when the proxy URL scheme is not socks5.
	ErrUnsupportedProxy = errors.New("unsupported proxy scheme: only socks5 is supported")
)
