package transport

import "errors"

var (
	// ErrInvalidProxyURL is returned when the proxy URL cannot be parsed
	// or has no host.
	ErrInvalidProxyURL = errors.New("invalid proxy url")

	// ErrUnsupportedProxy is returned for proxy schemes other than http,
	// https, socks5 and socks5h.
	ErrUnsupportedProxy = errors.New("unsupported proxy scheme: use http, https or socks5")
)
