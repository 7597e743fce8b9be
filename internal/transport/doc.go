// Package transport builds the HTTP client used to fetch pages.
//
// The client sets the User-Agent on every request, injects configured
// headers and cookies, optionally routes through an http, https or socks5
// proxy and retries idempotent requests that failed with a network error,
// 429 Too Many Requests or a 5xx status.
package transport
