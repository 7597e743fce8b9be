// Package log builds the slog loggers used by castcrawl.
//
// Every logger returned by New wraps its text or JSON handler in a
// SecureHandler, so request cookies, authorization headers and proxy
// credentials never reach the log output, even in verbose mode:
//
//	logger := log.New(os.Stderr, verbose, jsonOutput)
//	logger.Debug("request", "url", u, "cookie", cookie) // cookie is masked
//	slog.SetDefault(logger)
package log
