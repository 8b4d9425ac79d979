// Package log builds the application logger on top of the standard
// slog package.
//
// Site configurations carry age-gate cookies, proxy credentials, and
// webhook tokens. The RedactingHandler masks attribute values that
// match sensitive key names or credential-shaped values before they
// reach the output, so a shared log never leaks them, even in verbose
// mode.
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, verbose)
//
//	logger.Info("request sent",
//	    "cookie", "session=abc123",  // masked
//	    "url", "https://example.com/videos",
//	)
package log
