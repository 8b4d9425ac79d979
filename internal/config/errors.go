package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate and File.Site and carry
// enough context for errors.Is checks while keeping human-readable
// messages for CLI output.
var (
	// ErrNoSites is returned when no site is selected for crawling.
	// At least one site name from the configuration file must be given.
	ErrNoSites = errors.New("no sites specified: name at least one site from the config file")

	// ErrUnknownSite is returned when a requested site name has no
	// entry in the configuration file.
	ErrUnknownSite = errors.New("site not found in config file")

	// ErrMissingSiteURL is returned when a site entry has no base URL.
	ErrMissingSiteURL = errors.New("site has no url")

	// ErrMissingEntryPoint is returned when a crawl is started without
	// a listing page URL, either from the site entry or the CLI.
	ErrMissingEntryPoint = errors.New("no entry point: set entryPoint in the config file or pass --start-url")

	// ErrMissingSelector is returned when a required CSS selector is
	// absent from a site entry. The wrapped message names the key.
	ErrMissingSelector = errors.New("required selector missing")

	// ErrNoDurationFormat is returned when a site entry does not name
	// a duration format. Every site must declare how its duration
	// strings are written.
	ErrNoDurationFormat = errors.New("no duration format configured")

	// ErrUnknownDurationFormat is returned when a site names a
	// duration format this build does not implement.
	ErrUnknownDurationFormat = errors.New("unknown duration format")

	// ErrInvalidConcurrency is returned when the site concurrency is
	// not positive.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")
)
