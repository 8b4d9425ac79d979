package config

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// DurationConverter parses one site's raw duration string into whole
// seconds. Each site declares which converter applies via the
// durationFormat key in its config entry.
type DurationConverter func(raw string) (int, error)

// iso8601Duration matches durations like PT1H2M3S. Date components
// are not accepted; video durations never reach days.
var iso8601Duration = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// DurationConverterFor returns the converter for a named format.
// Known formats:
//
//	clock   - colon-separated, e.g. "45", "1:30", or "1:02:03"
//	seconds - a plain integer number of seconds, e.g. "90"
//	iso8601 - an ISO 8601 time duration, e.g. "PT1M30S"
//
// An unknown name returns an error wrapping ErrUnknownDurationFormat.
func DurationConverterFor(format string) (DurationConverter, error) {
	switch format {
	case "clock":
		return convertClockDuration, nil
	case "seconds":
		return convertSecondsDuration, nil
	case "iso8601":
		return convertISO8601Duration, nil
	default:
		return nil, fmt.Errorf("%w: %q (known: clock, iso8601, seconds)", ErrUnknownDurationFormat, format)
	}
}

// convertClockDuration parses "ss", "mm:ss", or "hh:mm:ss" strings.
// Each colon-separated field multiplies the running total by 60, so
// "1:30" is 90 seconds and "1:02:03" is 3723 seconds.
func convertClockDuration(raw string) (int, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, fmt.Errorf("parse clock duration: empty string")
	}

	parts := strings.Split(trimmed, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("parse clock duration %q: too many fields", raw)
	}

	total := 0
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 {
			return 0, fmt.Errorf("parse clock duration %q: bad field %q", raw, part)
		}
		total = total*60 + n
	}
	return total, nil
}

// convertSecondsDuration parses a plain integer seconds count.
func convertSecondsDuration(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return 0, fmt.Errorf("parse seconds duration %q: not a whole number", raw)
	}
	return n, nil
}

// convertISO8601Duration parses PT#H#M#S time durations, the format
// sites embed in their schema.org VideoObject markup.
func convertISO8601Duration(raw string) (int, error) {
	m := iso8601Duration.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil || (m[1] == "" && m[2] == "" && m[3] == "") {
		return 0, fmt.Errorf("parse iso8601 duration %q: not a PT#H#M#S duration", raw)
	}

	total := 0
	for i, scale := range []int{3600, 60, 1} {
		if m[i+1] == "" {
			continue
		}
		n, err := strconv.Atoi(m[i+1])
		if err != nil {
			return 0, fmt.Errorf("parse iso8601 duration %q: %w", raw, err)
		}
		total += n * scale
	}
	return total, nil
}
