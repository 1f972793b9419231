package cli

import (
	"fmt"
	"time"

	"github.com/liquidmon/lmon/internal/errors"
)

// maxAlertsLimit caps --limit; the server truncates anyway.
const maxAlertsLimit = 1000

// ParseTimeout parses a timeout flag into a duration.
// Returns zero duration if the flag is empty.
func ParseTimeout(flag string) (time.Duration, error) {
	if flag == "" {
		return 0, nil
	}

	duration, err := time.ParseDuration(flag)
	if err != nil {
		return 0, errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("'%s' doesn't look like a valid timeout", flag),
			"Try something like 5s, 2m, or 500ms.")
	}
	if duration <= 0 {
		return 0, errors.New(errors.ErrConfig,
			fmt.Sprintf("Timeout must be positive, got %s", flag),
			"Try something like 5s.")
	}
	return duration, nil
}

// ValidateLimit checks the --limit flag of 'lmon alerts list'.
func ValidateLimit(limit int) error {
	if limit < 1 || limit > maxAlertsLimit {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("--limit must be between 1 and %d, got %d", maxAlertsLimit, limit),
			"Try --limit 50.")
	}
	return nil
}

// formatLatency renders a probe round trip in whole milliseconds.
func formatLatency(d time.Duration) string {
	if d < time.Millisecond {
		return "<1ms"
	}
	return fmt.Sprintf("%dms", d.Milliseconds())
}
