package content

import (
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gaurv/sitegen/pkg/domain"
)

// Clock returns the current time, injected so slug/date resolution stays
// deterministic under test
type Clock func() time.Time

// ResolveSlugDate derives the canonical (slug, date) pair for a post file.
// Explicit front-matter values take precedence. Otherwise a filename of the
// form YYYY-MM-DD-<rest>.md yields the embedded calendar date at midnight IST
// and <rest> as the slug. Anything else is slug-only: the slug is the file
// stem and the date falls back to now in IST.
func ResolveSlugDate(filename, explicitSlug string, explicitDate time.Time, now Clock) (slug string, date time.Time) {
	stem := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))

	slug = stem
	if fileDate, rest, ok := splitDatedName(stem); ok {
		slug = rest
		date = fileDate
	} else {
		date = now().In(domain.IST)
	}

	if explicitSlug != "" {
		slug = explicitSlug
	}
	if !explicitDate.IsZero() {
		date = explicitDate
	}

	return slug, date
}

// splitDatedName splits a YYYY-MM-DD-rest file stem into its date and slug
// parts. Names with fewer than three leading numeric tokens don't embed a
// date and are reported as not matching.
func splitDatedName(stem string) (date time.Time, rest string, ok bool) {
	parts := strings.SplitN(stem, "-", 4)
	if len(parts) < 4 {
		return time.Time{}, "", false
	}

	year, errY := strconv.Atoi(parts[0])
	month, errM := strconv.Atoi(parts[1])
	day, errD := strconv.Atoi(parts[2])
	if errY != nil || errM != nil || errD != nil {
		return time.Time{}, "", false
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, "", false
	}

	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, domain.IST), parts[3], true
}

// ParseDate parses a front-matter date value. Bare calendar dates are
// anchored to IST, full RFC3339 timestamps keep their own offset.
func ParseDate(value string) (time.Time, error) {
	if ts, err := time.ParseInLocation("2006-01-02", value, domain.IST); err == nil {
		return ts, nil
	}
	return time.Parse(time.RFC3339, value)
}
