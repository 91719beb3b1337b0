package cms

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Slugify converts a title to a URL-safe slug: lowercase, every run of
// non-alphanumeric characters collapsed to a single hyphen, no leading or
// trailing hyphen.
func Slugify(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	var b strings.Builder
	pending := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pending && b.Len() > 0 {
				b.WriteByte('-')
			}
			pending = false
			b.WriteRune(r)
		default:
			pending = true
		}
	}
	return b.String()
}

// slugSuffix disambiguates colliding slugs with a second-resolution UTC
// timestamp. Best effort only: two writes inside the same second still race,
// which is why the repositories additionally enforce uniqueness and the
// service retries on ErrSlugTaken.
func slugSuffix(now time.Time) string {
	return now.UTC().Format("20060102150405")
}

// identifierKind tags how an externally supplied identifier was classified.
type identifierKind int

const (
	identifierUnresolved identifierKind = iota
	identifierSlug
	identifierKey
)

// classifyIdentifier decides whether an identifier can double as a primary
// key. Every identifier is a candidate slug; only well-formed UUIDs are also
// key candidates. Malformed keys stay plain slugs rather than becoming parse
// errors.
func classifyIdentifier(identifier string) (uuid.UUID, identifierKind) {
	if identifier == "" {
		return uuid.Nil, identifierUnresolved
	}
	if id, err := uuid.Parse(identifier); err == nil {
		return id, identifierKey
	}
	return uuid.Nil, identifierSlug
}
