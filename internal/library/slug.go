package library

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var ErrSlugTaken = errors.New("slug already taken")

var nonSlugRe = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases s, folds accents ("Crème brûlée" -> "creme-brulee") and
// joins the remaining alphanumeric runs with dashes.
// Letters without an ASCII base are dropped, so the result may be empty.
func Slugify(s string) string {
	folded, _, err := transform.String(
		transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC),
		strings.TrimSpace(s),
	)
	if err != nil {
		folded = s
	}
	slug := nonSlugRe.ReplaceAllString(strings.ToLower(folded), "-")
	return strings.Trim(slug, "-")
}

// SlugOr is Slugify with a "<prefix>-<unix millis>" fallback for titles that
// produce an empty slug.
func SlugOr(title, prefix string, now time.Time) string {
	if slug := Slugify(title); slug != "" {
		return slug
	}
	return fmt.Sprintf("%s-%d", prefix, now.UnixMilli())
}

// RetrySlug derives a second candidate after a slug conflict.
func RetrySlug(slug string) string {
	return slug + "-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:4]
}
