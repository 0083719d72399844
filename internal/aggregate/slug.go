// Package aggregate contains the pure transformation stages that turn a
// normalized position list into wide pivots, the nested sector/holdings
// structure, and flattened holding records. Every function here is a pure
// function of its inputs; nothing mutates the positions it is given.
package aggregate

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	slugSpaces  = regexp.MustCompile(`\s+`)
	slugInvalid = regexp.MustCompile(`[^a-z0-9_]`)
	slugRepeat  = regexp.MustCompile(`_+`)
)

// Slugify converts a group name to a column-name-safe slug:
// "Cash & Money Market" -> "cash_and_money_market".
func Slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.ReplaceAll(s, "&", "and")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = slugSpaces.ReplaceAllString(s, "_")
	s = slugInvalid.ReplaceAllString(s, "")
	s = slugRepeat.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}

// SlugCollisionError reports two distinct group names slugifying identically.
// Silent map overwrites would corrupt the pivot, so this is a hard error.
type SlugCollisionError struct {
	Slug string
	A, B string
}

func (e *SlugCollisionError) Error() string {
	return fmt.Sprintf("slug collision: %q and %q both slugify to %q", e.A, e.B, e.Slug)
}

// slugIndex tracks slug ownership while building dynamic columns.
type slugIndex map[string]string

// claim registers name under its slug, failing on collision with a distinct
// name. Returns the slug.
func (idx slugIndex) claim(name string) (string, error) {
	slug := Slugify(name)
	if prev, ok := idx[slug]; ok && prev != name {
		return "", &SlugCollisionError{Slug: slug, A: prev, B: name}
	}
	idx[slug] = name
	return slug, nil
}
