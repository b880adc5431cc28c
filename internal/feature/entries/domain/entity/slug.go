package entity

import "strings"

// Slugify lower-cases s and replaces every ASCII space with a hyphen.
// No other characters are touched, so the result is not guaranteed to be unique.
func Slugify(s string) string {
	return strings.ReplaceAll(strings.ToLower(s), " ", "-")
}
