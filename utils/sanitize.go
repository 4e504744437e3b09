package utils

import "github.com/microcosm-cc/bluemonday"

var sanitizer = bluemonday.UGCPolicy()

// Sanitize cleans HTML content to prevent XSS attacks. Both admin-submitted
// and AI-generated article markup pass through here before being stored.
func Sanitize(input string) string {
	return sanitizer.Sanitize(input)
}
