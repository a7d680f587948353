// Package validator classifies input strings as supported TikTok links
package validator

import "regexp"

// Accepted link shapes: canonical profile/video links, the vm/vt short-link
// domains, the mobile link form and the generic short-path form.
var linkPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^https?://(www\.)?tiktok\.com/@[\w.-]+/video/\d+`),
	regexp.MustCompile(`^https?://vm\.tiktok\.com/[\w-]+`),
	regexp.MustCompile(`^https?://vt\.tiktok\.com/[\w-]+`),
	regexp.MustCompile(`^https?://m\.tiktok\.com/v/\d+`),
	regexp.MustCompile(`^https?://(www\.)?tiktok\.com/t/[\w-]+`),
}

// IsSupported reports whether s matches one of the accepted TikTok link
// shapes. Pure function, no network access; unmatched input returns false.
func IsSupported(s string) bool {
	for _, p := range linkPatterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}
