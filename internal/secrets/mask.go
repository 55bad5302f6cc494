// Package secrets masks API keys and other credentials before they reach
// logs or error messages.
package secrets

import "regexp"

var sensitivePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)sk-[a-zA-Z0-9_\-]{20,}`),
	regexp.MustCompile(`(?i)Bearer\s+[a-zA-Z0-9_\-.]{20,}`),
	regexp.MustCompile(`(?i)api[_-]?key["']?\s*[:=]\s*["']?[^"'\s]{8,}`),
}

// MaskKey renders an API key safe for display, keeping only a short prefix
// and suffix. Keys too short to mask meaningfully are fully hidden.
func MaskKey(key string) string {
	if len(key) < 8 {
		return "*****"
	}
	return key[:3] + "..." + key[len(key)-3:]
}

// Sanitize masks credential-shaped substrings in arbitrary text. Every error
// message or log line that may embed upstream responses should pass through
// here before leaving the process.
func Sanitize(text string) string {
	for _, pattern := range sensitivePatterns {
		text = pattern.ReplaceAllStringFunc(text, func(match string) string {
			if len(match) > 10 {
				return match[:3] + "***" + match[len(match)-3:]
			}
			return "***"
		})
	}
	return text
}
