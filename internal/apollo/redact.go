package apollo

import (
	"regexp"
	"strings"
)

// Matches header echoes ("X-Api-Key: abc") and key=value / JSON forms ("api_key": "abc").
var apiKeyKVRe = regexp.MustCompile(`(?i)\b(x-api-key|apollo[_-]?api[_-]?key|api[_-]?key)\b"?\s*[:=]\s*"?[^\s"',}]+`)

// RedactSecrets removes API key material from error and log strings.
//
// Safe to call on any message, including upstream response snippets.
func RedactSecrets(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(apiKeyKVRe.ReplaceAllString(s, "<redacted_kv>"))
}
