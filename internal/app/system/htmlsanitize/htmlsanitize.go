// Package htmlsanitize strips dangerous markup from member-authored rich
// text (bios, venture and card descriptions) before it is stored.
package htmlsanitize

import "github.com/microcosm-cc/bluemonday"

var policy = bluemonday.UGCPolicy()

// Sanitize returns s with scripts, event handlers, and unsafe URLs removed.
// Standard user-generated-content markup (paragraphs, emphasis, lists,
// http/https links) is preserved.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return policy.Sanitize(s)
}
