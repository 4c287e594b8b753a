// Package validation provides input sanitization and typed field validation.
// It is a defense-in-depth layer: the repositories always use parameterized
// queries, so the SQL pattern blocklist here is never the sole injection
// defense.
package validation

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// policy is the singleton bluemonday policy for user-supplied free text.
// StrictPolicy strips all markup; residual metacharacters are escaped below.
var (
	policy     *bluemonday.Policy
	policyOnce sync.Once
)

func getPolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		policy = bluemonday.StrictPolicy()
	})
	return policy
}

var escaper = strings.NewReplacer(
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#x27;",
	"/", "&#x2F;",
)

// SanitizeText strips any HTML markup from s and escapes residual angle
// brackets, quotes, and slashes. The markup strip already entity-escapes
// quotes and ampersands, so the replacer mainly covers slashes; callers
// must not re-sanitize stored values or entities get double-escaped.
func SanitizeText(s string) string {
	if s == "" {
		return ""
	}
	return escaper.Replace(getPolicy().Sanitize(s))
}
