// Package sanitize cleans user-supplied text before it is stored. Jobdeck
// never renders HTML itself, but org names, project titles, and share-link
// labels flow back out through the JSON API into third-party dashboards, so
// any markup smuggled into them is stripped with bluemonday.
package sanitize

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// policy is the singleton bluemonday policy. StrictPolicy removes every
// HTML element and attribute, leaving only text content.
// Initialized once via sync.Once for thread-safe lazy initialization.
var (
	policy     *bluemonday.Policy
	policyOnce sync.Once
)

// getPolicy returns the shared sanitization policy, initializing it on first call.
func getPolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		policy = bluemonday.StrictPolicy()
	})
	return policy
}

// Text strips all HTML from a user-supplied string and trims surrounding
// whitespace. This MUST be called on every free-form name, title, or label
// before it is persisted.
func Text(input string) string {
	if input == "" {
		return ""
	}
	return strings.TrimSpace(getPolicy().Sanitize(input))
}
