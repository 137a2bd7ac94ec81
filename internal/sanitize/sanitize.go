// Copyright (c) 2025-2026 Pierre-Louis Berthet
// SPDX-License-Identifier: GPL-3.0-or-later

// Package sanitize strips event content down to a restricted HTML
// allowlist before it is stored or rendered.
package sanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var contentPolicy = newContentPolicy()

func newContentPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("p", "br", "strong", "em", "u", "ul", "ol", "li", "h2", "h3", "blockquote")
	p.AllowAttrs("href").OnElements("a")
	p.AllowURLSchemes("http", "https")
	p.RequireNoFollowOnLinks(true)
	return p
}

// Content sanitizes free-text HTML against the event content allowlist.
func Content(html string) string {
	return contentPolicy.Sanitize(html)
}

// IsEmpty reports whether html carries no visible text once sanitized.
// Markup-only payloads ("<script>…</script>", "<p></p>") count as empty.
func IsEmpty(html string) bool {
	stripped := bluemonday.StrictPolicy().Sanitize(html)
	return strings.TrimSpace(stripped) == ""
}
