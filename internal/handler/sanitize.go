// Copyright (c) 2025-2026 KTLTC
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"github.com/microcosm-cc/bluemonday"
)

// htmlSanitizer strips dangerous markup from dashboard-submitted rich text.
// UGCPolicy keeps the formatting tags the editor produces while removing
// scripts and event handlers.
var htmlSanitizer = newContentPolicy()

func newContentPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	// The editor emits inline images and iframe-free video embeds; embeds
	// are stored in a separate field and rendered from an allowlist, so
	// the body policy stays strict.
	p.AllowAttrs("style").OnElements("span", "p")
	return p
}

// sanitizeHTML cleans a rich-text fragment before it is persisted.
func sanitizeHTML(s string) string {
	return htmlSanitizer.Sanitize(s)
}
