// Package notes manages the agent-owned section embedded in a GitHub
// issue body. The body is split into two zones: free-form user content
// and at most one marker-delimited agent-notes block. Everything here is
// a pure text transform; the gateway does the round-trips.
package notes

import (
	"regexp"
	"strings"
)

const (
	startMarker = "<!-- ghtodo:notes:start -->"
	endMarker   = "<!-- ghtodo:notes:end -->"

	detailsTitle = "Agent notes"
)

// detailsRe matches the first collapsible block inside the marked span.
var detailsRe = regexp.MustCompile(`(?s)<details>\s*<summary>.*?</summary>(.*?)</details>`)

// Wrap returns content wrapped in the notes markers and a collapsible
// details block. Blank content wraps to the empty string so an empty
// section never round-trips as present.
func Wrap(content string) string {
	content = strings.TrimSpace(content)
	if content == "" {
		return ""
	}
	var b strings.Builder
	b.WriteString(startMarker)
	b.WriteString("\n<details>\n<summary>")
	b.WriteString(detailsTitle)
	b.WriteString("</summary>\n\n")
	b.WriteString(content)
	b.WriteString("\n\n</details>\n")
	b.WriteString(endMarker)
	return b.String()
}

// span locates the marked region: first start marker to first end
// marker in the whole body. ok is false when either marker is missing
// or the first end marker does not come after the start marker;
// malformed markers mean the whole body is user content, not an error.
func span(body string) (start, end int, ok bool) {
	start = strings.Index(body, startMarker)
	if start < 0 {
		return 0, 0, false
	}
	end = strings.Index(body, endMarker)
	if end <= start {
		return 0, 0, false
	}
	return start, end + len(endMarker), true
}

// ExtractSection returns the trimmed notes text and true when the body
// carries a well-formed section, or "" and false otherwise.
func ExtractSection(body string) (string, bool) {
	start, end, ok := span(body)
	if !ok {
		return "", false
	}
	m := detailsRe.FindStringSubmatch(body[start:end])
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

// ExtractUserContent returns everything outside the notes section: the
// text before and after the markers, trimmed and joined with a blank
// line. Without a valid section the whole trimmed body is user content.
func ExtractUserContent(body string) string {
	start, end, ok := span(body)
	if !ok {
		return strings.TrimSpace(body)
	}
	return joinParts(body[:start], body[end:])
}

// UpdateSection replaces the notes section with newContent, appending a
// new section when none exists. User content is preserved verbatim apart
// from whitespace trimming at the zone boundaries.
func UpdateSection(body, newContent string) string {
	wrapped := Wrap(newContent)
	start, end, ok := span(body)
	if !ok {
		return joinParts(body, wrapped)
	}
	return joinParts(body[:start], wrapped, body[end:])
}

// joinParts trims each part and joins the non-empty ones with one blank
// line between them.
func joinParts(parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "\n\n")
}
