// Package stringutil provides helpers for fitting strings into log fields and
// table cells.
package stringutil

import "strings"

const ellipsis = "..."

// Ellipsis flattens s to one line and shortens it to at most maxLength runes,
// ending in "..." when truncated. With maxLength <= 3 there is no room for the
// marker and s is cut hard.
func Ellipsis(s string, maxLength int) string {
	r := []rune(singleLine(s))

	if maxLength < 0 {
		return ""
	}
	if len(r) <= maxLength {
		return string(r)
	}
	if maxLength <= len(ellipsis) {
		return string(r[:maxLength])
	}
	return string(r[:maxLength-len(ellipsis)]) + ellipsis
}

// EllipsisMiddle is Ellipsis that keeps both ends of s, so long asset paths
// keep their file name: "assets/very/deep/app.js" -> "assets/...p/app.js".
func EllipsisMiddle(s string, maxLength int) string {
	r := []rune(singleLine(s))

	if maxLength < 0 {
		return ""
	}
	if len(r) <= maxLength {
		return string(r)
	}
	if maxLength <= len(ellipsis) {
		return string(r[:maxLength])
	}

	keep := maxLength - len(ellipsis)
	head := keep / 2
	tail := keep - head
	return string(r[:head]) + ellipsis + string(r[len(r)-tail:])
}

func singleLine(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "\r", "")
}
