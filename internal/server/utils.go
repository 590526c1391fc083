package server

import "strings"

// containsDotDot reports whether any path segment is "..", which would
// point above the serving root. The root filesystem already refuses to
// escape; this only picks the status code for such requests.
func containsDotDot(p string) bool {
	if !strings.Contains(p, "..") {
		return false
	}
	for _, seg := range strings.FieldsFunc(p, isPathSep) {
		if seg == ".." {
			return true
		}
	}
	return false
}

func isPathSep(r rune) bool {
	return r == '/' || r == '\\'
}
