// Package jsonptr implements RFC 6901 JSON Pointer lookups and the plain
// top-level field lookups the template renderer and FST builder use to pull
// a string value out of an already-decoded JSON document.
//
// No third-party JSON Pointer implementation appears anywhere in the
// retrieved example corpus, so this is hand-rolled against the RFC rather
// than grounded on a library; see DESIGN.md.
package jsonptr

import "strings"

// Lookup resolves pointer (e.g. "/a/b/0") against an already json-decoded
// value (as produced by goccy/go-json into `any`). It returns the string at
// that location, or ("", false) if the path does not resolve to a string.
func Lookup(v any, pointer string) (string, bool) {
	if pointer == "" || pointer == "/" {
		s, ok := v.(string)
		return s, ok
	}
	if pointer[0] != '/' {
		return "", false
	}

	cur := v
	for _, seg := range strings.Split(pointer[1:], "/") {
		seg = unescapeSegment(seg)
		switch node := cur.(type) {
		case map[string]any:
			next, ok := node[seg]
			if !ok {
				return "", false
			}
			cur = next
		case []any:
			idx, ok := parseIndex(seg, len(node))
			if !ok {
				return "", false
			}
			cur = node[idx]
		default:
			return "", false
		}
	}

	s, ok := cur.(string)
	return s, ok
}

// TopLevel resolves a plain (non-pointer) field name against a decoded
// top-level JSON object, returning its string value.
func TopLevel(v any, field string) (string, bool) {
	obj, ok := v.(map[string]any)
	if !ok {
		return "", false
	}
	s, ok := obj[field].(string)
	return s, ok
}

func parseIndex(seg string, length int) (int, bool) {
	if seg == "-" || seg == "" {
		return 0, false
	}
	n := 0
	for _, r := range seg {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	if n >= length {
		return 0, false
	}
	return n, true
}

// unescapeSegment reverses RFC 6901 escaping: "~1" -> "/", "~0" -> "~".
func unescapeSegment(seg string) string {
	if !strings.Contains(seg, "~") {
		return seg
	}
	seg = strings.ReplaceAll(seg, "~1", "/")
	seg = strings.ReplaceAll(seg, "~0", "~")
	return seg
}
