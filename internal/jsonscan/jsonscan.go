// Package jsonscan locates JSON string literals within a byte slice without
// running a JSON parser.
//
// It is a structural scan only: it finds the quote bytes that delimit a
// top-level string token, tracking backslash escapes, but never validates
// that the surrounding bytes form well-formed JSON. This lets JSON-mode
// search (spec.md §4.7) restrict substitution to string content in a single
// linear pass over each input line.
package jsonscan

import "github.com/erichutchins/fstsed/internal/bytescan"

var quoteOrBackslash = bytescan.NewTable('"', '\\')

// Scanner yields the byte offsets of structural `"` bytes within a haystack,
// tracking `\` escape state so backslash-escaped quotes are not reported.
type Scanner struct {
	haystack   []byte
	pos        int
	lastEscape int // index of the most recent unpaired backslash, or 0
}

// New returns a Scanner over haystack.
func New(haystack []byte) *Scanner {
	return &Scanner{haystack: haystack}
}

// next returns the index of the next structural (non-escaped) quote byte,
// or -1 when the haystack is exhausted.
func (s *Scanner) next() int {
	for {
		rel := quoteOrBackslash.IndexAny(s.haystack[s.pos:])
		if rel < 0 {
			s.pos = len(s.haystack)
			return -1
		}
		index := s.pos + rel
		s.pos = index + 1

		if s.haystack[index] == '"' {
			if s.lastEscape > 0 && s.lastEscape == index-1 {
				// an escaped quote: reset and keep scanning
				s.lastEscape = 0
				continue
			}
			s.lastEscape = 0
			return index
		}

		// a backslash
		if s.lastEscape > 0 && s.lastEscape == index-1 {
			// \\ : a literal backslash pair, not an open escape
			s.lastEscape = 0
		} else {
			s.lastEscape = index
		}
	}
}

// Ranges returns every (start, endExclusive) pair of structural quote-byte
// indices in haystack, paired up two at a time: (open, close+1), so the
// returned range is inclusive of both quote bytes. An unterminated final
// string (an odd structural-quote count) is dropped.
func Ranges(haystack []byte) [][2]int {
	s := New(haystack)
	var ranges [][2]int
	for {
		open := s.next()
		if open < 0 {
			return ranges
		}
		close := s.next()
		if close < 0 {
			// truncated: an unpaired trailing quote is dropped
			return ranges
		}
		ranges = append(ranges, [2]int{open, close + 1})
	}
}
