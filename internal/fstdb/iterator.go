package fstdb

import "github.com/erichutchins/fstsed/internal/bytescan"

// MatchIter is the boundary-aware scanner of spec.md §4.4: it drives the
// engine over a haystack only at candidate seed positions, skipping any
// position that falls inside an already-consumed match span.
//
// The two conceptual seed streams — "start of line" and "after a
// seed-class byte" — are collapsed into one cursor here (spec.md §9): seed
// 0 is probed with skip 0 exactly once, every later seed-class byte at
// position p is probed at p+1.
type MatchIter struct {
	engine    *Engine
	text      []byte
	cursor    int // next byte offset to resume the seed-class scan from
	triedZero bool
	done      bool
}

// FindIter returns a boundary-aware iterator over text. The iterator
// borrows the engine exclusively: do not call LongestMatch/LongestMatchAt
// on the same engine while iterating.
func (e *Engine) FindIter(text []byte) *MatchIter {
	return &MatchIter{engine: e, text: text}
}

// Next advances to the next match, returning its start offset. It returns
// (0, false) once no further matches exist.
func (it *MatchIter) Next() (int, bool) {
	if it.done {
		return 0, false
	}
	for {
		probe, ok := it.nextProbe()
		if !ok {
			it.done = true
			return 0, false
		}
		if probe > len(it.text) {
			continue
		}
		if n, ok := it.engine.LongestMatchAt(it.text, probe); ok {
			start := it.engine.GetMatchStart()
			end := start + n
			if it.cursor < end {
				it.cursor = end
			}
			return start, true
		}
	}
}

// nextProbe returns the next byte offset the engine should be probed at,
// per the seed-stream rule in spec.md §4.4.
func (it *MatchIter) nextProbe() (int, bool) {
	if !it.triedZero {
		it.triedZero = true
		return 0, true
	}
	for it.cursor < len(it.text) {
		rel := bytescan.SeedClass.IndexAny(it.text[it.cursor:])
		if rel < 0 {
			it.cursor = len(it.text)
			return 0, false
		}
		p := it.cursor + rel
		it.cursor = p + 1
		if p == 0 {
			// position 0 is handled exclusively by the implicit start
			// seed above, regardless of its byte class.
			continue
		}
		return p + 1, true
	}
	return 0, false
}
