// Package bytescan provides zero-allocation byte-class membership scans.
//
// It is the shared primitive behind the boundary-aware match iterator's
// seed-class search (internal/fstdb) and the JSON string-literal quote
// scanner (internal/jsonscan): both need "find the next byte in this fixed
// set" without allocating or invoking the regexp engine.
package bytescan

// Table is a 256-entry byte-class membership table, built once and reused
// across every scan call.
type Table [256]bool

// NewTable builds a Table containing every byte in members.
func NewTable(members ...byte) *Table {
	var t Table
	for _, b := range members {
		t[b] = true
	}
	return &t
}

// IndexAny returns the index of the first byte in haystack for which the
// table reports membership, or -1 if none is found.
func (t *Table) IndexAny(haystack []byte) int {
	for i, b := range haystack {
		if t[b] {
			return i
		}
	}
	return -1
}

// IndexNotAny returns the index of the first byte in haystack for which the
// table does NOT report membership, or -1 if every byte is a member.
func (t *Table) IndexNotAny(haystack []byte) int {
	for i, b := range haystack {
		if !t[b] {
			return i
		}
	}
	return -1
}

// Contains reports whether b belongs to the table's byte class.
func (t *Table) Contains(b byte) bool {
	return t[b]
}
