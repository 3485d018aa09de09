// Package conv provides safe integer conversion helpers for the FST node
// and file-offset encodings.
//
// The on-disk automaton (internal/fstdb) addresses every node and buffer
// length with a fixed uint32, so every narrowing conversion on the build
// path must be checked: a corpus large enough to overflow uint32 addressing
// must fail loudly at build time rather than silently wrap and corrupt the
// automaton.
package conv

import "math"

// IntToUint32 safely converts an int to uint32.
// Panics if n < 0 or n > math.MaxUint32.
func IntToUint32(n int) uint32 {
	// Use uint for comparison to avoid overflow on 32-bit platforms
	// where int cannot represent math.MaxUint32
	if n < 0 || uint(n) > math.MaxUint32 {
		panic("fstdb: integer overflow converting int to uint32")
	}
	return uint32(n)
}

// Uint64ToUint32 safely converts a uint64 byte offset to uint32.
// Panics if n > math.MaxUint32.
func Uint64ToUint32(n uint64) uint32 {
	if n > math.MaxUint32 {
		panic("fstdb: integer overflow converting uint64 offset to uint32")
	}
	return uint32(n)
}
