// Package fstdb implements the on-disk finite-state transducer database and
// the longest-match walking engine that reads it.
//
// A database is a sorted set of byte strings of the form
//
//	K || SENTINEL || ZSTD(line)
//
// where K is a key's raw bytes (never containing SENTINEL), and the
// compressed original source line follows the sentinel as a deterministic,
// non-branching chain of single-byte transitions. The automaton is a
// minimized acyclic byte-keyed trie: built once from sorted tuples,
// serialized to a flat node array, and opened read-only via mmap for
// matching. No locking is needed at match time because the file is never
// mutated after Build returns.
package fstdb

// Sentinel is the byte separating a stored key from its compressed value.
// Keys may never contain this byte.
const Sentinel byte = 0x00
