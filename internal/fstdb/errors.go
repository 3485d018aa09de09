package fstdb

import "errors"

// Sentinel errors returned by database build and open operations.
var (
	// ErrExists is returned by Build when the output path already exists.
	ErrExists = errors.New("fstdb: output path already exists")

	// ErrCorrupt is returned by Open when the file's header or node region
	// fails basic structural validation.
	ErrCorrupt = errors.New("fstdb: corrupt or unrecognized database file")

	// ErrNoKeyField is returned by Build for a JSONL record where the
	// configured key selector produced no value, or a non-string value.
	ErrNoKeyField = errors.New("fstdb: key selector matched no string field")

	// ErrSentinelInKey is returned by Build when an extracted key contains
	// the sentinel byte, which would corrupt the record boundary.
	ErrSentinelInKey = errors.New("fstdb: key contains the sentinel byte")
)
