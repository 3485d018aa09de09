package fstdb

import (
	"strings"
	"unicode/utf8"

	"github.com/erichutchins/fstsed/internal/jsonptr"
)

type valueState int

const (
	valueOK valueState = iota
	valueDecompressError
	valueUTF8Error
)

// Match is a renderable view over one accepted match: the matched key, its
// decompressed value, and (lazily, only if requested) the value parsed as
// JSON for field/pointer lookups. UTF-8 and decompression failures never
// abort the scan; they render as the sentinel strings spec.md §7 specifies.
type Match struct {
	key        []byte
	value      []byte
	valueState valueState
	jsonValue  any
	jsonOK     bool
}

// Key returns the matched key as UTF-8, or the sentinel "<keyerror>" if the
// matched bytes are not valid UTF-8.
func (m *Match) Key() string {
	if !utf8.Valid(m.key) {
		return "<keyerror>"
	}
	return string(m.key)
}

// Value returns the decompressed value as UTF-8, or a sentinel string if
// decompression failed or the result is not valid UTF-8.
func (m *Match) Value() string {
	switch m.valueState {
	case valueDecompressError:
		return "<decompressionerror>"
	case valueUTF8Error:
		return "<valueerror>"
	default:
		return string(m.value)
	}
}

// Field resolves a template placeholder name against this match: "key" is
// the matched key and "value" the decompressed record; anything else is a JSON-pointer lookup
// (for names starting with "/") or a top-level field lookup into the
// lazily-parsed JSON value. Missing or non-string fields render empty.
func (m *Match) Field(name string) string {
	switch name {
	case "key":
		return m.Key()
	case "value":
		return m.Value()
	}
	if !m.jsonOK {
		return ""
	}
	if strings.HasPrefix(name, "/") {
		s, _ := jsonptr.Lookup(m.jsonValue, name)
		return s
	}
	s, _ := jsonptr.TopLevel(m.jsonValue, name)
	return s
}
