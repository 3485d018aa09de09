package fstdb

import (
	"unicode/utf8"

	json "github.com/goccy/go-json"
	"github.com/klauspost/compress/zstd"

	"github.com/erichutchins/fstsed/internal/bytescan"
)

// scratch is the engine's mutable working state: the bytes of the most
// recently accepted key, the (still zstd-compressed) bytes of its value,
// and the haystack offset the match started at. It is reset at the start
// of every LongestMatchAt call and partially overwritten on each new
// acceptance within that call (spec.md §3).
type scratch struct {
	keyBuf   []byte
	valueBuf []byte
	start    int
	matched  bool
}

// EngineOptions configures an Engine. RequiresJSON should be set whenever
// the active template references any field beyond "key"/"value", so that
// GetMatch knows to pay the cost of parsing the decompressed value as JSON.
type EngineOptions struct {
	RequiresJSON bool
}

// Engine walks a single FST to find and render matches. An Engine owns its
// scratch exclusively: it must not be used from two goroutines at once, and
// its FindIter iterator borrows it for the iterator's entire lifetime
// (spec.md §5) — there is no runtime borrow tracking, just the convention
// that callers finish reading one match (via GetMatch) before advancing to
// the next.
type Engine struct {
	fst          *FST
	sc           scratch
	requiresJSON bool
	zr           *zstd.Decoder
}

// NewEngine constructs an Engine over fst.
func NewEngine(fst *FST, opts EngineOptions) (*Engine, error) {
	zr, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	return &Engine{
		fst:          fst,
		requiresJSON: opts.RequiresJSON,
		zr:           zr,
		sc: scratch{
			keyBuf:   make([]byte, 0, 256),
			valueBuf: make([]byte, 0, 2048),
		},
	}, nil
}

// Close releases the engine's zstd decoder.
func (e *Engine) Close() {
	e.zr.Close()
}

// maxValueChainSteps bounds the walk down the post-sentinel value chain, so
// a corrupt or adversarially crafted database cannot hang the engine even
// though the chain is supposed to be strictly linear (spec.md §9).
const maxValueChainSteps = 64 << 20

// LongestMatch is LongestMatchAt(text, 0).
func (e *Engine) LongestMatch(text []byte) (int, bool) {
	return e.LongestMatchAt(text, 0)
}

// LongestMatchAt attempts to match the longest stored key that is a prefix
// of text[start:] and is immediately followed by either end-of-slice or a
// non-word boundary byte. On success it returns the match length and
// updates the scratch; on failure it returns (0, false) and the scratch is
// cleared (spec.md §4.3).
func (e *Engine) LongestMatchAt(text []byte, start int) (int, bool) {
	e.sc.keyBuf = e.sc.keyBuf[:0]
	e.sc.valueBuf = e.sc.valueBuf[:0]
	e.sc.matched = false
	e.sc.start = start

	node, err := e.fst.root()
	if err != nil {
		return 0, false
	}

	lastMatchLen := -1

	for i := start; i < len(text); i++ {
		idx, ok := node.findInput(text[i])
		if !ok {
			break
		}
		next, err := e.fst.nodeAt(node.trans[idx].target)
		if err != nil {
			break
		}
		node = next

		if sIdx, ok := node.findInput(Sentinel); ok {
			nextPos := i + 1
			accepted := nextPos >= len(text) || bytescan.IsBoundary(text[nextPos])
			if accepted {
				e.acceptCandidate(text, start, i, node.trans[sIdx].target)
				lastMatchLen = i + 1 - start
			}
		}
	}

	if lastMatchLen < 0 {
		e.sc.matched = false
		return 0, false
	}
	return lastMatchLen, true
}

// acceptCandidate records a newly-accepted candidate key into scratch and
// walks the deterministic value chain following the sentinel transition.
func (e *Engine) acceptCandidate(text []byte, start, end int, sentinelTarget uint32) {
	e.sc.keyBuf = append(e.sc.keyBuf[:0], text[start:end+1]...)
	e.sc.valueBuf = e.sc.valueBuf[:0]
	e.sc.start = start
	e.sc.matched = true

	node, err := e.fst.nodeAt(sentinelTarget)
	if err != nil {
		return
	}
	for steps := 0; !node.final && steps < maxValueChainSteps; steps++ {
		if len(node.trans) == 0 {
			break
		}
		// The chain is guaranteed non-branching for a well-formed
		// database; transitions[0] is the only (or lexicographically
		// first, for duplicate-key inputs — spec.md §9) continuation.
		t := node.trans[0]
		e.sc.valueBuf = append(e.sc.valueBuf, t.input)
		next, err := e.fst.nodeAt(t.target)
		if err != nil {
			break
		}
		node = next
	}
}

// GetMatchStart returns the haystack offset of the current match.
func (e *Engine) GetMatchStart() int { return e.sc.start }

// GetMatchLen returns the byte length of the current match's key.
func (e *Engine) GetMatchLen() int { return len(e.sc.keyBuf) }

// GetMatch decompresses the current scratch value and constructs a
// renderable Match view, lazily parsing it as JSON only if the engine was
// constructed with RequiresJSON.
func (e *Engine) GetMatch() *Match {
	m := &Match{key: append([]byte(nil), e.sc.keyBuf...)}

	decompressed, err := e.zr.DecodeAll(e.sc.valueBuf, nil)
	if err != nil {
		m.valueState = valueDecompressError
		return m
	}
	m.value = decompressed
	if !utf8.Valid(decompressed) {
		m.valueState = valueUTF8Error
		return m
	}
	m.valueState = valueOK

	if e.requiresJSON {
		var v any
		if json.Unmarshal(decompressed, &v) == nil {
			m.jsonValue = v
			m.jsonOK = true
		}
	}
	return m
}
