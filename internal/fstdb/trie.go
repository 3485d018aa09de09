package fstdb

import "github.com/erichutchins/fstsed/internal/conv"

// trieBuilder constructs a minimized acyclic byte-keyed automaton from a
// stream of lexicographically sorted keys, using the classic incremental
// construction (Daciuk et al.): as each new key arrives, the suffix of the
// previous key that is not shared with the new key is frozen (deduplicated
// against a register of already-serialized nodes) before the new key's
// suffix is appended. Because every insertion happens in sorted order, a
// node only ever grows its transition table by appending strictly
// increasing input bytes — so transition tables never need re-sorting.
type trieBuilder struct {
	root     *buildNode
	path     []*buildNode // path[0] == root; path[i] is reached after i bytes of prevKey
	prevKey  []byte
	register map[string]uint32 // frozen node signature -> address
	out      []byte            // serialized node region, grows as nodes freeze
	keyCount uint32
}

type buildEdge struct {
	input  byte
	child  *buildNode
	addr   uint32
	frozen bool
}

type buildNode struct {
	final bool
	edges []buildEdge
}

func newTrieBuilder() *trieBuilder {
	root := &buildNode{}
	return &trieBuilder{
		root:     root,
		path:     []*buildNode{root},
		register: make(map[string]uint32),
	}
}

// Insert adds key to the automaton. Keys MUST be supplied in non-decreasing
// lexicographic order; Build sorts its tuples before calling Insert unless
// the caller promises pre-sorted input.
func (b *trieBuilder) Insert(key []byte) {
	common := commonPrefixLen(b.prevKey, key)

	// freeze everything on the path deeper than the shared prefix, child
	// nodes first (they are always deeper in b.path, i.e. processed from
	// the end of the slice backward).
	for i := len(b.path) - 1; i > common; i-- {
		parent := b.path[i-1]
		child := b.path[i]
		addr := b.freeze(child)
		parent.edges[len(parent.edges)-1].addr = addr
		parent.edges[len(parent.edges)-1].frozen = true
	}
	b.path = b.path[:common+1]

	for i := common; i < len(key); i++ {
		child := &buildNode{}
		parent := b.path[len(b.path)-1]
		parent.edges = append(parent.edges, buildEdge{input: key[i], child: child})
		b.path = append(b.path, child)
	}
	b.path[len(b.path)-1].final = true
	b.prevKey = append(b.prevKey[:0], key...)
	b.keyCount++
}

// Finish freezes the remaining path (including the root) and returns the
// serialized node region plus the root's address within it.
func (b *trieBuilder) Finish() (nodes []byte, rootAddr uint32, nodeCount uint32) {
	for i := len(b.path) - 1; i > 0; i-- {
		parent := b.path[i-1]
		child := b.path[i]
		addr := b.freeze(child)
		parent.edges[len(parent.edges)-1].addr = addr
		parent.edges[len(parent.edges)-1].frozen = true
	}
	rootAddr = b.freeze(b.root)
	return b.out, rootAddr, uint32(len(b.register))
}

// freeze serializes node (if an equivalent node has not already been
// serialized) and returns its address. All of node's edges must already be
// resolved (frozen=true) by the caller before freeze is invoked — this
// holds by construction since Insert and Finish always freeze children
// before their parent.
func (b *trieBuilder) freeze(node *buildNode) uint32 {
	sig := nodeSignature(node)
	if addr, ok := b.register[sig]; ok {
		return addr
	}

	// b.out grows without bound as the automaton is built; every address
	// handed out must fit the on-disk uint32 offset, or a large enough
	// corpus would silently wrap and corrupt the automaton.
	addr := conv.Uint64ToUint32(uint64(len(b.out)))
	pending := make([]pendingTransition, len(node.edges))
	for i, e := range node.edges {
		pending[i] = pendingTransition{input: e.input, target: e.addr}
	}
	b.out = encodeNode(b.out, node.final, pending)
	b.register[sig] = addr
	return addr
}

// nodeSignature builds a deduplication key from a node's finality and its
// fully-resolved (input byte, target address) transition list. Two nodes
// with identical signatures lead to identical remaining automaton behavior
// and can safely share a single serialized copy.
func nodeSignature(node *buildNode) string {
	buf := make([]byte, 1+len(node.edges)*5)
	if node.final {
		buf[0] = 1
	}
	for i, e := range node.edges {
		off := 1 + i*5
		buf[off] = e.input
		buf[off+1] = byte(e.addr)
		buf[off+2] = byte(e.addr >> 8)
		buf[off+3] = byte(e.addr >> 16)
		buf[off+4] = byte(e.addr >> 24)
	}
	return string(buf)
}

func commonPrefixLen(a, b []byte) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}
