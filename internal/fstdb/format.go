package fstdb

import (
	"encoding/binary"

	"github.com/erichutchins/fstsed/internal/conv"
)

// On-disk layout:
//
//	offset 0:  magic       [4]byte  "FSED"
//	offset 4:  version     uint8
//	offset 5:  reserved    [3]byte
//	offset 8:  rootAddr    uint32   (offset into the node region)
//	offset 12: nodeCount   uint32   (diagnostic only)
//	offset 16: keyCount    uint32   (diagnostic only)
//	offset 20: reserved    [4]byte
//	offset 24: node region begins
//
// A node record within the node region:
//
//	final       uint8    (0 or 1)
//	numTrans    uint16
//	transitions [numTrans](inputByte uint8, targetAddr uint32)
var magic = [4]byte{'F', 'S', 'E', 'D'}

const formatVersion = 1

const headerSize = 24

const transitionSize = 1 + 4 // input byte + uint32 target address

// header mirrors the fixed-size file prologue above.
type header struct {
	rootAddr  uint32
	nodeCount uint32
	keyCount  uint32
}

func encodeHeader(h header) []byte {
	buf := make([]byte, headerSize)
	copy(buf[0:4], magic[:])
	buf[4] = formatVersion
	binary.LittleEndian.PutUint32(buf[8:12], h.rootAddr)
	binary.LittleEndian.PutUint32(buf[12:16], h.nodeCount)
	binary.LittleEndian.PutUint32(buf[16:20], h.keyCount)
	return buf
}

func decodeHeader(data []byte) (header, error) {
	if len(data) < headerSize {
		return header{}, ErrCorrupt
	}
	if [4]byte(data[0:4]) != magic {
		return header{}, ErrCorrupt
	}
	if data[4] != formatVersion {
		return header{}, ErrCorrupt
	}
	return header{
		rootAddr:  binary.LittleEndian.Uint32(data[8:12]),
		nodeCount: binary.LittleEndian.Uint32(data[12:16]),
		keyCount:  binary.LittleEndian.Uint32(data[16:20]),
	}, nil
}

// transition is a single decoded (inputByte, targetAddr) edge.
type transition struct {
	input  byte
	target uint32
}

// decodedNode is a node's decoded transition table, sorted ascending by
// input byte (guaranteed by construction: buildNode transitions are only
// ever appended in increasing byte order because Build inserts its tuples
// in sorted order).
type decodedNode struct {
	final bool
	trans []transition
}

// decodeNodeAt reads the node record starting at byte offset addr within
// the node region nodes.
func decodeNodeAt(nodes []byte, addr uint32) (decodedNode, error) {
	if int(addr)+3 > len(nodes) {
		return decodedNode{}, ErrCorrupt
	}
	final := nodes[addr] != 0
	numTrans := binary.LittleEndian.Uint16(nodes[addr+1 : addr+3])
	start := int(addr) + 3
	need := int(numTrans) * transitionSize
	if start+need > len(nodes) {
		return decodedNode{}, ErrCorrupt
	}
	trans := make([]transition, numTrans)
	for i := range trans {
		off := start + i*transitionSize
		trans[i] = transition{
			input:  nodes[off],
			target: binary.LittleEndian.Uint32(nodes[off+1 : off+5]),
		}
	}
	return decodedNode{final: final, trans: trans}, nil
}

// findInput returns the index of the transition on input byte b, using
// binary search since transitions are stored sorted ascending.
func (n decodedNode) findInput(b byte) (int, bool) {
	lo, hi := 0, len(n.trans)
	for lo < hi {
		mid := (lo + hi) / 2
		switch {
		case n.trans[mid].input == b:
			return mid, true
		case n.trans[mid].input < b:
			lo = mid + 1
		default:
			hi = mid
		}
	}
	return 0, false
}

// encodeNode appends a node record to buf and returns the updated buffer.
// The node's address is len(buf) as it was before the call.
func encodeNode(buf []byte, final bool, trans []pendingTransition) []byte {
	var finalByte byte
	if final {
		finalByte = 1
	}
	buf = append(buf, finalByte)

	n := conv.IntToUint32(len(trans))
	buf = binary.LittleEndian.AppendUint16(buf, uint16(n))

	for _, t := range trans {
		buf = append(buf, t.input)
		buf = binary.LittleEndian.AppendUint32(buf, t.target)
	}
	return buf
}

// pendingTransition is a fully-resolved (child already frozen) transition
// awaiting serialization.
type pendingTransition struct {
	input  byte
	target uint32
}
