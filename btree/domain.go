package btree

import (
	"bytes"
	"encoding/binary"
	"math"
)

// AttrType tags which of the three key domains an index was built over.
type AttrType byte

const (
	Integer AttrType = 0
	Double  AttrType = 1
	String  AttrType = 2
)

func (t AttrType) String() string {
	switch t {
	case Integer:
		return "INTEGER"
	case Double:
		return "DOUBLE"
	case String:
		return "STRING"
	default:
		return "UNKNOWN"
	}
}

// String10 is the fixed-width, zero-padded/truncated 10-byte string key.
type String10 [10]byte

// NewString10 zero-pads s if shorter than 10 bytes, or truncates it to the
// first 10 bytes if longer.
func NewString10(s string) String10 {
	var k String10
	copy(k[:], s)
	return k
}

// Domain binds a key type K to its on-disk width, per-page occupancy, and
// ordering/codec — a single capability struct, dispatched
// once at Open and bound for the index's lifetime rather than
// tag-switched on every comparison.
type Domain[K any] struct {
	Type          AttrType
	KeySize       int
	LeafOccupancy int
	NodeOccupancy int
	Compare       func(a, b K) int
	Encode        func(k K, buf []byte)
	Decode        func(buf []byte) K
}

// Occupancies are derived so that sizeof(LeafNode) and sizeof(NonLeafNode)
// each fit within one pageio.PageSize (4096-byte) page: leaf overhead is
// 8 bytes (slot int32 + rightSib uint32) plus N*(keySize+ridSize); non-leaf
// overhead is 8 bytes (level + slot int32s) plus N*keySize + (N+1)*4.
const ridSize = 8 // RecordID: PageNo uint32 + SlotNo uint32
const pageIDSize = 4

func leafOccupancyFor(keySize, pageSize int) int {
	return (pageSize - 8) / (keySize + ridSize)
}

func nodeOccupancyFor(keySize, pageSize int) int {
	return (pageSize - 8 - pageIDSize) / (keySize + pageIDSize)
}

// IntDomain is the INT key domain: signed 32-bit two's-complement keys.
var IntDomain = Domain[int32]{
	Type:          Integer,
	KeySize:       4,
	LeafOccupancy: leafOccupancyFor(4, pageSize),
	NodeOccupancy: nodeOccupancyFor(4, pageSize),
	Compare: func(a, b int32) int {
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		default:
			return 0
		}
	},
	Encode: func(k int32, buf []byte) { binary.LittleEndian.PutUint32(buf, uint32(k)) },
	Decode: func(buf []byte) int32 { return int32(binary.LittleEndian.Uint32(buf)) },
}

// DoubleDomain is the DOUBLE key domain: IEEE-754 total order, NaN
// excluded. InsertEntry rejects NaN keys explicitly rather than silently
// misordering the tree.
var DoubleDomain = Domain[float64]{
	Type:          Double,
	KeySize:       8,
	LeafOccupancy: leafOccupancyFor(8, pageSize),
	NodeOccupancy: nodeOccupancyFor(8, pageSize),
	Compare: func(a, b float64) int {
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		default:
			return 0
		}
	},
	Encode: func(k float64, buf []byte) { binary.LittleEndian.PutUint64(buf, math.Float64bits(k)) },
	Decode: func(buf []byte) float64 { return math.Float64frombits(binary.LittleEndian.Uint64(buf)) },
}

// String10Domain is the STRING key domain: lexicographic byte comparison
// over the 10-byte zero-padded buffer.
var String10Domain = Domain[String10]{
	Type:          String,
	KeySize:       10,
	LeafOccupancy: leafOccupancyFor(10, pageSize),
	NodeOccupancy: nodeOccupancyFor(10, pageSize),
	Compare:       func(a, b String10) int { return bytes.Compare(a[:], b[:]) },
	Encode:        func(k String10, buf []byte) { copy(buf, k[:]) },
	Decode: func(buf []byte) String10 {
		var k String10
		copy(k[:], buf[:10])
		return k
	},
}
