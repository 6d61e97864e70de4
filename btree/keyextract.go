package btree

import (
	"encoding/binary"
	"fmt"
	"math"

	"bptreeindex/internal/btreeerr"
)

// decodeInt32Key, decodeDoubleKey, and decodeString10Key pull a fixed-width
// key out of a raw heap record at attrByteOffset, interpreted according to
// the index's attrType. NaN is rejected here, before insertEntry's own NaN
// check, so a malformed DOUBLE record never even reaches the tree.

func decodeInt32Key(rec []byte, attrByteOffset int, d Domain[int32]) (int32, error) {
	if attrByteOffset+4 > len(rec) {
		return 0, fmt.Errorf("record too short for INT at offset %d: %w", attrByteOffset, btreeerr.ErrBadIndexInfo)
	}
	return int32(binary.LittleEndian.Uint32(rec[attrByteOffset:])), nil
}

func decodeDoubleKey(rec []byte, attrByteOffset int, d Domain[float64]) (float64, error) {
	if attrByteOffset+8 > len(rec) {
		return 0, fmt.Errorf("record too short for DOUBLE at offset %d: %w", attrByteOffset, btreeerr.ErrBadIndexInfo)
	}
	v := math.Float64frombits(binary.LittleEndian.Uint64(rec[attrByteOffset:]))
	if math.IsNaN(v) {
		return 0, fmt.Errorf("NaN key at offset %d: %w", attrByteOffset, btreeerr.ErrBadIndexInfo)
	}
	return v, nil
}

func decodeString10Key(rec []byte, attrByteOffset int, d Domain[String10]) (String10, error) {
	if attrByteOffset+10 > len(rec) {
		return String10{}, fmt.Errorf("record too short for STRING10 at offset %d: %w", attrByteOffset, btreeerr.ErrBadIndexInfo)
	}
	var k String10
	copy(k[:], rec[attrByteOffset:attrByteOffset+10])
	return k, nil
}
