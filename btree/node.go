package btree

import (
	"encoding/binary"

	"bptreeindex/internal/pageio"
	"bptreeindex/rid"
)

// pageSize is the node layout's target: every LeafNode/NonLeafNode must
// encode into no more than this many bytes, which is what bounds each
// domain's occupancy.
const pageSize = pageio.PageSize

// LeafNode is the in-memory form of a leaf page.
type LeafNode[K any] struct {
	Slot     int32
	Keys     []K
	Rids     []rid.RecordID
	RightSib uint32
}

// NonLeafNode is the in-memory form of a non-leaf page.
type NonLeafNode[K any] struct {
	Level    int32
	Slot     int32
	Keys     []K
	Children []uint32
}

func newLeaf[K any](d Domain[K]) *LeafNode[K] {
	return &LeafNode[K]{
		Keys: make([]K, 0, d.LeafOccupancy),
		Rids: make([]rid.RecordID, 0, d.LeafOccupancy),
	}
}

func newNonLeaf[K any](d Domain[K], level int32) *NonLeafNode[K] {
	return &NonLeafNode[K]{
		Level:    level,
		Keys:     make([]K, 0, d.NodeOccupancy),
		Children: make([]uint32, 0, d.NodeOccupancy+1),
	}
}

// encodeLeaf serializes n into a fresh pageSize-byte buffer:
// [ slot int32 ][ keyArray ][ ridArray ][ rightSibPageNo uint32 ].
func encodeLeaf[K any](d Domain[K], n *LeafNode[K]) []byte {
	buf := make([]byte, pageSize)
	binary.LittleEndian.PutUint32(buf[0:], uint32(n.Slot))
	off := 4
	for i := 0; i < int(n.Slot); i++ {
		d.Encode(n.Keys[i], buf[off+i*d.KeySize:])
	}
	off += d.LeafOccupancy * d.KeySize
	for i := 0; i < int(n.Slot); i++ {
		r := n.Rids[i]
		binary.LittleEndian.PutUint32(buf[off+i*ridSize:], r.PageNo)
		binary.LittleEndian.PutUint32(buf[off+i*ridSize+4:], r.SlotNo)
	}
	off += d.LeafOccupancy * ridSize
	binary.LittleEndian.PutUint32(buf[off:], n.RightSib)
	return buf
}

// decodeLeaf parses a pageSize-byte buffer written by encodeLeaf.
func decodeLeaf[K any](d Domain[K], buf []byte) *LeafNode[K] {
	n := newLeaf(d)
	n.Slot = int32(binary.LittleEndian.Uint32(buf[0:]))
	off := 4
	for i := 0; i < int(n.Slot); i++ {
		n.Keys = append(n.Keys, d.Decode(buf[off+i*d.KeySize:]))
	}
	off += d.LeafOccupancy * d.KeySize
	for i := 0; i < int(n.Slot); i++ {
		n.Rids = append(n.Rids, rid.RecordID{
			PageNo: binary.LittleEndian.Uint32(buf[off+i*ridSize:]),
			SlotNo: binary.LittleEndian.Uint32(buf[off+i*ridSize+4:]),
		})
	}
	off += d.LeafOccupancy * ridSize
	n.RightSib = binary.LittleEndian.Uint32(buf[off:])
	return n
}

// encodeNonLeaf serializes n into a fresh pageSize-byte buffer:
// [ level int32 ][ slot int32 ][ keyArray ][ pageNoArray ].
func encodeNonLeaf[K any](d Domain[K], n *NonLeafNode[K]) []byte {
	buf := make([]byte, pageSize)
	binary.LittleEndian.PutUint32(buf[0:], uint32(n.Level))
	binary.LittleEndian.PutUint32(buf[4:], uint32(n.Slot))
	off := 8
	for i := 0; i < int(n.Slot); i++ {
		d.Encode(n.Keys[i], buf[off+i*d.KeySize:])
	}
	off += d.NodeOccupancy * d.KeySize
	for i := 0; i <= int(n.Slot); i++ {
		binary.LittleEndian.PutUint32(buf[off+i*pageIDSize:], n.Children[i])
	}
	return buf
}

// decodeNonLeaf parses a pageSize-byte buffer written by encodeNonLeaf.
func decodeNonLeaf[K any](d Domain[K], buf []byte) *NonLeafNode[K] {
	n := newNonLeaf(d, int32(binary.LittleEndian.Uint32(buf[0:])))
	n.Slot = int32(binary.LittleEndian.Uint32(buf[4:]))
	off := 8
	for i := 0; i < int(n.Slot); i++ {
		n.Keys = append(n.Keys, d.Decode(buf[off+i*d.KeySize:]))
	}
	off += d.NodeOccupancy * d.KeySize
	for i := 0; i <= int(n.Slot); i++ {
		n.Children = append(n.Children, binary.LittleEndian.Uint32(buf[off+i*pageIDSize:]))
	}
	return n
}
