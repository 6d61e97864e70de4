package btree

import "bptreeindex/internal/bufmgr"
import "bptreeindex/internal/pageio"

// readLeaf and readNonLeaf pin the given page, decode it, and unpin it
// immediately: the btree package keeps nodes as plain Go values between
// calls rather than holding pages pinned across a whole descent, per the
// explicit ancestor-path-stack design of descendToLeaf in insert.go.

func readLeaf[K any](bm *bufmgr.Manager, file *pageio.File, d Domain[K], pageNo uint32) (*LeafNode[K], error) {
	frame, err := bm.ReadPage(file, pageNo)
	if err != nil {
		return nil, err
	}
	n := decodeLeaf(d, frame.Data)
	if err := bm.UnpinPage(file, pageNo, false); err != nil {
		return nil, err
	}
	return n, nil
}

func readNonLeaf[K any](bm *bufmgr.Manager, file *pageio.File, d Domain[K], pageNo uint32) (*NonLeafNode[K], error) {
	frame, err := bm.ReadPage(file, pageNo)
	if err != nil {
		return nil, err
	}
	n := decodeNonLeaf(d, frame.Data)
	if err := bm.UnpinPage(file, pageNo, false); err != nil {
		return nil, err
	}
	return n, nil
}

func writeLeaf[K any](bm *bufmgr.Manager, file *pageio.File, d Domain[K], pageNo uint32, n *LeafNode[K]) error {
	frame, err := bm.ReadPage(file, pageNo)
	if err != nil {
		return err
	}
	copy(frame.Data, encodeLeaf(d, n))
	return bm.UnpinPage(file, pageNo, true)
}

func writeNonLeaf[K any](bm *bufmgr.Manager, file *pageio.File, d Domain[K], pageNo uint32, n *NonLeafNode[K]) error {
	frame, err := bm.ReadPage(file, pageNo)
	if err != nil {
		return err
	}
	copy(frame.Data, encodeNonLeaf(d, n))
	return bm.UnpinPage(file, pageNo, true)
}

// Leaf and non-leaf pages carry no type tag: both layouts begin with a
// 4-byte int32 (leaf: slot count; non-leaf: level), so the tree tracks
// leaf/non-leaf status structurally via the path walked from the header's
// RootIsLeaf flag and each visited non-leaf's Level, never by peeking at
// page bytes alone.
