package btree

// splitLeaf divides an overflowed leaf in two, keeping the lower half in
// place and writing the upper half to a freshly allocated page. The
// separator returned to the caller is a copy of the right half's first
// key, which also stays in the right leaf, since leaves hold every key.
func (idx *genericIndex[K]) splitLeaf(pageNo uint32, leaf *LeafNode[K]) (uint32, *LeafNode[K], K, error) {
	var zero K
	mid := int(leaf.Slot) / 2

	right := newLeaf(idx.d)
	right.Keys = append(right.Keys, leaf.Keys[mid:]...)
	right.Rids = append(right.Rids, leaf.Rids[mid:]...)
	right.Slot = int32(len(right.Keys))
	right.RightSib = leaf.RightSib

	leaf.Keys = leaf.Keys[:mid]
	leaf.Rids = leaf.Rids[:mid]
	leaf.Slot = int32(mid)

	rightPageNo, rightFrame, err := idx.bm.AllocPage(idx.file)
	if err != nil {
		return 0, nil, zero, err
	}
	leaf.RightSib = rightPageNo

	copy(rightFrame.Data, encodeLeaf(idx.d, right))
	if err := idx.bm.UnpinPage(idx.file, rightPageNo, true); err != nil {
		return 0, nil, zero, err
	}
	if err := writeLeaf(idx.bm, idx.file, idx.d, pageNo, leaf); err != nil {
		return 0, nil, zero, err
	}
	return rightPageNo, right, right.Keys[0], nil
}

// splitNonLeaf divides an overflowed non-leaf node in two. The middle key
// is promoted to the caller as the new separator and is not duplicated
// into either the left or the right child's key array, fixing the
// double-counted middle key that a straight port of the original split
// routine would otherwise carry over (spec §4.3.2).
func (idx *genericIndex[K]) splitNonLeaf(pageNo uint32, n *NonLeafNode[K]) (uint32, *NonLeafNode[K], K, error) {
	var zero K
	mid := int(n.Slot) / 2
	sep := n.Keys[mid]

	right := newNonLeaf(idx.d, n.Level)
	right.Keys = append(right.Keys, n.Keys[mid+1:]...)
	right.Children = append(right.Children, n.Children[mid+1:]...)
	right.Slot = int32(len(right.Keys))

	n.Keys = n.Keys[:mid]
	n.Children = n.Children[:mid+1]
	n.Slot = int32(mid)

	rightPageNo, rightFrame, err := idx.bm.AllocPage(idx.file)
	if err != nil {
		return 0, nil, zero, err
	}
	copy(rightFrame.Data, encodeNonLeaf(idx.d, right))
	if err := idx.bm.UnpinPage(idx.file, rightPageNo, true); err != nil {
		return 0, nil, zero, err
	}
	if err := writeNonLeaf(idx.bm, idx.file, idx.d, pageNo, n); err != nil {
		return 0, nil, zero, err
	}
	return rightPageNo, right, sep, nil
}
