package btree

import (
	"bptreeindex/rid"
	"testing"
)

func TestLeafEncodeDecodeRoundTrip(t *testing.T) {
	d := IntDomain
	d.LeafOccupancy = 4

	leaf := newLeaf(d)
	leaf.Keys = []int32{5, 10, 20}
	leaf.Rids = []rid.RecordID{{PageNo: 1, SlotNo: 0}, {PageNo: 1, SlotNo: 1}, {PageNo: 2, SlotNo: 0}}
	leaf.Slot = 3
	leaf.RightSib = 7

	buf := encodeLeaf(d, leaf)
	if len(buf) != pageSize {
		t.Fatalf("encoded leaf must be exactly one page, got %d bytes", len(buf))
	}

	got := decodeLeaf(d, buf)
	if got.Slot != leaf.Slot || got.RightSib != leaf.RightSib {
		t.Fatalf("slot/rightSib mismatch: got %+v, want %+v", got, leaf)
	}
	for i := range leaf.Keys {
		if got.Keys[i] != leaf.Keys[i] {
			t.Errorf("key[%d] = %d, want %d", i, got.Keys[i], leaf.Keys[i])
		}
		if got.Rids[i] != leaf.Rids[i] {
			t.Errorf("rid[%d] = %+v, want %+v", i, got.Rids[i], leaf.Rids[i])
		}
	}
}

func TestNonLeafEncodeDecodeRoundTrip(t *testing.T) {
	d := IntDomain
	d.NodeOccupancy = 3

	n := newNonLeaf(d, 1)
	n.Keys = []int32{10, 20}
	n.Children = []uint32{2, 3, 4}
	n.Slot = 2

	buf := encodeNonLeaf(d, n)
	if len(buf) != pageSize {
		t.Fatalf("encoded non-leaf must be exactly one page, got %d bytes", len(buf))
	}

	got := decodeNonLeaf(d, buf)
	if got.Level != n.Level || got.Slot != n.Slot {
		t.Fatalf("level/slot mismatch: got %+v, want %+v", got, n)
	}
	for i := range n.Keys {
		if got.Keys[i] != n.Keys[i] {
			t.Errorf("key[%d] = %d, want %d", i, got.Keys[i], n.Keys[i])
		}
	}
	for i := range n.Children {
		if got.Children[i] != n.Children[i] {
			t.Errorf("child[%d] = %d, want %d", i, got.Children[i], n.Children[i])
		}
	}
}

func TestMetaEncodeDecodeRoundTrip(t *testing.T) {
	m := indexMetaInfo{
		RelationName:   relationNameBytes("employees"),
		AttrByteOffset: 8,
		AttrType:       Double,
		RootPageNo:     42,
		RootIsLeaf:     true,
	}
	buf := encodeMeta(m)
	if len(buf) != pageSize {
		t.Fatalf("encoded header must be exactly one page, got %d bytes", len(buf))
	}
	got := decodeMeta(buf)
	if got.AttrByteOffset != m.AttrByteOffset || got.AttrType != m.AttrType || got.RootPageNo != m.RootPageNo || got.RootIsLeaf != m.RootIsLeaf {
		t.Fatalf("meta mismatch: got %+v, want %+v", got, m)
	}
	name := string(got.RelationName[:9])
	if name != "employees" {
		t.Fatalf("relation name = %q, want %q", name, "employees")
	}
}
