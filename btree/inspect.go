package btree

import (
	"fmt"

	"bptreeindex/internal/bufmgr"
	"bptreeindex/internal/pageio"
)

// InspectIndexFile opens an index file read-only and prints its header,
// root page, and a walk of the leaf chain, for ad hoc debugging. It is
// not part of the Index API and is never called by InsertEntry/StartScan.
func InspectIndexFile(path string) error {
	file, err := pageio.Open(path)
	if err != nil {
		return fmt.Errorf("inspect %s: %w", path, err)
	}
	defer file.Close()

	bm, err := bufmgr.New(64)
	if err != nil {
		return fmt.Errorf("inspect %s: %w", path, err)
	}
	defer bm.Close()

	frame, err := bm.ReadPage(file, 0)
	if err != nil {
		return fmt.Errorf("inspect %s: read header: %w", path, err)
	}
	meta := decodeMeta(frame.Data)
	if err := bm.UnpinPage(file, 0, false); err != nil {
		return err
	}

	relName := string(meta.RelationName[:])
	for i, b := range meta.RelationName {
		if b == 0 {
			relName = string(meta.RelationName[:i])
			break
		}
	}

	fmt.Printf("index %s\n", path)
	fmt.Printf("  relation:       %s\n", relName)
	fmt.Printf("  attrByteOffset: %d\n", meta.AttrByteOffset)
	fmt.Printf("  attrType:       %s\n", meta.AttrType)
	fmt.Printf("  rootPageNo:     %d\n", meta.RootPageNo)
	fmt.Printf("  rootIsLeaf:     %t\n", meta.RootIsLeaf)
	fmt.Printf("  numPages:       %d\n", file.NumPages())

	switch meta.AttrType {
	case Integer:
		return walkLeafChain(bm, file, IntDomain, meta)
	case Double:
		return walkLeafChain(bm, file, DoubleDomain, meta)
	case String:
		return walkLeafChain(bm, file, String10Domain, meta)
	default:
		return fmt.Errorf("inspect %s: unknown attrType %d", path, meta.AttrType)
	}
}

func walkLeafChain[K any](bm *bufmgr.Manager, file *pageio.File, d Domain[K], meta indexMetaInfo) error {
	pageNo := meta.RootPageNo
	isLeaf := meta.RootIsLeaf
	depth := 0
	for !isLeaf {
		n, err := readNonLeaf(bm, file, d, pageNo)
		if err != nil {
			return err
		}
		pageNo = n.Children[0]
		isLeaf = n.Level == 1
		depth++
	}
	fmt.Printf("  tree depth:     %d non-leaf level(s) above the leaves\n", depth)

	var leafCount, entryCount int
	for pageNo != 0 {
		leaf, err := readLeaf(bm, file, d, pageNo)
		if err != nil {
			return err
		}
		leafCount++
		entryCount += int(leaf.Slot)
		pageNo = leaf.RightSib
	}
	fmt.Printf("  leaf pages:     %d\n", leafCount)
	fmt.Printf("  total entries:  %d\n", entryCount)
	return nil
}
