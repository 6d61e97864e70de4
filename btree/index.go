// Package btree implements the on-disk B+ tree index described by the
// index builder: fixed-width pages, three key domains (INT, DOUBLE,
// STRING10), sorted-leaf insertion with split-up-the-spine growth, and a
// three-state range scan. It is grounded on DaemonDB's
// storage_engine/access/indexfile_manager/bplustree package (root
// persistence via a header page, pinned-leaf iteration) and on
// DaemonDB's top-level bplustree package (recursive split-and-promote
// insertion), generalized from DaemonDB's single hardcoded key type to
// the three domains via the Domain[K] capability in domain.go.
package btree

import (
	"fmt"

	"bptreeindex/internal/blobfile"
	"bptreeindex/internal/bufmgr"
	"bptreeindex/internal/btreeerr"
	"bptreeindex/internal/pageio"
	"bptreeindex/internal/relation"
	"bptreeindex/rid"
)

// IndexFileName derives the on-disk file name for the index built over
// attrByteOffset of relationName, so callers and cmd/buildindex agree on
// where an index lives without hardcoding the convention twice.
func IndexFileName(relationName string, attrByteOffset int) string {
	return fmt.Sprintf("%s.%d", relationName, attrByteOffset)
}

// Index is the public surface of an open B+ tree index. Keys cross this
// boundary as `any` and are type-asserted to the bound Domain[K] once, at
// the edge; everything below InsertEntry/StartScan runs fully typed.
type Index interface {
	InsertEntry(key any, r rid.RecordID) error
	StartScan(lowKey any, lowOp Op, highKey any, highOp Op) error
	ScanNext() (rid.RecordID, error)
	EndScan() error
	Close() error
}

// genericIndex is the single implementation of Index, parameterized over
// the bound key type. All three domains (IntDomain, DoubleDomain,
// String10Domain) produce a genericIndex[int32], genericIndex[float64],
// or genericIndex[String10] respectively.
type genericIndex[K any] struct {
	d    Domain[K]
	blob *blobfile.BlobFile
	file *pageio.File
	bm   *bufmgr.Manager
	meta indexMetaInfo

	scan genericScan[K]
}

// Open implements the build-or-open contract: if the index file already
// exists it is opened, its header's attrType and attrByteOffset are checked
// against the arguments (ErrBadIndexInfo on a mismatch), and its root page
// and leaf flag are used as stored; otherwise a
// fresh index is built by scanning relationName's heap file once,
// extracting the key at attrByteOffset of type attrType from every
// record, and inserting it.
func Open(dir, relationName string, attrByteOffset int, attrType AttrType, bm *bufmgr.Manager) (Index, error) {
	switch attrType {
	case Integer:
		return openTyped(dir, relationName, attrByteOffset, IntDomain, bm, decodeInt32Key)
	case Double:
		return openTyped(dir, relationName, attrByteOffset, DoubleDomain, bm, decodeDoubleKey)
	case String:
		return openTyped(dir, relationName, attrByteOffset, String10Domain, bm, decodeString10Key)
	default:
		return nil, fmt.Errorf("btree: open %s: attrType %d: %w", relationName, attrType, btreeerr.ErrBadIndexInfo)
	}
}

func openTyped[K any](dir, relationName string, attrByteOffset int, d Domain[K], bm *bufmgr.Manager, extract func([]byte, int, Domain[K]) (K, error)) (Index, error) {
	name := IndexFileName(relationName, attrByteOffset)

	if blobfile.Exists(dir, name) {
		blob, err := blobfile.Open(dir, name)
		if err != nil {
			return nil, fmt.Errorf("btree: open %s: %w", name, err)
		}
		file := blob.File()
		frame, err := bm.ReadPage(file, 0)
		if err != nil {
			blob.Close()
			return nil, fmt.Errorf("btree: read header %s: %w", name, err)
		}
		meta := decodeMeta(frame.Data)
		if err := bm.UnpinPage(file, 0, false); err != nil {
			blob.Close()
			return nil, err
		}
		if meta.AttrType != d.Type || int(meta.AttrByteOffset) != attrByteOffset {
			blob.Close()
			return nil, fmt.Errorf("btree: %s: %w", name, btreeerr.ErrBadIndexInfo)
		}
		idx := &genericIndex[K]{d: d, blob: blob, file: file, bm: bm, meta: meta}
		idx.scan.state = scanIdle
		return idx, nil
	}

	blob, err := blobfile.Create(dir, name)
	if err != nil {
		return nil, fmt.Errorf("btree: create %s: %w", name, err)
	}
	file := blob.File()
	headerPageNo, headerFrame, err := bm.AllocPage(file) // page 0: header, filled in below
	if err != nil {
		blob.Close()
		return nil, err
	}
	rootPageNo, rootFrame, err := bm.AllocPage(file) // page 1: empty root leaf
	if err != nil {
		blob.Close()
		return nil, err
	}
	copy(rootFrame.Data, encodeLeaf(d, newLeaf(d)))
	if err := bm.UnpinPage(file, rootPageNo, true); err != nil {
		blob.Close()
		return nil, err
	}

	meta := indexMetaInfo{
		RelationName:   relationNameBytes(relationName),
		AttrByteOffset: int32(attrByteOffset),
		AttrType:       d.Type,
		RootPageNo:     rootPageNo,
		RootIsLeaf:     true,
	}
	copy(headerFrame.Data, encodeMeta(meta))
	if err := bm.UnpinPage(file, headerPageNo, true); err != nil {
		blob.Close()
		return nil, err
	}

	idx := &genericIndex[K]{d: d, blob: blob, file: file, bm: bm, meta: meta}
	idx.scan.state = scanIdle

	if err := idx.buildFromRelation(dir, relationName, attrByteOffset, extract); err != nil {
		blob.Close()
		return nil, err
	}
	if err := bm.FlushFile(file); err != nil {
		blob.Close()
		return nil, err
	}
	return idx, nil
}

// buildFromRelation streams every record of relationName's heap file and
// inserts the extracted key, building a fresh index by scanning the
// relation once.
func (idx *genericIndex[K]) buildFromRelation(dir, relationName string, attrByteOffset int, extract func([]byte, int, Domain[K]) (K, error)) error {
	rel, err := relation.Open(dir, relationName, idx.bm)
	if err != nil {
		return fmt.Errorf("btree: build index: %w", err)
	}
	defer rel.Close()

	var r rid.RecordID
	for {
		if err := rel.ScanNext(&r); err != nil {
			if err == btreeerr.ErrEndOfFile {
				return nil
			}
			return fmt.Errorf("btree: build index: scan: %w", err)
		}
		key, err := extract(rel.GetRecord(), attrByteOffset, idx.d)
		if err != nil {
			return fmt.Errorf("btree: build index: %w", err)
		}
		if err := idx.insertEntry(key, r); err != nil {
			return fmt.Errorf("btree: build index: insert: %w", err)
		}
	}
}

func writeMeta(bm *bufmgr.Manager, file *pageio.File, meta indexMetaInfo) error {
	frame, err := bm.ReadPage(file, 0)
	if err != nil {
		return err
	}
	copy(frame.Data, encodeMeta(meta))
	return bm.UnpinPage(file, 0, true)
}

// InsertEntry implements the public Index method, type-asserting key
// down to K once at the boundary.
func (idx *genericIndex[K]) InsertEntry(key any, r rid.RecordID) error {
	k, ok := key.(K)
	if !ok {
		return fmt.Errorf("btree: InsertEntry: key type mismatch: %w", btreeerr.ErrBadIndexInfo)
	}
	return idx.insertEntry(k, r)
}

// Close flushes all dirty pages of the index file and releases it. The
// index file is exactly one blob file (spec §6), so it is released
// through blobfile rather than reaching past it to the raw pageio.File.
// blob is nil for indexes built directly on a *pageio.File (test
// fixtures that never went through openTyped), so releasing falls back
// to the file in that case.
func (idx *genericIndex[K]) Close() error {
	if err := idx.bm.FlushFile(idx.file); err != nil {
		return err
	}
	if idx.blob != nil {
		return idx.blob.Close()
	}
	return idx.file.Close()
}
