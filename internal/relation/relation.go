// Package relation implements the relation scanner external collaborator
// (spec §1, §6): a slotted-page heap file that enumerates raw record
// bytes. It is grounded on DaemonDB's storage_engine/access/heapfile_manager
// (heap_page.go's slotted-page layout), generalized from DaemonDB's typed
// Row model down to opaque fixed-format record bytes, which is all the
// index builder needs.
package relation

import (
	"encoding/binary"
	"fmt"
	"path/filepath"

	"bptreeindex/internal/blobfile"
	"bptreeindex/internal/bufmgr"
	"bptreeindex/internal/btreeerr"
	"bptreeindex/internal/pageio"
	"bptreeindex/rid"
)

// Heap page layout: a small fixed header followed by records packed
// forward from the header and a slot directory packed backward from the
// end of the page, mirroring heapfile_manager's heap_page.go.
const (
	pageHeaderSize = 8 // [2]RecordEndPtr [2]SlotRegionStart [2]NumSlots [2]reserved
	slotSize       = 4 // [2]Offset [2]Length; Length==0 is a tombstone

	offRecordEndPtr    = 0
	offSlotRegionStart = 2
	offNumSlots        = 4
)

// dataStartPage is the first heap page ever handed out for records. Page 0
// is allocated but left empty: rid.RecordID{PageNo: 0} is the tombstone
// sentinel (see rid.IsTombstone), so no live record may ever be minted
// with PageNo 0.
const dataStartPage = 1

// Relation is an open heap file backing a relation scanner.
type Relation struct {
	name string
	blob *blobfile.BlobFile
	bm   *bufmgr.Manager

	scanPage uint32
	scanSlot uint16
	lastRec  []byte
}

// Open opens the heap file for relationName under dir. It fails with
// btreeerr.ErrFileNotFound if the file does not exist (spec §4.2 step 1).
func Open(dir, relationName string, bm *bufmgr.Manager) (*Relation, error) {
	path := filepath.Join(dir, relationName+".heap")
	if !pageio.Exists(path) {
		return nil, fmt.Errorf("relation %s: %w", relationName, btreeerr.ErrFileNotFound)
	}
	blob, err := blobfile.Open(dir, relationName+".heap")
	if err != nil {
		return nil, fmt.Errorf("relation: open %s: %w", relationName, err)
	}
	return &Relation{name: relationName, blob: blob, bm: bm, scanPage: dataStartPage, scanSlot: 0}, nil
}

// Create creates a new, empty heap file for relationName under dir. Page 0
// is allocated and left as a reserved, recordless page (see dataStartPage)
// so no RecordID minted by InsertRecord can collide with the tombstone
// sentinel; the first real data page is page 1.
func Create(dir, relationName string, bm *bufmgr.Manager) (*Relation, error) {
	blob, err := blobfile.Create(dir, relationName+".heap")
	if err != nil {
		return nil, fmt.Errorf("relation: create %s: %w", relationName, err)
	}
	r := &Relation{name: relationName, blob: blob, bm: bm, scanPage: dataStartPage}
	reservedPageNo, _, err := r.newPage() // page 0: reserved, stays empty
	if err != nil {
		return nil, err
	}
	if err := r.bm.UnpinPage(r.blob.File(), reservedPageNo, true); err != nil {
		return nil, err
	}
	firstDataPageNo, _, err := r.newPage() // page 1: first data page
	if err != nil {
		return nil, err
	}
	if err := r.bm.UnpinPage(r.blob.File(), firstDataPageNo, true); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Relation) newPage() (uint32, *bufmgr.Frame, error) {
	pageNo, frame, err := r.bm.AllocPage(r.blob.File())
	if err != nil {
		return 0, nil, fmt.Errorf("relation: alloc page: %w", err)
	}
	binary.LittleEndian.PutUint16(frame.Data[offRecordEndPtr:], pageHeaderSize)
	binary.LittleEndian.PutUint16(frame.Data[offSlotRegionStart:], pageio.PageSize)
	binary.LittleEndian.PutUint16(frame.Data[offNumSlots:], 0)
	return pageNo, frame, nil
}

func readSlot(data []byte, slot uint16) (offset, length uint16) {
	base := pageio.PageSize - int(slot+1)*slotSize
	offset = binary.LittleEndian.Uint16(data[base:])
	length = binary.LittleEndian.Uint16(data[base+2:])
	return
}

func writeSlot(data []byte, slot uint16, offset, length uint16) {
	base := pageio.PageSize - int(slot+1)*slotSize
	binary.LittleEndian.PutUint16(data[base:], offset)
	binary.LittleEndian.PutUint16(data[base+2:], length)
}

func numSlots(data []byte) uint16 {
	return binary.LittleEndian.Uint16(data[offNumSlots:])
}

func freeSpace(data []byte) int {
	recordEnd := int(binary.LittleEndian.Uint16(data[offRecordEndPtr:]))
	slotStart := int(binary.LittleEndian.Uint16(data[offSlotRegionStart:]))
	return slotStart - recordEnd
}

// InsertRecord appends data to the relation, allocating a new page if the
// current last page has no room. Used by test fixtures and cmd/buildindex
// to construct a relation to index.
func (r *Relation) InsertRecord(data []byte) (rid.RecordID, error) {
	lastPage := r.blob.File().NumPages() - 1
	frame, err := r.bm.ReadPage(r.blob.File(), lastPage)
	if err != nil {
		return rid.RecordID{}, fmt.Errorf("relation: read last page: %w", err)
	}

	needed := len(data) + slotSize
	if freeSpace(frame.Data) < needed {
		if err := r.bm.UnpinPage(r.blob.File(), lastPage, false); err != nil {
			return rid.RecordID{}, err
		}
		var allocErr error
		lastPage, frame, allocErr = r.newPage()
		if allocErr != nil {
			return rid.RecordID{}, allocErr
		}
	}

	recordEnd := binary.LittleEndian.Uint16(frame.Data[offRecordEndPtr:])
	slot := numSlots(frame.Data)

	copy(frame.Data[recordEnd:], data)
	writeSlot(frame.Data, slot, recordEnd, uint16(len(data)))
	binary.LittleEndian.PutUint16(frame.Data[offRecordEndPtr:], recordEnd+uint16(len(data)))
	binary.LittleEndian.PutUint16(frame.Data[offSlotRegionStart:], pageio.PageSize-uint16(slot+1)*slotSize)
	binary.LittleEndian.PutUint16(frame.Data[offNumSlots:], slot+1)

	if err := r.bm.UnpinPage(r.blob.File(), lastPage, true); err != nil {
		return rid.RecordID{}, err
	}
	return rid.RecordID{PageNo: lastPage, SlotNo: uint32(slot)}, nil
}

// ScanNext advances the scan cursor to the next live record and reports
// its location in rid. It returns btreeerr.ErrEndOfFile once every record
// has been yielded (spec §6, relation scanner contract).
func (r *Relation) ScanNext(out *rid.RecordID) error {
	for {
		if r.scanPage >= r.blob.File().NumPages() {
			return btreeerr.ErrEndOfFile
		}
		frame, err := r.bm.ReadPage(r.blob.File(), r.scanPage)
		if err != nil {
			return fmt.Errorf("relation: scan page %d: %w", r.scanPage, err)
		}
		n := numSlots(frame.Data)
		if r.scanSlot >= n {
			if err := r.bm.UnpinPage(r.blob.File(), r.scanPage, false); err != nil {
				return err
			}
			r.scanPage++
			r.scanSlot = 0
			continue
		}
		offset, length := readSlot(frame.Data, r.scanSlot)
		slot := r.scanSlot
		r.scanSlot++
		if length == 0 {
			if err := r.bm.UnpinPage(r.blob.File(), r.scanPage, false); err != nil {
				return err
			}
			continue
		}
		rec := make([]byte, length)
		copy(rec, frame.Data[offset:offset+length])
		if err := r.bm.UnpinPage(r.blob.File(), r.scanPage, false); err != nil {
			return err
		}
		r.lastRec = rec
		*out = rid.RecordID{PageNo: r.scanPage, SlotNo: uint32(slot)}
		return nil
	}
}

// GetRecord returns the raw bytes of the record last visited by ScanNext.
func (r *Relation) GetRecord() []byte {
	return r.lastRec
}

// Close flushes and releases the relation's file handle.
func (r *Relation) Close() error {
	if err := r.bm.FlushFile(r.blob.File()); err != nil {
		return err
	}
	return r.blob.Close()
}
