package relation

import (
	"bytes"
	"errors"
	"testing"

	"bptreeindex/internal/bufmgr"
	"bptreeindex/internal/btreeerr"
	"bptreeindex/rid"
)

func TestOpenMissingRelationFails(t *testing.T) {
	dir := t.TempDir()
	bm, err := bufmgr.New(16)
	if err != nil {
		t.Fatalf("bufmgr.New: %v", err)
	}
	defer bm.Close()

	_, err = Open(dir, "nosuch", bm)
	if !errors.Is(err, btreeerr.ErrFileNotFound) {
		t.Fatalf("Open(missing): got %v, want ErrFileNotFound", err)
	}
}

// A live record's RecordID must never collide with rid.Tombstone: page 0
// is reserved by Create and never handed out to InsertRecord.
func TestInsertRecordNeverMintsPageZero(t *testing.T) {
	dir := t.TempDir()
	bm, err := bufmgr.New(16)
	if err != nil {
		t.Fatalf("bufmgr.New: %v", err)
	}
	defer bm.Close()

	rel, err := Create(dir, "small", bm)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer rel.Close()

	for i := 0; i < 5; i++ {
		r, err := rel.InsertRecord([]byte{byte(i)})
		if err != nil {
			t.Fatalf("InsertRecord: %v", err)
		}
		if r.IsTombstone() {
			t.Fatalf("InsertRecord minted a tombstone-colliding rid: %+v", r)
		}
	}
}

func TestInsertAndScanRoundTrip(t *testing.T) {
	dir := t.TempDir()
	bm, err := bufmgr.New(16)
	if err != nil {
		t.Fatalf("bufmgr.New: %v", err)
	}
	defer bm.Close()

	rel, err := Create(dir, "employees", bm)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	records := [][]byte{
		bytes.Repeat([]byte{1}, 16),
		bytes.Repeat([]byte{2}, 16),
		bytes.Repeat([]byte{3}, 16),
	}
	var rids []rid.RecordID
	for _, rec := range records {
		r, err := rel.InsertRecord(rec)
		if err != nil {
			t.Fatalf("InsertRecord: %v", err)
		}
		rids = append(rids, r)
	}
	if err := rel.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	rel2, err := Open(dir, "employees", bm)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rel2.Close()

	var got [][]byte
	var gotRids []rid.RecordID
	var r rid.RecordID
	for {
		if err := rel2.ScanNext(&r); err != nil {
			if errors.Is(err, btreeerr.ErrEndOfFile) {
				break
			}
			t.Fatalf("ScanNext: %v", err)
		}
		got = append(got, append([]byte(nil), rel2.GetRecord()...))
		gotRids = append(gotRids, r)
	}

	if len(got) != len(records) {
		t.Fatalf("scanned %d records, want %d", len(got), len(records))
	}
	for i := range records {
		if !bytes.Equal(got[i], records[i]) {
			t.Errorf("record[%d] = %v, want %v", i, got[i], records[i])
		}
		if gotRids[i] != rids[i] {
			t.Errorf("rid[%d] = %+v, want %+v", i, gotRids[i], rids[i])
		}
	}
}

func TestInsertRecordSpillsToNewPage(t *testing.T) {
	dir := t.TempDir()
	bm, err := bufmgr.New(16)
	if err != nil {
		t.Fatalf("bufmgr.New: %v", err)
	}
	defer bm.Close()

	rel, err := Create(dir, "big", bm)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer rel.Close()

	big := bytes.Repeat([]byte{9}, 3000)
	if _, err := rel.InsertRecord(big); err != nil {
		t.Fatalf("InsertRecord (fills first page): %v", err)
	}
	if _, err := rel.InsertRecord(big); err != nil {
		t.Fatalf("InsertRecord (should spill to a new page): %v", err)
	}

	// Create already allocates page 0 (reserved) and page 1 (first data
	// page); a second 3000-byte record must spill into page 2.
	if rel.blob.File().NumPages() < 3 {
		t.Fatalf("expected InsertRecord to spill into a third page, got %d pages", rel.blob.File().NumPages())
	}
}
