package bufmgr

import (
	"bytes"
	"path/filepath"
	"testing"

	"bptreeindex/internal/pageio"
)

func newTestFile(t *testing.T) *pageio.File {
	t.Helper()
	file, err := pageio.Create(filepath.Join(t.TempDir(), "data.bin"))
	if err != nil {
		t.Fatalf("pageio.Create: %v", err)
	}
	t.Cleanup(func() { file.Close() })
	return file
}

func TestAllocWriteUnpinReadBack(t *testing.T) {
	file := newTestFile(t)
	m, err := New(16)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer m.Close()

	pageNo, frame, err := m.AllocPage(file)
	if err != nil {
		t.Fatalf("AllocPage: %v", err)
	}
	copy(frame.Data, bytes.Repeat([]byte{0x42}, pageio.PageSize))
	if err := m.UnpinPage(file, pageNo, true); err != nil {
		t.Fatalf("UnpinPage: %v", err)
	}

	frame2, err := m.ReadPage(file, pageNo)
	if err != nil {
		t.Fatalf("ReadPage: %v", err)
	}
	if !bytes.Equal(frame2.Data, bytes.Repeat([]byte{0x42}, pageio.PageSize)) {
		t.Fatalf("read-back data does not match what was written")
	}
	if err := m.UnpinPage(file, pageNo, false); err != nil {
		t.Fatalf("UnpinPage: %v", err)
	}
}

func TestUnpinUnknownPageFails(t *testing.T) {
	file := newTestFile(t)
	m, err := New(16)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer m.Close()

	if err := m.UnpinPage(file, 99, false); err == nil {
		t.Fatalf("UnpinPage on a never-read page should fail")
	}
}

func TestFlushFilePersistsDirtyPages(t *testing.T) {
	file := newTestFile(t)
	m, err := New(16)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer m.Close()

	pageNo, frame, err := m.AllocPage(file)
	if err != nil {
		t.Fatalf("AllocPage: %v", err)
	}
	copy(frame.Data, bytes.Repeat([]byte{0x7}, pageio.PageSize))
	if err := m.UnpinPage(file, pageNo, true); err != nil {
		t.Fatalf("UnpinPage: %v", err)
	}
	if err := m.FlushFile(file); err != nil {
		t.Fatalf("FlushFile: %v", err)
	}

	onDisk, err := file.ReadPage(pageNo)
	if err != nil {
		t.Fatalf("ReadPage via pageio directly: %v", err)
	}
	if !bytes.Equal(onDisk, bytes.Repeat([]byte{0x7}, pageio.PageSize)) {
		t.Fatalf("FlushFile did not persist the dirty page to disk")
	}
}

func TestDeletePageFailsWhilePinned(t *testing.T) {
	file := newTestFile(t)
	m, err := New(16)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer m.Close()

	pageNo, _, err := m.AllocPage(file)
	if err != nil {
		t.Fatalf("AllocPage: %v", err)
	}
	if err := m.DeletePage(file, pageNo); err == nil {
		t.Fatalf("DeletePage on a pinned page should fail")
	}
	if err := m.UnpinPage(file, pageNo, false); err != nil {
		t.Fatalf("UnpinPage: %v", err)
	}
	if err := m.DeletePage(file, pageNo); err != nil {
		t.Fatalf("DeletePage after unpin: %v", err)
	}
}
