package pageio

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"bptreeindex/internal/btreeerr"
)

func TestCreateOpenRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.bin")

	file, err := Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	pageNo, err := file.Allocate()
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if pageNo != 0 {
		t.Fatalf("first allocated page = %d, want 0", pageNo)
	}

	want := bytes.Repeat([]byte{0xAB}, PageSize)
	if err := file.WritePage(pageNo, want); err != nil {
		t.Fatalf("WritePage: %v", err)
	}
	if err := file.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer reopened.Close()

	if reopened.NumPages() != 1 {
		t.Fatalf("NumPages = %d, want 1", reopened.NumPages())
	}
	got, err := reopened.ReadPage(pageNo)
	if err != nil {
		t.Fatalf("ReadPage: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("read page does not match what was written")
	}
}

func TestOpenMissingFileFails(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.bin"))
	if !errors.Is(err, btreeerr.ErrFileNotFound) {
		t.Fatalf("Open(missing): got %v, want ErrFileNotFound", err)
	}
}

func TestReadPageDetectsChecksumCorruption(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.bin")
	file, err := Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	pageNo, err := file.Allocate()
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if err := file.WritePage(pageNo, bytes.Repeat([]byte{0x11}, PageSize)); err != nil {
		t.Fatalf("WritePage: %v", err)
	}

	// Flip one body byte directly through the package's own handle,
	// bypassing WritePage's checksum stamp, to simulate on-disk bit rot.
	buf := make([]byte, physicalPageSize)
	if _, err := file.f.ReadAt(buf, 0); err != nil {
		t.Fatalf("ReadAt: %v", err)
	}
	buf[0] ^= 0xFF
	if _, err := file.f.WriteAt(buf, 0); err != nil {
		t.Fatalf("WriteAt: %v", err)
	}

	if _, err := file.ReadPage(pageNo); !errors.Is(err, btreeerr.ErrPageChecksum) {
		t.Fatalf("ReadPage after corruption: got %v, want ErrPageChecksum", err)
	}
}

func TestWritePageRejectsWrongSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.bin")
	file, err := Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	pageNo, err := file.Allocate()
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if err := file.WritePage(pageNo, make([]byte, PageSize-1)); err == nil {
		t.Fatalf("WritePage with wrong-sized buffer should fail")
	}
}
