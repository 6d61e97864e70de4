// Package pageio owns raw OS file handles and page-numbered reads/writes.
// It is the bottom layer of the buffer manager stack, grounded on
// DaemonDB's storage_engine/disk_manager: one os.File per named file,
// pages addressed by a zero-based page number, growth by appending a
// fresh page at EOF.
package pageio

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/cespare/xxhash/v2"

	"bptreeindex/internal/btreeerr"
)

// PageSize is the logical page size every node, header, and heap page is
// sized against. The physical on-disk page additionally carries an 8-byte
// xxhash64 checksum trailer invisible to callers above this package.
const PageSize = 4096

const physicalPageSize = PageSize + 8

// File is a flat, page-divided file on disk.
type File struct {
	f        *os.File
	path     string
	numPages uint32
}

// Create creates a new, empty page file at path. It fails if the file
// already exists.
func Create(path string) (*File, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return nil, fmt.Errorf("pageio: create %s: %w", path, err)
	}
	return &File{f: f, path: path, numPages: 0}, nil
}

// Open opens an existing page file at path. It fails with
// btreeerr.ErrFileNotFound if the file does not exist.
func Open(path string) (*File, error) {
	info, statErr := os.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) {
			return nil, fmt.Errorf("pageio: %s: %w", path, btreeerr.ErrFileNotFound)
		}
		return nil, fmt.Errorf("pageio: stat %s: %w", path, statErr)
	}
	f, err := os.OpenFile(path, os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("pageio: open %s: %w", path, btreeerr.ErrFileOpen)
	}
	if info.Size()%int64(physicalPageSize) != 0 {
		f.Close()
		return nil, fmt.Errorf("pageio: %s: truncated file (size %d not a multiple of %d)", path, info.Size(), physicalPageSize)
	}
	numPages := uint32(info.Size() / int64(physicalPageSize))
	return &File{f: f, path: path, numPages: numPages}, nil
}

// Exists reports whether a page file already exists at path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// NumPages returns the number of pages currently allocated in the file.
func (fl *File) NumPages() uint32 {
	return fl.numPages
}

// Allocate grows the file by one page, zero-filled, and returns its page
// number.
func (fl *File) Allocate() (uint32, error) {
	pageNo := fl.numPages
	buf := make([]byte, physicalPageSize)
	stampChecksum(buf)
	off := int64(pageNo) * int64(physicalPageSize)
	if _, err := fl.f.WriteAt(buf, off); err != nil {
		return 0, fmt.Errorf("pageio: allocate page %d in %s: %w", pageNo, fl.path, err)
	}
	fl.numPages++
	return pageNo, nil
}

// ReadPage returns a copy of the logical PageSize bytes stored at pageNo.
// It returns btreeerr.ErrPageChecksum if the stored digest does not match.
func (fl *File) ReadPage(pageNo uint32) ([]byte, error) {
	if pageNo >= fl.numPages {
		return nil, fmt.Errorf("pageio: read page %d in %s: out of range (have %d pages)", pageNo, fl.path, fl.numPages)
	}
	buf := make([]byte, physicalPageSize)
	off := int64(pageNo) * int64(physicalPageSize)
	if _, err := fl.f.ReadAt(buf, off); err != nil {
		return nil, fmt.Errorf("pageio: read page %d in %s: %w", pageNo, fl.path, err)
	}
	if !verifyChecksum(buf) {
		return nil, fmt.Errorf("pageio: page %d in %s: %w", pageNo, fl.path, btreeerr.ErrPageChecksum)
	}
	return buf[:PageSize], nil
}

// WritePage persists the logical PageSize bytes in data at pageNo,
// stamping a fresh checksum.
func (fl *File) WritePage(pageNo uint32, data []byte) error {
	if len(data) != PageSize {
		return fmt.Errorf("pageio: write page %d in %s: data must be %d bytes, got %d", pageNo, fl.path, PageSize, len(data))
	}
	if pageNo >= fl.numPages {
		return fmt.Errorf("pageio: write page %d in %s: out of range (have %d pages)", pageNo, fl.path, fl.numPages)
	}
	buf := make([]byte, physicalPageSize)
	copy(buf, data)
	stampChecksum(buf)
	off := int64(pageNo) * int64(physicalPageSize)
	if _, err := fl.f.WriteAt(buf, off); err != nil {
		return fmt.Errorf("pageio: write page %d in %s: %w", pageNo, fl.path, err)
	}
	return nil
}

// Sync flushes the file's dirty OS buffers to stable storage.
func (fl *File) Sync() error {
	if err := fl.f.Sync(); err != nil {
		return fmt.Errorf("pageio: sync %s: %w", fl.path, err)
	}
	return nil
}

// Close releases the OS file handle. It does not delete the file.
func (fl *File) Close() error {
	return fl.f.Close()
}

func stampChecksum(buf []byte) {
	sum := xxhash.Sum64(buf[:PageSize])
	binary.LittleEndian.PutUint64(buf[PageSize:], sum)
}

func verifyChecksum(buf []byte) bool {
	want := binary.LittleEndian.Uint64(buf[PageSize:])
	got := xxhash.Sum64(buf[:PageSize])
	return want == got
}
