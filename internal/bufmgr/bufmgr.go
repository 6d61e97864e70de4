// Package bufmgr implements the page-cache contract external to the B+
// tree core (spec §4.1): readPage, allocPage, unPinPage, flushFile,
// deletePage. It is grounded on DaemonDB's storage_engine/bufferpool,
// generalized from a single global page-ID space to named pageio.File
// handles, and backed underneath by a ristretto admission cache for
// clean, unpinned pages.
package bufmgr

import (
	"fmt"
	"sync"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/dustin/go-humanize"

	"bptreeindex/internal/pageio"
)

type pageKey struct {
	file   *pageio.File
	pageNo uint32
}

type residentFrame struct {
	data     []byte
	pinCount int32
	dirty    bool
}

// Frame is a pinned page. Data is a stable PageSize-length byte slice; the
// core reads and writes through it directly between ReadPage/AllocPage and
// the matching UnpinPage.
type Frame struct {
	Data   []byte
	PageNo uint32
}

// Manager is the shared, process-wide page cache. One Manager is expected
// to back every open blobfile.BlobFile in a program.
type Manager struct {
	mu       sync.Mutex
	resident map[pageKey]*residentFrame
	clean    *ristretto.Cache[pageKey, []byte]
}

// New creates a buffer manager whose clean-page cache admits up to
// cacheCapacity pages (a cost budget passed straight to ristretto).
func New(cacheCapacity int64) (*Manager, error) {
	clean, err := ristretto.NewCache(&ristretto.Config[pageKey, []byte]{
		NumCounters: cacheCapacity * 10,
		MaxCost:     cacheCapacity,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("bufmgr: create ristretto cache: %w", err)
	}
	return &Manager{
		resident: make(map[pageKey]*residentFrame),
		clean:    clean,
	}, nil
}

// ReadPage pins and returns the page numbered pageNo in file, loading it
// from the resident set, the clean cache, or disk, in that order.
func (m *Manager) ReadPage(file *pageio.File, pageNo uint32) (*Frame, error) {
	key := pageKey{file, pageNo}

	m.mu.Lock()
	if fr, ok := m.resident[key]; ok {
		fr.pinCount++
		m.mu.Unlock()
		fmt.Printf("[bufmgr] HIT  page=%d pin=%d\n", pageNo, fr.pinCount)
		return &Frame{Data: fr.data, PageNo: pageNo}, nil
	}
	m.mu.Unlock()

	if data, ok := m.clean.Get(key); ok {
		fmt.Printf("[bufmgr] HIT  page=%d (clean cache)\n", pageNo)
		return m.admitResident(key, data, false), nil
	}

	fmt.Printf("[bufmgr] MISS page=%d — loading from disk\n", pageNo)
	data, err := file.ReadPage(pageNo)
	if err != nil {
		return nil, fmt.Errorf("bufmgr: read page %d: %w", pageNo, err)
	}
	return m.admitResident(key, data, false), nil
}

// AllocPage grows file by one page and returns it pinned and ready for the
// caller to initialize; the caller must UnpinPage(dirty=true) when done.
func (m *Manager) AllocPage(file *pageio.File) (uint32, *Frame, error) {
	pageNo, err := file.Allocate()
	if err != nil {
		return 0, nil, fmt.Errorf("bufmgr: alloc page: %w", err)
	}
	key := pageKey{file, pageNo}
	frame := m.admitResident(key, make([]byte, pageio.PageSize), true)
	fmt.Printf("[bufmgr] ALLOC page=%d\n", pageNo)
	return pageNo, frame, nil
}

// admitResident installs data as a pinned resident frame and returns a
// handle to it. Assumes the caller holds no lock.
func (m *Manager) admitResident(key pageKey, data []byte, dirty bool) *Frame {
	m.mu.Lock()
	defer m.mu.Unlock()
	fr, ok := m.resident[key]
	if !ok {
		fr = &residentFrame{data: data}
		m.resident[key] = fr
	}
	fr.pinCount++
	fr.dirty = fr.dirty || dirty
	return &Frame{Data: fr.data, PageNo: key.pageNo}
}

// UnpinPage releases one pin on the page. If dirty is true the page's
// modification must eventually be persisted by FlushFile.
func (m *Manager) UnpinPage(file *pageio.File, pageNo uint32, dirty bool) error {
	key := pageKey{file, pageNo}

	m.mu.Lock()
	defer m.mu.Unlock()

	fr, ok := m.resident[key]
	if !ok {
		return fmt.Errorf("bufmgr: unpin page %d: not resident", pageNo)
	}
	if dirty {
		fr.dirty = true
	}
	if fr.pinCount > 0 {
		fr.pinCount--
	}
	if fr.pinCount == 0 && !fr.dirty {
		// Nothing durability-sensitive left to track; hand the bytes to
		// the admission-controlled clean cache and drop the resident copy.
		m.clean.Set(key, fr.data, 1)
		delete(m.resident, key)
		fmt.Printf("[bufmgr] EVICT page=%d -> clean cache\n", pageNo)
	}
	return nil
}

// FlushFile writes every dirty, unpinned page belonging to file to stable
// storage and fsyncs the file.
func (m *Manager) FlushFile(file *pageio.File) error {
	m.mu.Lock()
	var flushed int
	var bytes int
	for key, fr := range m.resident {
		if key.file != file {
			continue
		}
		if fr.pinCount > 0 || !fr.dirty {
			continue
		}
		if err := file.WritePage(key.pageNo, fr.data); err != nil {
			m.mu.Unlock()
			return fmt.Errorf("bufmgr: flush page %d: %w", key.pageNo, err)
		}
		fr.dirty = false
		flushed++
		bytes += len(fr.data)
		m.clean.Set(key, fr.data, 1)
		delete(m.resident, key)
	}
	m.mu.Unlock()

	if err := file.Sync(); err != nil {
		return fmt.Errorf("bufmgr: sync after flush: %w", err)
	}
	fmt.Printf("[bufmgr] FLUSH file=%p pages=%d bytes=%s\n", file, flushed, humanize.Bytes(uint64(bytes)))
	return nil
}

// DeletePage frees the page identifier's bookkeeping in the cache. It does
// not reclaim space in the underlying file.
func (m *Manager) DeletePage(file *pageio.File, pageNo uint32) error {
	key := pageKey{file, pageNo}
	m.mu.Lock()
	defer m.mu.Unlock()
	if fr, ok := m.resident[key]; ok {
		if fr.pinCount > 0 {
			return fmt.Errorf("bufmgr: delete page %d: still pinned", pageNo)
		}
		delete(m.resident, key)
	}
	m.clean.Del(key)
	return nil
}

// Close releases the clean-page cache's background resources.
func (m *Manager) Close() {
	m.clean.Close()
}
