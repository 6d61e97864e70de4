// Package btreeerr holds the sentinel error taxonomy shared by the index
// core and its ambient collaborators (page I/O, buffer manager, relation
// scanner). Callers compare with errors.Is; call sites wrap with fmt.Errorf
// and %w, matching the rest of the stack.
package btreeerr

import "errors"

var (
	// ErrFileNotFound is raised when the relation heap file is missing at open.
	ErrFileNotFound = errors.New("file not found")

	// ErrBadIndexInfo is raised when a reopened index's header metadata does
	// not match the arguments passed to Open.
	ErrBadIndexInfo = errors.New("bad index info")

	// ErrBadOpcodes is raised when StartScan is given a low operator other
	// than GT/GTE or a high operator other than LT/LTE.
	ErrBadOpcodes = errors.New("bad opcodes")

	// ErrBadScanRange is raised when StartScan is given lowVal > highVal.
	ErrBadScanRange = errors.New("bad scan range")

	// ErrNoSuchKeyFound is reserved for point-lookup extensions.
	ErrNoSuchKeyFound = errors.New("no such key found")

	// ErrScanNotInitialized is raised by ScanNext/EndScan without a prior
	// successful StartScan.
	ErrScanNotInitialized = errors.New("scan not initialized")

	// ErrIndexScanCompleted is raised by ScanNext once the last matching
	// entry has been emitted.
	ErrIndexScanCompleted = errors.New("index scan completed")

	// ErrEndOfFile is raised by the relation scanner once it has yielded
	// every record; the build driver catches this to end the build loop.
	ErrEndOfFile = errors.New("end of file")

	// ErrFileOpen is raised by the page cache when it cannot open a file.
	ErrFileOpen = errors.New("file open failed")

	// ErrPageChecksum is raised when a page's stored xxhash digest does not
	// match its contents on read.
	ErrPageChecksum = errors.New("page checksum mismatch")
)
