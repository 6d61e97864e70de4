package btree

import "bptreeindex/internal/btreeerr"

// Sentinel errors re-exported at the btree package boundary so callers
// outside internal/ can errors.Is against them without reaching into
// internal/btreeerr directly.
var (
	ErrFileNotFound       = btreeerr.ErrFileNotFound
	ErrBadIndexInfo       = btreeerr.ErrBadIndexInfo
	ErrBadOpcodes         = btreeerr.ErrBadOpcodes
	ErrBadScanRange       = btreeerr.ErrBadScanRange
	ErrNoSuchKeyFound     = btreeerr.ErrNoSuchKeyFound
	ErrScanNotInitialized = btreeerr.ErrScanNotInitialized
	ErrIndexScanCompleted = btreeerr.ErrIndexScanCompleted
	ErrEndOfFile          = btreeerr.ErrEndOfFile
)
