// Package blobfile provides the persistent named byte container the core
// treats as an opaque collaborator (spec §1, "blob file abstraction").
// It is a thin naming/lifecycle layer over pageio.File, grounded on how
// DaemonDB's heapfile_manager and disk_manager.OpenFileWithID name and
// create files under a base directory.
package blobfile

import (
	"fmt"
	"path/filepath"

	"bptreeindex/internal/pageio"
)

// BlobFile is a named, page-divided byte container.
type BlobFile struct {
	Name string
	path string
	file *pageio.File
}

// Exists reports whether a blob file named name already exists under dir.
func Exists(dir, name string) bool {
	return pageio.Exists(filepath.Join(dir, name))
}

// Create creates a new blob file named name under dir. It fails if one
// already exists.
func Create(dir, name string) (*BlobFile, error) {
	path := filepath.Join(dir, name)
	f, err := pageio.Create(path)
	if err != nil {
		return nil, fmt.Errorf("blobfile: create %s: %w", name, err)
	}
	return &BlobFile{Name: name, path: path, file: f}, nil
}

// Open opens an existing blob file named name under dir.
func Open(dir, name string) (*BlobFile, error) {
	path := filepath.Join(dir, name)
	f, err := pageio.Open(path)
	if err != nil {
		return nil, fmt.Errorf("blobfile: open %s: %w", name, err)
	}
	return &BlobFile{Name: name, path: path, file: f}, nil
}

// File exposes the underlying page file for use with bufmgr.Manager.
func (b *BlobFile) File() *pageio.File {
	return b.file
}

// Close releases the OS handle. The file is left on disk.
func (b *BlobFile) Close() error {
	return b.file.Close()
}
