// buildindex seeds a relation file with synthetic INT-keyed rows and then
// builds a B+ tree index over it, reporting how many rows were seeded and
// how large the resulting index file is.
// Usage: go run ./cmd/buildindex -dir databases/demo -relation widgets -n 10000
package main

import (
	"encoding/binary"
	"flag"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"

	"bptreeindex/btree"
	"bptreeindex/internal/bufmgr"
	"bptreeindex/internal/pageio"
	"bptreeindex/internal/relation"
)

func main() {
	dir := flag.String("dir", "databases/demo", "directory holding the relation and index files")
	relName := flag.String("relation", "widgets", "relation name")
	n := flag.Int("n", 10000, "number of synthetic rows to seed")
	flag.Parse()

	if err := os.MkdirAll(*dir, 0755); err != nil {
		log.Fatalf("mkdir %s: %v", *dir, err)
	}

	bm, err := bufmgr.New(1024)
	if err != nil {
		log.Fatalf("new buffer manager: %v", err)
	}
	defer bm.Close()

	start := time.Now()
	if err := seedRelation(*dir, *relName, *n, bm); err != nil {
		log.Fatalf("seed relation: %v", err)
	}
	log.Printf("seeded %s rows into relation %q in %s", humanize.Comma(int64(*n)), *relName, time.Since(start))

	start = time.Now()
	idx, err := btree.Open(*dir, *relName, 0, btree.Integer, bm)
	if err != nil {
		log.Fatalf("build index: %v", err)
	}
	defer idx.Close()
	elapsed := time.Since(start)

	idxPath := filepath.Join(*dir, btree.IndexFileName(*relName, 0))
	info, err := os.Stat(idxPath)
	if err != nil {
		log.Fatalf("stat index file: %v", err)
	}
	log.Printf("built index %s in %s: %s on disk", idxPath, elapsed, humanize.Bytes(uint64(info.Size())))
}

func seedRelation(dir, relName string, n int, bm *bufmgr.Manager) error {
	path := filepath.Join(dir, relName+".heap")
	if pageio.Exists(path) {
		log.Printf("relation %q already exists at %s, skipping seed", relName, path)
		return nil
	}
	rel, err := relation.Create(dir, relName, bm)
	if err != nil {
		return err
	}
	defer rel.Close()

	rec := make([]byte, 4)
	for i := 0; i < n; i++ {
		key := int32((i*2654435761 + 1) % 1_000_000)
		binary.LittleEndian.PutUint32(rec, uint32(key))
		if _, err := rel.InsertRecord(rec); err != nil {
			return err
		}
	}
	return nil
}
