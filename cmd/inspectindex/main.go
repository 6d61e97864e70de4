// inspectindex opens a B+ tree index file and prints its header and a
// summary of its leaf chain.
// Usage: go run ./cmd/inspectindex <path-to-index-file>
package main

import (
	"fmt"
	"os"

	"bptreeindex/btree"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <index-file>\n", os.Args[0])
		os.Exit(1)
	}
	if err := btree.InspectIndexFile(os.Args[1]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
