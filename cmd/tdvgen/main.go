// Command tdvgen builds the meaning vectors of a dictionary and writes
// them out: snapshots, grouped term vectors, a similarity matrix or dense
// rows over the effective dimensions.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
