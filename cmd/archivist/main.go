// Command archivist analyses, names, and indexes documents using a local
// language model.
package main

import (
	"os"

	"github.com/custodia-labs/archivist-cli/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
